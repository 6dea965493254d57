// Package docs Split The Distance API.
//
// Group trip planning: members propose and vote on dates, destinations and
// itinerary options; the service finds the fairest meeting point for
// everyone's origin and shares live ETAs once the trip is under way.
//
// Main features:
// - Trips, members and invite codes
// - Date and location polls with host confirmation
// - Pair and group midpoints on real travel times
// - Places near a midpoint and free-text geocoding
// - Trip chat and live location sharing over server-sent events
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//	- text/event-stream
//
//	Security:
//	- BearerAuth:
//
//	SecurityDefinitions:
//	BearerAuth:
//	     type: apiKey
//	     name: Authorization
//	     in: header
//
// swagger:meta
package docs
