package errors

import "net/http"

const (
	CodeNotFound            = "NOT_FOUND"
	CodeForbidden           = "FORBIDDEN"
	CodeInvalidState        = "INVALID_STATE"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeNoRouteFound        = "NO_ROUTE_FOUND"
	CodeInvalidInput        = "INVALID_INPUT"
)

// Coordination and midpoint error kinds.
var (
	ErrNotFound = New(
		CodeNotFound,
		"Referenced entity does not exist",
		http.StatusNotFound,
	)

	ErrForbidden = New(
		CodeForbidden,
		"Not allowed to perform this action",
		http.StatusForbidden,
	)

	ErrInvalidState = New(
		CodeInvalidState,
		"Action is not valid in the current state",
		http.StatusConflict,
	)

	ErrUpstreamUnavailable = New(
		CodeUpstreamUnavailable,
		"Mapping provider is unavailable",
		http.StatusBadGateway,
	)

	ErrNoRouteFound = New(
		CodeNoRouteFound,
		"No route found",
		http.StatusUnprocessableEntity,
	)
)

var (
	ErrLocationNotFound = New(
		"LOCATION_NOT_FOUND",
		"Location not found",
		http.StatusNotFound,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidRadius = New(
		"INVALID_RADIUS",
		"Invalid radius value",
		http.StatusBadRequest,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		CodeInvalidInput,
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrUnauthorized = New(
		"UNAUTHORIZED",
		"Missing or invalid credentials",
		http.StatusUnauthorized,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)

// IsRetryable reports whether the caller may retry the failed call.
func IsRetryable(err error) bool {
	return Is(err, ErrUpstreamUnavailable)
}
