package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/pkg/errors"
	"github.com/split-the-distance/internal/pkg/utils"
	"github.com/split-the-distance/internal/usecase"
	"github.com/split-the-distance/internal/usecase/dto"
)

// MidpointHandler - stateless midpoint, places and geocoding endpoints
type MidpointHandler struct {
	midpointUC *usecase.MidpointUseCase
	placesUC   *usecase.PlacesUseCase
	logger     *zap.Logger
}

func NewMidpointHandler(midpointUC *usecase.MidpointUseCase, placesUC *usecase.PlacesUseCase, logger *zap.Logger) *MidpointHandler {
	return &MidpointHandler{
		midpointUC: midpointUC,
		placesUC:   placesUC,
		logger:     logger,
	}
}

// PairMidpoint godoc
// @Summary Midpoint between two parties
// @Description Each party is given as coordinates or a free-text query. Returns the midpoint of every route alternative.
// @Tags Midpoint
// @Accept json
// @Produce json
// @Param request body dto.PairMidpointRequest true "Parties and options"
// @Success 200 {object} utils.SuccessResponse{data=dto.PairMidpointResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/midpoint/pair [post]
func (h *MidpointHandler) PairMidpoint(c *fiber.Ctx) error {
	start := time.Now()

	var req dto.PairMidpointRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.midpointUC.ComputePairMidpointByQuery(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    len(result.Alternatives),
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000,
	})
}

// SelectRoute godoc
// @Summary Switch the selected route alternative
// @Description Recomputes the midpoint for the chosen alternative and refreshes places around it.
// @Tags Midpoint
// @Accept json
// @Produce json
// @Param request body dto.PairMidpointRequest true "Parties, options and selected_route_index"
// @Success 200 {object} utils.SuccessResponse{data=dto.PairMidpointResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/midpoint/pair/select [post]
func (h *MidpointHandler) SelectRoute(c *fiber.Ctx) error {
	var req dto.PairMidpointRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}
	optimize, travel, err := parseModes(req.Optimize, req.TravelMode)
	if err != nil {
		return utils.SendError(c, err)
	}

	ctx := c.UserContext()
	a, err := h.midpointUC.Resolve(ctx, req.A)
	if err != nil {
		return utils.SendError(c, err)
	}
	b, err := h.midpointUC.Resolve(ctx, req.B)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.midpointUC.SelectRoute(ctx, a, b, optimize, travel, req.SelectedRouteIndex, req.Categories)
	if err != nil {
		return utils.SendError(c, err)
	}
	h.attachPlaces(ctx, result)

	return utils.SendSuccess(c, result, nil)
}

// GroupMidpoint godoc
// @Summary Fairest meeting point for a group
// @Description Minimizes the worst party's travel. Parties without an origin are listed in excluded.
// @Tags Midpoint
// @Accept json
// @Produce json
// @Param request body dto.GroupMidpointRequest true "Parties and options"
// @Success 200 {object} utils.SuccessResponse{data=dto.GroupMidpointResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/midpoint/group [post]
func (h *MidpointHandler) GroupMidpoint(c *fiber.Ctx) error {
	start := time.Now()

	var req dto.GroupMidpointRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}
	optimize, travel, err := parseModes(req.Optimize, req.TravelMode)
	if err != nil {
		return utils.SendError(c, err)
	}

	ctx := c.UserContext()
	parties := make([]domain.Party, len(req.Parties))
	for i, p := range req.Parties {
		parties[i] = domain.Party{ID: p.ID, Name: p.Name}
		if p.Origin == nil {
			continue
		}
		origin, err := h.midpointUC.Resolve(ctx, *p.Origin)
		if err != nil {
			return utils.SendError(c, err)
		}
		parties[i].Origin = &origin
	}

	result, err := h.midpointUC.ComputeGroupMidpoint(ctx, parties, optimize, travel)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    len(result.Costs),
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000,
	})
}

// NearbyPlaces godoc
// @Summary Places around a point
// @Tags Places
// @Accept json
// @Produce json
// @Param request body dto.NearbyPlacesRequest true "Center, categories and radius"
// @Success 200 {object} utils.SuccessResponse{data=dto.NearbyPlacesResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/places/nearby [post]
func (h *MidpointHandler) NearbyPlaces(c *fiber.Ctx) error {
	var req dto.NearbyPlacesRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.placesUC.SearchNearby(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, &utils.Meta{Total: result.Total})
}

// Geocode godoc
// @Summary Search locations by text
// @Tags Places
// @Produce json
// @Param q query string true "Query (at least 2 characters)"
// @Success 200 {object} utils.SuccessResponse{data=dto.GeocodeResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/geocode [get]
func (h *MidpointHandler) Geocode(c *fiber.Ctx) error {
	result, err := h.placesUC.Geocode(c.UserContext(), c.Query("q"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, &utils.Meta{Total: len(result.Results)})
}

// attachPlaces fills the places of the refreshed midpoint. A failed lookup
// leaves the midpoint response intact.
func (h *MidpointHandler) attachPlaces(ctx context.Context, resp *dto.PairMidpointResponse) {
	if resp.PlacesRefresh == nil {
		return
	}
	r := resp.PlacesRefresh
	places, err := h.placesUC.SearchNearby(ctx, dto.NearbyPlacesRequest{
		Lat:          r.Center.Lat,
		Lon:          r.Center.Lon,
		Categories:   r.Categories,
		RadiusMeters: r.RadiusMeters,
	})
	if err != nil {
		h.logger.Warn("Places refresh failed", zap.Error(err))
		return
	}
	resp.Places = places.Places
}

func parseModes(optimize, travel string) (domain.OptimizeMode, domain.TravelMode, error) {
	o, err := domain.ParseOptimizeMode(optimize)
	if err != nil {
		return "", "", errors.ErrInvalidRequest.WithMessage("%s", err.Error())
	}
	t, err := domain.ParseTravelMode(travel)
	if err != nil {
		return "", "", errors.ErrInvalidRequest.WithMessage("%s", err.Error())
	}
	return o, t, nil
}
