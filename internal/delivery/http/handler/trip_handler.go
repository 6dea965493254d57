package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/delivery/http/middleware"
	"github.com/split-the-distance/internal/pkg/utils"
	"github.com/split-the-distance/internal/usecase"
	"github.com/split-the-distance/internal/usecase/dto"
)

// TripHandler - trip lifecycle endpoints
type TripHandler struct {
	tripUC *usecase.TripUseCase
	logger *zap.Logger
}

func NewTripHandler(tripUC *usecase.TripUseCase, logger *zap.Logger) *TripHandler {
	return &TripHandler{
		tripUC: tripUC,
		logger: logger,
	}
}

// CreateTrip godoc
// @Summary Create a trip
// @Description Creates a trip in planning status. The caller becomes its creator and first joined member.
// @Tags Trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTripRequest true "Trip"
// @Success 201 {object} utils.SuccessResponse{data=dto.TripResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/v1/trips [post]
func (h *TripHandler) CreateTrip(c *fiber.Ctx) error {
	var req dto.CreateTripRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.tripUC.CreateTrip(c.UserContext(), middleware.ActorFrom(c), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, result)
}

// ListTrips godoc
// @Summary List my trips
// @Tags Trips
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.SuccessResponse{data=[]domain.Trip}
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/v1/trips [get]
func (h *TripHandler) ListTrips(c *fiber.Ctx) error {
	trips, err := h.tripUC.ListTripsForUser(c.UserContext(), middleware.ActorFrom(c))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, trips, &utils.Meta{Total: len(trips)})
}

// GetTrip godoc
// @Summary Get a trip with its members
// @Tags Trips
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.TripResponse}
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id} [get]
func (h *TripHandler) GetTrip(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.tripUC.GetTrip(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// UpdateTrip godoc
// @Summary Update trip settings
// @Description Host only. Omitted fields are left unchanged.
// @Tags Trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param request body dto.UpdateTripRequest true "Changes"
// @Success 200 {object} utils.SuccessResponse{data=domain.Trip}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id} [patch]
func (h *TripHandler) UpdateTrip(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	var req dto.UpdateTripRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	trip, err := h.tripUC.UpdateTrip(c.UserContext(), middleware.ActorFrom(c), id, req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, trip, nil)
}

// SetVoting godoc
// @Summary Open or close voting
// @Tags Trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param request body dto.SetVotingRequest true "Voting window"
// @Success 200 {object} utils.SuccessResponse{data=domain.Trip}
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/voting [put]
func (h *TripHandler) SetVoting(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	var req dto.SetVotingRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	trip, err := h.tripUC.SetVotingOpen(c.UserContext(), middleware.ActorFrom(c), id, req.Open)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, trip, nil)
}

// StartTrip godoc
// @Summary Start the trip
// @Description Requires a confirmed date and a destination.
// @Tags Trips
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.Trip}
// @Failure 403 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/start [post]
func (h *TripHandler) StartTrip(c *fiber.Ctx) error {
	return h.transition(c, h.tripUC.StartTrip)
}

// CompleteTrip godoc
// @Summary Complete the trip
// @Description Stops every live sharing session of the trip.
// @Tags Trips
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.Trip}
// @Failure 403 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/complete [post]
func (h *TripHandler) CompleteTrip(c *fiber.Ctx) error {
	return h.transition(c, h.tripUC.CompleteTrip)
}

// CancelTrip godoc
// @Summary Cancel the trip
// @Tags Trips
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.Trip}
// @Failure 403 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/cancel [post]
func (h *TripHandler) CancelTrip(c *fiber.Ctx) error {
	return h.transition(c, h.tripUC.CancelTrip)
}

// GetDestination godoc
// @Summary Resolved trip destination
// @Description The confirmed location, or the fixed destination of a specific-mode trip. Null when neither exists.
// @Tags Trips
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.GeoPoint}
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/destination [get]
func (h *TripHandler) GetDestination(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.tripUC.GetTrip(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	dest, err := h.tripUC.GetTripDestination(c.UserContext(), result.Trip)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dest, nil)
}

func (h *TripHandler) transition(c *fiber.Ctx, fn tripTransition) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	trip, err := fn(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, trip, nil)
}
