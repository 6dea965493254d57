package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/delivery/http/middleware"
	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/pkg/utils"
	"github.com/split-the-distance/internal/usecase"
	"github.com/split-the-distance/internal/usecase/dto"
)

// ItineraryHandler - trip options and day-by-day stops
type ItineraryHandler struct {
	itineraryUC *usecase.ItineraryUseCase
	logger      *zap.Logger
}

func NewItineraryHandler(itineraryUC *usecase.ItineraryUseCase, logger *zap.Logger) *ItineraryHandler {
	return &ItineraryHandler{
		itineraryUC: itineraryUC,
		logger:      logger,
	}
}

// AddOption godoc
// @Summary Suggest lodging, a point of interest or food
// @Tags Itinerary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param request body dto.AddTripOptionRequest true "Option"
// @Success 201 {object} utils.SuccessResponse{data=domain.TripOption}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/options [post]
func (h *ItineraryHandler) AddOption(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	var req dto.AddTripOptionRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	option, err := h.itineraryUC.AddTripOption(c.UserContext(), middleware.ActorFrom(c), id, req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, option)
}

// ListOptions godoc
// @Summary Trip options with scores
// @Tags Itinerary
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param category query string false "lodging, poi or food"
// @Success 200 {object} utils.SuccessResponse{data=[]domain.TripOptionWithVotes}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/options [get]
func (h *ItineraryHandler) ListOptions(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	options, err := h.itineraryUC.ListTripOptions(c.UserContext(), middleware.ActorFrom(c), id, c.Query("category"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, options, &utils.Meta{Total: len(options)})
}

// VoteOption godoc
// @Summary Vote on a trip option
// @Tags Itinerary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param optionId path string true "Option ID"
// @Param request body dto.UpDownVoteRequest true "up or down"
// @Success 200 {object} utils.SuccessResponse{data=domain.TripOptionWithVotes}
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/options/{optionId}/vote [put]
func (h *ItineraryHandler) VoteOption(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	optionID, err := pathUUID(c, "optionId")
	if err != nil {
		return utils.SendError(c, err)
	}
	var req dto.UpDownVoteRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	option, err := h.itineraryUC.VoteTripOption(c.UserContext(), middleware.ActorFrom(c), id, optionID, domain.UpDownVote(req.Vote))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, option, nil)
}

// DeleteOption godoc
// @Summary Delete a trip option
// @Tags Itinerary
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param optionId path string true "Option ID"
// @Success 204
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/options/{optionId} [delete]
func (h *ItineraryHandler) DeleteOption(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	optionID, err := pathUUID(c, "optionId")
	if err != nil {
		return utils.SendError(c, err)
	}

	if err := h.itineraryUC.DeleteTripOption(c.UserContext(), middleware.ActorFrom(c), id, optionID); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendNoContent(c)
}

// AddStop godoc
// @Summary Add an itinerary stop
// @Description The stop is appended to the end of its day.
// @Tags Itinerary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param request body dto.AddTripStopRequest true "Stop"
// @Success 201 {object} utils.SuccessResponse{data=domain.TripStop}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/stops [post]
func (h *ItineraryHandler) AddStop(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	var req dto.AddTripStopRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	stop, err := h.itineraryUC.AddTripStop(c.UserContext(), middleware.ActorFrom(c), id, req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, stop)
}

// ListStops godoc
// @Summary Itinerary ordered by day and position
// @Tags Itinerary
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.SuccessResponse{data=[]domain.TripStop}
// @Router /api/v1/trips/{id}/stops [get]
func (h *ItineraryHandler) ListStops(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	stops, err := h.itineraryUC.ListTripStops(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, stops, &utils.Meta{Total: len(stops)})
}

// UpdateStop godoc
// @Summary Update a stop
// @Description Status moves from planned to confirmed, skipped or completed.
// @Tags Itinerary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param stopId path string true "Stop ID"
// @Param request body dto.UpdateTripStopRequest true "Changes"
// @Success 200 {object} utils.SuccessResponse{data=domain.TripStop}
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/stops/{stopId} [patch]
func (h *ItineraryHandler) UpdateStop(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	stopID, err := pathUUID(c, "stopId")
	if err != nil {
		return utils.SendError(c, err)
	}
	var req dto.UpdateTripStopRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	stop, err := h.itineraryUC.UpdateTripStop(c.UserContext(), middleware.ActorFrom(c), id, stopID, req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, stop, nil)
}

// ReorderStops godoc
// @Summary Reorder one day
// @Tags Itinerary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param request body dto.ReorderStopsRequest true "New order"
// @Success 200 {object} utils.SuccessResponse{data=[]domain.TripStop}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/stops/reorder [put]
func (h *ItineraryHandler) ReorderStops(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	var req dto.ReorderStopsRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	// validated as UUIDs above
	ids := make([]uuid.UUID, len(req.StopIDs))
	for i, s := range req.StopIDs {
		ids[i] = uuid.MustParse(s)
	}

	stops, err := h.itineraryUC.ReorderTripStops(c.UserContext(), middleware.ActorFrom(c), id, req.DayNumber, ids)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, stops, nil)
}

// DeleteStop godoc
// @Summary Delete a stop
// @Tags Itinerary
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param stopId path string true "Stop ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/stops/{stopId} [delete]
func (h *ItineraryHandler) DeleteStop(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	stopID, err := pathUUID(c, "stopId")
	if err != nil {
		return utils.SendError(c, err)
	}

	if err := h.itineraryUC.DeleteTripStop(c.UserContext(), middleware.ActorFrom(c), id, stopID); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendNoContent(c)
}
