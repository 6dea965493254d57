package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/delivery/http/middleware"
	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/pkg/utils"
	"github.com/split-the-distance/internal/usecase"
	"github.com/split-the-distance/internal/usecase/dto"
)

// PlanningHandler - date and destination voting
type PlanningHandler struct {
	tripUC     *usecase.TripUseCase
	dateUC     *usecase.DateUseCase
	locationUC *usecase.LocationUseCase
	logger     *zap.Logger
}

func NewPlanningHandler(
	tripUC *usecase.TripUseCase,
	dateUC *usecase.DateUseCase,
	locationUC *usecase.LocationUseCase,
	logger *zap.Logger,
) *PlanningHandler {
	return &PlanningHandler{
		tripUC:     tripUC,
		dateUC:     dateUC,
		locationUC: locationUC,
		logger:     logger,
	}
}

// ========== Dates ==========

// ProposeDate godoc
// @Summary Propose a date range
// @Tags Dates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param request body dto.ProposeDateRequest true "Date option"
// @Success 201 {object} utils.SuccessResponse{data=domain.DateOption}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/dates [post]
func (h *PlanningHandler) ProposeDate(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	var req dto.ProposeDateRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	option, err := h.dateUC.ProposeDate(c.UserContext(), middleware.ActorFrom(c), id, req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, option)
}

// ListDates godoc
// @Summary Date options with tallies
// @Tags Dates
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.SuccessResponse{data=[]domain.DateOptionWithVotes}
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/dates [get]
func (h *PlanningHandler) ListDates(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	options, err := h.dateUC.ListDateOptions(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, options, &utils.Meta{Total: len(options)})
}

// VoteDate godoc
// @Summary Vote on a date option
// @Description A new vote replaces the caller's previous one.
// @Tags Dates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param optionId path string true "Date option ID"
// @Param request body dto.DateVoteRequest true "yes, maybe or no"
// @Success 200 {object} utils.SuccessResponse{data=domain.DateOptionWithVotes}
// @Failure 403 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/dates/{optionId}/vote [put]
func (h *PlanningHandler) VoteDate(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	optionID, err := pathUUID(c, "optionId")
	if err != nil {
		return utils.SendError(c, err)
	}
	var req dto.DateVoteRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	option, err := h.dateUC.VoteDateOption(c.UserContext(), middleware.ActorFrom(c), id, optionID, domain.DateVoteValue(req.Vote))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, option, nil)
}

// DeleteDate godoc
// @Summary Delete a date option
// @Tags Dates
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param optionId path string true "Date option ID"
// @Success 204
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/dates/{optionId} [delete]
func (h *PlanningHandler) DeleteDate(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	optionID, err := pathUUID(c, "optionId")
	if err != nil {
		return utils.SendError(c, err)
	}

	if err := h.dateUC.DeleteDateOption(c.UserContext(), middleware.ActorFrom(c), id, optionID); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendNoContent(c)
}

// ConfirmDate godoc
// @Summary Confirm a date option
// @Tags Dates
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param optionId path string true "Date option ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.Trip}
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/dates/{optionId}/confirm [post]
func (h *PlanningHandler) ConfirmDate(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	optionID, err := pathUUID(c, "optionId")
	if err != nil {
		return utils.SendError(c, err)
	}

	trip, err := h.dateUC.ConfirmTripDate(c.UserContext(), middleware.ActorFrom(c), id, optionID)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, trip, nil)
}

// UnconfirmDate godoc
// @Summary Clear the confirmed date
// @Tags Dates
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.Trip}
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/confirmed-date [delete]
func (h *PlanningHandler) UnconfirmDate(c *fiber.Ctx) error {
	return h.transition(c, h.dateUC.UnconfirmTripDate)
}

// ========== Locations ==========

// ProposeLocation godoc
// @Summary Propose a destination
// @Tags Locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param request body dto.ProposeLocationRequest true "Location"
// @Success 201 {object} utils.SuccessResponse{data=domain.Location}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/locations [post]
func (h *PlanningHandler) ProposeLocation(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	var req dto.ProposeLocationRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	loc, err := h.locationUC.ProposeLocation(c.UserContext(), middleware.ActorFrom(c), id, req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, loc)
}

// ListLocations godoc
// @Summary Candidate destinations with scores and distances
// @Tags Locations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.SuccessResponse{data=[]domain.LocationWithVotes}
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/locations [get]
func (h *PlanningHandler) ListLocations(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	locations, err := h.locationUC.ListLocations(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, locations, &utils.Meta{Total: len(locations)})
}

// VoteLocation godoc
// @Summary Vote on a destination
// @Description Repeating the same vote removes it; the opposite vote replaces it.
// @Tags Locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param locationId path string true "Location ID"
// @Param request body dto.UpDownVoteRequest true "up or down"
// @Success 200 {object} utils.SuccessResponse{data=domain.LocationWithVotes}
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/locations/{locationId}/vote [put]
func (h *PlanningHandler) VoteLocation(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	locationID, err := pathUUID(c, "locationId")
	if err != nil {
		return utils.SendError(c, err)
	}
	var req dto.UpDownVoteRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	loc, err := h.locationUC.VoteLocation(c.UserContext(), middleware.ActorFrom(c), id, locationID, domain.UpDownVote(req.Vote))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, loc, nil)
}

// DeleteLocation godoc
// @Summary Delete a candidate destination
// @Tags Locations
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param locationId path string true "Location ID"
// @Success 204
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/locations/{locationId} [delete]
func (h *PlanningHandler) DeleteLocation(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	locationID, err := pathUUID(c, "locationId")
	if err != nil {
		return utils.SendError(c, err)
	}

	if err := h.locationUC.DeleteLocation(c.UserContext(), middleware.ActorFrom(c), id, locationID); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendNoContent(c)
}

// ConfirmLocation godoc
// @Summary Confirm the destination
// @Tags Locations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param locationId path string true "Location ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.Trip}
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/locations/{locationId}/confirm [post]
func (h *PlanningHandler) ConfirmLocation(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	locationID, err := pathUUID(c, "locationId")
	if err != nil {
		return utils.SendError(c, err)
	}

	trip, err := h.locationUC.ConfirmTripLocation(c.UserContext(), middleware.ActorFrom(c), id, locationID)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, trip, nil)
}

// UnconfirmLocation godoc
// @Summary Clear the confirmed destination
// @Tags Locations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.Trip}
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/confirmed-location [delete]
func (h *PlanningHandler) UnconfirmLocation(c *fiber.Ctx) error {
	return h.transition(c, h.locationUC.UnconfirmTripLocation)
}

// FindMidpoint godoc
// @Summary Add the group midpoint as a candidate
// @Description Solves for the point that minimizes the worst member's travel and stores it as a votable location.
// @Tags Locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param request body dto.GroupMidpointLocationRequest false "Solver options"
// @Success 201 {object} utils.SuccessResponse{data=dto.GroupMidpointLocationResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/locations/midpoint [post]
func (h *PlanningHandler) FindMidpoint(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	var req dto.GroupMidpointLocationRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return utils.SendError(c, err)
		}
	}

	result, err := h.locationUC.FindGroupMidpoint(c.UserContext(), middleware.ActorFrom(c), id, req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, result)
}

// RefreshDistances godoc
// @Summary Recompute member distances to every candidate
// @Tags Locations
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 202
// @Failure 403 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/locations/distances [post]
func (h *PlanningHandler) RefreshDistances(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	if _, err := h.tripUC.GetTrip(c.UserContext(), middleware.ActorFrom(c), id); err != nil {
		return utils.SendError(c, err)
	}

	if err := h.locationUC.RefreshLocationDistances(c.UserContext(), id, nil); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendAccepted(c)
}

func (h *PlanningHandler) transition(c *fiber.Ctx, fn tripTransition) error {
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
