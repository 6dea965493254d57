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

// TrackingHandler - live location sharing during an active trip
type TrackingHandler struct {
	trackingUC *usecase.TrackingUseCase
	logger     *zap.Logger
}

func NewTrackingHandler(trackingUC *usecase.TrackingUseCase, logger *zap.Logger) *TrackingHandler {
	return &TrackingHandler{
		trackingUC: trackingUC,
		logger:     logger,
	}
}

// StartSharing godoc
// @Summary Start sharing my location
// @Tags Tracking
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.LiveStatus}
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/live/start [post]
func (h *TrackingHandler) StartSharing(c *fiber.Ctx) error {
	return h.action(c, h.trackingUC.StartSharing)
}

// StopSharing godoc
// @Summary Stop sharing my location
// @Tags Tracking
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.LiveStatus}
// @Router /api/v1/trips/{id}/live/stop [post]
func (h *TrackingHandler) StopSharing(c *fiber.Ctx) error {
	return h.action(c, h.trackingUC.StopSharing)
}

// MarkArrived godoc
// @Summary Mark myself as arrived
// @Description Ends sharing; further position updates are rejected.
// @Tags Tracking
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.LiveStatus}
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/live/arrived [post]
func (h *TrackingHandler) MarkArrived(c *fiber.Ctx) error {
	return h.action(c, h.trackingUC.MarkArrived)
}

// UpdatePosition godoc
// @Summary Report my position
// @Description Computes the ETA to the destination, broadcasts the position and stores the snapshot.
// @Tags Tracking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param request body dto.PositionRequest true "Position"
// @Success 200 {object} utils.SuccessResponse{data=domain.LiveStatus}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/live/position [put]
func (h *TrackingHandler) UpdatePosition(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	var req dto.PositionRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	pos := domain.Position{Lat: req.Lat, Lng: req.Lng, Heading: req.Heading, Speed: req.Speed}
	status, err := h.trackingUC.UpdateLivePosition(c.UserContext(), middleware.ActorFrom(c), id, pos)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, status, nil)
}

// ListStatuses godoc
// @Summary Live status of every member
// @Description Snapshots older than the staleness window are flagged stale.
// @Tags Tracking
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.SuccessResponse{data=[]domain.LiveStatus}
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/live [get]
func (h *TrackingHandler) ListStatuses(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	statuses, err := h.trackingUC.ListLiveStatuses(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, statuses, &utils.Meta{Total: len(statuses)})
}

func (h *TrackingHandler) action(c *fiber.Ctx, fn liveAction) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	status, err := fn(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, status, nil)
}
