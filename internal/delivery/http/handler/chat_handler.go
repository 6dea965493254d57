package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/delivery/http/middleware"
	"github.com/split-the-distance/internal/pkg/errors"
	"github.com/split-the-distance/internal/pkg/utils"
	"github.com/split-the-distance/internal/usecase"
	"github.com/split-the-distance/internal/usecase/dto"
)

const (
	defaultMessageLimit = 100
	maxMessageLimit     = 500
)

// ChatHandler - trip chat
type ChatHandler struct {
	chatUC *usecase.ChatUseCase
	logger *zap.Logger
}

func NewChatHandler(chatUC *usecase.ChatUseCase, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatUC: chatUC,
		logger: logger,
	}
}

// SendMessage godoc
// @Summary Post a chat message
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param request body dto.SendMessageRequest true "Message"
// @Success 201 {object} utils.SuccessResponse{data=domain.Message}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	var req dto.SendMessageRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	msg, err := h.chatUC.SendTripMessage(c.UserContext(), middleware.ActorFrom(c), id, req.Body)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, msg)
}

// ListMessages godoc
// @Summary Chat history
// @Description Oldest first. With group=day the messages are grouped by calendar day in tz.
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param limit query int false "Latest N messages" default(100)
// @Param group query string false "day"
// @Param tz query string false "IANA time zone for grouping" default(UTC)
// @Success 200 {object} utils.SuccessResponse{data=[]domain.Message}
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/messages [get]
func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	limit := c.QueryInt("limit", defaultMessageLimit)
	if limit < 1 || limit > maxMessageLimit {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("limit must be between 1 and %d", maxMessageLimit))
	}

	messages, err := h.chatUC.ListTripMessages(c.UserContext(), middleware.ActorFrom(c), id, limit)
	if err != nil {
		return utils.SendError(c, err)
	}

	if c.Query("group") != "day" {
		return utils.SendSuccess(c, messages, &utils.Meta{Total: len(messages), Limit: limit})
	}

	loc := time.UTC
	if tz := c.Query("tz"); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("unknown time zone %s", tz))
		}
	}
	return utils.SendSuccess(c, usecase.GroupMessagesByDate(messages, loc), &utils.Meta{Total: len(messages), Limit: limit})
}
