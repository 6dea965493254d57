package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/delivery/http/middleware"
	"github.com/split-the-distance/internal/pkg/utils"
	"github.com/split-the-distance/internal/usecase"
)

const heartbeatInterval = 15 * time.Second

// RealtimeHandler - server-sent events for trip members
type RealtimeHandler struct {
	realtimeUC *usecase.RealtimeUseCase
	logger     *zap.Logger
}

func NewRealtimeHandler(realtimeUC *usecase.RealtimeUseCase, logger *zap.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		realtimeUC: realtimeUC,
		logger:     logger,
	}
}

// Events godoc
// @Summary Trip event stream
// @Description Server-sent events. "change" events name the slice of trip state to re-fetch; "position" events carry live positions. The token may be passed as access_token for EventSource clients.
// @Tags Realtime
// @Produce text/event-stream
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {string} string "event stream"
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/events [get]
func (h *RealtimeHandler) Events(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	// The stream outlives the handler, so it gets its own context.
	ctx, cancel := context.WithCancel(context.Background())
	feed, stop, err := h.realtimeUC.Subscribe(ctx, middleware.ActorFrom(c), id)
	if err != nil {
		cancel()
		return utils.SendError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	logger := h.logger.With(zap.String("trip_id", id.String()))
	logger.Debug("Event stream opened")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer stop()

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		if err := writeComment(w, "connected"); err != nil {
			return
		}
		for {
			select {
			case ev, ok := <-feed:
				if !ok {
					return
				}
				if err := writeEvent(w, ev); err != nil {
					logger.Debug("Event stream closed", zap.Error(err))
					return
				}
			case <-heartbeat.C:
				if err := writeComment(w, "ping"); err != nil {
					logger.Debug("Event stream closed", zap.Error(err))
					return
				}
			}
		}
	})
	return nil
}

func writeEvent(w *bufio.Writer, ev usecase.RealtimeEvent) error {
	var (
		payload []byte
		err     error
	)
	if ev.Change != nil {
		payload, err = json.Marshal(ev.Change)
	} else {
		payload, err = json.Marshal(ev.Position)
	}
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload); err != nil {
		return err
	}
	return w.Flush()
}

func writeComment(w *bufio.Writer, text string) error {
	if _, err := fmt.Fprintf(w, ": %s\n\n", text); err != nil {
		return err
	}
	return w.Flush()
}
