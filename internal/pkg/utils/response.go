package utils

import (
	"github.com/gofiber/fiber/v2"

	"github.com/split-the-distance/internal/pkg/errors"
)

// SuccessResponse is the envelope of every 2xx JSON body.
type SuccessResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Error *errors.AppError `json:"error"`
}

type Meta struct {
	Total    int     `json:"total,omitempty"`
	Limit    int     `json:"limit,omitempty"`
	TimeMSec float64 `json:"time_ms,omitempty"`
}

func SendSuccess(c *fiber.Ctx, data interface{}, meta *Meta) error {
	return c.JSON(SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

func SendCreated(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(SuccessResponse{Data: data})
}

// SendAccepted acknowledges work that finishes in the background.
func SendAccepted(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusAccepted)
}

func SendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// SendError writes err as an error envelope. Fiber errors keep their status;
// anything that is not an AppError becomes a 500.
func SendError(c *fiber.Ctx, err error) error {
	if appErr, ok := errors.As(err); ok {
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{Error: appErr})
	}

	if fe, ok := err.(*fiber.Error); ok && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(ErrorResponse{
			Error: errors.New(errors.ErrInvalidRequest.Code, fe.Message, fe.Code),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error: errors.ErrInternalServer,
	})
}
