package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/pkg/errors"
	"github.com/split-the-distance/internal/pkg/validator"
)

// parseBody decodes the JSON body into req and validates it.
func parseBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return errors.ErrInvalidRequest.WithMessage("invalid request body")
	}
	return validator.Validate(req)
}

// pathUUID reads a UUID route parameter.
func pathUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidRequest.WithMessage("invalid %s", name)
	}
	return id, nil
}

// tripID is the :id parameter every trip route carries.
func tripID(c *fiber.Ctx) (uuid.UUID, error) {
	return pathUUID(c, "id")
}

type tripTransition func(ctx context.Context, actor domain.Actor, tripID uuid.UUID) (*domain.Trip, error)

type liveAction func(ctx context.Context, actor domain.Actor, tripID uuid.UUID) (*domain.LiveStatus, error)
