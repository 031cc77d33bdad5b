package api

import (
	"biosearch/app/client/biosamples"
	"biosearch/app/graph/query"
	"biosearch/app/graph/result"
	"biosearch/app/service/search"
	"biosearch/app/service/tabular"
	"context"
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const genericMessage = "something went wrong"

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
}

func errorHandler(c *fiber.Ctx, err error) error {
	code, body := describe(err)
	if code >= fiber.StatusInternalServerError {
		slog.Error("Request failed",
			"path", c.Path(),
			"status", code,
			"error", err,
		)
	}

	return c.Status(code).JSON(body)
}

func describe(err error) (int, errorBody) {
	var fiberErr *fiber.Error
	var transportErr *biosamples.TransportError
	var validationErrs validator.ValidationErrors
	var danglingErr *result.DanglingReferenceError

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, errorBody{Error: "request", Message: fiberErr.Message}
	case errors.As(err, &validationErrs):
		return fiber.StatusBadRequest, errorBody{Error: "validation", Message: validationErrs.Error()}
	case errors.Is(err, tabular.ErrInvalidAPIKey), errors.Is(err, query.ErrInvalidRelationship):
		return fiber.StatusBadRequest, errorBody{Error: "validation", Message: err.Error()}
	case errors.Is(err, search.ErrStaleResponse):
		return fiber.StatusConflict, errorBody{Error: "stale", Message: "a newer search replaced this one"}
	case errors.As(err, &transportErr):
		return fiber.StatusBadGateway, errorBody{Error: "transport", Message: transportErr.Message, Status: transportErr.Status}
	case errors.As(err, &danglingErr), errors.Is(err, result.ErrMalformedResponse):
		return fiber.StatusBadGateway, errorBody{Error: "backend", Message: genericMessage}
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout, errorBody{Error: "timeout", Message: genericMessage}
	case errors.Is(err, context.Canceled):
		return fiber.StatusServiceUnavailable, errorBody{Error: "canceled", Message: genericMessage}
	default:
		return fiber.StatusInternalServerError, errorBody{Error: "internal", Message: genericMessage}
	}
}
