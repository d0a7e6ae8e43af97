package serverutils

import (
	"errors"
	"fmt"

	"buildhub-state/internal/pkg/apierror"
	"buildhub-state/internal/pkg/validation"
	"buildhub-state/pkg/store"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the
// {success, code, message} envelope. Panics become 500s.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = respond(ctx, fiber.StatusInternalServerError, fmt.Sprintf("internal error: %v", r), nil)
			}
		}()

		if err = ctx.Next(); err == nil {
			return nil
		}
		code, message, details := classify(err)
		return respond(ctx, code, message, details)
	}
}

func classify(err error) (int, string, any) {
	if fe := validation.FieldErrors(err); len(fe) > 0 {
		return fiber.StatusBadRequest, "Validation failed", fe
	}

	var rejected *store.RejectedError
	if errors.As(err, &rejected) {
		code := fiber.StatusBadRequest
		if apiErr, ok := rejected.Value.(*apierror.ApiError); ok && apiErr.Code >= 400 {
			code = apiErr.Code
		}
		return code, rejected.Error(), nil
	}

	if apiErr, ok := apierror.As(err); ok {
		code := apiErr.Code
		if code < 400 {
			code = fiber.StatusBadGateway
		}
		return code, apiErr.Message, apiErr.Details
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message, nil
	}
	return fiber.StatusInternalServerError, err.Error(), nil
}

func respond(ctx *fiber.Ctx, code int, message string, details any) error {
	body := fiber.Map{
		"success": false,
		"code":    code,
		"message": message,
	}
	if details != nil {
		body["details"] = details
	}
	return ctx.Status(code).JSON(body)
}
