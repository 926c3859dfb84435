package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware renders handler errors as BaseResponse bodies.
// Errors matching a key in statuses (via errors.Is) get that status; fiber
// errors keep theirs; validation errors are 400; anything else is 500.
func ErrorHandlerMiddleware(statuses map[error]int) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := StatusFor(err, statuses)
		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}

func StatusFor(err error, statuses map[error]int) int {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return fiber.StatusBadRequest
	}

	for target, code := range statuses {
		if errors.Is(err, target) {
			return code
		}
	}
	return fiber.StatusInternalServerError
}
