package controller

import (
	"github.com/sgeraldes/hidock-next-sub000/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ErrorStatuses maps service sentinels to HTTP statuses for
// serverutils.ErrorHandlerMiddleware.
var ErrorStatuses = map[error]int{
	service.ErrRecordingNotFound:  fiber.StatusNotFound,
	service.ErrMeetingNotFound:    fiber.StatusNotFound,
	service.ErrCandidateNotFound:  fiber.StatusNotFound,
	service.ErrAssessmentNotFound: fiber.StatusNotFound,
	service.ErrFileNotInQueue:     fiber.StatusNotFound,
	service.ErrInvalidTransition:  fiber.StatusConflict,
	service.ErrInvalidInput:       fiber.StatusBadRequest,
}

func paramID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid recording id")
	}
	return id, nil
}

func parseBody(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}
