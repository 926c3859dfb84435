package controller

import (
	"github.com/sgeraldes/hidock-next-sub000/internal/dto"
	"github.com/sgeraldes/hidock-next-sub000/internal/pkg/serverutils"
	"github.com/sgeraldes/hidock-next-sub000/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICorrelationController interface {
	RegisterRoutes(r fiber.Router, middleware ...fiber.Handler)
	Correlate(ctx *fiber.Ctx) error
	CorrelateUnlinked(ctx *fiber.Ctx) error
	AddCandidate(ctx *fiber.Ctx) error
	Candidates(ctx *fiber.Ctx) error
	SelectMeeting(ctx *fiber.Ctx) error
	MatchInfo(ctx *fiber.Ctx) error
}

type correlationController struct {
	correlationService service.ICorrelationService
}

func NewCorrelationController(correlationService service.ICorrelationService) ICorrelationController {
	return &correlationController{correlationService: correlationService}
}

func (c *correlationController) RegisterRoutes(r fiber.Router, middleware ...fiber.Handler) {
	h := r.Group("/correlation/v1", middleware...)
	h.Post("correlate-unlinked", c.CorrelateUnlinked)
	h.Post("candidates", c.AddCandidate)
	h.Post("recordings/:id/correlate", c.Correlate)
	h.Get("recordings/:id/candidates", c.Candidates)
	h.Put("recordings/:id/meeting", c.SelectMeeting)
	h.Get("recordings/:id/match-info", c.MatchInfo)
}

func (c *correlationController) Correlate(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	res, err := c.correlationService.CorrelateRecording(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success correlate recording", res))
}

func (c *correlationController) CorrelateUnlinked(ctx *fiber.Ctx) error {
	res, err := c.correlationService.CorrelateUnlinked(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success correlate unlinked recordings", res))
}

func (c *correlationController) AddCandidate(ctx *fiber.Ctx) error {
	var req dto.AddCandidateRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.correlationService.AddRecordingMeetingCandidate(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success add candidate", res))
}

func (c *correlationController) Candidates(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	res, err := c.correlationService.GetCandidates(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get candidates", res))
}

// SelectMeeting records a user decision. A null meeting_id marks the
// recording standalone.
func (c *correlationController) SelectMeeting(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	var req dto.SelectMeetingRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.correlationService.SelectMeetingForRecordingByUser(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success select meeting", res))
}

func (c *correlationController) MatchInfo(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	res, err := c.correlationService.GetRecordingMatchInfo(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get match info", res))
}
