package controller

import (
	"github.com/sgeraldes/hidock-next-sub000/internal/dto"
	"github.com/sgeraldes/hidock-next-sub000/internal/pkg/serverutils"
	"github.com/sgeraldes/hidock-next-sub000/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IQualityController interface {
	RegisterRoutes(r fiber.Router, middleware ...fiber.Handler)
	Infer(ctx *fiber.Ctx) error
	Assess(ctx *fiber.Ctx) error
	AutoAssess(ctx *fiber.Ctx) error
	BatchAutoAssess(ctx *fiber.Ctx) error
	AssessUnassessed(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	ByLevel(ctx *fiber.Ctx) error
}

type qualityController struct {
	qualityService service.IQualityService
}

func NewQualityController(qualityService service.IQualityService) IQualityController {
	return &qualityController{qualityService: qualityService}
}

func (c *qualityController) RegisterRoutes(r fiber.Router, middleware ...fiber.Handler) {
	h := r.Group("/quality/v1", middleware...)
	h.Post("assess", c.Assess)
	h.Post("batch-auto-assess", c.BatchAutoAssess)
	h.Post("assess-unassessed", c.AssessUnassessed)
	h.Get("level/:level", c.ByLevel)
	h.Get("recordings/:id", c.Show)
	h.Get("recordings/:id/infer", c.Infer)
	h.Post("recordings/:id/auto-assess", c.AutoAssess)
}

func (c *qualityController) Infer(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	res, err := c.qualityService.InferQuality(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success infer quality", res))
}

func (c *qualityController) Assess(ctx *fiber.Ctx) error {
	var req dto.AssessQualityRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.qualityService.AssessQuality(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success assess quality", res))
}

func (c *qualityController) AutoAssess(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	var req dto.AutoAssessRequest
	if len(ctx.Body()) > 0 {
		if err := parseBody(ctx, &req); err != nil {
			return err
		}
	}

	res, err := c.qualityService.AutoAssess(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success auto assess quality", res))
}

func (c *qualityController) BatchAutoAssess(ctx *fiber.Ctx) error {
	var req dto.BatchAutoAssessRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.qualityService.BatchAutoAssess(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success batch auto assess", res))
}

func (c *qualityController) AssessUnassessed(ctx *fiber.Ctx) error {
	res, err := c.qualityService.AssessUnassessed(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success assess unassessed recordings", res))
}

func (c *qualityController) Show(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	res, err := c.qualityService.GetQuality(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get quality", res))
}

func (c *qualityController) ByLevel(ctx *fiber.Ctx) error {
	res, err := c.qualityService.GetByQuality(ctx.UserContext(), ctx.Params("level"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get assessments by quality", res))
}
