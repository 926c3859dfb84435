package controller

import (
	"github.com/sgeraldes/hidock-next-sub000/internal/dto"
	"github.com/sgeraldes/hidock-next-sub000/internal/pkg/serverutils"
	"github.com/sgeraldes/hidock-next-sub000/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IStorageController interface {
	RegisterRoutes(r fiber.Router, middleware ...fiber.Handler)
	AssignTier(ctx *fiber.Ctx) error
	ByTier(ctx *fiber.Ctx) error
	CleanupSuggestions(ctx *fiber.Ctx) error
	CleanupSuggestionsForTier(ctx *fiber.Ctx) error
	ExecuteCleanup(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	InitializeUntiered(ctx *fiber.Ctx) error
}

type storageController struct {
	storageService service.IStoragePolicyService
}

func NewStorageController(storageService service.IStoragePolicyService) IStorageController {
	return &storageController{storageService: storageService}
}

func (c *storageController) RegisterRoutes(r fiber.Router, middleware ...fiber.Handler) {
	h := r.Group("/storage/v1", middleware...)
	h.Get("stats", c.Stats)
	h.Get("cleanup-suggestions", c.CleanupSuggestions)
	h.Post("cleanup", c.ExecuteCleanup)
	h.Post("initialize-untiered", c.InitializeUntiered)
	h.Get("tiers/:tier/recordings", c.ByTier)
	h.Get("tiers/:tier/cleanup-suggestions", c.CleanupSuggestionsForTier)
	h.Put("recordings/:id/tier", c.AssignTier)
}

func (c *storageController) AssignTier(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	var req dto.AssignTierRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.storageService.AssignTier(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success assign tier", res))
}

func (c *storageController) ByTier(ctx *fiber.Ctx) error {
	res, err := c.storageService.GetByTier(ctx.UserContext(), ctx.Params("tier"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get recordings by tier", res))
}

func retentionOverrides(ctx *fiber.Ctx) (*dto.RetentionOverrides, error) {
	var overrides dto.RetentionOverrides
	if err := ctx.QueryParser(&overrides); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(overrides); err != nil {
		return nil, err
	}
	return &overrides, nil
}

// CleanupSuggestions accepts per-tier retention overrides as query
// parameters, e.g. ?hot_days=30.
func (c *storageController) CleanupSuggestions(ctx *fiber.Ctx) error {
	overrides, err := retentionOverrides(ctx)
	if err != nil {
		return err
	}

	res, err := c.storageService.GetCleanupSuggestions(ctx.UserContext(), overrides)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get cleanup suggestions", res))
}

func (c *storageController) CleanupSuggestionsForTier(ctx *fiber.Ctx) error {
	overrides, err := retentionOverrides(ctx)
	if err != nil {
		return err
	}

	res, err := c.storageService.GetCleanupSuggestionsForTier(ctx.UserContext(), ctx.Params("tier"), overrides)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get cleanup suggestions", res))
}

func (c *storageController) ExecuteCleanup(ctx *fiber.Ctx) error {
	var req dto.ExecuteCleanupRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.storageService.ExecuteCleanup(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success execute cleanup", res))
}

func (c *storageController) Stats(ctx *fiber.Ctx) error {
	res, err := c.storageService.GetStorageStats(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get storage stats", res))
}

func (c *storageController) InitializeUntiered(ctx *fiber.Ctx) error {
	res, err := c.storageService.InitializeUntieredRecordings(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success initialize untiered recordings", res))
}
