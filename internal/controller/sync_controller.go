package controller

import (
	"github.com/sgeraldes/hidock-next-sub000/internal/dto"
	"github.com/sgeraldes/hidock-next-sub000/internal/pkg/logger"
	"github.com/sgeraldes/hidock-next-sub000/internal/pkg/serverutils"
	"github.com/sgeraldes/hidock-next-sub000/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISyncController interface {
	RegisterRoutes(r fiber.Router, middleware ...fiber.Handler)
	Check(ctx *fiber.Ctx) error
	Queue(ctx *fiber.Ctx) error
	StartSession(ctx *fiber.Ctx) error
	Process(ctx *fiber.Ctx) error
	Progress(ctx *fiber.Ctx) error
	Fail(ctx *fiber.Ctx) error
	ClearCompleted(ctx *fiber.Ctx) error
	CancelAll(ctx *fiber.Ctx) error
	State(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	Reconcile(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
	Logs(ctx *fiber.Ctx) error
}

type syncController struct {
	downloadService service.IDownloadService
	syncLogger      logger.ILogger
}

func NewSyncController(downloadService service.IDownloadService, syncLogger logger.ILogger) ISyncController {
	return &syncController{
		downloadService: downloadService,
		syncLogger:      syncLogger,
	}
}

func (c *syncController) RegisterRoutes(r fiber.Router, middleware ...fiber.Handler) {
	h := r.Group("/sync/v1", middleware...)
	h.Get("check/:filename", c.Check)
	h.Post("queue", c.Queue)
	h.Post("session", c.StartSession)
	h.Post("files/:filename", c.Process)
	h.Put("files/:filename/progress", c.Progress)
	h.Put("files/:filename/fail", c.Fail)
	h.Delete("completed", c.ClearCompleted)
	h.Post("cancel", c.CancelAll)
	h.Get("state", c.State)
	h.Get("stats", c.Stats)
	h.Post("reconcile", c.Reconcile)
	h.Post("reset", c.Reset)
	h.Get("logs", c.Logs)
}

func (c *syncController) Check(ctx *fiber.Ctx) error {
	res, err := c.downloadService.IsFileAlreadySynced(ctx.UserContext(), ctx.Params("filename"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success check file", res))
}

func (c *syncController) Queue(ctx *fiber.Ctx) error {
	var req dto.QueueDownloadsRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.downloadService.QueueDownloads(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success queue downloads", res))
}

func (c *syncController) StartSession(ctx *fiber.Ctx) error {
	var req dto.QueueDownloadsRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.downloadService.StartSyncSession(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success start sync session", res))
}

// Process accepts the raw file bytes as the request body.
func (c *syncController) Process(ctx *fiber.Ctx) error {
	res, err := c.downloadService.ProcessDownload(ctx.UserContext(), ctx.Params("filename"), ctx.Body())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success process download", res))
}

func (c *syncController) Progress(ctx *fiber.Ctx) error {
	var req dto.UpdateProgressRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.downloadService.UpdateProgress(ctx.UserContext(), ctx.Params("filename"), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success update progress", nil))
}

func (c *syncController) Fail(ctx *fiber.Ctx) error {
	var req dto.MarkFailedRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.downloadService.MarkFailed(ctx.UserContext(), ctx.Params("filename"), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success mark failed", nil))
}

func (c *syncController) ClearCompleted(ctx *fiber.Ctx) error {
	res := c.downloadService.ClearCompleted(ctx.UserContext())
	return ctx.JSON(serverutils.SuccessResponse("Success clear completed", res))
}

func (c *syncController) CancelAll(ctx *fiber.Ctx) error {
	res := c.downloadService.CancelAll(ctx.UserContext())
	return ctx.JSON(serverutils.SuccessResponse("Success cancel downloads", res))
}

func (c *syncController) State(ctx *fiber.Ctx) error {
	res := c.downloadService.GetState(ctx.UserContext())
	return ctx.JSON(serverutils.SuccessResponse("Success get queue state", res))
}

func (c *syncController) Stats(ctx *fiber.Ctx) error {
	res, err := c.downloadService.GetSyncStats(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get sync stats", res))
}

func (c *syncController) Reconcile(ctx *fiber.Ctx) error {
	var req dto.QueueDownloadsRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.downloadService.ReconcileDeviceListing(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success reconcile device listing", res))
}

func (c *syncController) Reset(ctx *fiber.Ctx) error {
	res, err := c.downloadService.ResetSyncState(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success reset sync state", res))
}

func (c *syncController) Logs(ctx *fiber.Ctx) error {
	logs, err := c.syncLogger.GetLogs(logger.LogFilter{
		Level:  ctx.Query("level"),
		Module: ctx.Query("module"),
		Limit:  ctx.QueryInt("limit", 100),
		Offset: ctx.QueryInt("offset", 0),
	})
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get sync logs", logs))
}
