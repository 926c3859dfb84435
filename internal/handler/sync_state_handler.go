package handler

import (
	"context"
	"encoding/json"

	"github.com/sgeraldes/hidock-next-sub000/internal/pkg/logger"
	"github.com/sgeraldes/hidock-next-sub000/internal/service"
	internalWS "github.com/sgeraldes/hidock-next-sub000/internal/websocket"
	"github.com/sgeraldes/hidock-next-sub000/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const moduleHandler = "SyncStateHandler"

// SyncStateHandler streams download-queue state and domain events to
// websocket observers.
type SyncStateHandler struct {
	downloadService service.IDownloadService
	hub             *internalWS.Hub
	logger          logger.ILogger
}

func NewSyncStateHandler(downloadService service.IDownloadService, hub *internalWS.Hub, log logger.ILogger) *SyncStateHandler {
	return &SyncStateHandler{
		downloadService: downloadService,
		hub:             hub,
		logger:          log,
	}
}

func (h *SyncStateHandler) RegisterRoutes(r fiber.Router, middleware ...fiber.Handler) {
	ws := r.Group("/sync/v1/ws", middleware...)
	ws.Get("", h.ServeWs)
}

// ServeWs upgrades the request and primes the client with the current
// queue snapshot so it never waits for the next change.
func (h *SyncStateHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	initial, err := json.Marshal(internalWS.Message{
		Type: service.MessageTypeQueueState,
		Data: h.downloadService.GetState(c.UserContext()),
	})
	if err != nil {
		return err
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info(moduleHandler, "Starting websocket session", map[string]interface{}{"remote": conn.RemoteAddr().String()})
		internalWS.ServeWs(h.hub, conn, initial)
		h.logger.Info(moduleHandler, "Websocket session ended", map[string]interface{}{"remote": conn.RemoteAddr().String()})
	})(c)
}

// RelayEvents forwards every domain event to websocket observers. Delivery
// is best effort and never fails the emitter.
func RelayEvents(bus *events.Bus, broadcaster service.Broadcaster) {
	bus.SubscribeMultiple(events.DomainTypes, func(ctx context.Context, event events.Event) error {
		broadcaster.Broadcast(event.EventType(), event.Payload())
		return nil
	})
}
