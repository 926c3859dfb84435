package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/sgeraldes/hidock-next-sub000/internal/config"
	"github.com/sgeraldes/hidock-next-sub000/internal/controller"
	"github.com/sgeraldes/hidock-next-sub000/internal/handler"
	"github.com/sgeraldes/hidock-next-sub000/internal/pkg/logger"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/memory"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/unitofwork"
	"github.com/sgeraldes/hidock-next-sub000/internal/service"
	"github.com/sgeraldes/hidock-next-sub000/internal/websocket"
	"github.com/sgeraldes/hidock-next-sub000/pkg/events"
	"github.com/sgeraldes/hidock-next-sub000/pkg/filestore"
	pktNats "github.com/sgeraldes/hidock-next-sub000/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SyncController        controller.ISyncController
	CorrelationController controller.ICorrelationController
	QualityController     controller.IQualityController
	StorageController     controller.IStorageController

	// Services (exposed for the maintenance commands)
	DownloadService    service.IDownloadService
	CorrelationService service.ICorrelationService
	QualityService     service.IQualityService
	StorageService     service.IStoragePolicyService

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	SyncStateHandler *handler.SyncStateHandler
	WebSocketHub     *websocket.Hub

	Bus    *events.Bus
	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())
	syncLogger := logger.NewIsolatedLogger(cfg.App.SyncLogFilePath)

	files, err := filestore.NewLocalStore(cfg.Storage.RecordingsDir)
	if err != nil {
		return nil, fmt.Errorf("recordings directory: %w", err)
	}

	c := &Container{Logger: sysLogger}

	// 2. Queue-state channel
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { pubSub.Close() })

	// 3. Infrastructure
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		c.closers = append(c.closers, func() { rdb.Close() })
	}

	c.WebSocketHub = websocket.NewHub(rdb, syncLogger)

	// 4. Domain event bus. Subscription order is dispatch order: the tier
	// policy runs before the outbound relays see the event.
	c.Bus = events.NewBus()

	c.DownloadService = service.NewDownloadService(
		uowFactory,
		memory.NewDownloadQueueRepository(),
		files,
		service.NewStatePublisher(cfg.Sync.StateTopic, pubSub),
		syncLogger,
	)
	c.CorrelationService = service.NewCorrelationService(uowFactory, cfg.CorrelationPolicy(), sysLogger)
	c.QualityService = service.NewQualityService(uowFactory, cfg.QualityPolicy(), c.Bus, sysLogger)
	c.StorageService = service.NewStoragePolicyService(uowFactory, cfg.RetentionPolicy(), files, c.Bus, sysLogger)
	c.StorageService.Register(c.Bus)

	handler.RelayEvents(c.Bus, c.WebSocketHub)
	if natsPub != nil {
		natsPub.Relay(c.Bus, events.DomainTypes...)
	}

	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Sync.StateTopic, c.WebSocketHub, syncLogger)
	c.SyncStateHandler = handler.NewSyncStateHandler(c.DownloadService, c.WebSocketHub, syncLogger)

	// 5. Controllers
	c.SyncController = controller.NewSyncController(c.DownloadService, syncLogger)
	c.CorrelationController = controller.NewCorrelationController(c.CorrelationService)
	c.QualityController = controller.NewQualityController(c.QualityService)
	c.StorageController = controller.NewStorageController(c.StorageService)

	c.closers = append(c.closers, func() {
		sysLogger.Sync()
		syncLogger.Sync()
	})
	return c, nil
}

// Close releases broker connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
