package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sgeraldes/hidock-next-sub000/internal/bootstrap"
	"github.com/sgeraldes/hidock-next-sub000/internal/config"
	"github.com/sgeraldes/hidock-next-sub000/internal/server"
	"github.com/sgeraldes/hidock-next-sub000/internal/tracer"
	"github.com/sgeraldes/hidock-next-sub000/pkg/database"
)

func main() {
	// 1. Load configuration
	cfg := config.Load()

	shutdownTracer := tracer.InitTracer(cfg.Telemetry)
	defer shutdownTracer(context.Background())

	// 2. Initialize database
	gormDB, err := database.Open(cfg.Database.Driver, cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap dependencies
	container, err := bootstrap.NewContainer(gormDB, cfg)
	if err != nil {
		log.Panicf("Unable to bootstrap: %v", err)
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Start background services
	go container.WebSocketHub.Run(ctx)
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Panicf("Unable to start queue-state consumer: %v", err)
	}

	// 5. Run server until interrupted
	srv := server.New(cfg, container)
	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
