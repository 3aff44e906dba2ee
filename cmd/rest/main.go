package main

import (
	"context"
	"log"

	"cooking-coach-be/internal/bootstrap"
	"cooking-coach-be/internal/config"
	"cooking-coach-be/internal/server"
	"cooking-coach-be/internal/tracer"
	"cooking-coach-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 1.5 Tracing (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Tracer shutdown error: %v", err)
		}
	}()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	ctx := context.Background()
	go func() {
		log.Println("Background: Starting Pipeline Consumer...")
		if err := container.ConsumerService.Start(ctx); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()
	go func() {
		log.Println("Background: Starting Delivery Event Forwarder...")
		if err := container.NotificationService.Start(ctx); err != nil {
			log.Printf("Background Forwarder Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
