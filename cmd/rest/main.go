package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"neomind-chat-be/internal/bootstrap"
	"neomind-chat-be/internal/config"
	"neomind-chat-be/internal/server"
	"neomind-chat-be/internal/tracer"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer
	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled, cfg.App.OtelEndpoint)
	defer shutdownTracer(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Initialize Stores
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	uowFactory, closeStore, err := bootstrap.OpenStore(connectCtx, cfg)
	cancel()
	if err != nil {
		log.Panicf("Unable to open store: %v", err)
	}
	defer closeStore(context.Background())

	// 4. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(uowFactory, cfg, bootstrap.Options{})
	if err != nil {
		log.Panicf("Unable to build container: %v", err)
	}
	defer container.Close()

	// 5. Start Background Services
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("Background Consumer Error: %v", err)
	}
	go container.WebSocketHub.Run(ctx)

	// 6. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	// 7. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
