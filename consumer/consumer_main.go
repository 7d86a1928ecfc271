package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bqtran/filevault/config"
	"github.com/bqtran/filevault/consumer/worker"
	infraPkg "github.com/bqtran/filevault/infra"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load("../.env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)

	// Initialize context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanupConsumer := worker.NewCleanupConsumer(infra.RabbitMQ.Channel, infra)
	if err := cleanupConsumer.Start(ctx); err != nil {
		infra.Logger.ErrorWithContextf(ctx, err, "Failed to start Cleanup consumer: %v", err)
		log.Fatalf("Failed to start Cleanup consumer: %v", err)
	}

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	infra.Logger.InfoWithContextf(ctx, "Shutting down consumer...")
	cancel() // Cancel context to stop consumers

	infra.Logger.InfoWithContextf(context.Background(), "Consumer exited properly")
	if err := infra.Logger.Shutdown(context.Background()); err != nil {
		log.Printf("Telemetry shutdown: %v", err)
	}
}
