package main

import (
	"context"
	"log"
	"os"

	"github.com/bqtran/filevault/config"
	"github.com/bqtran/filevault/http/controller"
	routes "github.com/bqtran/filevault/http/route"
	infraPkg "github.com/bqtran/filevault/infra"
	"github.com/bqtran/filevault/repository"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)
	repo := repository.InitRepository(infra)

	if err := infra.Minio.EnsureBucket(context.Background()); err != nil {
		log.Fatalf("Failed to ensure MinIO bucket: %v", err)
	}

	ctrl := controller.NewController(cfg, infra, repo)

	router := routes.SetupRouter(ctrl)

	addr := ":" + cfg.EnvConfig.Server.Port
	log.Println("HTTP Server started on", addr)
	serveErr := router.Run(addr)
	if serveErr != nil {
		log.Printf("Server stopped: %v", serveErr)
	}

	// Flush buffered telemetry before the process goes away
	if err := infra.Logger.Shutdown(context.Background()); err != nil {
		log.Printf("Failed to shut down telemetry: %v", err)
	}
	if serveErr != nil {
		os.Exit(1)
	}
}
