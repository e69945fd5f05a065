package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tnqbao/gau-video-service/config"
	"github.com/tnqbao/gau-video-service/http/controller"
	"github.com/tnqbao/gau-video-service/http/route"
	infraPkg "github.com/tnqbao/gau-video-service/infra"
	"github.com/tnqbao/gau-video-service/repository"
	"github.com/tnqbao/gau-video-service/service"
)

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	if err := cfg.EnvConfig.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	infra := infraPkg.InitInfra(cfg)
	repo := repository.InitRepository(infra)

	svc, err := service.InitService(cfg, infra, repo)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	ctrl := controller.NewController(cfg, infra, repo, svc)

	router := routes.SetupRouter(ctrl)

	server := &http.Server{
		Addr:              ":" + cfg.EnvConfig.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Println("HTTP Server started on", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	if err := infra.Shutdown(ctx); err != nil {
		log.Printf("Infra shutdown error: %v", err)
	}
	log.Println("HTTP Server stopped")
}
