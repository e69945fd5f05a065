package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tnqbao/gau-video-service/config"
	"github.com/tnqbao/gau-video-service/consumer/worker"
	infraPkg "github.com/tnqbao/gau-video-service/infra"
	"github.com/tnqbao/gau-video-service/repository"
	"github.com/tnqbao/gau-video-service/service"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	if err := cfg.EnvConfig.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	cfg.EnvConfig.RabbitMQ.Enabled = true
	if cfg.EnvConfig.Redis.RedisHost == "" {
		log.Fatalf("REDIS_HOST is required: the consumer warms the cache shared with the API")
	}
	if cfg.EnvConfig.Database.Driver == config.DatabaseDriverMemory {
		log.Fatalf("DATABASE_DRIVER=memory is not shared with the API; use mongo or postgres")
	}

	infra := infraPkg.InitInfra(cfg)
	if infra.RabbitMQ == nil {
		log.Fatalf("RabbitMQ is required to run the consumer")
	}
	repo := repository.InitRepository(infra)

	svc, err := service.InitService(cfg, infra, repo)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	videoConsumer := worker.NewVideoConsumer(infra.RabbitMQ.Channel, svc.Video, infra.Logger)
	if err := videoConsumer.Start(ctx); err != nil {
		infra.Logger.ErrorWithContextf(ctx, err, "Failed to start Video consumer: %v", err)
		log.Fatalf("Failed to start Video consumer: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	infra.Logger.InfoWithContextf(ctx, "Shutting down consumer...")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	infra.Shutdown(shutdownCtx)

	log.Println("Consumer exited properly")
}
