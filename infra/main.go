package infra

import (
	"context"
	"errors"
	"log"

	"github.com/tnqbao/gau-video-service/config"
	"github.com/tnqbao/gau-video-service/infra/produce"
)

type Infra struct {
	Logger    *LoggerClient
	Telemetry *TelemetryClient
	Cache     Cache
	Redis     *RedisClient
	Postgres  *PostgresClient
	Mongo     *MongoClient
	RabbitMQ  *RabbitMQClient
	Produce   *produce.Produce
	Minio     *MinioClient
}

var infraInstance *Infra

// InitInfra connects every backing service once per process. Later calls
// return the same instance.
func InitInfra(cfg *config.Config) *Infra {
	if infraInstance != nil {
		return infraInstance
	}

	env := cfg.EnvConfig

	logger := InitLoggerClient(env)
	if logger == nil {
		panic("Failed to initialize Logger service")
	}

	telemetry := InitTelemetryClient(env)

	instance := &Infra{
		Logger:    logger,
		Telemetry: telemetry,
	}

	if env.Redis.RedisHost != "" {
		redis := InitRedisClient(env)
		if redis == nil {
			panic("Failed to initialize Redis service")
		}
		instance.Redis = redis
		instance.Cache = redis
	} else {
		log.Println("REDIS_HOST not set, using in-process cache")
		instance.Cache = NewMemoryCache()
	}

	switch env.Database.Driver {
	case config.DatabaseDriverPostgres:
		instance.Postgres = InitPostgresClient(env)
		if instance.Postgres == nil {
			panic("Failed to initialize Postgres service")
		}
	case config.DatabaseDriverMongo:
		instance.Mongo = InitMongoClient(env)
		if instance.Mongo == nil {
			panic("Failed to initialize MongoDB service")
		}
	}

	if env.RabbitMQ.Enabled {
		rabbitMQ := InitRabbitMQClient(env)
		if rabbitMQ == nil {
			log.Println("Warning: RabbitMQ unavailable, domain events will not be published")
		} else {
			instance.RabbitMQ = rabbitMQ
			instance.Produce = produce.InitProduce(rabbitMQ.Channel)
		}
	}

	if env.CDN.Provider == config.CDNProviderMinio {
		instance.Minio = InitMinioClient(env)
	}

	infraInstance = instance
	return infraInstance
}

func (i *Infra) Shutdown(ctx context.Context) error {
	var errs []error
	if i.RabbitMQ != nil {
		errs = append(errs, i.RabbitMQ.Close())
	}
	if i.Mongo != nil {
		errs = append(errs, i.Mongo.Disconnect(ctx))
	}
	if i.Redis != nil {
		errs = append(errs, i.Redis.Client.Close())
	}
	if i.Telemetry != nil {
		errs = append(errs, i.Telemetry.Shutdown(ctx))
	}
	if i.Logger != nil {
		errs = append(errs, i.Logger.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
