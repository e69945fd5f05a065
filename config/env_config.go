package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	DatabaseDriverMongo    = "mongo"
	DatabaseDriverPostgres = "postgres"
	DatabaseDriverMemory   = "memory"

	CDNProviderImageKit = "imagekit"
	CDNProviderMinio    = "minio"

	// ImageKit rejects client uploads whose expire is more than one hour ahead.
	MaxUploadTokenTTL     = 3600
	DefaultUploadTokenTTL = 1800
)

type EnvConfig struct {
	ImageKit struct {
		PrivateKey     string
		PublicKey      string
		URLEndpoint    string
		UploadURL      string
		UploadTokenTTL int
	}
	Database struct {
		Driver string
	}
	Mongo struct {
		URI      string
		Database string
	}
	Postgres struct {
		URL      string
		HOST     string
		Database string
		Username string
		Password string
		Port     string
	}
	JWT struct {
		SecretKey string
		Algorithm string
		Expire    int
	}
	CORS struct {
		AllowDomains string
		GlobalDomain string
	}
	Redis struct {
		Password  string
		Database  int
		RedisHost string
		RedisPort string
	}
	RabbitMQ struct {
		Enabled  bool
		Host     string
		Port     string
		Username string
		Password string
	}
	Minio struct {
		Endpoint     string
		RootUser     string
		RootPassword string
		Bucket       string
		UseSSL       bool
	}
	CDN struct {
		Provider string
	}
	Grafana struct {
		OTLPEndpoint string
		ServiceName  string
	}
	Upload struct {
		AuthRequired bool
	}
	Environment struct {
		Mode  string
		Group string
	}
	HTTPPort string
}

func LoadEnvConfig() *EnvConfig {
	var config EnvConfig

	// ImageKit
	config.ImageKit.PrivateKey = os.Getenv("IMAGEKIT_PRIVATE_KEY")
	config.ImageKit.PublicKey = os.Getenv("IMAGEKIT_PUBLIC_KEY")
	config.ImageKit.URLEndpoint = strings.TrimSuffix(os.Getenv("IMAGEKIT_URL_ENDPOINT"), "/")
	config.ImageKit.UploadURL = os.Getenv("IMAGEKIT_UPLOAD_URL")
	if config.ImageKit.UploadURL == "" {
		config.ImageKit.UploadURL = "https://upload.imagekit.io/api/v1/files/upload"
	}
	config.ImageKit.UploadTokenTTL = DefaultUploadTokenTTL
	if val := os.Getenv("UPLOAD_TOKEN_TTL"); val != "" {
		if ttl, err := strconv.Atoi(val); err == nil && ttl > 0 {
			config.ImageKit.UploadTokenTTL = ttl
		}
	}
	if config.ImageKit.UploadTokenTTL > MaxUploadTokenTTL {
		config.ImageKit.UploadTokenTTL = MaxUploadTokenTTL
	}

	config.Database.Driver = strings.ToLower(os.Getenv("DATABASE_DRIVER"))
	if config.Database.Driver == "" {
		config.Database.Driver = DatabaseDriverMongo
	}

	// MongoDB
	config.Mongo.URI = os.Getenv("MONGODB_URI")
	config.Mongo.Database = os.Getenv("MONGODB_DATABASE")
	if config.Mongo.Database == "" {
		config.Mongo.Database = "gau_video"
	}

	// Postgres
	config.Postgres.URL = os.Getenv("DATABASE_URL")
	config.Postgres.HOST = os.Getenv("PGPOOL_HOST")
	config.Postgres.Database = os.Getenv("PGPOOL_DB")
	config.Postgres.Username = os.Getenv("PGPOOL_USER")
	config.Postgres.Password = os.Getenv("PGPOOL_PASSWORD")
	config.Postgres.Port = os.Getenv("PGPOOL_PORT")
	if config.Postgres.Port == "" {
		config.Postgres.Port = "5432"
	}

	// JWT
	config.JWT.SecretKey = os.Getenv("JWT_SECRET_KEY")
	config.JWT.Algorithm = os.Getenv("JWT_ALGORITHM")
	if config.JWT.Algorithm == "" {
		config.JWT.Algorithm = "HS256"
	}

	if val := os.Getenv("JWT_EXPIRE"); val != "" {
		fmt.Sscanf(val, "%d", &config.JWT.Expire)
	} else {
		config.JWT.Expire = 3600 * 24 * 7
	}

	config.CORS.AllowDomains = os.Getenv("ALLOWED_DOMAINS")
	config.CORS.GlobalDomain = os.Getenv("GLOBAL_DOMAIN")

	config.Redis.Password = os.Getenv("REDIS_PASSWORD")
	config.Redis.Database, _ = strconv.Atoi(os.Getenv("REDIS_DB"))
	config.Redis.RedisHost = os.Getenv("REDIS_HOST")
	config.Redis.RedisPort = os.Getenv("REDIS_PORT")
	if config.Redis.RedisPort == "" {
		config.Redis.RedisPort = "6379"
	}

	// RabbitMQ is optional; events are skipped when no host is configured
	config.RabbitMQ.Host = os.Getenv("RABBITMQ_HOST")
	config.RabbitMQ.Enabled = config.RabbitMQ.Host != ""
	config.RabbitMQ.Port = os.Getenv("RABBITMQ_PORT")
	if config.RabbitMQ.Port == "" {
		config.RabbitMQ.Port = "5672"
	}
	config.RabbitMQ.Username = os.Getenv("RABBITMQ_USER")
	if config.RabbitMQ.Username == "" {
		config.RabbitMQ.Username = "guest"
	}
	config.RabbitMQ.Password = os.Getenv("RABBITMQ_PASSWORD")
	if config.RabbitMQ.Password == "" {
		config.RabbitMQ.Password = "guest"
	}

	config.Minio.Endpoint = os.Getenv("MINIO_ENDPOINT")
	config.Minio.RootUser = os.Getenv("MINIO_ROOT_USER")
	config.Minio.RootPassword = os.Getenv("MINIO_ROOT_PASSWORD")
	config.Minio.Bucket = os.Getenv("MINIO_BUCKET")
	if config.Minio.Bucket == "" {
		config.Minio.Bucket = "videos"
	}
	config.Minio.UseSSL, _ = strconv.ParseBool(os.Getenv("MINIO_USE_SSL"))

	config.CDN.Provider = strings.ToLower(os.Getenv("CDN_PROVIDER"))
	if config.CDN.Provider == "" {
		config.CDN.Provider = CDNProviderImageKit
	}

	// Grafana/OpenTelemetry, empty endpoint disables export
	grafanaEndpoint := os.Getenv("GRAFANA_OTLP_ENDPOINT")
	if strings.HasPrefix(grafanaEndpoint, "https://") {
		config.Grafana.OTLPEndpoint = strings.TrimPrefix(grafanaEndpoint, "https://")
	} else if strings.HasPrefix(grafanaEndpoint, "http://") {
		config.Grafana.OTLPEndpoint = strings.TrimPrefix(grafanaEndpoint, "http://")
	} else {
		config.Grafana.OTLPEndpoint = grafanaEndpoint
	}
	config.Grafana.ServiceName = os.Getenv("SERVICE_NAME")
	if config.Grafana.ServiceName == "" {
		config.Grafana.ServiceName = "gau-video-service"
	}

	config.Upload.AuthRequired, _ = strconv.ParseBool(os.Getenv("AUTH_REQUIRED_FOR_UPLOAD"))

	config.Environment.Mode = os.Getenv("DEPLOY_ENV")
	if config.Environment.Mode == "" {
		config.Environment.Mode = "development"
	}

	config.Environment.Group = os.Getenv("GROUP_NAME")
	if config.Environment.Group == "" {
		config.Environment.Group = "local"
	}

	config.HTTPPort = os.Getenv("HTTP_PORT")
	if config.HTTPPort == "" {
		config.HTTPPort = "8080"
	}

	return &config
}

// Validate reports every required setting that is missing. The server
// refuses to start when it returns an error.
func (c *EnvConfig) Validate() error {
	var missing []string

	if c.ImageKit.PrivateKey == "" {
		missing = append(missing, "IMAGEKIT_PRIVATE_KEY")
	}
	if c.ImageKit.PublicKey == "" {
		missing = append(missing, "IMAGEKIT_PUBLIC_KEY")
	}
	if c.JWT.SecretKey == "" {
		missing = append(missing, "JWT_SECRET_KEY")
	}

	switch c.Database.Driver {
	case DatabaseDriverMongo:
		if c.Mongo.URI == "" {
			missing = append(missing, "MONGODB_URI")
		}
	case DatabaseDriverPostgres:
		if c.Postgres.URL == "" && c.Postgres.HOST == "" {
			missing = append(missing, "DATABASE_URL or PGPOOL_HOST")
		}
	case DatabaseDriverMemory:
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}

	switch c.CDN.Provider {
	case CDNProviderImageKit:
	case CDNProviderMinio:
		if c.Minio.Endpoint == "" {
			missing = append(missing, "MINIO_ENDPOINT")
		}
	default:
		return fmt.Errorf("unsupported CDN_PROVIDER %q", c.CDN.Provider)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// PostgresDSN returns DATABASE_URL when set, otherwise a DSN assembled from the PGPOOL_* settings.
func (c *EnvConfig) PostgresDSN() string {
	if c.Postgres.URL != "" {
		return c.Postgres.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.Postgres.HOST, c.Postgres.Username, c.Postgres.Password, c.Postgres.Database, c.Postgres.Port)
}
