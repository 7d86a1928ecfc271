package config

import (
	"os"
	"strconv"
	"strings"
)

type EnvConfig struct {
	Server struct {
		Port string
	}
	Auth struct {
		AccessPassword   string
		MaxLoginFailures int64
		LockoutMinutes   int
	}
	Postgres struct {
		HOST     string
		Database string
		Username string
		Password string
		Port     string
	}
	Redis struct {
		Password  string
		Database  int
		RedisHost string
		RedisPort string
	}
	RabbitMQ struct {
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
		PublicURL    string
	}
	CORS struct {
		AllowDomains string
	}
	Grafana struct {
		OTLPEndpoint string
		ServiceName  string
	}
	Environment struct {
		Mode  string
		Group string
	}
}

func LoadEnvConfig() *EnvConfig {
	var config EnvConfig

	config.Server.Port = os.Getenv("PORT")
	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}

	// Auth
	config.Auth.AccessPassword = os.Getenv("ACCESS_PASSWORD")
	if val := os.Getenv("MAX_LOGIN_FAILURES"); val != "" {
		if failures, err := strconv.ParseInt(val, 10, 64); err == nil {
			config.Auth.MaxLoginFailures = failures
		}
	}
	if config.Auth.MaxLoginFailures == 0 {
		config.Auth.MaxLoginFailures = 10
	}
	if val := os.Getenv("LOGIN_LOCKOUT_MINUTES"); val != "" {
		if minutes, err := strconv.Atoi(val); err == nil {
			config.Auth.LockoutMinutes = minutes
		}
	}
	if config.Auth.LockoutMinutes == 0 {
		config.Auth.LockoutMinutes = 15
	}

	// Postgres
	config.Postgres.HOST = os.Getenv("PGPOOL_HOST")
	config.Postgres.Database = os.Getenv("PGPOOL_DB")
	config.Postgres.Username = os.Getenv("PGPOOL_USER")
	config.Postgres.Password = os.Getenv("PGPOOL_PASSWORD")
	config.Postgres.Port = os.Getenv("PGPOOL_PORT")
	if config.Postgres.Port == "" {
		config.Postgres.Port = "5432"
	}

	config.Redis.Password = os.Getenv("REDIS_PASSWORD")
	config.Redis.Database, _ = strconv.Atoi(os.Getenv("REDIS_DB"))
	config.Redis.RedisHost = os.Getenv("REDIS_HOST")
	config.Redis.RedisPort = os.Getenv("REDIS_PORT")
	if config.Redis.RedisPort == "" {
		config.Redis.RedisPort = "6379"
	}

	// RabbitMQ
	config.RabbitMQ.Host = os.Getenv("RABBITMQ_HOST")
	if config.RabbitMQ.Host == "" {
		config.RabbitMQ.Host = "localhost"
	}
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

	// MinIO
	config.Minio.Endpoint = os.Getenv("MINIO_ENDPOINT")
	config.Minio.RootUser = os.Getenv("MINIO_ROOT_USER")
	config.Minio.RootPassword = os.Getenv("MINIO_ROOT_PASSWORD")
	config.Minio.Bucket = os.Getenv("MINIO_BUCKET")
	if config.Minio.Bucket == "" {
		config.Minio.Bucket = "filevault"
	}
	config.Minio.UseSSL = os.Getenv("MINIO_USE_SSL") == "true"
	config.Minio.PublicURL = strings.TrimSuffix(os.Getenv("MINIO_PUBLIC_URL"), "/")
	if config.Minio.PublicURL == "" {
		scheme := "http"
		if config.Minio.UseSSL {
			scheme = "https"
		}
		config.Minio.PublicURL = scheme + "://" + config.Minio.Endpoint
	}

	config.CORS.AllowDomains = os.Getenv("ALLOWED_DOMAINS")

	// Grafana/OpenTelemetry
	otlpEndpoint := os.Getenv("GRAFANA_OTLP_ENDPOINT")
	// Remove protocol for OpenTelemetry client to avoid duplicate protocols
	if strings.HasPrefix(otlpEndpoint, "https://") {
		config.Grafana.OTLPEndpoint = strings.TrimPrefix(otlpEndpoint, "https://")
	} else if strings.HasPrefix(otlpEndpoint, "http://") {
		config.Grafana.OTLPEndpoint = strings.TrimPrefix(otlpEndpoint, "http://")
	} else {
		config.Grafana.OTLPEndpoint = otlpEndpoint
	}
	config.Grafana.ServiceName = os.Getenv("SERVICE_NAME")
	if config.Grafana.ServiceName == "" {
		config.Grafana.ServiceName = "filevault"
	}

	config.Environment.Mode = os.Getenv("DEPLOY_ENV")
	if config.Environment.Mode == "" {
		config.Environment.Mode = "development"
	}
	config.Environment.Group = os.Getenv("GROUP_NAME")
	if config.Environment.Group == "" {
		config.Environment.Group = "local"
	}

	return &config
}
