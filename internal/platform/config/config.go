package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	RedisAddr     string
	RedisPassword string

	AuthJWTSecret string

	// TransitionTablePath points at a JSON transition table that replaces
	// the compiled defaults when set.
	TransitionTablePath string

	AllowedOrigins []string

	WorkerPollInterval time.Duration
	WorkerBatchSize    int

	EnableDeadlineCloser bool
	EnableAutoApprove    bool
	EnableOutboxRelay    bool
}

func Load() (Config, error) {
	// Local development convenience; the file is absent in deployed envs.
	_ = godotenv.Load()

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "vantage"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var origins []string
	for _, value := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			origins = append(origins, value)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		AuthJWTSecret: os.Getenv("AUTH_JWT_SECRET"),

		TransitionTablePath: os.Getenv("TRANSITION_TABLE_PATH"),

		AllowedOrigins: origins,

		WorkerPollInterval: envDuration("WORKER_POLL_INTERVAL", 30*time.Second),
		WorkerBatchSize:    envInt("WORKER_BATCH_SIZE", 100),

		EnableDeadlineCloser: envBool("ENABLE_DEADLINE_CLOSER", true),
		EnableAutoApprove:    envBool("ENABLE_AUTO_APPROVE", true),
		EnableOutboxRelay:    envBool("ENABLE_OUTBOX_RELAY", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
