package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	DriverMemory   = "memory"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type Config struct {
	HTTPHost string
	HTTPPort string

	StorageDriver string
	DatabaseURL   string
	RedisAddr     string

	SeedDemo bool
}

func FromEnv() (Config, error) {
	cfg := Config{
		HTTPHost:      envDefault("HTTP_HOST", "localhost"),
		HTTPPort:      envDefault("HTTP_PORT", "8092"),
		StorageDriver: envDefault("STORAGE_DRIVER", DriverMemory),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisAddr:     envDefault("REDIS_ADDR", "localhost:6379"),
		SeedDemo:      strings.TrimSpace(os.Getenv("SEED_DEMO")) == "1",
	}

	switch cfg.StorageDriver {
	case DriverMemory, DriverRedis:
	case DriverMySQL, DriverPostgres:
		if cfg.DatabaseURL == "" {
			return cfg, fmt.Errorf("DATABASE_URL is required for STORAGE_DRIVER=%s", cfg.StorageDriver)
		}
	default:
		return cfg, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	return cfg, nil
}

func envDefault(k, d string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}

	return v
}
