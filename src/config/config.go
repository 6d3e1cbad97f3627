package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string
	ElasticURL string
	Index      string

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration
}

func Load() Config {
	_ = godotenv.Load()

	return Config{
		ListenAddr:    envOr("LISTEN_ADDR", ":8888"),
		ElasticURL:    envOr("ELASTIC_URL", "http://localhost:9200"),
		Index:         envOr("ELASTIC_INDEX", "locations"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CacheTTL:      secondsEnv("CACHE_TTL_SECONDS", 60),
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func secondsEnv(k string, def int) time.Duration {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(def) * time.Second
}
