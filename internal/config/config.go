package config

import "os"

type Config struct {
	// Addr is the storefront's own listen address.
	Addr string
	// APIBaseURL is the upstream marketplace API root.
	APIBaseURL string
	// RedisAddr enables the Redis-backed session store when set; empty
	// keeps the in-memory one.
	RedisAddr string
}

func Load() Config {
	return Config{
		Addr:       stringWithDefault("STOREFRONT_ADDR", ":8080"),
		APIBaseURL: stringWithDefault("FARM_API_URL", "http://localhost:5000"),
		RedisAddr:  os.Getenv("REDIS_ADDR"),
	}
}

func stringWithDefault(key, def string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	return v
}
