package app

import (
	"time"

	"github.com/badwolf/storefront-backend/internal/data/db"
	"github.com/badwolf/storefront-backend/internal/platform/envutil"
)

type Config struct {
	Port    string
	LogMode string

	Postgres db.Config

	// CartStoreBackend selects the cart persistence: postgres, redis or
	// memory (single instance only).
	CartStoreBackend string
	RedisAddr        string
	CartMaxRetries   int

	JWTSecretKey   string
	AccessTokenTTL time.Duration
}

func LoadConfig() Config {
	return Config{
		Port:    envutil.String("PORT", "8080"),
		LogMode: envutil.String("LOG_MODE", "development"),
		Postgres: db.Config{
			Host:     envutil.String("POSTGRES_HOST", "localhost"),
			Port:     envutil.String("POSTGRES_PORT", "5432"),
			User:     envutil.String("POSTGRES_USER", "postgres"),
			Password: envutil.String("POSTGRES_PASSWORD", ""),
			Name:     envutil.String("POSTGRES_NAME", "badwolf_ecommerce"),
		},
		CartStoreBackend: envutil.String("CART_STORE", "postgres"),
		RedisAddr:        envutil.String("REDIS_ADDR", "localhost:6379"),
		CartMaxRetries:   envutil.Int("CART_MAX_RETRIES", 5),
		JWTSecretKey:     envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL:   time.Duration(envutil.Int("ACCESS_TOKEN_TTL", 3600)) * time.Second,
	}
}
