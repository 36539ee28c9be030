package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/badwolf/storefront-backend/internal/catalog"
	"github.com/badwolf/storefront-backend/internal/data/cartstore"
	"github.com/badwolf/storefront-backend/internal/platform/logger"
	"github.com/badwolf/storefront-backend/internal/services"
)

type Services struct {
	Cart     services.CartService
	Order    services.OrderService
	Product  services.ProductService
	Category services.CategoryService
	Auth     services.AuthService
}

func wireCartStore(db *gorm.DB, cfg Config, log *logger.Logger) (cartstore.Store, error) {
	switch cfg.CartStoreBackend {
	case "postgres", "":
		return cartstore.NewGormStore(db, log), nil
	case "redis":
		return cartstore.NewRedisStore(cfg.RedisAddr, log)
	case "memory":
		log.Warn("Using the in-memory cart store; carts are lost on restart")
		return cartstore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown cart store backend %q", cfg.CartStoreBackend)
	}
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, store cartstore.Store) Services {
	log.Info("Wiring services...")
	lookup := catalog.NewLookup(reposet.Product, log)
	return Services{
		Cart:     services.NewCartService(store, lookup, log, cfg.CartMaxRetries),
		Order:    services.NewOrderService(db, reposet.Order, store, log, cfg.CartMaxRetries),
		Product:  services.NewProductService(db, reposet.Product, log),
		Category: services.NewCategoryService(db, reposet.Category, log),
		Auth:     services.NewAuthService(db, reposet.User, log, cfg.JWTSecretKey, cfg.AccessTokenTTL),
	}
}
