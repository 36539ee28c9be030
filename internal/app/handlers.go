package app

import (
	httpH "github.com/badwolf/storefront-backend/internal/http/handlers"
	"github.com/badwolf/storefront-backend/internal/platform/logger"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Product  *httpH.ProductHandler
	Category *httpH.CategoryHandler
	Cart     *httpH.CartHandler
	Order    *httpH.OrderHandler
	Auth     *httpH.AuthHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(),
		Product:  httpH.NewProductHandler(serviceset.Product),
		Category: httpH.NewCategoryHandler(serviceset.Category),
		Cart:     httpH.NewCartHandler(serviceset.Cart),
		Order:    httpH.NewOrderHandler(serviceset.Order),
		Auth:     httpH.NewAuthHandler(serviceset.Auth),
	}
}
