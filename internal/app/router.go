package app

import (
	"github.com/gin-gonic/gin"

	httpServer "github.com/badwolf/storefront-backend/internal/http"
	"github.com/badwolf/storefront-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, handlers Handlers) *gin.Engine {
	return httpServer.NewRouter(httpServer.RouterConfig{
		Log:             log,
		HealthHandler:   handlers.Health,
		ProductHandler:  handlers.Product,
		CategoryHandler: handlers.Category,
		CartHandler:     handlers.Cart,
		OrderHandler:    handlers.Order,
		AuthHandler:     handlers.Auth,
	})
}
