package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/badwolf/storefront-backend/internal/http/handlers"
	httpMW "github.com/badwolf/storefront-backend/internal/http/middleware"
	"github.com/badwolf/storefront-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	HealthHandler   *httpH.HealthHandler
	ProductHandler  *httpH.ProductHandler
	CategoryHandler *httpH.CategoryHandler
	CartHandler     *httpH.CartHandler
	OrderHandler    *httpH.OrderHandler
	AuthHandler     *httpH.AuthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		api.GET("", apiIndex)

		// Products
		if cfg.ProductHandler != nil {
			api.GET("/products", cfg.ProductHandler.ListProducts)
			api.GET("/products/:id", cfg.ProductHandler.GetProduct)
			api.POST("/products", cfg.ProductHandler.CreateProduct)
			api.PUT("/products/:id", cfg.ProductHandler.UpdateProduct)
			api.DELETE("/products/:id", cfg.ProductHandler.DeleteProduct)
		}

		// Categories
		if cfg.CategoryHandler != nil {
			api.GET("/categories", cfg.CategoryHandler.ListCategories)
			api.POST("/categories", cfg.CategoryHandler.CreateCategory)
		}

		// Cart
		if cfg.CartHandler != nil {
			api.GET("/cart", cfg.CartHandler.GetCart)
			api.POST("/cart/add", cfg.CartHandler.AddItem)
			api.POST("/cart/update", cfg.CartHandler.UpdateItem)
			api.POST("/cart/clear", cfg.CartHandler.ClearCart)
		}

		// Orders
		if cfg.OrderHandler != nil {
			api.GET("/orders", cfg.OrderHandler.ListOrders)
			api.GET("/orders/:id", cfg.OrderHandler.GetOrder)
			api.POST("/orders", cfg.OrderHandler.PlaceOrder)
			api.PUT("/orders/:id", cfg.OrderHandler.UpdateStatus)
			api.DELETE("/orders/:id", cfg.OrderHandler.DeleteOrder)
		}

		// Users
		if cfg.AuthHandler != nil {
			api.POST("/users/register", cfg.AuthHandler.Register)
			api.POST("/users/login", cfg.AuthHandler.Login)
			api.GET("/users/:id", cfg.AuthHandler.GetUser)
			api.PUT("/users/:id", cfg.AuthHandler.UpdateUser)
		}
	}

	return r
}

func apiIndex(c *gin.Context) {
	c.JSON(200, gin.H{
		"message": "Bad-Wolf E-commerce API",
		"version": "1.0.0",
		"endpoints": []string{
			"/api/products",
			"/api/categories",
			"/api/cart",
			"/api/orders",
			"/api/users",
		},
	})
}
