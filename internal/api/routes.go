package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/sunlight/internal/core"
	"github.com/example/sunlight/internal/middleware"
)

// Version is reported by GET /.
const Version = "1.0.0"

// Services bundles the core services the routes depend on.
type Services struct {
	Carts      core.CartService
	Users      core.UserService
	Orders     core.OrderService
	Newsletter core.NewsletterService
	Catalog    core.CatalogService
}

// SetupRoutes registers every route on router. Global middleware (logging,
// recovery, CORS) is expected to be installed by the caller.
func SetupRoutes(router *gin.Engine, logger *zap.Logger, authMW *middleware.AuthMiddleware, svc Services) {
	cartHandler := NewCartHandler(svc.Carts, logger)
	authHandler := NewAuthHandler(svc.Users, logger)
	orderHandler := NewOrderHandler(svc.Orders, logger)
	newsletterHandler := NewNewsletterHandler(svc.Newsletter, logger)
	productHandler := NewProductHandler(svc.Catalog, logger)
	contactHandler := NewContactHandler(logger)

	router.GET("/", serviceInfo)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
	router.GET("/favicon.ico", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	apiGroup := router.Group("/api")
	{
		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/signup", authHandler.SignUp)
			authGroup.POST("/signin", authHandler.SignIn)
			authGroup.POST("/send-verification", authHandler.SendVerification)
			authGroup.POST("/verify-email", authHandler.VerifyEmail)
		}

		cartGroup := apiGroup.Group("/cart", authMW.VerifyToken())
		{
			cartGroup.GET("", cartHandler.GetCart)
			cartGroup.POST("", cartHandler.SyncCart)
			cartGroup.DELETE("", cartHandler.ClearCart)
			cartGroup.PUT("/item", cartHandler.UpdateItem)
			cartGroup.DELETE("/item/:productId", cartHandler.RemoveItem)
		}

		productGroup := apiGroup.Group("/products")
		{
			productGroup.GET("", productHandler.ListProducts)
			productGroup.GET("/featured", productHandler.ListFeatured)
			productGroup.GET("/:id", productHandler.GetProduct)
		}

		newsletterGroup := apiGroup.Group("/newsletter")
		{
			newsletterGroup.POST("", newsletterHandler.Subscribe)
			newsletterGroup.GET("/confirm/:token", newsletterHandler.Confirm)
			newsletterGroup.GET("/stats", authMW.VerifyToken(), newsletterHandler.Stats)
		}

		apiGroup.POST("/contact", contactHandler.Submit)
		apiGroup.POST("/checkout", authMW.VerifyToken(), orderHandler.Checkout)

		orderGroup := apiGroup.Group("/orders", authMW.VerifyToken())
		{
			orderGroup.GET("", orderHandler.ListOrders)
			orderGroup.GET("/:orderId", orderHandler.GetOrder)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "Route not found")
	})
}

func serviceInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "SunLight API Server",
		"version": Version,
		"endpoints": gin.H{
			"products":   "/api/products",
			"featured":   "/api/products/featured",
			"newsletter": "POST /api/newsletter",
			"cart":       "/api/cart",
			"auth":       "/api/auth",
		},
	})
}
