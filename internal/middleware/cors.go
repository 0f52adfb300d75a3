package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/example/sunlight/internal/config"
)

// CORSMiddleware allows the storefront origins listed in CLIENT_URLS.
func CORSMiddleware(appConfig *config.Config) gin.HandlerFunc {
	origins := appConfig.AllowedOrigins()
	if len(origins) == 0 {
		panic("CLIENT_URLS for CORS is not configured")
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
