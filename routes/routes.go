package routes

import (
	"net/http"
	"time"

	"salonai/handlers"
	"salonai/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterWebhookRoutes registers the LINE callback endpoint. It carries its
// own signature verification, so no auth middleware is applied.
func RegisterWebhookRoutes(r *gin.Engine, webhook *handlers.WebhookHandler) {
	r.POST("/api/callback", webhook.Callback)
}

// RegisterAdminRoutes sets up endpoints for salon operations.
func RegisterAdminRoutes(r *gin.Engine, admin *handlers.AdminHandler) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.AdminAuthMiddleware())
		adminGroup.GET("/availability", admin.GetAvailability)
		adminGroup.GET("/reservations", admin.ListReservations)
		adminGroup.POST("/reminders/run", admin.RunReminders)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Salon booking assistant"})
	})
	r.GET("/health", handlers.Health)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, webhook *handlers.WebhookHandler, admin *handlers.AdminHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Line-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterWebhookRoutes(r, webhook)
	RegisterAdminRoutes(r, admin)
}
