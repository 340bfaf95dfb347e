// File: /routes/routes.go
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"crewcall-api/config"
	"crewcall-api/controllers"
	"crewcall-api/middleware"
	"crewcall-api/models"
	"crewcall-api/services"
)

// SetupCORS builds the CORS middleware from the configured origin allowlist.
func SetupCORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowed[origin] || allowed["*"] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, token")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, hub *services.NotificationHub, otp *services.OTPService) {
	// Services
	matchingService := services.NewMatchingService(db)
	notificationService := services.NewNotificationService(db, hub)
	applicationService := services.NewApplicationService(db, notificationService)

	// Controllers
	authController := controllers.NewAuthController(db, cfg.JWTSecret)
	organiserController := controllers.NewOrganiserController(db, authController, applicationService)
	staffController := controllers.NewStaffController(db, authController, matchingService, applicationService)
	eventController := controllers.NewEventController(db, cfg, notificationService)
	notificationController := controllers.NewNotificationController(db)
	otpController := controllers.NewOTPController(otp)
	wsController := controllers.NewWSController(hub, cfg.JWTSecret)

	r.GET("/ping", func(c *gin.Context) {
		status := "healthy"
		if db == nil {
			status = "degraded"
		}
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  status,
			"online":  hub.OnlineCount(),
		})
	})

	// Uploaded media
	r.Static("/uploads", cfg.UploadDir)

	// Live notification channel
	r.GET("/ws", wsController.Connect)

	api := r.Group("/api")

	// OTP routes are rate limited and work without persistence
	otpRoutes := api.Group("/otp")
	otpRoutes.Use(middleware.RateLimit(10, 3))
	{
		otpRoutes.POST("/send-otp", otpController.SendOTP)
		otpRoutes.POST("/resend-otp", otpController.ResendOTP)
		otpRoutes.POST("/verify-otp", otpController.VerifyOTP)
	}

	// Everything below needs the database
	persistent := api.Group("/")
	persistent.Use(middleware.RequireDatabase(db))

	// Public auth routes per portal
	auth := persistent.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	organiserPublic := persistent.Group("/organiser")
	{
		organiserPublic.POST("/register", organiserController.Register)
		organiserPublic.POST("/login", organiserController.Login)
	}

	staffPublic := persistent.Group("/staff")
	{
		staffPublic.POST("/register", staffController.Register)
		staffPublic.POST("/login", staffController.Login)
	}

	// Protected routes
	protected := persistent.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		organiser := protected.Group("/organiser")
		organiser.Use(middleware.RequireRoles(models.RoleOrganiser, models.RoleAdmin))
		{
			organiser.GET("/profile", organiserController.GetProfile)
			organiser.PUT("/profile", organiserController.UpdateProfile)
			organiser.GET("/events", organiserController.GetEvents)
			organiser.POST("/events", organiserController.CreateEvent)
			organiser.GET("/events/:id", organiserController.GetEvent)
			organiser.PUT("/events/:id", organiserController.UpdateEvent)
			organiser.DELETE("/events/:id", organiserController.DeleteEvent)
			organiser.GET("/events/:id/applications", organiserController.GetEventApplications)
			organiser.POST("/events/:id/applications/:staffId/review", organiserController.ReviewApplication)
			organiser.POST("/events/:id/attachments", eventController.UploadAttachment)
		}

		staff := protected.Group("/staff")
		staff.Use(middleware.RequireRoles(models.RoleStaff))
		{
			staff.GET("/profile", staffController.GetProfile)
			staff.PUT("/profile", staffController.UpdateProfile)
			staff.GET("/events/nearby", staffController.GetNearbyEvents)
			staff.POST("/events/:eventId/apply", staffController.ApplyToEvent)
			staff.POST("/events/:eventId/cancel", staffController.CancelApplication)
			staff.GET("/applications", staffController.GetApplications)
			staff.POST("/events/:eventId/rate", staffController.RateEvent)
		}

		admin := protected.Group("/admin")
		admin.Use(middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/events/pending", eventController.GetPendingEvents)
			admin.POST("/events/:id/approve", eventController.ApproveEvent)
		}

		// Shared across roles
		protected.GET("/events/:id", eventController.GetEvent)

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", notificationController.GetNotifications)
			notifications.GET("/stats", notificationController.GetStats)
			notifications.PUT("/:id/read", notificationController.MarkAsRead)
			notifications.PUT("/read-all", notificationController.MarkAllAsRead)
		}
	}
}
