package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"contacts-api/api/openapi"
	"contacts-api/internal/adapter/gin/handler"
	"contacts-api/internal/adapter/gin/middleware"
	"contacts-api/internal/config"
	"contacts-api/internal/usecase/auth"
	redisclient "contacts-api/pkg/redis"
)

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	authHandler *handler.AuthHandler,
	contactHandler *handler.ContactHandler,
	userHandler *handler.UserHandler,
	authUC auth.Usecase,
	rateLimitCfg config.RateLimitConfig,
	redisClient *redisclient.Client,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(ginzap.Ginzap(log, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(log, true))
	router.Use(middleware.RequestID())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "contacts-api",
		})
	})

	// API documentation
	router.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", openapi.Spec)
	})
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	)))

	// Public routes
	router.POST("/users/", authHandler.Register)
	router.GET("/verify/:code", authHandler.VerifyEmail)
	router.POST("/token", authHandler.Login)

	// Protected routes
	authRequired := middleware.RequireAuth(authUC, log)

	users := router.Group("/users", authRequired)
	{
		users.POST("/:id/avatar", userHandler.UpdateAvatar)
	}

	contacts := router.Group("/contacts", authRequired)
	{
		contacts.POST("/", middleware.RateLimiter(rateLimitCfg, redisClient, log), contactHandler.CreateContact)
		contacts.GET("/", contactHandler.ListContacts)
		contacts.GET("/upcoming_birthdays/", contactHandler.UpcomingBirthdays)
		contacts.GET("/:id", contactHandler.GetContact)
		contacts.PUT("/:id", contactHandler.UpdateContact)
		contacts.DELETE("/:id", contactHandler.DeleteContact)
	}

	return router
}
