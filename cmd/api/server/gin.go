package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"contacts-api/cmd/api/di"
	ginrouter "contacts-api/internal/adapter/gin/router"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(container *di.Container, addr string, l *zap.Logger) *http.Server {
	// Setup Gin router with all middleware and routes
	router := ginrouter.SetupRouter(
		container.AuthHandler,
		container.ContactHandler,
		container.UserHandler,
		container.AuthUC,
		container.Config.RateLimit,
		container.RedisClient,
		l,
	)

	l.Info("REST API configured", zap.String("address", addr))

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
