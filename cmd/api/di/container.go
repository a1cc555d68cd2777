package di

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"contacts-api/cmd/api/infrastructure"
	"contacts-api/internal/adapter/cache"
	"contacts-api/internal/adapter/db/postgres"
	ginhandler "contacts-api/internal/adapter/gin/handler"
	"contacts-api/internal/adapter/repository/cached"
	"contacts-api/internal/config"
	authusecase "contacts-api/internal/usecase/auth"
	contactusecase "contacts-api/internal/usecase/contact"
	userusecase "contacts-api/internal/usecase/user"
	"contacts-api/pkg/imagestore"
	"contacts-api/pkg/mail"
	redisclient "contacts-api/pkg/redis"
	"contacts-api/pkg/security"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client

	AuthUC    authusecase.Usecase
	ContactUC contactusecase.Usecase
	UserUC    userusecase.Usecase

	AuthHandler    *ginhandler.AuthHandler
	ContactHandler *ginhandler.ContactHandler
	UserHandler    *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Initialize database
	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize Redis client
	rdb, err := infrastructure.NewRedisClient(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	// Initialize cache layer
	contactCache := cache.NewRedisContactCache(
		rdb.Client,
		time.Duration(cfg.Redis.CacheTTL)*time.Second,
		l,
	)

	// Initialize repositories
	userRepo := postgres.NewUserRepoPG(db, l)
	contactRepo := cached.NewCachedContactRepository(postgres.NewContactRepoPG(db, l), contactCache, l)

	// Initialize security primitives
	hasher := security.NewPasswordHasher(cfg.Auth.BcryptCost)
	tokens := security.NewTokenManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.JWTIssuer,
		time.Duration(cfg.Auth.TokenExpiryMinutes)*time.Minute,
	)

	// Initialize outbound services
	mailer := mail.NewSMTPSender(mail.Config{
		Host:        cfg.SMTP.Host,
		Port:        cfg.SMTP.Port,
		Username:    cfg.SMTP.Username,
		Password:    cfg.SMTP.Password,
		FromAddress: cfg.SMTP.FromAddress,
		FromName:    cfg.SMTP.FromName,
	}, l)

	uploader := imagestore.NewCloudinaryClient(imagestore.Config{
		CloudName: cfg.Cloudinary.CloudName,
		APIKey:    cfg.Cloudinary.APIKey,
		APISecret: cfg.Cloudinary.APISecret,
		BaseURL:   cfg.Cloudinary.BaseURL,
		Folder:    cfg.Cloudinary.Folder,
	}, l)

	// Initialize use cases
	authUC := authusecase.New(userRepo, hasher, tokens, mailer, l)
	contactUC := contactusecase.New(contactRepo, l)
	userUC := userusecase.New(userRepo, uploader, l)

	// Initialize Gin handlers
	authHandler := ginhandler.NewAuthHandler(authUC, l)
	contactHandler := ginhandler.NewContactHandler(contactUC, l)
	userHandler := ginhandler.NewUserHandler(userUC, l)

	return &Container{
		Config:         cfg,
		Logger:         l,
		DB:             db,
		RedisClient:    rdb,
		AuthUC:         authUC,
		ContactUC:      contactUC,
		UserUC:         userUC,
		AuthHandler:    authHandler,
		ContactHandler: contactHandler,
		UserHandler:    userHandler,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
