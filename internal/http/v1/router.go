// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"kiranapos/internal/domain/inventory"
	"kiranapos/internal/domain/outbox"
	"kiranapos/internal/domain/party"
	"kiranapos/internal/domain/reminder"
	"kiranapos/internal/domain/transaction"
	"kiranapos/internal/http/v1/handlers"
	"kiranapos/internal/http/v1/middleware"
	"kiranapos/internal/storage/postgres"
	syncengine "kiranapos/internal/sync"
	"kiranapos/pkg/logger"
)

// RouterConfig holds the wired services the router exposes.
type RouterConfig struct {
	Pool       *postgres.Pool
	Logger     *logger.Logger
	Items      *inventory.Service
	Parties    *party.Service
	Store      *transaction.Store
	Reminders  *reminder.Service
	OutboxRepo outbox.Repository
	Engine     *syncengine.Engine
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.ActorContext())

	base := handlers.NewBaseHandler()

	health := router.Group("/health")
	handlers.NewHealthHandler(cfg.Pool).RegisterRoutes(health)

	api := router.Group("/api/v1")
	{
		handlers.NewItemHandler(base, cfg.Items).RegisterRoutes(api.Group("/items"))
		handlers.NewPartyHandler(base, cfg.Parties).RegisterRoutes(api.Group("/parties"))
		handlers.NewTransactionHandler(base, cfg.Store).RegisterRoutes(api.Group("/transactions"))
		handlers.NewReminderHandler(base, cfg.Reminders).RegisterRoutes(api.Group("/reminders"))
		handlers.NewOutboxHandler(base, cfg.OutboxRepo, cfg.Engine).RegisterRoutes(api.Group("/outbox"))
		handlers.NewSyncHandler(base, cfg.Engine).RegisterRoutes(api.Group("/sync"))
	}

	return router
}
