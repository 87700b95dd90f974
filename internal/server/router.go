package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/fairlead/chartering-backend/internal/handlers"
	"github.com/fairlead/chartering-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName        string
	AllowOrigins       []string
	OrderHandler       *handlers.OrderHandler
	NegotiationHandler *handlers.NegotiationHandler
	ContractHandler    *handlers.ContractHandler
	FixtureHandler     *handlers.FixtureHandler
	RecapHandler       *handlers.RecapHandler
	RepairHandler      *handlers.RepairHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.RequestID())
	router.Use(otelgin.Middleware(cfg.ServiceName))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5174"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Orders
		api.POST("/orders", cfg.OrderHandler.Create)
		api.GET("/orders/:id", cfg.OrderHandler.GetByID)
		api.PATCH("/orders/:id", cfg.OrderHandler.Update)

		// Negotiations
		api.POST("/negotiations", cfg.NegotiationHandler.Create)
		api.GET("/negotiations/:id", cfg.NegotiationHandler.GetByID)
		api.PATCH("/negotiations/:id", cfg.NegotiationHandler.Update)
		api.POST("/negotiations/:id/status", cfg.NegotiationHandler.UpdateStatus)
		api.POST("/negotiations/:id/analytics", cfg.NegotiationHandler.RecomputeAnalytics)

		// Contracts
		api.POST("/contracts", cfg.ContractHandler.Create)
		api.GET("/contracts/:id", cfg.ContractHandler.GetByID)
		api.POST("/contracts/:id/status", cfg.ContractHandler.UpdateStatus)

		// Fixtures
		api.POST("/fixtures/order", cfg.FixtureHandler.CreateForOrder)
		api.POST("/fixtures/contract", cfg.FixtureHandler.CreateForContract)
		api.GET("/fixtures/:id", cfg.FixtureHandler.GetByID)
		api.POST("/fixtures/:id/repair-rollups", cfg.FixtureHandler.RepairRollups)

		// Recaps
		api.POST("/recaps", cfg.RecapHandler.Create)
		api.GET("/recaps/:id", cfg.RecapHandler.GetByID)
		api.PATCH("/recaps/:id", cfg.RecapHandler.Update)

		// Repair
		api.POST("/repair/status-consistency", cfg.RepairHandler.StatusConsistency)
	}

	return router
}
