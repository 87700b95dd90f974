package app

import (
	"github.com/gin-gonic/gin"

	"github.com/fairlead/chartering-backend/internal/handlers"
	"github.com/fairlead/chartering-backend/internal/pkg/logger"
	"github.com/fairlead/chartering-backend/internal/server"
)

type Handlers struct {
	Order       *handlers.OrderHandler
	Negotiation *handlers.NegotiationHandler
	Contract    *handlers.ContractHandler
	Fixture     *handlers.FixtureHandler
	Recap       *handlers.RecapHandler
	Repair      *handlers.RepairHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Order:       handlers.NewOrderHandler(s.Order),
		Negotiation: handlers.NewNegotiationHandler(s.Negotiation, s.Analytics),
		Contract:    handlers.NewContractHandler(s.Contract),
		Fixture:     handlers.NewFixtureHandler(s.Fixture),
		Recap:       handlers.NewRecapHandler(s.Recap),
		Repair:      handlers.NewRepairHandler(s.Consistency),
	}
}

func wireRouter(cfg Config, h Handlers) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:        cfg.ServiceName,
		AllowOrigins:       cfg.AllowOrigins,
		OrderHandler:       h.Order,
		NegotiationHandler: h.Negotiation,
		ContractHandler:    h.Contract,
		FixtureHandler:     h.Fixture,
		RecapHandler:       h.Recap,
		RepairHandler:      h.Repair,
	})
}
