package app

import (
	"gorm.io/gorm"

	redisclient "github.com/fairlead/chartering-backend/internal/clients/redis"
	"github.com/fairlead/chartering-backend/internal/pkg/logger"
	"github.com/fairlead/chartering-backend/internal/services"
)

type Services struct {
	Activity    services.ActivityService
	Refdata     services.RefdataService
	Consistency services.ConsistencyService
	Fixture     services.FixtureService
	Analytics   services.AnalyticsService
	Order       services.OrderService
	Negotiation services.NegotiationService
	Contract    services.ContractService
	Recap       services.RecapService
}

func wireServices(db *gorm.DB, log *logger.Logger, r Repos) Services {
	log.Info("Wiring services...")

	// Redis is optional; without it the refdata resolver reads the DB
	// every time.
	nameCache, err := redisclient.NewNameCache(log)
	if err != nil {
		log.Warn("redis name cache unavailable", "error", err)
		nameCache = nil
	}

	activity := services.NewActivityService(db, log, r.ActivityLog)
	refdata := services.NewRefdataService(db, log, r.Refdata, nameCache)
	consistency := services.NewConsistencyService(db, log, r.Negotiation, r.Contract, r.FieldChange, activity)
	fixture := services.NewFixtureService(db, log, r.Fixture, r.Order, r.Negotiation, r.Contract, r.RecapManager, refdata, activity)
	analytics := services.NewAnalyticsService(db, log, r.Negotiation, r.ActivityLog)
	order := services.NewOrderService(db, log, r.Order, r.FieldChange, fixture, activity)
	negotiation := services.NewNegotiationService(db, log,
		r.Negotiation, r.Order, r.Contract, r.FieldChange,
		consistency, fixture, analytics, activity,
	)
	contract := services.NewContractService(db, log,
		r.Contract, r.Negotiation, r.ContractApproval, r.ContractSignature, r.FieldChange,
		consistency, fixture, activity,
	)
	recap := services.NewRecapService(db, log, r.RecapManager, r.FieldChange, fixture, activity)

	return Services{
		Activity:    activity,
		Refdata:     refdata,
		Consistency: consistency,
		Fixture:     fixture,
		Analytics:   analytics,
		Order:       order,
		Negotiation: negotiation,
		Contract:    contract,
		Recap:       recap,
	}
}
