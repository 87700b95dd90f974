package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fairlead/chartering-backend/internal/data/repos"
	"github.com/fairlead/chartering-backend/internal/domain"
	"github.com/fairlead/chartering-backend/internal/lifecycle"
	"github.com/fairlead/chartering-backend/internal/pkg/logger"
)

// AnalyticsService mines a negotiation's activity ledger into the rate
// summary columns. Replay-safe: recomputing over an unchanged ledger
// writes the same values.
type AnalyticsService interface {
	Recompute(ctx context.Context, tx *gorm.DB, negotiationID uuid.UUID) (lifecycle.NegotiationAnalytics, error)
}

type analyticsService struct {
	db           *gorm.DB
	log          *logger.Logger
	negotiations repos.NegotiationRepo
	activity     repos.ActivityLogRepo
}

func NewAnalyticsService(db *gorm.DB, baseLog *logger.Logger, negotiations repos.NegotiationRepo, activity repos.ActivityLogRepo) AnalyticsService {
	return &analyticsService{
		db:           db,
		log:          baseLog.With("service", "AnalyticsService"),
		negotiations: negotiations,
		activity:     activity,
	}
}

func (s *analyticsService) Recompute(ctx context.Context, tx *gorm.DB, negotiationID uuid.UUID) (lifecycle.NegotiationAnalytics, error) {
	neg, err := s.negotiations.GetByID(ctx, tx, negotiationID)
	if err != nil {
		return lifecycle.NegotiationAnalytics{}, err
	}
	rows, err := s.activity.ListByEntityAsc(ctx, tx, domain.EntityTypeNegotiation, negotiationID)
	if err != nil {
		return lifecycle.NegotiationAnalytics{}, err
	}
	history := make([]domain.ActivityLog, 0, len(rows))
	for _, r := range rows {
		history = append(history, *r)
	}

	summary := lifecycle.ComputeNegotiationAnalytics(*neg, history)

	fields := map[string]any{
		"freight_first_rate":              summary.Freight.First,
		"freight_highest_rate":            summary.Freight.Highest,
		"freight_lowest_rate":             summary.Freight.Lowest,
		"freight_first_rate_last_day":     summary.Freight.FirstLastDay,
		"freight_highest_rate_last_day":   summary.Freight.HighestLastDay,
		"freight_lowest_rate_last_day":    summary.Freight.LowestLastDay,
		"demurrage_first_rate":            summary.Demurrage.First,
		"demurrage_highest_rate":          summary.Demurrage.Highest,
		"demurrage_lowest_rate":           summary.Demurrage.Lowest,
		"demurrage_first_rate_last_day":   summary.Demurrage.FirstLastDay,
		"demurrage_highest_rate_last_day": summary.Demurrage.HighestLastDay,
		"demurrage_lowest_rate_last_day":  summary.Demurrage.LowestLastDay,
	}
	if err := s.negotiations.UpdateDerivedRates(ctx, tx, negotiationID, fields); err != nil {
		return summary, err
	}

	s.log.Debug("rate analytics recomputed",
		"negotiation_id", negotiationID,
		"freight_samples", summary.Freight.SamplesFound,
		"demurrage_samples", summary.Demurrage.SamplesFound,
	)
	return summary, nil
}
