package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fairlead/chartering-backend/internal/data/repos"
	"github.com/fairlead/chartering-backend/internal/domain"
	"github.com/fairlead/chartering-backend/internal/lifecycle"
	"github.com/fairlead/chartering-backend/internal/pkg/logger"
)

// ConsistencyService persists the corrector's verdict: repaired
// statuses, field-change audit rows, and a correction entry in each
// touched entity's ledger.
type ConsistencyService interface {
	// ReconcilePair runs the correction rules over an already-loaded
	// pair and persists whatever fired. Safe to call after every
	// status-affecting write.
	ReconcilePair(ctx context.Context, tx *gorm.DB, neg *domain.Negotiation, con *domain.Contract, actorID *uuid.UUID) (lifecycle.ReconcileResult, error)

	// Repair loads the pair by id and reconciles it. The standalone
	// idempotent entry point behind the repair endpoint.
	Repair(ctx context.Context, negotiationID uuid.UUID, contractID *uuid.UUID, actorID *uuid.UUID) (lifecycle.ReconcileResult, error)
}

type consistencyService struct {
	db           *gorm.DB
	log          *logger.Logger
	negotiations repos.NegotiationRepo
	contracts    repos.ContractRepo
	fieldChanges repos.FieldChangeRepo
	activity     ActivityService
}

func NewConsistencyService(
	db *gorm.DB,
	baseLog *logger.Logger,
	negotiations repos.NegotiationRepo,
	contracts repos.ContractRepo,
	fieldChanges repos.FieldChangeRepo,
	activity ActivityService,
) ConsistencyService {
	return &consistencyService{
		db:           db,
		log:          baseLog.With("service", "ConsistencyService"),
		negotiations: negotiations,
		contracts:    contracts,
		fieldChanges: fieldChanges,
		activity:     activity,
	}
}

func (s *consistencyService) ReconcilePair(ctx context.Context, tx *gorm.DB, neg *domain.Negotiation, con *domain.Contract, actorID *uuid.UUID) (lifecycle.ReconcileResult, error) {
	res := lifecycle.Reconcile(*neg, con)

	for _, warn := range res.Warnings {
		s.log.Warn("status consistency warning", "negotiation_id", neg.ID, "warning", warn)
	}
	if !res.Changed() {
		return res, nil
	}

	for _, corr := range res.Corrections {
		fields := make(map[string]any, len(corr.Deltas))
		changes := make([]*domain.FieldChange, 0, len(corr.Deltas))
		details := make([]domain.ActivityDetail, 0, len(corr.Deltas))
		for _, d := range corr.Deltas {
			fields[d.Field] = d.To
			changes = append(changes, &domain.FieldChange{
				ID:          uuid.New(),
				EntityType:  corr.EntityType,
				EntityID:    corr.EntityID,
				Field:       d.Field,
				OldValue:    d.From,
				NewValue:    d.To,
				ChangedByID: actorID,
				CreatedAt:   time.Now().UTC(),
			})
			details = append(details, domain.ActivityDetail{Label: d.Field, Value: d.To})
		}

		var err error
		switch corr.EntityType {
		case domain.EntityTypeNegotiation:
			err = s.negotiations.UpdateFields(ctx, tx, corr.EntityID, fields)
		case domain.EntityTypeContract:
			err = s.contracts.UpdateFields(ctx, tx, corr.EntityID, fields)
		}
		if err != nil {
			return res, err
		}
		if _, err := s.fieldChanges.Create(ctx, tx, changes); err != nil {
			return res, err
		}

		status := ""
		for _, d := range corr.Deltas {
			if d.Field == "status" {
				status = d.To
			}
		}
		if err := s.activity.Append(ctx, tx, ActivityInput{
			EntityType: corr.EntityType,
			EntityID:   corr.EntityID,
			Action:     domain.ActivityActionCorrected,
			Status:     status,
			Details:    details,
			ActorID:    actorID,
		}); err != nil {
			return res, err
		}

		s.log.Info("status corrected",
			"rule", corr.Rule,
			"entity_type", corr.EntityType,
			"entity_id", corr.EntityID,
			"deltas", len(corr.Deltas),
		)
	}

	// Callers keep working with the repaired pair.
	*neg = res.Negotiation
	if con != nil && res.Contract != nil {
		*con = *res.Contract
	}
	return res, nil
}

func (s *consistencyService) Repair(ctx context.Context, negotiationID uuid.UUID, contractID *uuid.UUID, actorID *uuid.UUID) (lifecycle.ReconcileResult, error) {
	neg, err := s.negotiations.GetByID(ctx, nil, negotiationID)
	if err != nil {
		return lifecycle.ReconcileResult{}, err
	}

	var con *domain.Contract
	if contractID != nil {
		con, err = s.contracts.GetByID(ctx, nil, *contractID)
	} else {
		con, err = s.contracts.GetByNegotiationID(ctx, nil, negotiationID)
	}
	if err != nil {
		return lifecycle.ReconcileResult{}, err
	}

	return s.ReconcilePair(ctx, nil, neg, con, actorID)
}
