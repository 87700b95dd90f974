package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fairlead/chartering-backend/internal/data/repos"
	"github.com/fairlead/chartering-backend/internal/domain"
	"github.com/fairlead/chartering-backend/internal/lifecycle"
	apperrors "github.com/fairlead/chartering-backend/internal/pkg/errors"
	"github.com/fairlead/chartering-backend/internal/pkg/logger"
)

const (
	partyRoleOwner     = "owner"
	partyRoleCharterer = "charterer"
)

// contractTransitions is the allowed user-driven progression. The
// corrector may still move a contract outside this table when repairing
// an inconsistent pair.
var contractTransitions = map[string][]string{
	domain.ContractStatusDraft:       {domain.ContractStatusWorkingCopy, domain.ContractStatusFinal, domain.ContractStatusRejected},
	domain.ContractStatusWorkingCopy: {domain.ContractStatusFinal, domain.ContractStatusRejected},
	domain.ContractStatusFinal:       {},
	domain.ContractStatusRejected:    {},
}

// CreateContractInput covers both paths: derived from a negotiation, or
// out-of-trade with no order/negotiation links.
type CreateContractInput struct {
	ContractType string

	NegotiationID *uuid.UUID

	LoadDeliveryType      string
	DischargeDeliveryType string

	OwnerCompanyID     *uuid.UUID
	ChartererCompanyID *uuid.UUID
	VesselID           *uuid.UUID
	LoadPortID         *uuid.UUID
	DischargePortID    *uuid.UUID
	CargoTypeID        *uuid.UUID

	ActorID *uuid.UUID
}

type ContractService interface {
	Create(ctx context.Context, in CreateContractInput) (*domain.Contract, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string, actorID *uuid.UUID) (*domain.Contract, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error)
}

type contractService struct {
	db           *gorm.DB
	log          *logger.Logger
	contracts    repos.ContractRepo
	negotiations repos.NegotiationRepo
	approvals    repos.ContractApprovalRepo
	signatures   repos.ContractSignatureRepo
	fieldChanges repos.FieldChangeRepo
	consistency  ConsistencyService
	fixtures     FixtureService
	activity     ActivityService
}

func NewContractService(
	db *gorm.DB,
	baseLog *logger.Logger,
	contracts repos.ContractRepo,
	negotiations repos.NegotiationRepo,
	approvals repos.ContractApprovalRepo,
	signatures repos.ContractSignatureRepo,
	fieldChanges repos.FieldChangeRepo,
	consistency ConsistencyService,
	fixtures FixtureService,
	activity ActivityService,
) ContractService {
	return &contractService{
		db:           db,
		log:          baseLog.With("service", "ContractService"),
		contracts:    contracts,
		negotiations: negotiations,
		approvals:    approvals,
		signatures:   signatures,
		fieldChanges: fieldChanges,
		consistency:  consistency,
		fixtures:     fixtures,
		activity:     activity,
	}
}

func (s *contractService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	return s.contracts.GetByID(ctx, nil, id)
}

func (s *contractService) Create(ctx context.Context, in CreateContractInput) (*domain.Contract, error) {
	now := time.Now().UTC()
	con := &domain.Contract{
		ID:                    uuid.New(),
		ContractNumber:        recordNumber("CON"),
		ContractType:          in.ContractType,
		Status:                domain.ContractStatusDraft,
		ApprovalStatus:        domain.ContractApprovalPending,
		LoadDeliveryType:      in.LoadDeliveryType,
		DischargeDeliveryType: in.DischargeDeliveryType,
		OwnerCompanyID:        in.OwnerCompanyID,
		ChartererCompanyID:    in.ChartererCompanyID,
		VesselID:              in.VesselID,
		LoadPortID:            in.LoadPortID,
		DischargePortID:       in.DischargePortID,
		CargoTypeID:           in.CargoTypeID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	var neg *domain.Negotiation
	if in.NegotiationID != nil {
		var err error
		neg, err = s.negotiations.GetByID(ctx, nil, *in.NegotiationID)
		if err != nil {
			return nil, fmt.Errorf("negotiation %s: %w", *in.NegotiationID, err)
		}
		con.NegotiationID = &neg.ID
		con.OrderID = &neg.OrderID
		if fix, err := s.fixtures.ResolveForContract(ctx, nil, &domain.Contract{OrderID: &neg.OrderID}); err != nil {
			return nil, err
		} else if fix != nil {
			con.FixtureID = &fix.ID
		}
	}

	if _, err := s.contracts.Create(ctx, nil, []*domain.Contract{con}); err != nil {
		return nil, err
	}

	var steps []lifecycle.Step
	if neg == nil {
		// Out-of-trade: the contract gets its own umbrella fixture.
		steps = append(steps, lifecycle.Step{Name: "open-fixture", Run: func(ctx context.Context) error {
			fix, err := s.fixtures.CreateForContract(ctx, nil, con.ID)
			if err != nil {
				return err
			}
			con.FixtureID = &fix.ID
			return nil
		}})
	} else {
		steps = append(steps, s.reconcileStep(con, in.ActorID))
	}
	steps = append(steps,
		s.rollupStep(con),
		lifecycle.Step{Name: "append-activity", Run: func(ctx context.Context) error {
			return s.activity.Append(ctx, nil, ActivityInput{
				EntityType: domain.EntityTypeContract,
				EntityID:   con.ID,
				Action:     domain.ActivityActionCreated,
				Status:     con.Status,
				ActorID:    in.ActorID,
			})
		}},
	)
	s.runDerivedSteps(ctx, con, "create", steps...)
	return con, nil
}

func (s *contractService) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string, actorID *uuid.UUID) (*domain.Contract, error) {
	if !domain.IsValidContractStatus(newStatus) {
		return nil, fmt.Errorf("%w: contract status %q", apperrors.ErrInvalidStatus, newStatus)
	}

	con, err := s.contracts.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	oldStatus := con.Status
	if oldStatus == newStatus {
		return con, nil
	}
	if !transitionAllowed(oldStatus, newStatus) {
		return nil, fmt.Errorf("%w: contract cannot move %s -> %s", apperrors.ErrInvalidStatus, oldStatus, newStatus)
	}

	fields := map[string]any{
		"status":     newStatus,
		"updated_at": time.Now().UTC(),
	}
	if newStatus == domain.ContractStatusFinal {
		fields["approval_status"] = domain.ContractApprovalSigned
	}
	if err := s.contracts.UpdateFields(ctx, nil, id, fields); err != nil {
		return nil, err
	}
	con.Status = newStatus
	if newStatus == domain.ContractStatusFinal {
		con.ApprovalStatus = domain.ContractApprovalSigned
	}

	steps := []lifecycle.Step{
		{Name: "record-field-changes", Run: func(ctx context.Context) error {
			_, err := s.fieldChanges.Create(ctx, nil, []*domain.FieldChange{{
				ID:          uuid.New(),
				EntityType:  domain.EntityTypeContract,
				EntityID:    id,
				Field:       "status",
				OldValue:    oldStatus,
				NewValue:    newStatus,
				ChangedByID: actorID,
				CreatedAt:   time.Now().UTC(),
			}})
			return err
		}},
	}
	if newStatus == domain.ContractStatusFinal {
		steps = append(steps, lifecycle.Step{Name: "record-signing", Run: func(ctx context.Context) error {
			return s.recordSigning(ctx, con, actorID)
		}})
	}
	steps = append(steps,
		s.reconcileStep(con, actorID),
		s.rollupStep(con),
		lifecycle.Step{Name: "append-activity", Run: func(ctx context.Context) error {
			return s.activity.Append(ctx, nil, ActivityInput{
				EntityType: domain.EntityTypeContract,
				EntityID:   id,
				Action:     domain.ActivityActionStatusChange,
				Status:     newStatus,
				ActorID:    actorID,
			})
		}},
	)
	s.runDerivedSteps(ctx, con, "status", steps...)
	return con, nil
}

// recordSigning writes the per-party approval and signature satellite
// rows when a contract reaches final.
func (s *contractService) recordSigning(ctx context.Context, con *domain.Contract, actorID *uuid.UUID) error {
	now := time.Now().UTC()
	var approvals []*domain.ContractApproval
	var signatures []*domain.ContractSignature
	for _, role := range []string{partyRoleOwner, partyRoleCharterer} {
		approvals = append(approvals, &domain.ContractApproval{
			ID:         uuid.New(),
			ContractID: con.ID,
			PartyRole:  role,
			Status:     domain.ContractApprovalSigned,
			DecidedAt:  &now,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		signatures = append(signatures, &domain.ContractSignature{
			ID:         uuid.New(),
			ContractID: con.ID,
			PartyRole:  role,
			SignedByID: actorID,
			SignedAt:   &now,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	if _, err := s.approvals.Create(ctx, nil, approvals); err != nil {
		return err
	}
	_, err := s.signatures.Create(ctx, nil, signatures)
	return err
}

func (s *contractService) runDerivedSteps(ctx context.Context, con *domain.Contract, op string, steps ...lifecycle.Step) {
	if err := lifecycle.RunSteps(ctx, steps...); err != nil {
		s.log.Error("derived state lagging after contract write; re-run repairs",
			"contract_id", con.ID,
			"op", op,
			"error", err,
		)
	}
}

func (s *contractService) reconcileStep(con *domain.Contract, actorID *uuid.UUID) lifecycle.Step {
	return lifecycle.Step{Name: "reconcile-status", Run: func(ctx context.Context) error {
		if con.NegotiationID == nil {
			return nil
		}
		neg, err := s.negotiations.GetByID(ctx, nil, *con.NegotiationID)
		if err != nil {
			return err
		}
		_, err = s.consistency.ReconcilePair(ctx, nil, neg, con, actorID)
		return err
	}}
}

func (s *contractService) rollupStep(con *domain.Contract) lifecycle.Step {
	return lifecycle.Step{Name: "rollup-fixture", Run: func(ctx context.Context) error {
		return s.fixtures.RecomputeForContract(ctx, nil, con)
	}}
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range contractTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
