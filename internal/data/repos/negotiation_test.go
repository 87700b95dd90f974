package repos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fairlead/chartering-backend/internal/data/repos/testutil"
	"github.com/fairlead/chartering-backend/internal/domain"
	apperrors "github.com/fairlead/chartering-backend/internal/pkg/errors"
)

func TestNegotiationRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewNegotiationRepo(db, testutil.Logger(t))

	order := testutil.SeedOrder(t, ctx, tx)

	n1 := testutil.SeedNegotiation(t, ctx, tx, order.ID, domain.NegotiationStatusIndicativeBid)
	n2 := testutil.SeedNegotiation(t, ctx, tx, order.ID, domain.NegotiationStatusFirm)

	got, err := repo.GetByID(ctx, tx, n1.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.NegotiationStatusIndicativeBid {
		t.Fatalf("status: got=%q", got.Status)
	}

	if _, err := repo.GetByID(ctx, tx, uuid.New()); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("GetByID missing: want ErrNotFound, got %v", err)
	}

	rows, err := repo.ListByOrderID(ctx, tx, order.ID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListByOrderID: err=%v len=%d", err, len(rows))
	}

	if err := repo.UpdateFields(ctx, tx, n2.ID, map[string]any{
		"status":       domain.NegotiationStatusOnSubs,
		"freight_rate": "$15.20/mt",
		"updated_at":   time.Now().UTC(),
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	updated, err := repo.GetByID(ctx, tx, n2.ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if updated.Status != domain.NegotiationStatusOnSubs || updated.FreightRate != "$15.20/mt" {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestContractRepoNegotiationLink(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewContractRepo(db, testutil.Logger(t))

	order := testutil.SeedOrder(t, ctx, tx)
	neg := testutil.SeedNegotiation(t, ctx, tx, order.ID, domain.NegotiationStatusFirm)

	got, err := repo.GetByNegotiationID(ctx, tx, neg.ID)
	if err != nil {
		t.Fatalf("GetByNegotiationID: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no contract yet, got %+v", got)
	}

	con := testutil.SeedContract(t, ctx, tx, domain.ContractStatusDraft, &neg.ID, nil)

	got, err = repo.GetByNegotiationID(ctx, tx, neg.ID)
	if err != nil || got == nil || got.ID != con.ID {
		t.Fatalf("GetByNegotiationID after seed: err=%v got=%+v", err, got)
	}
}

func TestFixtureRepoDerivedColumns(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewFixtureRepo(db, testutil.Logger(t))

	order := testutil.SeedOrder(t, ctx, tx)
	fix := testutil.SeedFixture(t, ctx, tx, &order.ID)

	byOrder, err := repo.GetByOrderID(ctx, tx, order.ID)
	if err != nil || byOrder == nil || byOrder.ID != fix.ID {
		t.Fatalf("GetByOrderID: err=%v got=%+v", err, byOrder)
	}

	stamp := time.Now().UTC().Add(time.Hour).Truncate(time.Microsecond)
	if err := repo.UpdateDerived(ctx, tx, fix.ID, stamp, "con-2001 fix-3001"); err != nil {
		t.Fatalf("UpdateDerived: %v", err)
	}
	got, err := repo.GetByID(ctx, tx, fix.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.LastUpdated.Equal(stamp) || got.SearchText != "con-2001 fix-3001" {
		t.Fatalf("derived columns: %+v", got)
	}
}

func TestActivityLogRepoAscendingOrder(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewActivityLogRepo(db, testutil.Logger(t))

	entityID := uuid.New()
	base := time.Now().UTC().Add(-3 * time.Hour).Truncate(time.Microsecond)
	var entries []*domain.ActivityLog
	for i, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		entries = append(entries, &domain.ActivityLog{
			ID:         uuid.New(),
			EntityType: domain.EntityTypeNegotiation,
			EntityID:   entityID,
			Action:     domain.ActivityActionUpdated,
			Status:     domain.NegotiationStatusFirm,
			OccurredAt: base.Add(offset),
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
	}
	if _, err := repo.Append(ctx, tx, entries); err != nil {
		t.Fatalf("Append: %v", err)
	}

	rows, err := repo.ListByEntityAsc(ctx, tx, domain.EntityTypeNegotiation, entityID)
	if err != nil {
		t.Fatalf("ListByEntityAsc: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows: want=3 got=%d", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].OccurredAt.Before(rows[i-1].OccurredAt) {
			t.Fatalf("rows not ascending: %v before %v", rows[i].OccurredAt, rows[i-1].OccurredAt)
		}
	}
}
