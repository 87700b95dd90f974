package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fairlead/chartering-backend/internal/domain"
)

func SeedOrder(tb testing.TB, ctx context.Context, tx *gorm.DB) *domain.Order {
	tb.Helper()
	o := &domain.Order{
		ID:          uuid.New(),
		OrderNumber: fmt.Sprintf("ORD-%s", uuid.New().String()[:8]),
		Side:        "sell",
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed order: %v", err)
	}
	return o
}

func SeedNegotiation(tb testing.TB, ctx context.Context, tx *gorm.DB, orderID uuid.UUID, status string) *domain.Negotiation {
	tb.Helper()
	n := &domain.Negotiation{
		ID:                uuid.New(),
		NegotiationNumber: fmt.Sprintf("NEG-%s", uuid.New().String()[:8]),
		OrderID:           orderID,
		CounterpartyID:    uuid.New(),
		Status:            status,
		CreatedAt:         time.Now().UTC(),
		UpdatedAt:         time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(n).Error; err != nil {
		tb.Fatalf("seed negotiation: %v", err)
	}
	return n
}

func SeedContract(tb testing.TB, ctx context.Context, tx *gorm.DB, status string, negotiationID, fixtureID *uuid.UUID) *domain.Contract {
	tb.Helper()
	c := &domain.Contract{
		ID:             uuid.New(),
		ContractNumber: fmt.Sprintf("CON-%s", uuid.New().String()[:8]),
		Status:         status,
		NegotiationID:  negotiationID,
		FixtureID:      fixtureID,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed contract: %v", err)
	}
	return c
}

func SeedFixture(tb testing.TB, ctx context.Context, tx *gorm.DB, orderID *uuid.UUID) *domain.Fixture {
	tb.Helper()
	f := &domain.Fixture{
		ID:            uuid.New(),
		FixtureNumber: fmt.Sprintf("FIX-%s", uuid.New().String()[:8]),
		OrderID:       orderID,
		LastUpdated:   time.Now().UTC(),
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(f).Error; err != nil {
		tb.Fatalf("seed fixture: %v", err)
	}
	return f
}

func SeedCompany(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *domain.Company {
	tb.Helper()
	c := &domain.Company{ID: uuid.New(), Name: name}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed company: %v", err)
	}
	return c
}

func SeedVessel(tb testing.TB, ctx context.Context, tx *gorm.DB, name, imo string) *domain.Vessel {
	tb.Helper()
	v := &domain.Vessel{ID: uuid.New(), Name: name, IMO: imo}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed vessel: %v", err)
	}
	return v
}
