package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/fairlead/chartering-backend/internal/domain"
	apperrors "github.com/fairlead/chartering-backend/internal/pkg/errors"
	"github.com/fairlead/chartering-backend/internal/pkg/logger"
)

type recapHarness struct {
	svc          RecapService
	recaps       *fakeRecapRepo
	fieldChanges *fakeFieldChangeRepo
	fixtures     *fakeFixtureService
	activity     *fakeActivityService
}

func newRecapHarness(t *testing.T) *recapHarness {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	h := &recapHarness{
		recaps:       newFakeRecapRepo(),
		fieldChanges: &fakeFieldChangeRepo{},
		fixtures:     &fakeFixtureService{},
		activity:     &fakeActivityService{},
	}
	h.svc = NewRecapService(nil, log, h.recaps, h.fieldChanges, h.fixtures, h.activity)
	return h
}

func (h *recapHarness) seedFixture() *domain.Fixture {
	fix := &domain.Fixture{ID: uuid.New(), FixtureNumber: "FIX-3001"}
	h.fixtures.addFixture(fix)
	return fix
}

// A recap write feeds both rollups, so create must re-run them on the
// owning fixture before returning.
func TestCreateRecapRollsUpFixture(t *testing.T) {
	h := newRecapHarness(t)
	fix := h.seedFixture()

	recap, err := h.svc.Create(context.Background(), CreateRecapInput{
		FixtureID: fix.ID,
		RecapType: "voyage",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if recap.RecapNumber == "" {
		t.Fatal("recap number not assigned")
	}

	if len(h.fixtures.rolledUpFixtures) != 1 || h.fixtures.rolledUpFixtures[0] != fix.ID {
		t.Fatalf("fixture rollup skipped after recap write: %v", h.fixtures.rolledUpFixtures)
	}
	created := h.activity.byAction(domain.ActivityActionCreated)
	if len(created) != 1 || created[0].EntityID != recap.ID {
		t.Fatalf("created ledger entry missing: %+v", created)
	}
}

func TestCreateRecapMissingFixture(t *testing.T) {
	h := newRecapHarness(t)

	_, err := h.svc.Create(context.Background(), CreateRecapInput{FixtureID: uuid.New()})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUpdateRecapRunsDerivedPipeline(t *testing.T) {
	h := newRecapHarness(t)
	fix := h.seedFixture()
	recap := &domain.RecapManager{
		ID:          uuid.New(),
		RecapNumber: "RCP-3001",
		FixtureID:   fix.ID,
		RecapType:   "voyage",
	}
	if _, err := h.recaps.Create(context.Background(), nil, []*domain.RecapManager{recap}); err != nil {
		t.Fatalf("seed recap: %v", err)
	}

	got, err := h.svc.Update(context.Background(), recap.ID, map[string]any{"recap_type": "time-charter"}, nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.RecapType != "time-charter" {
		t.Fatalf("recap type: got %q", got.RecapType)
	}

	if len(h.fixtures.rolledUpFixtures) != 1 || h.fixtures.rolledUpFixtures[0] != fix.ID {
		t.Fatalf("fixture rollup skipped after recap write: %v", h.fixtures.rolledUpFixtures)
	}
	if entries := h.activity.byAction(domain.ActivityActionUpdated); len(entries) != 1 {
		t.Fatalf("ledger append skipped after recap write: %+v", h.activity.appends)
	}

	changes, _ := h.fieldChanges.ListByEntity(context.Background(), nil, domain.EntityTypeRecapManager, recap.ID)
	if len(changes) != 1 || changes[0].Field != "recap_type" ||
		changes[0].OldValue != "voyage" || changes[0].NewValue != "time-charter" {
		t.Fatalf("field change audit: %+v", changes)
	}
}

func TestUpdateRecapRejectsNonWhitelistedField(t *testing.T) {
	h := newRecapHarness(t)
	fix := h.seedFixture()
	recap := &domain.RecapManager{ID: uuid.New(), RecapNumber: "RCP-3002", FixtureID: fix.ID}
	if _, err := h.recaps.Create(context.Background(), nil, []*domain.RecapManager{recap}); err != nil {
		t.Fatalf("seed recap: %v", err)
	}

	_, err := h.svc.Update(context.Background(), recap.ID, map[string]any{"fixture_id": uuid.New()}, nil)
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
}
