package lifecycle

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/fairlead/chartering-backend/internal/domain"
)

func rateEvent(t *testing.T, at time.Time, details ...domain.ActivityDetail) domain.ActivityLog {
	t.Helper()
	raw, err := json.Marshal(details)
	if err != nil {
		t.Fatalf("marshal details: %v", err)
	}
	return domain.ActivityLog{
		ID:         uuid.New(),
		EntityType: domain.EntityTypeNegotiation,
		EntityID:   uuid.New(),
		Action:     domain.ActivityActionUpdated,
		Detail:     datatypes.JSON(raw),
		OccurredAt: at,
	}
}

func TestParseRateValue(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"$15.20/mt", 15.20, true},
		{"USD 16.00 per mt", 16.00, true},
		{"1,250.50", 1250.50, true},
		{"12000", 12000, true},
		{"tbd", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseRateValue(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseRateValue(%q): want=(%v,%v) got=(%v,%v)", tc.in, tc.want, tc.ok, got, ok)
		}
	}
}

func TestAnalyticsTrailingWindowAnchorsAtLastSample(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 10, 0, time.UTC)
	history := []domain.ActivityLog{
		rateEvent(t, t0, domain.ActivityDetail{Label: "Freight Rate", Value: "$15.20/mt"}),
		rateEvent(t, t0.Add(23*time.Hour), domain.ActivityDetail{Label: "Freight Rate", Value: "$16.00/mt"}),
	}

	got := ComputeNegotiationAnalytics(domain.Negotiation{}, history)

	if got.Freight.SamplesFound != 2 {
		t.Fatalf("freight samples: want=2 got=%d", got.Freight.SamplesFound)
	}
	if got.Freight.HighestLastDay == nil || *got.Freight.HighestLastDay != 16.00 {
		t.Fatalf("highest last day: want=16.00 got=%v", got.Freight.HighestLastDay)
	}
	// Both samples fall inside 24h before the last sample.
	if got.Freight.LowestLastDay == nil || *got.Freight.LowestLastDay != 15.20 {
		t.Fatalf("lowest last day: want=15.20 got=%v", got.Freight.LowestLastDay)
	}
	if got.Freight.First == nil || *got.Freight.First != 15.20 {
		t.Fatalf("first: want=15.20 got=%v", got.Freight.First)
	}
}

func TestAnalyticsWindowExcludesOldSamples(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	history := []domain.ActivityLog{
		rateEvent(t, t0, domain.ActivityDetail{Label: "Freight Rate", Value: "$20.00/mt"}),
		rateEvent(t, t0.Add(48*time.Hour), domain.ActivityDetail{Label: "Freight Rate", Value: "$14.00/mt"}),
		rateEvent(t, t0.Add(60*time.Hour), domain.ActivityDetail{Label: "Freight Rate", Value: "$15.00/mt"}),
	}

	got := ComputeNegotiationAnalytics(domain.Negotiation{}, history)

	if got.Freight.Highest == nil || *got.Freight.Highest != 20.00 {
		t.Fatalf("global highest: want=20.00 got=%v", got.Freight.Highest)
	}
	if got.Freight.HighestLastDay == nil || *got.Freight.HighestLastDay != 15.00 {
		t.Fatalf("windowed highest: want=15.00 got=%v", got.Freight.HighestLastDay)
	}
	if got.Freight.FirstLastDay == nil || *got.Freight.FirstLastDay != 14.00 {
		t.Fatalf("windowed first: want=14.00 got=%v", got.Freight.FirstLastDay)
	}
}

func TestAnalyticsSplitsDemurrageFromFreight(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	history := []domain.ActivityLog{
		rateEvent(t, t0,
			domain.ActivityDetail{Label: "Freight Rate", Value: "$15.20/mt"},
			domain.ActivityDetail{Label: "Demurrage Rate", Value: "$12000/day"},
		),
	}

	got := ComputeNegotiationAnalytics(domain.Negotiation{}, history)

	if got.Freight.SamplesFound != 1 || *got.Freight.First != 15.20 {
		t.Fatalf("freight: %+v", got.Freight)
	}
	// "Demurrage Rate" contains "rate" too; it must land only in the
	// demurrage series.
	if got.Demurrage.SamplesFound != 1 || *got.Demurrage.First != 12000 {
		t.Fatalf("demurrage: %+v", got.Demurrage)
	}
}

func TestAnalyticsDropsUnparseableSamples(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	history := []domain.ActivityLog{
		rateEvent(t, t0, domain.ActivityDetail{Label: "Freight Rate", Value: "tbd"}),
		rateEvent(t, t0.Add(time.Hour), domain.ActivityDetail{Label: "Freight Rate", Value: "$15.20/mt"}),
	}

	got := ComputeNegotiationAnalytics(domain.Negotiation{}, history)

	if got.Freight.SamplesFound != 1 {
		t.Fatalf("freight samples: want=1 got=%d", got.Freight.SamplesFound)
	}
}

func TestAnalyticsSeedsFromCurrentRateField(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	neg := domain.Negotiation{FreightRate: "$17.50/mt"}
	// History predating structured payloads: events with no detail.
	history := []domain.ActivityLog{
		{ID: uuid.New(), EntityType: domain.EntityTypeNegotiation, Action: domain.ActivityActionCreated, OccurredAt: t0},
		{ID: uuid.New(), EntityType: domain.EntityTypeNegotiation, Action: domain.ActivityActionUpdated, OccurredAt: t0.Add(time.Hour)},
	}

	got := ComputeNegotiationAnalytics(neg, history)

	if got.Freight.SamplesFound != 1 {
		t.Fatalf("freight samples: want=1 got=%d", got.Freight.SamplesFound)
	}
	if *got.Freight.First != 17.50 || *got.Freight.Highest != 17.50 {
		t.Fatalf("seeded series: %+v", got.Freight)
	}
	if got.Demurrage.SamplesFound != 0 {
		t.Fatalf("demurrage should stay empty without a rate field: %+v", got.Demurrage)
	}
}

func TestAnalyticsEmptyHistory(t *testing.T) {
	got := ComputeNegotiationAnalytics(domain.Negotiation{FreightRate: "$10/mt"}, nil)
	if got.Freight.SamplesFound != 0 || got.Freight.First != nil {
		t.Fatalf("empty history must yield empty series: %+v", got.Freight)
	}
}

func TestAnalyticsReplaySafe(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	neg := domain.Negotiation{FreightRate: "$15/mt", DemurrageRate: "$9000/day"}
	history := []domain.ActivityLog{
		rateEvent(t, t0, domain.ActivityDetail{Label: "Freight Rate", Value: "$15.20/mt"}),
		rateEvent(t, t0.Add(time.Hour), domain.ActivityDetail{Label: "Demurrage", Value: "$9500/day"}),
		rateEvent(t, t0.Add(2*time.Hour), domain.ActivityDetail{Label: "Freight Rate", Value: "$16.00/mt"}),
	}

	first := ComputeNegotiationAnalytics(neg, history)
	for i := 0; i < 5; i++ {
		if got := ComputeNegotiationAnalytics(neg, history); !reflect.DeepEqual(got, first) {
			t.Fatalf("replay mismatch: %+v vs %+v", got, first)
		}
	}
}
