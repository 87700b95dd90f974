package lifecycle

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fairlead/chartering-backend/internal/domain"
)

// rateWindow is the trailing window anchored at a series' own last
// sample, not wall-clock time, so replays stay deterministic.
const rateWindow = 24 * time.Hour

var numericRunRe = regexp.MustCompile(`[0-9][0-9,]*(?:\.[0-9]+)?`)

// RateSample is one mined (value, timestamp) point.
type RateSample struct {
	Value float64
	At    time.Time
}

// RateSeriesSummary describes one rate series. All values are nil when
// the series is empty.
type RateSeriesSummary struct {
	SamplesFound int `json:"samples_found"`

	First   *float64 `json:"first,omitempty"`
	Highest *float64 `json:"highest,omitempty"`
	Lowest  *float64 `json:"lowest,omitempty"`

	FirstLastDay   *float64 `json:"first_last_day,omitempty"`
	HighestLastDay *float64 `json:"highest_last_day,omitempty"`
	LowestLastDay  *float64 `json:"lowest_last_day,omitempty"`
}

// NegotiationAnalytics is the mined summary for one negotiation.
type NegotiationAnalytics struct {
	Freight   RateSeriesSummary `json:"freight"`
	Demurrage RateSeriesSummary `json:"demurrage"`
}

// ParseRateValue extracts the first parseable numeric run from a rate
// string like "$15.20/mt". Returns false when nothing parseable exists.
func ParseRateValue(raw string) (float64, bool) {
	run := numericRunRe.FindString(raw)
	if run == "" {
		return 0, false
	}
	run = strings.ReplaceAll(run, ",", "")
	v, err := strconv.ParseFloat(run, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ComputeNegotiationAnalytics folds the negotiation's activity history,
// timestamp-ascending, into freight and demurrage rate series and
// summarizes each. Unparseable samples are dropped; a series with no
// structured sample is seeded from the negotiation's current rate field
// at the first event's timestamp. Pure and replay-safe: the same
// history always yields the same summary.
func ComputeNegotiationAnalytics(neg domain.Negotiation, history []domain.ActivityLog) NegotiationAnalytics {
	entries := make([]domain.ActivityLog, len(history))
	copy(entries, history)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OccurredAt.Before(entries[j].OccurredAt)
	})

	var freight, demurrage []RateSample
	for _, e := range entries {
		if len(e.Detail) > 0 {
			var details []domain.ActivityDetail
			if err := json.Unmarshal(e.Detail, &details); err == nil {
				for _, d := range details {
					label := strings.ToLower(d.Label)
					v, ok := ParseRateValue(d.Value)
					if !ok {
						continue
					}
					switch {
					case strings.Contains(label, "demurrage"):
						demurrage = append(demurrage, RateSample{Value: v, At: e.OccurredAt})
					case strings.Contains(label, "freight") || strings.Contains(label, "rate"):
						freight = append(freight, RateSample{Value: v, At: e.OccurredAt})
					}
				}
			}
		}

		// Fallback for histories predating structured payloads: a
		// series still empty after mining this event is seeded from the
		// negotiation's current rate field at this event's timestamp.
		if len(freight) == 0 {
			if v, ok := ParseRateValue(neg.FreightRate); ok {
				freight = append(freight, RateSample{Value: v, At: e.OccurredAt})
			}
		}
		if len(demurrage) == 0 {
			if v, ok := ParseRateValue(neg.DemurrageRate); ok {
				demurrage = append(demurrage, RateSample{Value: v, At: e.OccurredAt})
			}
		}
	}

	return NegotiationAnalytics{
		Freight:   summarizeSeries(freight),
		Demurrage: summarizeSeries(demurrage),
	}
}

func summarizeSeries(samples []RateSample) RateSeriesSummary {
	sum := RateSeriesSummary{SamplesFound: len(samples)}
	if len(samples) == 0 {
		return sum
	}

	sum.First = ptr(samples[0].Value)
	hi, lo := samples[0].Value, samples[0].Value
	for _, s := range samples[1:] {
		if s.Value > hi {
			hi = s.Value
		}
		if s.Value < lo {
			lo = s.Value
		}
	}
	sum.Highest, sum.Lowest = ptr(hi), ptr(lo)

	cutoff := samples[len(samples)-1].At.Add(-rateWindow)
	var recent []RateSample
	for _, s := range samples {
		if !s.At.Before(cutoff) {
			recent = append(recent, s)
		}
	}
	if len(recent) > 0 {
		sum.FirstLastDay = ptr(recent[0].Value)
		rhi, rlo := recent[0].Value, recent[0].Value
		for _, s := range recent[1:] {
			if s.Value > rhi {
				rhi = s.Value
			}
			if s.Value < rlo {
				rlo = s.Value
			}
		}
		sum.HighestLastDay, sum.LowestLastDay = ptr(rhi), ptr(rlo)
	}
	return sum
}

func ptr(v float64) *float64 { return &v }
