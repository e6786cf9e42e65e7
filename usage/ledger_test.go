package usage

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/routekit/routekit/catalog"
)

// fixedClock returns a clock pinned to the given time.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestStatsAggregation(t *testing.T) {
	l := NewLedger()

	l.Record("acme", Record{Cost: 0.05, Tokens: 1000})
	l.Record("acme", Record{Cost: 0.10, Tokens: 2000})

	stats := l.Stats("acme")
	if math.Abs(stats.TotalCost-0.15) > 1e-9 {
		t.Errorf("TotalCost = %f, want 0.15", stats.TotalCost)
	}
	if stats.TotalTokens != 3000 {
		t.Errorf("TotalTokens = %d, want 3000", stats.TotalTokens)
	}
	if stats.RequestCount != 2 {
		t.Errorf("RequestCount = %d, want 2", stats.RequestCount)
	}
}

func TestStatsPerTierBreakdown(t *testing.T) {
	l := NewLedger()

	l.Record("acme", Record{Cost: 1, Tokens: 100, Tier: catalog.TierPremium})
	l.Record("acme", Record{Cost: 2, Tokens: 200, Tier: catalog.TierPremium})
	l.Record("acme", Record{Cost: 0.5, Tokens: 50, Tier: catalog.TierEconomy})
	l.Record("acme", Record{Cost: 0.25, Tokens: 25}) // unattributed

	stats := l.Stats("acme")
	premium := stats.ByTier[catalog.TierPremium]
	if premium.Cost != 3 || premium.Tokens != 300 || premium.Requests != 2 {
		t.Errorf("premium stats = %+v, want {3, 300, 2}", premium)
	}
	if _, ok := stats.ByTier[catalog.TierUnknown]; ok {
		t.Error("unattributed records must not appear in the tier breakdown")
	}
	if stats.RequestCount != 4 {
		t.Errorf("RequestCount = %d, want 4 (unattributed still counts)", stats.RequestCount)
	}
}

func TestDailyCostWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
	l := NewLedger(WithClock(fixedClock(now)))

	l.Record("acme", Record{Cost: 1, Timestamp: now.Add(-2 * time.Hour)})         // today
	l.Record("acme", Record{Cost: 2, Timestamp: now.Add(-36 * time.Hour)})        // yesterday
	l.Record("acme", Record{Cost: 4, Timestamp: now.Add(-14 * time.Hour)})        // today, just after midnight
	l.Record("acme", Record{Cost: 8, Timestamp: now.Add(-14*time.Hour - time.Minute)}) // yesterday, just before midnight

	stats := l.Stats("acme")
	if stats.DailyCost != 5 {
		t.Errorf("DailyCost = %f, want 5 (records since midnight)", stats.DailyCost)
	}
	if stats.TotalCost != 15 {
		t.Errorf("TotalCost = %f, want 15", stats.TotalCost)
	}
}

func TestMonthlyCostWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
	l := NewLedger(WithClock(fixedClock(now)))

	l.Record("acme", Record{Cost: 1, Timestamp: now})                                          // today
	l.Record("acme", Record{Cost: 2, Timestamp: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)})  // month start
	l.Record("acme", Record{Cost: 4, Timestamp: time.Date(2025, 5, 31, 23, 0, 0, 0, time.UTC)}) // last month

	stats := l.Stats("acme")
	if stats.MonthlyCost != 3 {
		t.Errorf("MonthlyCost = %f, want 3 (records since the 1st)", stats.MonthlyCost)
	}
	if stats.TotalCost != 7 {
		t.Errorf("TotalCost = %f, want 7", stats.TotalCost)
	}
}

func TestResetDailyPreservesHistory(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
	l := NewLedger(WithClock(fixedClock(now)))

	l.Record("acme", Record{Cost: 1, Timestamp: now})
	l.Record("acme", Record{Cost: 2, Timestamp: now.Add(-48 * time.Hour)})

	l.ResetDaily("acme")

	stats := l.Stats("acme")
	if stats.DailyCost != 0 {
		t.Errorf("DailyCost after reset = %f, want 0", stats.DailyCost)
	}
	if stats.TotalCost != 2 {
		t.Errorf("TotalCost after reset = %f, want 2 (history preserved)", stats.TotalCost)
	}
}

func TestHistoryBuckets(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
	l := NewLedger(WithClock(fixedClock(now)))

	l.Record("acme", Record{Cost: 1, Tokens: 10, Timestamp: now})
	l.Record("acme", Record{Cost: 2, Tokens: 20, Timestamp: now.Add(-24 * time.Hour)})
	l.Record("acme", Record{Cost: 3, Tokens: 30, Timestamp: now.Add(-24 * time.Hour)})
	l.Record("acme", Record{Cost: 4, Tokens: 40, Timestamp: now.Add(-10 * 24 * time.Hour)})

	history := l.History("acme", 2)
	if len(history) != 2 {
		t.Fatalf("History returned %d buckets, want 2", len(history))
	}
	if history[0].Date != "2025-06-14" || history[1].Date != "2025-06-15" {
		t.Errorf("bucket order = [%s, %s], want ascending most-recent two",
			history[0].Date, history[1].Date)
	}
	if history[0].Cost != 5 || history[0].Requests != 2 {
		t.Errorf("2025-06-14 bucket = %+v, want cost 5 over 2 requests", history[0])
	}
}

func TestHistoryEdgeCases(t *testing.T) {
	l := NewLedger()

	if got := l.History("nobody", 7); got != nil {
		t.Errorf("History for unknown client = %v, want nil", got)
	}
	l.Record("acme", Record{Cost: 1})
	if got := l.History("acme", 0); got != nil {
		t.Errorf("History with zero days = %v, want nil", got)
	}
}

func TestZeroTimestampFilledWithNow(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
	l := NewLedger(WithClock(fixedClock(now)))

	l.Record("acme", Record{Cost: 1})
	stats := l.Stats("acme")
	if stats.DailyCost != 1 {
		t.Error("record with zero timestamp should count as today")
	}
}

func TestConcurrentAppends(t *testing.T) {
	l := NewLedger()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Record("acme", Record{Cost: 0.01, Tokens: 10})
		}()
	}
	wg.Wait()

	stats := l.Stats("acme")
	if stats.RequestCount != 100 {
		t.Errorf("RequestCount = %d, want 100", stats.RequestCount)
	}
}

func TestClientsIsolated(t *testing.T) {
	l := NewLedger()

	l.Record("a", Record{Cost: 1})
	l.Record("b", Record{Cost: 2})

	if l.Stats("a").TotalCost != 1 || l.Stats("b").TotalCost != 2 {
		t.Error("per-client records must not mix")
	}
}
