// Package usage provides an append-only per-client usage ledger with
// derived daily, total, and per-tier aggregates.
//
// Records are immutable once appended; aggregates are computed on read.
// The in-memory ledger is process-lifetime storage — durable persistence
// lives behind whatever store a deployment wraps around it.
package usage

import (
	"sort"
	"sync"
	"time"

	"github.com/routekit/routekit/catalog"
)

// Record is one usage event for a client. Records are owned by the ledger
// once appended and never mutated or reordered.
type Record struct {
	// Cost is the USD cost of the request.
	Cost float64 `json:"cost"`

	// Tokens is the total token count of the request.
	Tokens int `json:"tokens"`

	// Tier attributes the record to a tier. TierUnknown leaves it
	// unattributed; such records still count toward the totals.
	Tier catalog.Tier `json:"tier,omitempty"`

	// Provider attributes the record to a provider. Optional.
	Provider catalog.Provider `json:"provider,omitempty"`

	// Timestamp is when the usage occurred. The zero value means "now".
	Timestamp time.Time `json:"timestamp"`
}

// TierStats aggregates usage for one tier.
type TierStats struct {
	Cost     float64 `json:"cost"`
	Tokens   int     `json:"tokens"`
	Requests int     `json:"requests"`
}

// Stats is the derived aggregate view of a client's usage.
type Stats struct {
	TotalCost    float64                    `json:"total_cost"`
	TotalTokens  int                        `json:"total_tokens"`
	RequestCount int                        `json:"request_count"`
	DailyCost    float64                    `json:"daily_cost"`
	MonthlyCost  float64                    `json:"monthly_cost"`
	ByTier       map[catalog.Tier]TierStats `json:"by_tier,omitempty"`
}

// DayStats is one calendar-date bucket of a client's usage history.
type DayStats struct {
	// Date is the bucket's calendar date in YYYY-MM-DD form.
	Date     string  `json:"date"`
	Cost     float64 `json:"cost"`
	Tokens   int     `json:"tokens"`
	Requests int     `json:"requests"`
}

// Ledger stores per-client usage records. Appends are safe under concurrent
// writers for the same client; reads see a consistent snapshot that may be
// stale by the time the caller acts on it.
type Ledger struct {
	mu      sync.RWMutex
	records map[string][]Record
	now     func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the ledger's time source. Useful in tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// NewLedger creates an empty ledger.
func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{
		records: make(map[string][]Record),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record appends a usage record for the client. A zero timestamp is filled
// with the current time.
func (l *Ledger) Record(clientID string, rec Record) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = l.now()
	}

	l.mu.Lock()
	l.records[clientID] = append(l.records[clientID], rec)
	l.mu.Unlock()
}

// Stats computes the client's aggregates on read: totals, today's and this
// month's cost (records stamped at or after the window start), and per-tier
// breakdowns.
func (l *Ledger) Stats(clientID string) Stats {
	now := l.now()
	startOfToday := dayStart(now)
	startOfMonth := monthStart(now)

	l.mu.RLock()
	defer l.mu.RUnlock()

	stats := Stats{ByTier: make(map[catalog.Tier]TierStats)}
	for _, rec := range l.records[clientID] {
		stats.TotalCost += rec.Cost
		stats.TotalTokens += rec.Tokens
		stats.RequestCount++

		if !rec.Timestamp.Before(startOfToday) {
			stats.DailyCost += rec.Cost
		}
		if !rec.Timestamp.Before(startOfMonth) {
			stats.MonthlyCost += rec.Cost
		}

		if rec.Tier != catalog.TierUnknown {
			ts := stats.ByTier[rec.Tier]
			ts.Cost += rec.Cost
			ts.Tokens += rec.Tokens
			ts.Requests++
			stats.ByTier[rec.Tier] = ts
		}
	}
	return stats
}

// ResetDaily drops all of the client's records stamped today, preserving
// older history. This is the only way records leave the ledger.
func (l *Ledger) ResetDaily(clientID string) {
	startOfToday := dayStart(l.now())

	l.mu.Lock()
	defer l.mu.Unlock()

	recs := l.records[clientID]
	kept := recs[:0]
	for _, rec := range recs {
		if rec.Timestamp.Before(startOfToday) {
			kept = append(kept, rec)
		}
	}
	l.records[clientID] = kept
}

// History buckets the client's records by calendar date and returns the
// most recent days buckets in ascending date order. Dates with no records
// produce no bucket.
func (l *Ledger) History(clientID string, days int) []DayStats {
	if days <= 0 {
		return nil
	}

	l.mu.RLock()
	byDate := make(map[string]DayStats)
	for _, rec := range l.records[clientID] {
		date := rec.Timestamp.Format("2006-01-02")
		d := byDate[date]
		d.Date = date
		d.Cost += rec.Cost
		d.Tokens += rec.Tokens
		d.Requests++
		byDate[date] = d
	}
	l.mu.RUnlock()

	buckets := make([]DayStats, 0, len(byDate))
	for _, d := range byDate {
		buckets = append(buckets, d)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date < buckets[j].Date })

	if len(buckets) > days {
		buckets = buckets[len(buckets)-days:]
	}
	return buckets
}

// dayStart returns midnight of t's calendar day in t's location.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// monthStart returns midnight of the first day of t's month in t's location.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
