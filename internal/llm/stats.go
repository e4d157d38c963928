package llm

import (
	"sort"
	"sync"
)

const defaultStatsWindow = 512

// Stats aggregates latencies over the most recent generate calls. A fixed
// ring of samples stands in for a time window: the stats endpoint reports
// on recent traffic without unbounded growth, and an idle service keeps
// its last numbers instead of decaying to empty.
type Stats struct {
	mu        sync.Mutex
	latencies []int64
	next      int
	filled    bool
	requests  int64
	errors    int64
}

// NewStats returns a collector keeping the last window latency samples.
// A non-positive window selects the default.
func NewStats(window int) *Stats {
	if window <= 0 {
		window = defaultStatsWindow
	}
	return &Stats{latencies: make([]int64, window)}
}

// Record stores the latency of one completed call.
func (s *Stats) Record(durationMs int64) {
	if durationMs < 0 {
		durationMs = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++
	s.latencies[s.next] = durationMs
	s.next++
	if s.next == len(s.latencies) {
		s.next = 0
		s.filled = true
	}
}

// RecordError counts a failed call. Failures stay out of the latency ring
// so percentiles describe completed generations only.
func (s *Stats) RecordError() {
	s.mu.Lock()
	s.errors++
	s.mu.Unlock()
}

// StatsSnapshot is a point-in-time aggregate: lifetime call counters plus
// latency percentiles over the sample window.
type StatsSnapshot struct {
	Requests int64   `json:"requests"`
	Errors   int64   `json:"errors"`
	Sampled  int     `json:"sampled"`
	MinMs    int64   `json:"min_ms"`
	MaxMs    int64   `json:"max_ms"`
	AvgMs    float64 `json:"avg_ms"`
	P50Ms    float64 `json:"p50_ms"`
	P95Ms    float64 `json:"p95_ms"`
	P99Ms    float64 `json:"p99_ms"`
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	n := s.next
	if s.filled {
		n = len(s.latencies)
	}
	values := append([]int64(nil), s.latencies[:n]...)
	snap := StatsSnapshot{
		Requests: s.requests,
		Errors:   s.errors,
		Sampled:  n,
	}
	s.mu.Unlock()

	if n == 0 {
		return snap
	}

	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	var sum int64
	for _, v := range values {
		sum += v
	}
	snap.MinMs = values[0]
	snap.MaxMs = values[n-1]
	snap.AvgMs = float64(sum) / float64(n)
	snap.P50Ms = percentile(values, 50)
	snap.P95Ms = percentile(values, 95)
	snap.P99Ms = percentile(values, 99)
	return snap
}

// percentile interpolates linearly between the two nearest ranks of a
// sorted sample.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}
	pos := pct / 100 * float64(len(sorted)-1)
	i := int(pos)
	if i+1 == len(sorted) {
		return float64(sorted[i])
	}
	frac := pos - float64(i)
	return float64(sorted[i])*(1-frac) + float64(sorted[i+1])*frac
}
