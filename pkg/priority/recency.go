// File: pkg/priority/recency.go
package priority

import (
	"math"
	"sort"
)

// RecencyModel turns last-commit timestamps into score boosts. It is
// built once per run and only read afterwards.
type RecencyModel struct {
	boosts   map[string]int64
	maxBoost int64
	horizon  int
}

// NewRecencyModel ranks the distinct timestamps in ts from oldest to newest
// and maps rank r of n onto round(r/(n-1) * maxBoost). The newest files get
// maxBoost, the oldest get 0, and equal timestamps share a boost. Paths
// missing from ts (never committed, or older than the horizon the
// timestamps were collected over) get 0.
func NewRecencyModel(ts map[string]int64, maxBoost int64, horizon int) *RecencyModel {
	m := &RecencyModel{
		boosts:   make(map[string]int64, len(ts)),
		maxBoost: maxBoost,
		horizon:  horizon,
	}
	if maxBoost <= 0 || len(ts) == 0 {
		return m
	}

	seen := make(map[int64]bool, len(ts))
	var distinct []int64
	for _, t := range ts {
		if !seen[t] {
			seen[t] = true
			distinct = append(distinct, t)
		}
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i] < distinct[j] })

	rank := make(map[int64]int64, len(distinct))
	if n := len(distinct); n > 1 {
		for i, t := range distinct {
			rank[t] = int64(math.Round(float64(i) / float64(n-1) * float64(maxBoost)))
		}
	}
	for p, t := range ts {
		m.boosts[p] = rank[t]
	}
	return m
}

// Boost returns the recency boost for a normalized path, in [0, MaxBoost].
func (m *RecencyModel) Boost(path string) int64 {
	if m == nil {
		return 0
	}
	b := m.boosts[path]
	if b > m.maxBoost {
		return m.maxBoost
	}
	if b < 0 {
		return 0
	}
	return b
}

// MaxBoost returns the boost ceiling.
func (m *RecencyModel) MaxBoost() int64 {
	if m == nil {
		return 0
	}
	return m.maxBoost
}

// Horizon returns the number of commits the timestamps were drawn from.
func (m *RecencyModel) Horizon() int {
	if m == nil {
		return 0
	}
	return m.horizon
}

// Len returns the number of paths with history.
func (m *RecencyModel) Len() int {
	if m == nil {
		return 0
	}
	return len(m.boosts)
}
