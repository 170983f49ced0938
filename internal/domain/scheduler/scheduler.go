// Package scheduler selects the next comparison pair for a ranking set.
//
// The scheduler is stateless with respect to history: it only reads the
// current rating table and the configured strategy.
package scheduler

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/arenalab/duelrank/internal/domain/rating"
)

// Strategy enumerates the pair-selection strategies.
type Strategy string

// Supported strategies.
const (
	// StrategyRandom draws two distinct items uniformly.
	StrategyRandom Strategy = "random"
	// StrategyAdjacent pairs two score-adjacent items.
	StrategyAdjacent Strategy = "adjacent"
	// StrategyWeighted favors partners with close scores.
	StrategyWeighted Strategy = "weighted"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyRandom, StrategyAdjacent, StrategyWeighted:
		return Strategy(s), nil
	}
	return "", ErrUnknownStrategy
}

// closenessScale sets how quickly the weighted draw loses interest in
// distant partners: a partner 100 points away weighs half of an
// equal-rated one.
const closenessScale = 100.0

// Option applies a configuration option to the Scheduler.
type Option func(*Scheduler)

// WithRand sets the random source, used by tests for reproducibility.
func WithRand(rng *rand.Rand) Option {
	return func(s *Scheduler) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// Scheduler produces comparison pairs from a rating table. Safe for
// concurrent use: one scheduler is shared across all sessions.
type Scheduler struct {
	mu  sync.Mutex // *rand.Rand sources are not goroutine-safe
	rng *rand.Rand
}

// New creates a scheduler with configuration options.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // selection jitter, not security sensitive
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NextPair returns two distinct item names chosen under the strategy.
// Fails with ErrInsufficientItems when the set has fewer than 2 entries.
func (s *Scheduler) NextPair(t *rating.Table, strategy Strategy) (string, string, error) {
	items := t.Items()
	if len(items) < 2 {
		return "", "", ErrInsufficientItems
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch strategy {
	case StrategyRandom:
		a, b := s.drawDistinct(len(items))
		return items[a], items[b], nil
	case StrategyAdjacent:
		return s.adjacentPair(t, items)
	case StrategyWeighted:
		return s.weightedPair(t, items)
	}
	return "", "", ErrUnknownStrategy
}

// drawDistinct returns two distinct indices in [0, n) uniformly.
func (s *Scheduler) drawDistinct(n int) (int, int) {
	a := s.rng.Intn(n)
	b := s.rng.Intn(n - 1)
	if b >= a {
		b++
	}
	return a, b
}

// adjacentPair sorts items by score ascending and returns a uniformly
// chosen neighboring pair.
func (s *Scheduler) adjacentPair(t *rating.Table, items []string) (string, string, error) {
	sorted := make([]string, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		si, _ := t.Score(sorted[i])
		sj, _ := t.Score(sorted[j])
		if si != sj {
			return si < sj
		}
		return sorted[i] < sorted[j]
	})
	i := s.rng.Intn(len(sorted) - 1)
	return sorted[i], sorted[i+1], nil
}

// weightedPair picks the first item uniformly and its partner with
// probability proportional to 1/(1+|delta|/closenessScale). This is a
// true weighted draw; repeated calls on the same table do not collapse
// to a deterministic nearest-neighbor pick.
func (s *Scheduler) weightedPair(t *rating.Table, items []string) (string, string, error) {
	a := items[s.rng.Intn(len(items))]
	ra, _ := t.Score(a)

	weights := make([]float64, 0, len(items)-1)
	partners := make([]string, 0, len(items)-1)
	total := 0.0
	for _, it := range items {
		if it == a {
			continue
		}
		rb, _ := t.Score(it)
		w := 1 / (1 + abs(rb-ra)/closenessScale)
		partners = append(partners, it)
		weights = append(weights, w)
		total += w
	}

	draw := s.rng.Float64() * total
	for i, w := range weights {
		draw -= w
		if draw < 0 {
			return a, partners[i], nil
		}
	}
	// Float accumulation can leave a sliver past the last bucket.
	return a, partners[len(partners)-1], nil
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
