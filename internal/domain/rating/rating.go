// Package rating implements the pairwise rating table and its update math.
//
// Updates are zero-sum: the expected-score terms of the two sides always
// sum to 1, so the symmetric K-factor adjustments cancel exactly.
package rating

import (
	"math"
	"sort"
)

// Default rating parameters. Both are overridable per ranking set.
const (
	DefaultKFactor       = 32.0
	DefaultInitialRating = 1500.0
)

// Table maps every item of a ranking set to its current score.
// Every item in the active set has exactly one entry at all times.
type Table struct {
	items  []string
	scores map[string]float64
}

// NewTable builds a table with every item at the initial rating.
// The item slice is kept as the canonical ordering of the set and
// must not be mutated by the caller afterwards.
func NewTable(items []string, initial float64) *Table {
	scores := make(map[string]float64, len(items))
	for _, it := range items {
		scores[it] = initial
	}
	return &Table{items: items, scores: scores}
}

// ApplyScores overwrites scores for items already present in the table.
// Persisted entries for items no longer in the set are ignored.
func (t *Table) ApplyScores(scores map[string]float64) {
	for it, sc := range scores {
		if _, ok := t.scores[it]; ok {
			t.scores[it] = sc
		}
	}
}

// Score returns the current score of an item.
func (t *Table) Score(item string) (float64, bool) {
	sc, ok := t.scores[item]
	return sc, ok
}

// Len returns the number of items in the table.
func (t *Table) Len() int {
	return len(t.scores)
}

// Items returns the canonical item ordering. Callers must not modify
// the returned slice.
func (t *Table) Items() []string {
	return t.items
}

// Scores returns a copy of the item -> score mapping.
func (t *Table) Scores() map[string]float64 {
	out := make(map[string]float64, len(t.scores))
	for it, sc := range t.scores {
		out[it] = sc
	}
	return out
}

// Clone returns a snapshot of the table. The item list is shared since
// the active set is immutable for the table's lifetime.
func (t *Table) Clone() *Table {
	return &Table{items: t.items, scores: t.Scores()}
}

// Restore replaces the table's scores with those captured in snap.
func (t *Table) Restore(snap *Table) {
	t.scores = snap.scores
}

// ExpectedScore returns the win probability of a rating ra player
// against a rating rb player. Pure function.
func ExpectedScore(ra, rb float64) float64 {
	return 1 / (1 + math.Pow(10, (rb-ra)/400))
}

// ApplyWin adjusts both scores for a decisive outcome. Both items are
// validated before either score changes, so an error leaves the table
// untouched.
func (t *Table) ApplyWin(winner, loser string, k float64) error {
	return t.apply(winner, loser, k, 1, 0)
}

// ApplyTie adjusts both scores for a tie, pulling each toward the 0.5
// expectation.
func (t *Table) ApplyTie(a, b string, k float64) error {
	return t.apply(a, b, k, 0.5, 0.5)
}

func (t *Table) apply(a, b string, k, targetA, targetB float64) error {
	ra, ok := t.scores[a]
	if !ok {
		return ErrUnknownItem
	}
	rb, ok := t.scores[b]
	if !ok {
		return ErrUnknownItem
	}
	ea := ExpectedScore(ra, rb)
	eb := ExpectedScore(rb, ra)
	t.scores[a] = ra + k*(targetA-ea)
	t.scores[b] = rb + k*(targetB-eb)
	return nil
}

// Entry is one row of an ordered ranking listing.
type Entry struct {
	Rank  int     `json:"rank"`
	Item  string  `json:"item"`
	Score float64 `json:"score"`
}

// Rankings returns all items ordered by score descending with item name
// ascending as the tie-breaker. Items with equal scores share a rank and
// ranks stay consecutive.
func (t *Table) Rankings() []Entry {
	entries := make([]Entry, 0, len(t.scores))
	for it, sc := range t.scores {
		entries = append(entries, Entry{Item: it, Score: sc})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Item < entries[j].Item
	})
	assignRanks(entries)
	return entries
}

// assignRanks gives equal-score entries the same rank, advancing the
// rank by one per distinct score.
func assignRanks(entries []Entry) {
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].Score != entries[i-1].Score {
			rank++
		}
		entries[i].Rank = rank
	}
}
