// Package persistence stores rating tables across sessions.
//
// Only the semantic content (item -> score) is preserved; callers
// tolerate an absent table by falling back to default ratings.
package persistence

import "context"

// Store provides load/save access to persisted rating tables, keyed by
// ranking set and track name.
type Store interface {
	// Load returns the persisted scores for a track. The boolean is
	// false when no table has been persisted yet.
	Load(ctx context.Context, set, track string) (map[string]float64, bool, error)

	// Save persists a track's scores. Called after every mutating
	// operation, no batching.
	Save(ctx context.Context, set, track string, scores map[string]float64) error
}
