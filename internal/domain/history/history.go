// Package history tracks the presented-pair sequence of a single track,
// with undo/redo navigation and snapshot-based reversal.
//
// A track owns its rating table, its snapshot stack, and its comparison
// log. The cursor points at the most recently presented entry; -1 means
// nothing has been presented yet. Moving the cursor behind the frontier
// and presenting again follows the redo path without re-rolling the
// pair; generating a fresh pair while behind the frontier discards the
// stale forward entries, exactly like overwriting redo history.
package history

import (
	"github.com/google/uuid"

	"github.com/arenalab/duelrank/internal/domain/model"
	"github.com/arenalab/duelrank/internal/domain/rating"
)

// entry is one step of the pair sequence. The rating-affecting flag
// lives on the entry itself so undo knows whether a snapshot was taken
// at this position.
type entry struct {
	pair            model.Pair
	ratingAffecting bool
}

// PairFunc produces a fresh pair when the cursor is at the frontier.
type PairFunc func(t *rating.Table) (a, b string, err error)

// History is the per-track judgment state machine.
type History struct {
	table     *rating.Table
	k         float64
	sequence  []entry
	cursor    int
	snapshots []*rating.Table
	log       []model.Judgment
}

// New creates an empty history owning the given table.
func New(table *rating.Table, k float64) *History {
	return &History{table: table, k: k, cursor: -1}
}

// Ratings returns the track's rating table.
func (h *History) Ratings() *rating.Table {
	return h.table
}

// Advance moves the cursor forward. Behind the frontier it re-presents
// the existing entry; at the frontier it generates a new pair via gen,
// truncates any stale forward entries, and appends.
func (h *History) Advance(gen PairFunc) (model.Pair, error) {
	if h.cursor+1 < len(h.sequence) {
		h.cursor++
		return h.sequence[h.cursor].pair, nil
	}
	a, b, err := gen(h.table)
	if err != nil {
		return model.Pair{}, err
	}
	h.sequence = h.sequence[:h.cursor+1]
	h.sequence = append(h.sequence, entry{
		pair: model.Pair{ID: uuid.NewString(), A: a, B: b},
	})
	h.cursor = len(h.sequence) - 1
	return h.sequence[h.cursor].pair, nil
}

// Append places an externally resolved pair at the frontier. Used for
// tracks whose pairs originate elsewhere, such as the shared track fed
// by the coordinator.
func (h *History) Append(p model.Pair) {
	h.sequence = h.sequence[:h.cursor+1]
	h.sequence = append(h.sequence, entry{pair: p})
	h.cursor = len(h.sequence) - 1
}

// Current returns the entry under the cursor.
func (h *History) Current() (model.Pair, bool) {
	if h.cursor < 0 {
		return model.Pair{}, false
	}
	return h.sequence[h.cursor].pair, true
}

// IsReplaying reports whether the cursor is behind the frontier of
// generated pairs. A replayed position's effects were already counted
// once at its original presentation.
func (h *History) IsReplaying() bool {
	return h.cursor < len(h.sequence)-1
}

// Record resolves the entry under the cursor with the given outcome.
// Rating-affecting outcomes snapshot the table before mutating it; a
// skip is logged but leaves scores alone. The table is validated before
// any mutation, so an error leaves both table and stacks untouched.
func (h *History) Record(out model.Outcome) error {
	if h.cursor < 0 {
		return ErrNoCurrentPair
	}
	e := &h.sequence[h.cursor]
	j := model.Judgment{PairID: e.pair.ID, A: e.pair.A, B: e.pair.B, Outcome: out}

	if !out.RatingAffecting() {
		h.log = append(h.log, j)
		return nil
	}

	snap := h.table.Clone()
	var err error
	switch out {
	case model.OutcomeAWins:
		err = h.table.ApplyWin(e.pair.A, e.pair.B, h.k)
	case model.OutcomeBWins:
		err = h.table.ApplyWin(e.pair.B, e.pair.A, h.k)
	case model.OutcomeTie:
		err = h.table.ApplyTie(e.pair.A, e.pair.B, h.k)
	}
	if err != nil {
		return err
	}
	h.snapshots = append(h.snapshots, snap)
	e.ratingAffecting = true
	h.log = append(h.log, j)
	return nil
}

// GoBack moves the cursor one step back, restoring the snapshot taken
// at the current position if it was rating-affecting. Returns the entry
// now under the cursor. At cursor <= 0 nothing is undone.
func (h *History) GoBack() (model.Pair, bool) {
	if h.cursor <= 0 {
		return model.Pair{}, false
	}
	e := &h.sequence[h.cursor]
	if e.ratingAffecting && len(h.snapshots) > 0 {
		h.table.Restore(h.snapshots[len(h.snapshots)-1])
		h.snapshots = h.snapshots[:len(h.snapshots)-1]
		h.log = h.log[:len(h.log)-1]
		e.ratingAffecting = false
	}
	h.cursor--
	return h.sequence[h.cursor].pair, true
}

// RevertLast fully unwinds the most recent applied judgment, removing
// its sequence entry. It only acts when the frontier entry matches
// pairID, which keeps the reversal aligned with the snapshot stack.
// Used by the coordinator to reverse shared-track propagation; never
// exposed through the caller-facing API.
func (h *History) RevertLast(pairID string) bool {
	if h.cursor < 0 || h.cursor != len(h.sequence)-1 {
		return false
	}
	e := h.sequence[h.cursor]
	if e.pair.ID != pairID {
		return false
	}
	if e.ratingAffecting && len(h.snapshots) > 0 {
		h.table.Restore(h.snapshots[len(h.snapshots)-1])
		h.snapshots = h.snapshots[:len(h.snapshots)-1]
	}
	if n := len(h.log); n > 0 && h.log[n-1].PairID == pairID {
		h.log = h.log[:n-1]
	}
	h.sequence = h.sequence[:h.cursor]
	h.cursor--
	return true
}

// Len returns the number of entries in the pair sequence.
func (h *History) Len() int {
	return len(h.sequence)
}

// Cursor returns the current cursor position, -1 when nothing has been
// presented.
func (h *History) Cursor() int {
	return h.cursor
}

// LogLen returns the number of recorded judgments.
func (h *History) LogLen() int {
	return len(h.log)
}
