// Package app wires the rating engine, scheduler, histories, and
// adapters into the caller-facing ranking service. It coordinates the
// dual-track model: every judgment lands on the submitting user's
// personal track and, unless suppressed, on the set's shared track.
package app

import (
	"context"
	"sync"

	"github.com/arenalab/duelrank/internal/adapters/catalog"
	"github.com/arenalab/duelrank/internal/adapters/media"
	"github.com/arenalab/duelrank/internal/adapters/persistence"
	"github.com/arenalab/duelrank/internal/domain/history"
	"github.com/arenalab/duelrank/internal/domain/model"
	"github.com/arenalab/duelrank/internal/domain/rating"
	"github.com/arenalab/duelrank/internal/domain/scheduler"
	"github.com/arenalab/duelrank/pkg/logger"
	"github.com/arenalab/duelrank/pkg/metrics"
)

// sharedTrack is the persistence track name of a set's aggregate table.
const sharedTrack = "shared"

// personalTrack names a user's private persistence track within a set.
func personalTrack(user string) string {
	return "user:" + user
}

// Service implements the caller-facing ranking operations.
type Service struct {
	mu       sync.Mutex // guards the session maps and sandbox set
	personal map[trackKey]*personalSession
	shared   map[string]*sharedSession
	sandbox  map[string]bool

	catalog catalog.Loader
	store   persistence.Store
	media   media.Lookup
	sched   *scheduler.Scheduler

	kFactor         float64
	initialRating   float64
	defaultStrategy scheduler.Strategy

	logger logger.Logger
}

// New constructs a Service over the given adapters.
func New(loader catalog.Loader, store persistence.Store, lookup media.Lookup, opts ...Option) *Service {
	s := &Service{
		personal:        make(map[trackKey]*personalSession),
		shared:          make(map[string]*sharedSession),
		sandbox:         make(map[string]bool),
		catalog:         loader,
		store:           store,
		media:           lookup,
		sched:           scheduler.New(),
		kFactor:         rating.DefaultKFactor,
		initialRating:   rating.DefaultInitialRating,
		defaultStrategy: scheduler.StrategyRandom,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// NextPair advances the user's personal track and returns the pair now
// under the cursor, decorated with presentation metadata. Behind the
// frontier this re-presents the existing pair; at the frontier it
// generates a new one under the session's strategy.
func (s *Service) NextPair(ctx context.Context, set, user string) (model.Pair, error) {
	ps, err := s.personalSessionFor(ctx, set, user)
	if err != nil {
		return model.Pair{}, err
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	strategy := ps.strategy
	pair, err := ps.history.Advance(func(t *rating.Table) (string, string, error) {
		return s.sched.NextPair(t, strategy)
	})
	if err != nil {
		return model.Pair{}, err
	}
	metrics.RecordPairServed(string(strategy))
	return s.decorate(ctx, set, pair), nil
}

// SubmitJudgment resolves the pair under the user's cursor.
//
// The replay state is captured before the judgment is applied: it
// describes the position being resolved, not the post-state. The
// personal track is always updated, skips included (a skip is a logged
// navigation step that never mutates scores). The shared track is
// updated only when the outcome is rating-affecting, the user is not
// sandboxed, and the position is not a replay. The propagation decision
// is remembered per position so a later go-back reverses exactly what
// was applied, regardless of how the sandbox toggle changes in the
// interim.
func (s *Service) SubmitJudgment(ctx context.Context, set, user, pairID string, out model.Outcome) error {
	ps, err := s.personalSessionFor(ctx, set, user)
	if err != nil {
		return err
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	cur, ok := ps.history.Current()
	if !ok || cur.ID != pairID {
		return ErrStalePair
	}
	wasReplaying := ps.history.IsReplaying()

	if err := ps.history.Record(out); err != nil {
		return err
	}
	metrics.RecordJudgment(string(out))

	if out == model.OutcomeSkip {
		return s.persistPersonal(ctx, set, user, ps)
	}

	if !s.Sandboxed(user) && !wasReplaying {
		if err := s.propagate(ctx, set, cur, out); err != nil {
			return err
		}
		ps.propagated[cur.ID] = true
	}

	return s.persistPersonal(ctx, set, user, ps)
}

// propagate applies a judgment to the set's shared track and persists it.
func (s *Service) propagate(ctx context.Context, set string, cur model.Pair, out model.Outcome) error {
	ss, err := s.sharedSessionFor(ctx, set)
	if err != nil {
		return err
	}

	ss.mu.Lock()
	ss.history.Append(model.Pair{ID: cur.ID, A: cur.A, B: cur.B})
	err = ss.history.Record(out)
	if err == nil {
		err = s.store.Save(ctx, set, sharedTrack, ss.history.Ratings().Scores())
	}
	ss.mu.Unlock()

	if err != nil {
		return err
	}
	metrics.RecordSharedPropagation()
	return nil
}

// GoBack moves the user's cursor one step back, restoring the personal
// table and, when this position had reached the shared track, reversing
// that update too. Returns the pair now under the cursor; the boolean
// is false when there is nothing to undo. A failure persisting the
// shared reversal is logged rather than returned: the personal undo has
// already committed and the response reflects it.
func (s *Service) GoBack(ctx context.Context, set, user string) (model.Pair, bool, error) {
	ps, err := s.personalSessionFor(ctx, set, user)
	if err != nil {
		return model.Pair{}, false, err
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	cur, ok := ps.history.Current()
	if !ok {
		return model.Pair{}, false, nil
	}

	pair, undone := ps.history.GoBack()
	if !undone {
		return model.Pair{}, false, nil
	}
	metrics.RecordGoBack()

	if ps.propagated[cur.ID] {
		if err := s.reverseShared(ctx, set, user, cur.ID); err != nil {
			// The personal undo has already committed, so the response
			// must reflect it. The shared table was reverted in memory
			// and is re-persisted on its next mutation.
			s.logger.Error(ctx, "persisting shared track reversal failed",
				logger.String("set", set),
				logger.String("user", user),
				logger.Error(err),
			)
		}
		delete(ps.propagated, cur.ID)
	}

	if err := s.persistPersonal(ctx, set, user, ps); err != nil {
		return model.Pair{}, false, err
	}
	return s.decorate(ctx, set, pair), true, nil
}

// reverseShared unwinds the shared-track judgment recorded for pairID.
// Reversal only succeeds while that judgment is still the shared
// frontier; a later judgment from another user leaves the earlier
// contribution in place, mirroring the no-reconciliation rule for
// replays.
func (s *Service) reverseShared(ctx context.Context, set, user, pairID string) error {
	ss, err := s.sharedSessionFor(ctx, set)
	if err != nil {
		return err
	}

	ss.mu.Lock()
	reverted := ss.history.RevertLast(pairID)
	if reverted {
		err = s.store.Save(ctx, set, sharedTrack, ss.history.Ratings().Scores())
	}
	ss.mu.Unlock()

	if err != nil {
		return err
	}
	if !reverted {
		s.logger.Warn(ctx, "shared track moved on; leaving earlier contribution in place",
			logger.String("set", set),
			logger.String("user", user),
			logger.String("pairID", pairID),
		)
		return nil
	}
	metrics.RecordSharedReversal()
	return nil
}

// Rankings returns the personal and shared orderings for a set. A
// non-positive limit returns the full listing.
func (s *Service) Rankings(ctx context.Context, set, user string, limit int) (personal, shared []rating.Entry, err error) {
	ps, err := s.personalSessionFor(ctx, set, user)
	if err != nil {
		return nil, nil, err
	}
	ss, err := s.sharedSessionFor(ctx, set)
	if err != nil {
		return nil, nil, err
	}

	ps.mu.Lock()
	personal = ps.history.Ratings().Rankings()
	ps.mu.Unlock()

	ss.mu.Lock()
	shared = ss.history.Ratings().Rankings()
	ss.mu.Unlock()

	if limit > 0 {
		if limit < len(personal) {
			personal = personal[:limit]
		}
		if limit < len(shared) {
			shared = shared[:limit]
		}
	}
	return personal, shared, nil
}

// SetStrategy changes the pair-selection strategy of a user's session.
func (s *Service) SetStrategy(ctx context.Context, set, user string, strategy scheduler.Strategy) error {
	ps, err := s.personalSessionFor(ctx, set, user)
	if err != nil {
		return err
	}
	ps.mu.Lock()
	ps.strategy = strategy
	ps.mu.Unlock()
	return nil
}

// SetSandbox toggles the user's sandbox flag. While sandboxed, the
// user's judgments never reach shared tracks.
func (s *Service) SetSandbox(user string, on bool) {
	s.mu.Lock()
	s.sandbox[user] = on
	s.mu.Unlock()
}

// Sandboxed reports the user's sandbox flag.
func (s *Service) Sandboxed(user string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sandbox[user]
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]any{
		"activeSessions": len(s.personal),
		"trackedSets":    len(s.shared),
		"sandboxedUsers": countTrue(s.sandbox),
	}
}

func countTrue(m map[string]bool) int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}

// decorate fills presentation metadata on a pair before returning it.
func (s *Service) decorate(ctx context.Context, set string, pair model.Pair) model.Pair {
	if url, ok := s.media.ImageFor(ctx, set, pair.A); ok {
		pair.ImageA = url
	}
	if url, ok := s.media.ImageFor(ctx, set, pair.B); ok {
		pair.ImageB = url
	}
	return pair
}

func (s *Service) persistPersonal(ctx context.Context, set, user string, ps *personalSession) error {
	return s.store.Save(ctx, set, personalTrack(user), ps.history.Ratings().Scores())
}

// loadTable builds a track's table: every catalog item at the initial
// rating, overlaid with whatever scores were persisted for the track.
func (s *Service) loadTable(ctx context.Context, set, track string) (*rating.Table, error) {
	items, err := s.catalog.Items(ctx, set)
	if err != nil {
		return nil, err
	}
	table := rating.NewTable(items, s.initialRating)
	scores, ok, err := s.store.Load(ctx, set, track)
	if err != nil {
		return nil, err
	}
	if ok {
		table.ApplyScores(scores)
	}
	return table, nil
}

func (s *Service) newHistory(table *rating.Table) *history.History {
	return history.New(table, s.kFactor)
}
