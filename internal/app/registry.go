package app

import (
	"context"
	"sync"

	"github.com/arenalab/duelrank/internal/domain/history"
	"github.com/arenalab/duelrank/internal/domain/scheduler"
	"github.com/arenalab/duelrank/pkg/metrics"
)

// trackKey identifies a user's personal track within a ranking set.
type trackKey struct {
	set  string
	user string
}

// personalSession is one user's private track. Its mutex serializes the
// submit and go-back critical sections; sessions of different users
// never contend with each other.
type personalSession struct {
	mu       sync.Mutex
	history  *history.History
	strategy scheduler.Strategy

	// propagated records, by pair id, the positions whose judgment
	// reached the shared track. The reversal decision at undo time must
	// match the propagation decision made at apply time, even if the
	// sandbox flag changed in between.
	propagated map[string]bool
}

// sharedSession is a set's aggregate track. One mutex per set: requests
// touching the same shared table serialize against each other.
type sharedSession struct {
	mu      sync.Mutex
	history *history.History
}

// personalSessionFor returns the live session for (set, user), creating
// it on first use by loading the item set and any persisted scores.
func (s *Service) personalSessionFor(ctx context.Context, set, user string) (*personalSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := trackKey{set: set, user: user}
	if ps, ok := s.personal[key]; ok {
		return ps, nil
	}

	table, err := s.loadTable(ctx, set, personalTrack(user))
	if err != nil {
		return nil, err
	}
	ps := &personalSession{
		history:    s.newHistory(table),
		strategy:   s.defaultStrategy,
		propagated: make(map[string]bool),
	}
	s.personal[key] = ps
	metrics.UpdateActiveSessions(len(s.personal))
	return ps, nil
}

// sharedSessionFor returns the live shared track for a set, creating it
// on first use.
func (s *Service) sharedSessionFor(ctx context.Context, set string) (*sharedSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ss, ok := s.shared[set]; ok {
		return ss, nil
	}

	table, err := s.loadTable(ctx, set, sharedTrack)
	if err != nil {
		return nil, err
	}
	ss := &sharedSession{history: s.newHistory(table)}
	s.shared[set] = ss
	metrics.UpdateTrackedSets(len(s.shared))
	return ss, nil
}
