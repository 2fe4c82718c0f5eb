// Package session keeps per-session view state. Each session owns an
// independent ViewState pair (popular + upcoming); all sessions share
// the dataset snapshot read-only.
package session

import (
	"fmt"
	"sync"
	"time"

	"igdb-dashboard/internal/constants"
	"igdb-dashboard/internal/pagination"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// State is one user session's view state.
type State struct {
	Popular  *pagination.ViewState
	Upcoming *pagination.ViewState

	lastSeen time.Time
}

func newState(now time.Time) *State {
	return &State{
		Popular:  pagination.NewViewState(),
		Upcoming: pagination.NewViewState(),
		lastSeen: now,
	}
}

// Registry is an in-memory session store keyed by nanoid. Idle sessions
// are evicted by a background sweeper.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*State
	idleTTL  time.Duration
	logger   zerolog.Logger

	done chan struct{}
	once sync.Once
}

func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*State),
		idleTTL:  constants.SessionIdleTTL,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Get returns the session for id, creating a fresh one when the id is
// unknown or empty. The returned id differs from the input only when a
// new session was started.
func (r *Registry) Get(id string) (string, *State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if id != "" {
		if s, ok := r.sessions[id]; ok {
			s.lastSeen = now
			return id, s, nil
		}
	}

	newID, err := gonanoid.New(constants.SessionIDLength)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	s := newState(now)
	r.sessions[newID] = s
	r.logger.Debug().Str("session_id", newID).Msg("session started")
	return newID, s, nil
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle longer than the TTL and reports how many
// were evicted.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.idleTTL {
			delete(r.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		r.logger.Debug().Int("evicted", evicted).Int("remaining", len(r.sessions)).Msg("idle sessions evicted")
	}
	return evicted
}

// Run sweeps periodically until Stop is called.
func (r *Registry) Run() {
	ticker := time.NewTicker(constants.SessionSweepPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Sweep(time.Now())
		case <-r.done:
			return
		}
	}
}

func (r *Registry) Stop() {
	r.once.Do(func() {
		close(r.done)
	})
}
