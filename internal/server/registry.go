package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/bughunt/backend/internal/engine"
)

// GameConfig bundles the session parameters handed down from config.
type GameConfig struct {
	// PerLevel maps difficulty level to the number of problems drawn
	// per session.
	PerLevel map[int]int
	Engine   engine.Config
}

// session is one live play-through. All state access goes through mu
// so taps, skips, and timer ticks are applied one at a time.
type session struct {
	token        string
	uiLanguage   string
	codeLanguage string

	mu          sync.Mutex
	state       engine.State
	touched     time.Time
	resultSaved bool
}

// apply advances the session by one event and returns the states
// before and after, letting handlers derive what changed.
func (s *session) apply(ev engine.Event) (before, after engine.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before = s.state
	s.state = s.state.Apply(ev)
	s.touched = time.Now()
	return before, s.state
}

func (s *session) snapshot() engine.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Registry holds all live sessions and drives their countdown timers.
// The engine itself never blocks; the registry is the host that feeds
// it one Tick per second until the session ends.
type Registry struct {
	broker    *Broker
	tickEvery time.Duration

	mu       sync.RWMutex
	sessions map[string]*session
}

func NewRegistry(broker *Broker) *Registry {
	return &Registry{
		broker:    broker,
		tickEvery: time.Second,
		sessions:  make(map[string]*session),
	}
}

// Start registers a new session over st and begins its timer. The
// returned token is the bearer credential for all further calls.
func (r *Registry) Start(st engine.State, uiLanguage, codeLanguage string) string {
	s := &session{
		token:        newToken(),
		uiLanguage:   uiLanguage,
		codeLanguage: codeLanguage,
		state:        st,
		touched:      time.Now(),
	}

	r.mu.Lock()
	r.sessions[s.token] = s
	r.mu.Unlock()

	if st.Status == engine.StatusInProgress {
		go r.runTimer(s)
	}
	return s.token
}

// get returns the live session for token.
func (r *Registry) get(token string) (*session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[token]
	r.mu.RUnlock()
	return s, ok
}

// runTimer applies one Tick per interval until the session ends. A
// session ended by skip (pool exhaustion) is noticed on the next tick
// and stops the timer without publishing anything; the ended event for
// that path is published by the skip handler.
func (r *Registry) runTimer(s *session) {
	t := time.NewTicker(r.tickEvery)
	defer t.Stop()

	for range t.C {
		before, after := s.apply(engine.Tick{})
		if before.Status == engine.StatusEnded {
			return
		}

		if after.Status == engine.StatusEnded {
			r.broker.Publish(s.token, GameEvent{
				Type:  "ended",
				Score: after.Score,
				Combo: after.Combo,
			})
			return
		}

		r.broker.Publish(s.token, GameEvent{
			Type:     "tick",
			TimeLeft: after.TimeLeft,
			Score:    after.Score,
			Combo:    after.Combo,
		})
	}
}

// Run sweeps out abandoned sessions until ctx is done. Ended sessions
// linger briefly so the result can still be fetched.
func (r *Registry) Run(ctx context.Context) error {
	const (
		sweepEvery = time.Minute
		maxIdle    = 30 * time.Minute
	)

	t := time.NewTicker(sweepEvery)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			r.mu.Lock()
			for token, s := range r.sessions {
				s.mu.Lock()
				stale := now.Sub(s.touched) > maxIdle
				s.mu.Unlock()
				if stale {
					delete(r.sessions, token)
				}
			}
			r.mu.Unlock()
		}
	}
}

func newToken() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
