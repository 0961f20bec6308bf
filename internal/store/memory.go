package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"aliasgame/internal/config"
	"aliasgame/internal/game"
)

// Registry holds all live sessions in memory. Empty sessions are removed
// the moment their last player leaves; idle ones are collected by a
// low-frequency background sweep polling each session's last activity.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*game.Session

	rules    game.Rules
	ttl      time.Duration
	interval time.Duration
	log      zerolog.Logger
}

// NewRegistry creates an empty session registry.
func NewRegistry(cfg *config.ServerConfig, log zerolog.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*game.Session),
		rules:    cfg.Game.Rules(),
		ttl:      cfg.Registry.SessionTTL,
		interval: cfg.Registry.SweepInterval,
		log:      log.With().Str("component", "registry").Logger(),
	}
}

// GetOrCreate returns the session with the given id, creating it if
// needed. Idempotent and safe for concurrent use.
func (r *Registry) GetOrCreate(id string) (*game.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		return s, nil
	}

	s, err := game.NewSession(id, r.rules, r.log, r.removeEmpty)
	if err != nil {
		return nil, err
	}
	r.sessions[id] = s
	r.log.Debug().Str("session", id).Msg("session created")
	return s, nil
}

// Get returns an existing session or an error if it does not exist.
func (r *Registry) Get(id string) (*game.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s not found", id)
	}
	return s, nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// removeEmpty is the session's on-empty hook.
func (r *Registry) removeEmpty(s *game.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.sessions[s.ID]; ok && current == s {
		delete(r.sessions, s.ID)
		r.log.Debug().Str("session", s.ID).Msg("empty session removed")
	}
}

// StartGC runs the idle sweep until ctx is cancelled.
func (r *Registry) StartGC(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := r.sweep(now); n > 0 {
					r.log.Info().Int("collected", n).Msg("idle sessions collected")
				}
			}
		}
	}()
}

// sweep removes sessions whose last activity is older than the TTL. A
// running game is cancelled before its session is dropped.
func (r *Registry) sweep(now time.Time) int {
	r.mu.Lock()
	var stale []*game.Session
	for id, s := range r.sessions {
		if now.Sub(s.LastActive()) > r.ttl {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.Cancel()
	}
	return len(stale)
}
