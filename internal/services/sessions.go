package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"miimaker/config"
	"miimaker/internal/audio"
	"miimaker/internal/maker"

	"github.com/charmbracelet/log"
)

var (
	ErrRegistryShuttingDown = errors.New("service shutting down")
	ErrSessionNotFound      = errors.New("session not found")
)

type sessionEntry struct {
	session *maker.Session
	sound   *audio.Soundtrack
}

// Registry owns every mounted maker screen and closes the ones left idle.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	closing  bool

	idleTTL time.Duration
	sweep   time.Duration
	logger  *log.Logger
}

func NewRegistry(cfg config.SessionsConfig) *Registry {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = config.DefaultIdleTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = config.DefaultSweepInterval
	}
	return &Registry{
		sessions: map[string]*sessionEntry{},
		idleTTL:  cfg.IdleTTL,
		sweep:    cfg.SweepInterval,
		logger:   log.With("component", "sessions"),
	}
}

func (r *Registry) Add(s *maker.Session, sound *audio.Soundtrack) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closing {
		return ErrRegistryShuttingDown
	}
	r.sessions[s.ID()] = &sessionEntry{session: s, sound: sound}
	return nil
}

func (r *Registry) Get(id string) (*sessionEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

// Remove unmounts the session and reports whether it existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		e.session.Close()
	}
	return ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep closes sessions idle since before now-idleTTL and returns how many
// it removed.
func (r *Registry) Sweep(now time.Time) int {
	cutoff := now.Add(-r.idleTTL)

	r.mu.Lock()
	var stale []*sessionEntry
	for id, e := range r.sessions {
		if e.session.LastActive().Before(cutoff) {
			stale = append(stale, e)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, e := range stale {
		e.session.Close()
	}
	if len(stale) > 0 {
		r.logger.Info("swept idle sessions", "count", len(stale))
	}
	return len(stale)
}

func (r *Registry) Run(ctx context.Context) error {
	t := time.NewTicker(r.sweep)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			r.Sweep(now)
		}
	}
}

func (r *Registry) Shutdown() {
	r.mu.Lock()
	r.closing = true
	sessions := r.sessions
	r.sessions = map[string]*sessionEntry{}
	r.mu.Unlock()

	for _, e := range sessions {
		e.session.Close()
	}
}
