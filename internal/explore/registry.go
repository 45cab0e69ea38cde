package explore

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const reapInterval = 30 * time.Second

// Registry owns the live sessions: creation, lookup, idle reaping, and
// shutdown. Session goroutines run under the context passed to Run.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ctx      context.Context

	provider    Provider
	emitter     Emitter
	log         *logrus.Logger
	tickEvery   time.Duration
	idleTimeout time.Duration
}

// NewRegistry builds a registry. idleTimeout 0 disables reaping.
func NewRegistry(provider Provider, emitter Emitter, log *logrus.Logger, tickEvery, idleTimeout time.Duration) *Registry {
	return &Registry{
		sessions:    make(map[string]*Session),
		provider:    provider,
		emitter:     emitter,
		log:         log,
		tickEvery:   tickEvery,
		idleTimeout: idleTimeout,
	}
}

// Run anchors session lifetimes and reaps idle sessions until the context
// is cancelled, then closes every remaining session.
func (r *Registry) Run(ctx context.Context) {
	r.mu.Lock()
	r.ctx = ctx
	r.mu.Unlock()

	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return
		case <-ticker.C:
			r.reapIdle()
		}
	}
}

// Create starts a new session. A non-empty restore URL primes the filter
// state and, with autoload=yes, issues the first query immediately.
func (r *Registry) Create(restore string) (*Session, error) {
	s := NewSession(SessionConfig{
		Provider:  r.provider,
		Emitter:   r.emitter,
		Log:       r.log,
		TickEvery: r.tickEvery,
	})

	r.mu.Lock()
	ctx := r.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	r.sessions[s.ID()] = s
	r.mu.Unlock()

	go func() {
		s.Run(ctx)
		r.mu.Lock()
		delete(r.sessions, s.ID())
		r.mu.Unlock()
	}()

	if restore != "" {
		if err := s.Submit(Command{Action: ActionRestoreURL, URL: restore}); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Get returns a session by id.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Close stops a session and reports whether it existed.
func (r *Registry) Close(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		s.Close()
	}
	return ok
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) reapIdle() {
	if r.idleTimeout <= 0 {
		return
	}

	cutoff := time.Now().Add(-r.idleTimeout)

	r.mu.Lock()
	var idle []*Session
	for _, s := range r.sessions {
		if s.LastActive().Before(cutoff) {
			idle = append(idle, s)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		r.log.WithField("session_id", s.ID()).Info("closing idle session")
		s.Close()
	}
}

func (r *Registry) closeAll() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
		<-s.Done()
	}
}
