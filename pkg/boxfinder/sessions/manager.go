// Package sessions hosts one onboarding workflow per visitor session.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mikepea/boxfinder/pkg/boxfinder/clock"
	"github.com/mikepea/boxfinder/pkg/boxfinder/workflow"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrClosed          = errors.New("session manager is closed")
)

// Factory builds the workflow for a new session
type Factory func(sessionID string) (*workflow.Workflow, error)

// Gauge tracks the number of live sessions
type Gauge interface {
	Set(float64)
}

// Config holds manager settings
type Config struct {
	Factory     Factory
	Tokens      *Tokens
	Clock       clock.Clock
	IdleTimeout time.Duration
	Logger      *slog.Logger
	Active      Gauge
}

type session struct {
	wf       *workflow.Workflow
	lastSeen time.Time
}

// Manager owns the live sessions
type Manager struct {
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session
	closed   bool
}

// NewManager creates a Manager
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Factory == nil {
		return nil, errors.New("sessions: factory is required")
	}
	if cfg.Tokens == nil {
		return nil, errors.New("sessions: tokens are required")
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 30 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Manager{
		cfg:      cfg,
		logger:   cfg.Logger.With("component", "sessions"),
		sessions: make(map[string]*session),
	}, nil
}

// Create starts a new session and returns its id and token
func (m *Manager) Create() (string, string, error) {
	id := uuid.NewString()
	token, err := m.cfg.Tokens.Generate(id)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign session token: %w", err)
	}

	wf, err := m.cfg.Factory(id)
	if err != nil {
		return "", "", fmt.Errorf("failed to create workflow: %w", err)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		wf.Dispose()
		return "", "", ErrClosed
	}
	m.sessions[id] = &session{wf: wf, lastSeen: m.cfg.Clock.Now()}
	m.reportLocked()
	m.mu.Unlock()

	m.logger.Debug("session created", "session_id", id)
	return id, token, nil
}

// Get returns the workflow of a live session and marks it as active
func (m *Manager) Get(id string) (*workflow.Workflow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.lastSeen = m.cfg.Clock.Now()
	return s.wf, nil
}

// Authenticate validates a token and returns the session's workflow
func (m *Manager) Authenticate(token string) (string, *workflow.Workflow, error) {
	claims, err := m.cfg.Tokens.Validate(token)
	if err != nil {
		return "", nil, err
	}
	wf, err := m.Get(claims.SessionID)
	if err != nil {
		return "", nil, err
	}
	return claims.SessionID, wf, nil
}

// Delete ends a session and disposes its workflow
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
		m.reportLocked()
	}
	m.mu.Unlock()

	if ok {
		s.wf.Dispose()
	}
	return ok
}

// Sweep disposes sessions idle for longer than the idle timeout and
// returns how many were removed.
func (m *Manager) Sweep() int {
	cutoff := m.cfg.Clock.Now().Add(-m.cfg.IdleTimeout)

	m.mu.Lock()
	var expired []*workflow.Workflow
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			expired = append(expired, s.wf)
			delete(m.sessions, id)
		}
	}
	m.reportLocked()
	m.mu.Unlock()

	for _, wf := range expired {
		wf.Dispose()
	}
	if len(expired) > 0 {
		m.logger.Info("expired idle sessions", "count", len(expired))
	}
	return len(expired)
}

// Run sweeps idle sessions every interval until ctx is done
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close disposes every session; later Create calls fail
func (m *Manager) Close() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*session)
	m.closed = true
	m.reportLocked()
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, s := range all {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.wf.Dispose()
		}()
	}
	wg.Wait()
}

func (m *Manager) reportLocked() {
	if m.cfg.Active != nil {
		m.cfg.Active.Set(float64(len(m.sessions)))
	}
}
