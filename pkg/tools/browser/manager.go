package browser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/entrhq/webscout/pkg/logging"
)

// SessionManager keeps named browsers open across tool calls.
type SessionManager struct {
	service     *Service
	logger      *logging.Logger
	sessions    map[string]*Session
	pending     map[string]struct{}
	now         func() time.Time
	maxSessions int
	idleTimeout time.Duration
	mu          sync.RWMutex
}

// NewSessionManager creates a manager that opens pages through service.
func NewSessionManager(service *Service, logger *logging.Logger) *SessionManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &SessionManager{
		service:     service,
		logger:      logger,
		sessions:    make(map[string]*Session),
		pending:     make(map[string]struct{}),
		now:         time.Now,
		maxSessions: DefaultMaxSessions,
		idleTimeout: DefaultIdleTimeout,
	}
}

// Service returns the service sessions are opened with.
func (m *SessionManager) Service() *Service {
	return m.service
}

// Open launches a browser, loads url and keeps it under name.
func (m *SessionManager) Open(ctx context.Context, name, url string) (*Session, error) {
	if name == "" {
		return nil, errors.New("session name is required")
	}

	// Reserve the name so concurrent opens cannot exceed the limit while
	// the browser starts.
	m.mu.Lock()
	if _, exists := m.sessions[name]; exists {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrSessionExists, name)
	}
	if _, exists := m.pending[name]; exists {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrSessionExists, name)
	}
	if len(m.sessions)+len(m.pending) >= m.maxSessions {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManySessions, m.maxSessions)
	}
	m.pending[name] = struct{}{}
	m.mu.Unlock()

	_, driver, err := m.service.OpenWebsite(ctx, url)

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, name)
	if err != nil {
		return nil, err
	}

	current := url
	if u, uerr := driver.CurrentURL(ctx); uerr == nil && u != "" {
		current = u
	}
	session := newSession(name, driver, m.service.Options(), current, m.now())
	m.sessions[name] = session
	m.logger.Infof("opened session %q at %s", name, current)
	return session, nil
}

// Get returns the session called name.
func (m *SessionManager) Get(name string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[name]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, name)
	}
	return session, nil
}

// Close closes and forgets the session called name.
func (m *SessionManager) Close(name string) error {
	m.mu.Lock()
	session, exists := m.sessions[name]
	delete(m.sessions, name)
	m.mu.Unlock()

	if !exists {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, name)
	}
	if err := session.close(); err != nil {
		return fmt.Errorf("failed to close session %q: %w", name, err)
	}
	m.logger.Infof("closed session %q", name)
	return nil
}

// List returns all sessions ordered by name.
func (m *SessionManager) List() []SessionInfo {
	m.mu.RLock()
	infos := make([]SessionInfo, 0, len(m.sessions))
	for _, session := range m.sessions {
		infos = append(infos, session.Info())
	}
	m.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// HasSessions reports whether any session is open.
func (m *SessionManager) HasSessions() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions) > 0
}

// CloseAll closes every session.
func (m *SessionManager) CloseAll() error {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	var errs []error
	for name, session := range sessions {
		if err := session.close(); err != nil {
			errs = append(errs, fmt.Errorf("session %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// CleanupIdleSessions closes sessions unused for longer than the idle
// timeout and returns their names.
func (m *SessionManager) CleanupIdleSessions() ([]string, error) {
	now := m.now()

	m.mu.Lock()
	idle := make(map[string]*Session)
	for name, session := range m.sessions {
		if session.idleSince(now) > m.idleTimeout {
			idle[name] = session
			delete(m.sessions, name)
		}
	}
	m.mu.Unlock()

	closed := make([]string, 0, len(idle))
	var errs []error
	for name, session := range idle {
		closed = append(closed, name)
		if err := session.close(); err != nil {
			errs = append(errs, fmt.Errorf("session %q: %w", name, err))
		}
	}
	sort.Strings(closed)
	if len(closed) > 0 {
		m.logger.Infof("closed idle sessions: %v", closed)
	}
	return closed, errors.Join(errs...)
}

// RunJanitor closes idle sessions every interval until ctx is done.
func (m *SessionManager) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.CleanupIdleSessions(); err != nil {
				m.logger.Warnf("idle session cleanup: %v", err)
			}
		}
	}
}

// SetMaxSessions sets the maximum number of concurrent sessions.
func (m *SessionManager) SetMaxSessions(max int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxSessions = max
}

// SetIdleTimeout sets how long a session may sit unused.
func (m *SessionManager) SetIdleTimeout(timeout time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idleTimeout = timeout
}
