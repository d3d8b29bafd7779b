package browser

import (
	"context"
	"sync"
	"time"
)

// Session is a named browser kept open between tool calls.
type Session struct {
	CreatedAt time.Time
	driver    Driver
	Name      string
	Family    Family
	Headless  bool

	mu         sync.Mutex
	lastUsedAt time.Time
	currentURL string
}

func newSession(name string, driver Driver, opts Options, url string, now time.Time) *Session {
	return &Session{
		Name:       name,
		driver:     driver,
		Family:     opts.Family,
		Headless:   opts.Headless,
		CreatedAt:  now,
		lastUsedAt: now,
		currentURL: url,
	}
}

// Use runs fn with exclusive access to the session's driver and records the
// page URL afterwards.
func (s *Session) Use(ctx context.Context, fn func(Driver) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := fn(s.driver)
	s.lastUsedAt = time.Now()
	if url, uerr := s.driver.CurrentURL(ctx); uerr == nil && url != "" {
		s.currentURL = url
	}
	return err
}

// Info returns a snapshot of the session.
func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionInfo{
		Name:       s.Name,
		CurrentURL: s.currentURL,
		Family:     s.Family,
		Headless:   s.Headless,
		CreatedAt:  s.CreatedAt,
		LastUsedAt: s.lastUsedAt,
	}
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastUsedAt)
}

func (s *Session) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driver.Close()
}
