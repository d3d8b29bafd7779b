package browser

import (
	"fmt"
	"strings"
	"time"
)

// Family is the browser a driver automates.
type Family string

const (
	FamilyChrome  Family = "chrome"
	FamilyFirefox Family = "firefox"
	FamilySafari  Family = "safari"
)

// ParseFamily maps a configured browser name to a Family.
func ParseFamily(name string) (Family, error) {
	switch f := Family(strings.ToLower(strings.TrimSpace(name))); f {
	case FamilyChrome, FamilyFirefox, FamilySafari:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedBrowser, name)
	}
}

// Backend is the automation library behind a Launcher.
type Backend string

const (
	BackendPlaywright Backend = "playwright"
	BackendChromedp   Backend = "chromedp"
)

// ParseBackend maps a configured backend name to a Backend. Empty means
// BackendPlaywright.
func ParseBackend(name string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(name))); b {
	case "":
		return BackendPlaywright, nil
	case BackendPlaywright, BackendChromedp:
		return b, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedBackend, name)
	}
}

// Options configures a launched browser.
type Options struct {
	Family      Family
	UserAgent   string
	WaitTimeout time.Duration // how long to wait for <body> after navigation
	Headless    bool
}

// DefaultOptions returns headless chrome with the default user agent.
func DefaultOptions() Options {
	return Options{
		Family:      FamilyChrome,
		Headless:    true,
		UserAgent:   DefaultUserAgent,
		WaitTimeout: DefaultWaitTimeout,
	}
}

// withDefaults fills zero fields.
func (o Options) withDefaults() Options {
	if o.Family == "" {
		o.Family = FamilyChrome
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.WaitTimeout <= 0 {
		o.WaitTimeout = DefaultWaitTimeout
	}
	return o
}

// SessionInfo describes an open session.
type SessionInfo struct {
	CreatedAt  time.Time
	LastUsedAt time.Time
	Name       string
	CurrentURL string
	Family     Family
	Headless   bool
}

const (
	// DefaultUserAgent is a desktop Chrome user agent string.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.5615.49 Safari/537.36"

	DefaultWaitTimeout  = 10 * time.Second
	DefaultMaxSessions  = 5
	DefaultIdleTimeout  = 5 * time.Minute
	DefaultNavigateWait = 30 * time.Second
)
