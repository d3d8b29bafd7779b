package config

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// SectionIDBrowser is the identifier for the browser settings section
	SectionIDBrowser = "browser"

	// EnvWebBrowser selects the browser family.
	EnvWebBrowser = "USE_WEB_BROWSER"

	// EnvHeadlessBrowser toggles headless mode.
	EnvHeadlessBrowser = "HEADLESS_BROWSER"

	defaultWebBrowser       = "chrome"
	defaultBackend          = "playwright"
	defaultWaitTimeout      = 10 * time.Second
	defaultChunkLength      = 8192
	defaultSummaryMaxTokens = 300
)

var (
	knownBrowsers = []string{"chrome", "firefox", "safari"}
	knownBackends = []string{"playwright", "chromedp"}
)

// BrowserSection controls how pages are fetched and summarized.
type BrowserSection struct {
	WebBrowser       string
	Backend          string
	UserAgent        string // empty uses the browser package default
	Tokenizer        string // tiktoken encoding; empty counts runes
	WaitTimeout      time.Duration
	ChunkLength      int
	SummaryMaxTokens int
	Headless         bool
	mu               sync.RWMutex
}

// NewBrowserSection creates a browser section with default settings.
func NewBrowserSection() *BrowserSection {
	s := &BrowserSection{}
	s.Reset()
	return s
}

func (s *BrowserSection) ID() string    { return SectionIDBrowser }
func (s *BrowserSection) Title() string { return "Browser Settings" }

func (s *BrowserSection) Description() string {
	return "Browser family, automation backend, page wait timeout and summarization chunking. USE_WEB_BROWSER and HEADLESS_BROWSER override the file."
}

// Data returns the current configuration data.
func (s *BrowserSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"web_browser":        s.WebBrowser,
		"headless":           s.Headless,
		"backend":            s.Backend,
		"user_agent":         s.UserAgent,
		"wait_timeout":       s.WaitTimeout.String(),
		"chunk_length":       s.ChunkLength,
		"summary_max_tokens": s.SummaryMaxTokens,
		"tokenizer":          s.Tokenizer,
	}
}

// SetData updates the configuration from the provided data. Values of the
// wrong type are rejected and leave the section unchanged.
func (s *BrowserSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings()
	for key, value := range data {
		if err := next.set(key, value); err != nil {
			return err
		}
	}

	s.WebBrowser = next.WebBrowser
	s.Backend = next.Backend
	s.UserAgent = next.UserAgent
	s.Tokenizer = next.Tokenizer
	s.WaitTimeout = next.WaitTimeout
	s.ChunkLength = next.ChunkLength
	s.SummaryMaxTokens = next.SummaryMaxTokens
	s.Headless = next.Headless
	return nil
}

// set applies one configuration key to a settings copy.
func (b *BrowserSettings) set(key string, value interface{}) error {
	switch key {
	case "web_browser", "backend", "user_agent", "tokenizer":
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("invalid value type for %s: expected string, got %T", key, value)
		}
		switch key {
		case "web_browser":
			b.WebBrowser = strings.ToLower(str)
		case "backend":
			b.Backend = strings.ToLower(str)
		case "user_agent":
			b.UserAgent = str
		default:
			b.Tokenizer = str
		}
	case "headless":
		enabled, ok := value.(bool)
		if !ok {
			return fmt.Errorf("invalid value type for headless: expected bool, got %T", value)
		}
		b.Headless = enabled
	case "wait_timeout":
		d, err := parseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid wait_timeout: %w", err)
		}
		b.WaitTimeout = d
	case "chunk_length":
		n, err := toInt(value)
		if err != nil {
			return fmt.Errorf("invalid chunk_length: %w", err)
		}
		b.ChunkLength = n
	case "summary_max_tokens":
		n, err := toInt(value)
		if err != nil {
			return fmt.Errorf("invalid summary_max_tokens: %w", err)
		}
		b.SummaryMaxTokens = n
	}
	return nil
}

// Validate checks enumerations and numeric bounds.
func (s *BrowserSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !contains(knownBrowsers, s.WebBrowser) {
		return fmt.Errorf("unsupported web_browser %q (want one of %s)", s.WebBrowser, strings.Join(knownBrowsers, ", "))
	}
	if !contains(knownBackends, s.Backend) {
		return fmt.Errorf("unsupported backend %q (want one of %s)", s.Backend, strings.Join(knownBackends, ", "))
	}
	if s.Backend == "chromedp" && s.WebBrowser != "chrome" {
		return fmt.Errorf("backend chromedp only drives chrome, not %s", s.WebBrowser)
	}
	if s.WaitTimeout <= 0 {
		return fmt.Errorf("wait_timeout must be positive")
	}
	if s.ChunkLength <= 0 {
		return fmt.Errorf("chunk_length must be positive")
	}
	if s.SummaryMaxTokens < 0 {
		return fmt.Errorf("summary_max_tokens cannot be negative")
	}
	return nil
}

// Reset restores defaults.
func (s *BrowserSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.WebBrowser = defaultWebBrowser
	s.Headless = true
	s.Backend = defaultBackend
	s.UserAgent = ""
	s.WaitTimeout = defaultWaitTimeout
	s.ChunkLength = defaultChunkLength
	s.SummaryMaxTokens = defaultSummaryMaxTokens
	s.Tokenizer = ""
}

// ApplyEnv overlays USE_WEB_BROWSER and HEADLESS_BROWSER read through getenv.
func (s *BrowserSection) ApplyEnv(getenv func(string) string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v := strings.TrimSpace(getenv(EnvWebBrowser)); v != "" {
		s.WebBrowser = strings.ToLower(v)
	}
	if v := strings.TrimSpace(getenv(EnvHeadlessBrowser)); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			s.Headless = enabled
		}
	}
}

// BrowserSettings is an immutable snapshot of a BrowserSection.
type BrowserSettings struct {
	WebBrowser       string
	Backend          string
	UserAgent        string
	Tokenizer        string
	WaitTimeout      time.Duration
	ChunkLength      int
	SummaryMaxTokens int
	Headless         bool
}

// Snapshot copies the current values.
func (s *BrowserSection) Snapshot() BrowserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings()
}

// settings copies the current values. Callers hold s.mu.
func (s *BrowserSection) settings() BrowserSettings {
	return BrowserSettings{
		WebBrowser:       s.WebBrowser,
		Backend:          s.Backend,
		UserAgent:        s.UserAgent,
		Tokenizer:        s.Tokenizer,
		WaitTimeout:      s.WaitTimeout,
		ChunkLength:      s.ChunkLength,
		SummaryMaxTokens: s.SummaryMaxTokens,
		Headless:         s.Headless,
	}
}

func parseDuration(value interface{}) (time.Duration, error) {
	switch v := value.(type) {
	case string:
		return time.ParseDuration(v)
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	case int:
		return time.Duration(v) * time.Second, nil
	default:
		return 0, fmt.Errorf("expected duration string or seconds, got %T", value)
	}
}

// toInt accepts JSON numbers, which decode as float64.
func toInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("expected whole number, got %v", v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", value)
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
