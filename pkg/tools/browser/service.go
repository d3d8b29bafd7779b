package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/entrhq/webscout/pkg/logging"
	"github.com/entrhq/webscout/pkg/processing/html"
)

const (
	// OpenedMessage is returned once a page has been opened for later use.
	OpenedMessage = "Website is now open using the browser driver"

	// NoTextSummary stands in for the summary when a page has no text.
	NoTextSummary = "Error: No text to summarize"
)

// Summarizer answers question from page text. driver is the browser the
// text came from; implementations may scroll it while they work.
type Summarizer interface {
	Summarize(ctx context.Context, url, text, question string, driver Driver) (string, error)
}

// SummarizerFunc adapts a function to Summarizer.
type SummarizerFunc func(ctx context.Context, url, text, question string, driver Driver) (string, error)

// Summarize calls f.
func (f SummarizerFunc) Summarize(ctx context.Context, url, text, question string, driver Driver) (string, error) {
	return f(ctx, url, text, question, driver)
}

// Service fetches pages in a fresh browser and turns them into answers.
type Service struct {
	launcher   Launcher
	summarizer Summarizer
	logger     *logging.Logger
	opts       Options
}

// NewService creates a service. A nil logger discards output.
func NewService(launcher Launcher, summarizer Summarizer, opts Options, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		launcher:   launcher,
		summarizer: summarizer,
		opts:       opts.withDefaults(),
		logger:     logger,
	}
}

// Options returns the launch options used for every browser.
func (s *Service) Options() Options {
	return s.opts
}

// BrowseWebsite loads rawURL in a new browser, summarizes its text with
// respect to question and lists up to html.MaxLinks of its links:
//
//	Answer gathered from website: {summary} \n \n Links: ['text (url)', ...]
//
// The browser is closed before returning, whatever the outcome. On success
// the closed driver is returned alongside the answer.
func (s *Service) BrowseWebsite(ctx context.Context, rawURL, question string) (result string, driver Driver, err error) {
	if s.summarizer == nil {
		return "", nil, errors.New("browse website: no summarizer configured")
	}

	driver, err = s.launcher.Launch(ctx, s.opts)
	if err != nil {
		return "", nil, err
	}
	defer func() {
		if cerr := driver.Close(); cerr != nil {
			s.logger.Warnf("closing browser for %s: %v", rawURL, cerr)
		}
		if err != nil {
			driver = nil
		}
	}()

	s.logger.Infof("browsing %s", rawURL)

	text, err := s.ScrapeText(ctx, driver, rawURL)
	if err != nil {
		return "", driver, err
	}

	result, err = s.answer(ctx, driver, rawURL, text, question)
	return result, driver, err
}

// OpenWebsite loads rawURL in a new browser and leaves it open. The caller
// owns the returned driver and must close it.
func (s *Service) OpenWebsite(ctx context.Context, rawURL string) (string, Driver, error) {
	driver, err := s.launcher.Launch(ctx, s.opts)
	if err != nil {
		return "", nil, err
	}

	if err := s.load(ctx, driver, rawURL); err != nil {
		if cerr := driver.Close(); cerr != nil {
			s.logger.Warnf("closing browser for %s: %v", rawURL, cerr)
		}
		return "", nil, err
	}

	s.logger.Infof("opened %s", rawURL)
	return OpenedMessage, driver, nil
}

// ReadPage answers question from the page already loaded in driver.
func (s *Service) ReadPage(ctx context.Context, driver Driver, question string) (string, error) {
	if s.summarizer == nil {
		return "", errors.New("read page: no summarizer configured")
	}

	pageURL, err := driver.CurrentURL(ctx)
	if err != nil {
		return "", err
	}
	text, err := s.PageText(ctx, driver)
	if err != nil {
		return "", err
	}
	return s.answer(ctx, driver, pageURL, text, question)
}

// ScrapeText navigates driver to rawURL and returns the page's clean text.
func (s *Service) ScrapeText(ctx context.Context, driver Driver, rawURL string) (string, error) {
	if err := s.load(ctx, driver, rawURL); err != nil {
		return "", err
	}
	return s.PageText(ctx, driver)
}

// PageText returns the clean text of the loaded page's body.
func (s *Service) PageText(ctx context.Context, driver Driver) (string, error) {
	body, err := driver.BodyHTML(ctx)
	if err != nil {
		return "", err
	}
	text, err := html.ExtractText(body)
	if err != nil {
		return "", err
	}
	s.logger.Debugf("extracted %d characters of text", len(text))
	return text, nil
}

// ScrapeLinks returns the formatted hyperlinks of the loaded page. Relative
// links resolve against the driver's current URL, or rawURL when that is
// unavailable.
func (s *Service) ScrapeLinks(ctx context.Context, driver Driver, rawURL string) ([]string, error) {
	source, err := driver.PageSource(ctx)
	if err != nil {
		return nil, err
	}

	base := rawURL
	if current, err := driver.CurrentURL(ctx); err == nil && isAbsoluteURL(current) {
		base = current
	}

	page, err := html.ParsePage(source, base)
	if err != nil {
		return nil, err
	}
	return html.FormatHyperlinks(page.Hyperlinks()), nil
}

// load navigates and waits for the body.
func (s *Service) load(ctx context.Context, driver Driver, rawURL string) error {
	if err := driver.Navigate(ctx, rawURL); err != nil {
		return err
	}
	return driver.WaitForBody(ctx, s.opts.WaitTimeout)
}

func (s *Service) answer(ctx context.Context, driver Driver, pageURL, text, question string) (string, error) {
	summary := NoTextSummary
	if text != "" {
		var err error
		summary, err = s.summarizer.Summarize(ctx, pageURL, text, question, driver)
		if err != nil {
			return "", fmt.Errorf("summarize %s: %w", pageURL, err)
		}
	}

	links, err := s.ScrapeLinks(ctx, driver, pageURL)
	if err != nil {
		return "", err
	}
	links = html.LimitLinks(links, html.MaxLinks)

	return fmt.Sprintf("Answer gathered from website: %s \n \n Links: %s", summary, FormatLinkList(links)), nil
}

// FormatLinkList renders links as a bracketed list of quoted entries,
// e.g. ['About (https://x.com/about)', 'Home (https://x.com/)'].
func FormatLinkList(links []string) string {
	quoted := make([]string, len(links))
	for i, link := range links {
		quoted[i] = quote(link)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// quote wraps s in single quotes, switching to double quotes when s holds a
// single quote but no double quote.
func quote(s string) string {
	q := byte('\'')
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		q = '"'
	}

	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == rune(q):
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.IsAbs()
}
