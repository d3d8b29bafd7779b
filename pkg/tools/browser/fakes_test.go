package browser

import (
	"context"
	"sync"
	"time"
)

// fakeDriver serves canned markup and records calls.
type fakeDriver struct {
	body        string
	source      string
	url         string
	navigateErr error
	waitErr     error
	closeErr    error

	mu        sync.Mutex
	navigated []string
	waits     []time.Duration
	scrolls   []float64
	closed    int
}

func (d *fakeDriver) Navigate(ctx context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed > 0 {
		return ErrDriverClosed
	}
	d.navigated = append(d.navigated, url)
	if d.navigateErr != nil {
		return d.navigateErr
	}
	d.url = url
	return nil
}

func (d *fakeDriver) WaitForBody(ctx context.Context, timeout time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.waits = append(d.waits, timeout)
	return d.waitErr
}

func (d *fakeDriver) BodyHTML(ctx context.Context) (string, error) {
	return d.body, nil
}

func (d *fakeDriver) PageSource(ctx context.Context) (string, error) {
	if d.source != "" {
		return d.source, nil
	}
	return "<html><head></head>" + d.body + "</html>", nil
}

func (d *fakeDriver) CurrentURL(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url, nil
}

func (d *fakeDriver) ScrollTo(ctx context.Context, ratio float64) error {
	if err := ValidateScrollRatio(ratio); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scrolls = append(d.scrolls, ratio)
	return nil
}

func (d *fakeDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed++
	return d.closeErr
}

func (d *fakeDriver) closeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// fakeLauncher hands out drivers built by newDriver.
type fakeLauncher struct {
	newDriver func() *fakeDriver
	err       error

	mu       sync.Mutex
	launched []*fakeDriver
	opts     []Options
}

func (l *fakeLauncher) Launch(ctx context.Context, opts Options) (Driver, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.opts = append(l.opts, opts)
	if l.err != nil {
		return nil, l.err
	}
	d := l.newDriver()
	l.launched = append(l.launched, d)
	return d, nil
}

func pageLauncher(body string) *fakeLauncher {
	return &fakeLauncher{newDriver: func() *fakeDriver { return &fakeDriver{body: body} }}
}

// echoSummarizer returns a fixed summary and records its inputs.
type echoSummarizer struct {
	summary string
	err     error
	calls   []summarizeCall
}

type summarizeCall struct {
	url, text, question string
}

func (s *echoSummarizer) Summarize(ctx context.Context, url, text, question string, driver Driver) (string, error) {
	s.calls = append(s.calls, summarizeCall{url: url, text: text, question: question})
	if s.err != nil {
		return "", s.err
	}
	return s.summary, nil
}
