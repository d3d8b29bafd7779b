package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/entrhq/webscout/pkg/logging"
	"github.com/playwright-community/playwright-go"
)

// PlaywrightLauncher launches chromium, firefox or webkit through a shared
// Playwright driver process. The process and browser binaries are installed
// on first use.
type PlaywrightLauncher struct {
	pw        *playwright.Playwright
	logger    *logging.Logger
	installed map[string]bool
	mu        sync.Mutex
}

// NewPlaywrightLauncher creates a launcher. Nothing is started until Launch.
func NewPlaywrightLauncher(logger *logging.Logger) *PlaywrightLauncher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &PlaywrightLauncher{
		logger:    logger,
		installed: make(map[string]bool),
	}
}

// playwrightBrowserName maps a Family to Playwright's engine name.
func playwrightBrowserName(f Family) (string, error) {
	switch f {
	case FamilyChrome:
		return "chromium", nil
	case FamilyFirefox:
		return "firefox", nil
	case FamilySafari:
		return "webkit", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedBrowser, f)
	}
}

// chromiumArgs are passed to chromium on every launch.
func chromiumArgs() []string {
	args := []string{"--no-sandbox", "--disable-gpu"}
	if runtime.GOOS == "linux" {
		args = append(args, "--disable-dev-shm-usage")
	}
	return args
}

// ensure installs the engine for name and starts the driver process.
// Output is discarded so it does not interleave with CLI output.
func (l *PlaywrightLauncher) ensure(name string) (*playwright.Playwright, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	runOpts := &playwright.RunOptions{
		Browsers: []string{name},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}

	if !l.installed[name] {
		l.logger.Infof("installing playwright %s", name)
		if err := playwright.Install(runOpts); err != nil {
			return nil, fmt.Errorf("%w: install playwright %s: %w", ErrLaunch, name, err)
		}
		l.installed[name] = true
	}

	if l.pw == nil {
		pw, err := playwright.Run(runOpts)
		if err != nil {
			return nil, fmt.Errorf("%w: start playwright: %w", ErrLaunch, err)
		}
		l.pw = pw
	}
	return l.pw, nil
}

// Launch starts a browser with one context and one page.
func (l *PlaywrightLauncher) Launch(ctx context.Context, opts Options) (Driver, error) {
	opts = opts.withDefaults()

	name, err := playwrightBrowserName(opts.Family)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := l.ensure(name)
	if err != nil {
		return nil, err
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{Headless: playwright.Bool(opts.Headless)}
	var browserType playwright.BrowserType
	switch opts.Family {
	case FamilyFirefox:
		browserType = pw.Firefox
	case FamilySafari:
		browserType = pw.WebKit
	default:
		browserType = pw.Chromium
		launchOpts.Args = chromiumArgs()
	}

	browser, err := browserType.Launch(launchOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLaunch, name, err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(opts.UserAgent),
	})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("%w: create context: %w", ErrLaunch, err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		browser.Close()
		return nil, fmt.Errorf("%w: create page: %w", ErrLaunch, err)
	}

	l.logger.Debugf("launched %s (headless=%t)", name, opts.Headless)
	return &playwrightDriver{browser: browser, context: bctx, page: page}, nil
}

// Shutdown stops the Playwright driver process. Drivers must be closed first.
func (l *PlaywrightLauncher) Shutdown() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pw == nil {
		return nil
	}
	err := l.pw.Stop()
	l.pw = nil
	if err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}

type playwrightDriver struct {
	browser   playwright.Browser
	context   playwright.BrowserContext
	page      playwright.Page
	closeOnce sync.Once
	closed    bool
	mu        sync.Mutex
}

func (d *playwrightDriver) usable(ctx context.Context) error {
	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return ErrDriverClosed
	}
	return ctx.Err()
}

// timeoutMillis bounds a Playwright timeout by the context deadline.
func timeoutMillis(ctx context.Context, limit time.Duration) *float64 {
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < limit {
			limit = left
		}
	}
	if limit < time.Millisecond {
		limit = time.Millisecond
	}
	return playwright.Float(float64(limit.Milliseconds()))
}

// classify maps Playwright timeouts to ErrTimeout and everything else to kind.
func classify(kind error, target string, err error) error {
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %s: %w", ErrTimeout, target, err)
	}
	return fmt.Errorf("%w: %s: %w", kind, target, err)
}

func (d *playwrightDriver) Navigate(ctx context.Context, url string) error {
	if err := d.usable(ctx); err != nil {
		return err
	}
	_, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   timeoutMillis(ctx, DefaultNavigateWait),
	})
	if err != nil {
		return classify(ErrNavigation, url, err)
	}
	return nil
}

func (d *playwrightDriver) WaitForBody(ctx context.Context, timeout time.Duration) error {
	if err := d.usable(ctx); err != nil {
		return err
	}
	err := d.page.Locator("body").WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: timeoutMillis(ctx, timeout),
	})
	if err != nil {
		return classify(ErrElementNotFound, "body", err)
	}
	return nil
}

func (d *playwrightDriver) BodyHTML(ctx context.Context) (string, error) {
	if err := d.usable(ctx); err != nil {
		return "", err
	}
	result, err := d.page.Evaluate("() => document.body ? document.body.outerHTML : null")
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	markup, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("%w: body", ErrElementNotFound)
	}
	return markup, nil
}

func (d *playwrightDriver) PageSource(ctx context.Context) (string, error) {
	if err := d.usable(ctx); err != nil {
		return "", err
	}
	source, err := d.page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page source: %w", err)
	}
	return source, nil
}

func (d *playwrightDriver) CurrentURL(ctx context.Context) (string, error) {
	if err := d.usable(ctx); err != nil {
		return "", err
	}
	return d.page.URL(), nil
}

func (d *playwrightDriver) ScrollTo(ctx context.Context, ratio float64) error {
	if err := ValidateScrollRatio(ratio); err != nil {
		return err
	}
	if err := d.usable(ctx); err != nil {
		return err
	}
	if _, err := d.page.Evaluate(fmt.Sprintf(scrollScript, ratio)); err != nil {
		return fmt.Errorf("failed to scroll: %w", err)
	}
	return nil
}

func (d *playwrightDriver) Close() error {
	var err error
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()

		err = errors.Join(d.page.Close(), d.context.Close(), d.browser.Close())
	})
	return err
}
