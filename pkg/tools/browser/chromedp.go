package browser

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/entrhq/webscout/pkg/logging"
)

// ChromedpLauncher drives a local Chrome over the DevTools protocol.
// It only supports FamilyChrome.
type ChromedpLauncher struct {
	logger *logging.Logger

	// ExecPath overrides the Chrome binary; empty searches the usual locations.
	ExecPath string
}

// NewChromedpLauncher creates a launcher.
func NewChromedpLauncher(logger *logging.Logger) *ChromedpLauncher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ChromedpLauncher{logger: logger}
}

func (l *ChromedpLauncher) allocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts,
		chromedp.Flag("headless", opts.Headless),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.UserAgent(opts.UserAgent),
	)
	if runtime.GOOS == "linux" {
		allocOpts = append(allocOpts, chromedp.Flag("disable-dev-shm-usage", true))
	}
	if l.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(l.ExecPath))
	}
	return allocOpts
}

// Launch starts Chrome and opens one tab.
func (l *ChromedpLauncher) Launch(ctx context.Context, opts Options) (Driver, error) {
	opts = opts.withDefaults()
	if opts.Family != FamilyChrome {
		return nil, fmt.Errorf("%w: chromedp backend only drives chrome, not %q", ErrUnsupportedBrowser, opts.Family)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The browser outlives the launch call, so it hangs off Background.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), l.allocatorOptions(opts)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	d := &chromedpDriver{ctx: tabCtx, cancelTab: tabCancel, cancelAlloc: allocCancel}

	// The first Run starts the browser process.
	err := d.run(ctx, 0,
		emulation.SetUserAgentOverride(opts.UserAgent),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": "en-US,en;q=0.9"}),
	)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("%w: chrome: %w", ErrLaunch, err)
	}

	l.logger.Debugf("launched chrome via chromedp (headless=%t)", opts.Headless)
	return d, nil
}

type chromedpDriver struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	closeOnce   sync.Once
}

// run executes actions in the tab. It stops when the caller's ctx is done
// or after limit, when limit is positive.
func (d *chromedpDriver) run(ctx context.Context, limit time.Duration, actions ...chromedp.Action) error {
	if d.ctx.Err() != nil {
		return ErrDriverClosed
	}

	runCtx, cancel := context.WithCancel(d.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		defer cancelDeadline()
	}
	if limit > 0 {
		var cancelLimit context.CancelFunc
		runCtx, cancelLimit = context.WithTimeout(runCtx, limit)
		defer cancelLimit()
	}

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil && !errors.Is(err, context.DeadlineExceeded) {
		return ctx.Err()
	}
	return err
}

// classifyCDP maps deadline expiry to ErrTimeout and everything else to kind.
func classifyCDP(kind error, target string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %w", ErrTimeout, target, err)
	}
	return fmt.Errorf("%w: %s: %w", kind, target, err)
}

func (d *chromedpDriver) Navigate(ctx context.Context, url string) error {
	if err := d.run(ctx, DefaultNavigateWait, chromedp.Navigate(url)); err != nil {
		if errors.Is(err, ErrDriverClosed) || errors.Is(err, context.Canceled) {
			return err
		}
		return classifyCDP(ErrNavigation, url, err)
	}
	return nil
}

func (d *chromedpDriver) WaitForBody(ctx context.Context, timeout time.Duration) error {
	if err := d.run(ctx, timeout, chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		if errors.Is(err, ErrDriverClosed) || errors.Is(err, context.Canceled) {
			return err
		}
		return classifyCDP(ErrElementNotFound, "body", err)
	}
	return nil
}

func (d *chromedpDriver) outerHTML(ctx context.Context, selector string) (string, error) {
	var markup string
	err := d.run(ctx, DefaultWaitTimeout, chromedp.OuterHTML(selector, &markup, chromedp.ByQuery))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %s", ErrElementNotFound, selector)
		}
		return "", fmt.Errorf("failed to read %s: %w", selector, err)
	}
	return markup, nil
}

func (d *chromedpDriver) BodyHTML(ctx context.Context) (string, error) {
	return d.outerHTML(ctx, "body")
}

func (d *chromedpDriver) PageSource(ctx context.Context) (string, error) {
	return d.outerHTML(ctx, "html")
}

func (d *chromedpDriver) CurrentURL(ctx context.Context) (string, error) {
	var location string
	if err := d.run(ctx, 0, chromedp.Location(&location)); err != nil {
		return "", fmt.Errorf("failed to read location: %w", err)
	}
	return location, nil
}

func (d *chromedpDriver) ScrollTo(ctx context.Context, ratio float64) error {
	if err := ValidateScrollRatio(ratio); err != nil {
		return err
	}
	var done bool
	script := fmt.Sprintf(scrollScript+"; true", ratio)
	if err := d.run(ctx, 0, chromedp.Evaluate(script, &done)); err != nil {
		return fmt.Errorf("failed to scroll: %w", err)
	}
	return nil
}

func (d *chromedpDriver) Close() error {
	var err error
	d.closeOnce.Do(func() {
		// Cancel closes the browser gracefully; the allocator cancel then
		// kills the process if it is still around.
		if cerr := chromedp.Cancel(d.ctx); cerr != nil && !errors.Is(cerr, context.Canceled) {
			err = cerr
		}
		d.cancelTab()
		d.cancelAlloc()
	})
	return err
}
