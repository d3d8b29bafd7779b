package browser

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/entrhq/webscout/pkg/logging"
)

// Driver is one exclusively owned browser with a single page.
//
// Blocking calls take a context; implementations stop waiting when it is
// done. A Driver is not safe for concurrent use.
type Driver interface {
	// Navigate loads url and waits for the load event.
	Navigate(ctx context.Context, url string) error

	// WaitForBody waits up to timeout for a <body> element.
	WaitForBody(ctx context.Context, timeout time.Duration) error

	// BodyHTML returns document.body.outerHTML.
	BodyHTML(ctx context.Context) (string, error)

	// PageSource returns the serialized document.
	PageSource(ctx context.Context) (string, error)

	// CurrentURL returns the URL of the loaded page after redirects.
	CurrentURL(ctx context.Context) (string, error)

	// ScrollTo scrolls to ratio of the body's height. ratio must be in [0, 1].
	ScrollTo(ctx context.Context, ratio float64) error

	// Close releases the browser. Calling it more than once is safe.
	Close() error
}

// Launcher starts browsers.
type Launcher interface {
	Launch(ctx context.Context, opts Options) (Driver, error)
}

// LauncherFunc adapts a function to Launcher.
type LauncherFunc func(ctx context.Context, opts Options) (Driver, error)

// Launch calls f.
func (f LauncherFunc) Launch(ctx context.Context, opts Options) (Driver, error) {
	return f(ctx, opts)
}

// NewLauncher returns the Launcher for backend.
func NewLauncher(backend Backend, logger *logging.Logger) (Launcher, error) {
	switch backend {
	case BackendPlaywright, "":
		return NewPlaywrightLauncher(logger), nil
	case BackendChromedp:
		return NewChromedpLauncher(logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, backend)
	}
}

// ValidateScrollRatio rejects ratios outside [0, 1] and NaN.
func ValidateScrollRatio(ratio float64) error {
	if math.IsNaN(ratio) || ratio < 0 || ratio > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidScroll, ratio)
	}
	return nil
}

// scrollScript scrolls the window to a fraction of the body height.
const scrollScript = "window.scrollTo(0, document.body.scrollHeight * %v)"
