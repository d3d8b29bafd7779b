package browser

import "errors"

// Errors returned by drivers, the service and the session manager.
// Callers match them with errors.Is; the wrapped error keeps the cause.
var (
	ErrUnsupportedBrowser = errors.New("unsupported browser")
	ErrUnsupportedBackend = errors.New("unsupported browser backend")
	ErrLaunch             = errors.New("failed to launch browser")
	ErrNavigation         = errors.New("navigation failed")
	ErrTimeout            = errors.New("timed out waiting for page")
	ErrElementNotFound    = errors.New("element not found")
	ErrInvalidScroll      = errors.New("scroll ratio must be between 0 and 1")
	ErrDriverClosed       = errors.New("browser driver is closed")
	ErrSessionNotFound    = errors.New("browser session not found")
	ErrSessionExists      = errors.New("browser session already exists")
	ErrTooManySessions    = errors.New("maximum number of browser sessions reached")
)
