// Package browser loads web pages in a real browser and answers questions
// about them.
//
// # Drivers
//
// A Driver is one exclusively owned browser with a single page. Launchers
// create them:
//
//   - PlaywrightLauncher drives chromium, firefox or webkit (for "safari")
//     through playwright-go, installing the engines on first use.
//   - ChromedpLauncher drives a local Chrome over the DevTools protocol.
//
// Driver failures wrap the sentinel errors in errors.go, so callers can use
// errors.Is to tell a launch failure from a navigation failure or a timeout.
//
// # Service
//
// Service.BrowseWebsite is the one-shot operation: launch, load, extract
// the visible text, summarize it against a question, collect up to five
// links and close the browser:
//
//	svc := browser.NewService(launcher, summarizer, browser.DefaultOptions(), logger)
//	answer, _, err := svc.BrowseWebsite(ctx, "https://example.com", "What is this?")
//
// Service.OpenWebsite loads a page and leaves the browser open for the
// caller.
//
// # Sessions
//
// SessionManager keeps named drivers open across tool calls, up to a
// limit, and closes them after an idle timeout. ToolRegistry exposes the
// service and manager as agent tools: browse_website, open_website,
// read_page, list_browser_sessions and close_browser_session. Given the
// memory store the summarizer writes to, it also offers search_page_memory.
package browser
