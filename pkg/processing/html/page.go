// Package html turns rendered page markup into the plain text and absolute
// hyperlinks handed to a summarizer.
//
// Script and style elements are dropped when a Page is parsed, so neither
// Text nor Hyperlinks ever see their contents:
//
//	page, err := html.ParsePage(markup, "https://example.com/docs/")
//	if err != nil {
//	    return err
//	}
//	text := page.Text()
//	links := html.LimitLinks(html.FormatHyperlinks(page.Hyperlinks()), html.MaxLinks)
package html

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	xhtml "golang.org/x/net/html"
)

// ErrInvalidBaseURL is returned when the base URL is not absolute.
var ErrInvalidBaseURL = errors.New("base URL must be absolute")

// removedSelector lists elements whose contents never count as page text.
const removedSelector = "script, style"

// Page is parsed markup paired with the absolute URL it was loaded from.
type Page struct {
	doc  *goquery.Document
	base *url.URL
}

// ParsePage parses markup and strips script and style elements.
// baseURL resolves relative hrefs and must be absolute.
func ParsePage(markup, baseURL string) (*Page, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	doc, err := parseDocument(markup)
	if err != nil {
		return nil, err
	}
	return &Page{doc: doc, base: base}, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	base, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidBaseURL, raw, err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, raw)
	}
	return base, nil
}

// parseDocument parses with scripting disabled so <noscript> content is
// element content rather than one raw text node.
func parseDocument(markup string) (*goquery.Document, error) {
	root, err := xhtml.ParseWithOptions(strings.NewReader(markup), xhtml.ParseOptionEnableScripting(false))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)
	doc.Find(removedSelector).Remove()
	return doc, nil
}

// BaseURL returns a copy of the page's base URL.
func (p *Page) BaseURL() *url.URL {
	u := *p.base
	return &u
}

// Title returns the trimmed document title, or "" when there is none.
func (p *Page) Title() string {
	return strings.TrimSpace(p.doc.Find("title").First().Text())
}
