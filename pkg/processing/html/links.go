package html

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxLinks is how many formatted links a browse result carries.
const MaxLinks = 5

// Hyperlink is an anchor's text and its absolute target.
type Hyperlink struct {
	Text string
	URL  string
}

// String formats the link as "text (url)".
func (h Hyperlink) String() string {
	return fmt.Sprintf("%s (%s)", h.Text, h.URL)
}

// Hyperlinks returns every anchor that has an href, in document order,
// duplicates included. hrefs are resolved against the base URL; ones that
// cannot be parsed are skipped. Anchor text has its whitespace collapsed
// and falls back to the URL when empty.
func (p *Page) Hyperlinks() []Hyperlink {
	var links []Hyperlink
	p.doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		target, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}

		link := Hyperlink{
			Text: strings.Join(strings.Fields(a.Text()), " "),
			URL:  p.base.ResolveReference(target).String(),
		}
		if link.Text == "" {
			link.Text = link.URL
		}
		links = append(links, link)
	})
	return links
}

// ExtractHyperlinks parses markup and returns its hyperlinks resolved
// against baseURL.
func ExtractHyperlinks(markup, baseURL string) ([]Hyperlink, error) {
	page, err := ParsePage(markup, baseURL)
	if err != nil {
		return nil, err
	}
	return page.Hyperlinks(), nil
}

// FormatHyperlinks renders each link as "text (url)".
func FormatHyperlinks(links []Hyperlink) []string {
	formatted := make([]string, 0, len(links))
	for _, link := range links {
		formatted = append(formatted, link.String())
	}
	return formatted
}

// LimitLinks returns at most the first n entries. A negative n keeps all.
func LimitLinks(links []string, n int) []string {
	if n < 0 || len(links) <= n {
		return links
	}
	return links[:n]
}
