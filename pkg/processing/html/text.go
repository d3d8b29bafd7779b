package html

import (
	"strings"

	xhtml "golang.org/x/net/html"
)

// fragmentSeparator splits a line into independent phrases. Layout often
// leaves runs of spaces between pieces of text that were separate elements.
const fragmentSeparator = "  "

// Lines returns the page's clean text lines: trimmed, non-empty, in
// document order.
func (p *Page) Lines() []string {
	var b strings.Builder
	for _, n := range p.doc.Nodes {
		collectText(n, &b)
	}
	return CleanLines(b.String())
}

// Text returns Lines joined with newlines. A page without visible text
// yields "".
func (p *Page) Text() string {
	return strings.Join(p.Lines(), "\n")
}

// ExtractText parses markup and returns its clean text.
func ExtractText(markup string) (string, error) {
	doc, err := parseDocument(markup)
	if err != nil {
		return "", err
	}
	return (&Page{doc: doc}).Text(), nil
}

// CleanLines splits raw text into lines, then each line into double-space
// separated fragments. Fragments are trimmed and empty ones dropped.
func CleanLines(raw string) []string {
	var out []string
	for _, line := range splitLines(raw) {
		for _, fragment := range strings.Split(strings.TrimSpace(line), fragmentSeparator) {
			if fragment = strings.TrimSpace(fragment); fragment != "" {
				out = append(out, fragment)
			}
		}
	}
	return out
}

// collectText appends the data of every text node under n. Comments,
// doctypes and removed elements contribute nothing.
func collectText(n *xhtml.Node, b *strings.Builder) {
	switch n.Type {
	case xhtml.TextNode:
		b.WriteString(n.Data)
		return
	case xhtml.CommentNode, xhtml.DoctypeNode:
		return
	case xhtml.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

// splitLines breaks s at every line boundary character, treating "\r\n"
// as a single break. A trailing break does not produce an empty last line.
func splitLines(s string) []string {
	var lines []string
	start := 0
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if !isLineBreak(runes[i]) {
			continue
		}
		lines = append(lines, string(runes[start:i]))
		if runes[i] == '\r' && i+1 < len(runes) && runes[i+1] == '\n' {
			i++
		}
		start = i + 1
	}
	if start < len(runes) {
		lines = append(lines, string(runes[start:]))
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
