package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<body>
<h1>Example Domain</h1>
<script>var x = 1;</script>
<p>This domain is for use in illustrative examples.</p>
<a href="/about">About</a>
<a href="https://other.org/x">Other</a>
</body>`

func TestBrowseWebsite(t *testing.T) {
	launcher := pageLauncher(samplePage)
	summarizer := &echoSummarizer{summary: "An example page."}
	svc := NewService(launcher, summarizer, DefaultOptions(), nil)

	result, driver, err := svc.BrowseWebsite(context.Background(), "https://example.com/", "What is this?")
	require.NoError(t, err)

	assert.Equal(t, "Answer gathered from website: An example page. \n \n Links: "+
		"['About (https://example.com/about)', 'Other (https://other.org/x)']", result)

	require.Len(t, launcher.launched, 1)
	d := launcher.launched[0]
	assert.Same(t, Driver(d), driver)
	assert.Equal(t, 1, d.closeCount())
	assert.Equal(t, []string{"https://example.com/"}, d.navigated)
	assert.Equal(t, []time.Duration{DefaultWaitTimeout}, d.waits)

	require.Len(t, summarizer.calls, 1)
	assert.Equal(t, "https://example.com/", summarizer.calls[0].url)
	assert.Equal(t, "What is this?", summarizer.calls[0].question)
	assert.Equal(t, "Example Domain\nThis domain is for use in illustrative examples.\nAbout\nOther", summarizer.calls[0].text)
}

func TestBrowseWebsiteLimitsLinks(t *testing.T) {
	var body strings.Builder
	body.WriteString("<body><p>links</p>")
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&body, `<a href="/p%d">p%d</a>`, i, i)
	}
	body.WriteString("</body>")

	svc := NewService(pageLauncher(body.String()), &echoSummarizer{summary: "s"}, DefaultOptions(), nil)
	result, _, err := svc.BrowseWebsite(context.Background(), "https://example.com", "q")
	require.NoError(t, err)

	assert.Contains(t, result, "'p4 (https://example.com/p4)']")
	assert.NotContains(t, result, "p5")
}

func TestBrowseWebsiteEmptyPage(t *testing.T) {
	summarizer := &echoSummarizer{summary: "unused"}
	svc := NewService(pageLauncher("<body><script>x()</script></body>"), summarizer, DefaultOptions(), nil)

	result, _, err := svc.BrowseWebsite(context.Background(), "https://example.com", "q")
	require.NoError(t, err)

	assert.Equal(t, "Answer gathered from website: "+NoTextSummary+" \n \n Links: []", result)
	assert.Empty(t, summarizer.calls)
}

func TestBrowseWebsiteFailures(t *testing.T) {
	launchErr := fmt.Errorf("%w: no chrome", ErrLaunch)
	navErr := fmt.Errorf("%w: https://example.com: refused", ErrNavigation)
	timeoutErr := fmt.Errorf("%w: body", ErrTimeout)
	summaryErr := errors.New("llm down")

	tests := []struct {
		name       string
		launcher   *fakeLauncher
		summarizer *echoSummarizer
		wantErr    error
		wantClosed bool
	}{
		{
			name:       "launch failure",
			launcher:   &fakeLauncher{err: launchErr},
			summarizer: &echoSummarizer{},
			wantErr:    ErrLaunch,
		},
		{
			name: "navigation failure",
			launcher: &fakeLauncher{newDriver: func() *fakeDriver {
				return &fakeDriver{body: samplePage, navigateErr: navErr}
			}},
			summarizer: &echoSummarizer{},
			wantErr:    ErrNavigation,
			wantClosed: true,
		},
		{
			name: "body timeout",
			launcher: &fakeLauncher{newDriver: func() *fakeDriver {
				return &fakeDriver{body: samplePage, waitErr: timeoutErr}
			}},
			summarizer: &echoSummarizer{},
			wantErr:    ErrTimeout,
			wantClosed: true,
		},
		{
			name:       "summarizer failure",
			launcher:   pageLauncher(samplePage),
			summarizer: &echoSummarizer{err: summaryErr},
			wantErr:    summaryErr,
			wantClosed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.launcher, tt.summarizer, DefaultOptions(), nil)

			result, driver, err := svc.BrowseWebsite(context.Background(), "https://example.com", "q")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, result)
			assert.Nil(t, driver)

			if tt.wantClosed {
				require.Len(t, tt.launcher.launched, 1)
				assert.Equal(t, 1, tt.launcher.launched[0].closeCount())
			}
		})
	}
}

func TestBrowseWebsiteWithoutSummarizer(t *testing.T) {
	launcher := pageLauncher(samplePage)
	svc := NewService(launcher, nil, DefaultOptions(), nil)

	_, _, err := svc.BrowseWebsite(context.Background(), "https://example.com", "q")
	require.Error(t, err)
	assert.Empty(t, launcher.launched)
}

func TestOpenWebsite(t *testing.T) {
	launcher := pageLauncher(samplePage)
	opts := DefaultOptions()
	opts.Family = FamilyFirefox
	opts.Headless = false
	svc := NewService(launcher, nil, opts, nil)

	msg, driver, err := svc.OpenWebsite(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "Website is now open using the browser driver", msg)
	require.NotNil(t, driver)

	d := launcher.launched[0]
	assert.Equal(t, 0, d.closeCount())
	assert.Equal(t, FamilyFirefox, launcher.opts[0].Family)
	assert.False(t, launcher.opts[0].Headless)
}

func TestOpenWebsiteClosesOnFailure(t *testing.T) {
	launcher := &fakeLauncher{newDriver: func() *fakeDriver {
		return &fakeDriver{navigateErr: ErrNavigation}
	}}
	svc := NewService(launcher, nil, DefaultOptions(), nil)

	_, driver, err := svc.OpenWebsite(context.Background(), "https://example.com")
	assert.ErrorIs(t, err, ErrNavigation)
	assert.Nil(t, driver)
	assert.Equal(t, 1, launcher.launched[0].closeCount())
}

func TestScrapeLinksUsesCurrentURL(t *testing.T) {
	svc := NewService(nil, nil, DefaultOptions(), nil)
	d := &fakeDriver{
		url:    "https://example.com/docs/",
		source: `<html><body><a href="intro">Intro</a></body></html>`,
	}

	links, err := svc.ScrapeLinks(context.Background(), d, "https://example.com/redirect")
	require.NoError(t, err)
	assert.Equal(t, []string{"Intro (https://example.com/docs/intro)"}, links)
}

func TestReadPage(t *testing.T) {
	summarizer := &echoSummarizer{summary: "answer"}
	svc := NewService(nil, summarizer, DefaultOptions(), nil)
	d := &fakeDriver{url: "https://example.com/", body: samplePage}

	result, err := svc.ReadPage(context.Background(), d, "q")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result, "Answer gathered from website: answer \n \n Links: ['About"))
	assert.Empty(t, d.navigated)
	assert.Equal(t, 0, d.closeCount())
}

func TestFormatLinkList(t *testing.T) {
	tests := []struct {
		name  string
		links []string
		want  string
	}{
		{name: "empty", links: nil, want: "[]"},
		{name: "single", links: []string{"a (http://x/)"}, want: "['a (http://x/)']"},
		{name: "two", links: []string{"a (u)", "b (v)"}, want: "['a (u)', 'b (v)']"},
		{name: "apostrophe", links: []string{"it's (u)"}, want: `["it's (u)"]`},
		{name: "both quotes", links: []string{`it's "x"`}, want: `['it\'s "x"']`},
		{name: "backslash", links: []string{`a\b`}, want: `['a\\b']`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatLinkList(tt.links))
		})
	}
}

func TestValidateScrollRatio(t *testing.T) {
	for _, ok := range []float64{0, 0.5, 1} {
		assert.NoError(t, ValidateScrollRatio(ok))
	}
	for _, bad := range []float64{-0.1, 1.01} {
		assert.ErrorIs(t, ValidateScrollRatio(bad), ErrInvalidScroll)
	}
}
