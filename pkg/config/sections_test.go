package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMSection(t *testing.T) {
	s := NewLLMSection()
	assert.Equal(t, SectionIDLLM, s.ID())
	assert.NotEmpty(t, s.Description())

	require.NoError(t, s.SetData(map[string]interface{}{
		"model":               "gpt-4o",
		"base_url":            "https://llm.local/v1",
		"api_key":             "sk-test",
		"summarization_model": "gpt-4o-mini",
		"unknown":             42,
		"api_key_wrong_type":  true,
	}))

	assert.Equal(t, "gpt-4o", s.GetModel())
	assert.Equal(t, "https://llm.local/v1", s.GetBaseURL())
	assert.Equal(t, "sk-test", s.GetAPIKey())
	assert.Equal(t, "gpt-4o-mini", s.GetSummarizationModel())
	assert.Equal(t, "gpt-4o", s.Data()["model"])
	assert.NoError(t, s.Validate())

	s.Reset()
	assert.Empty(t, s.GetModel())
	assert.Empty(t, s.GetSummarizationModel())
}

func TestBrowserSection_Defaults(t *testing.T) {
	got := NewBrowserSection().Snapshot()

	assert.Equal(t, "chrome", got.WebBrowser)
	assert.True(t, got.Headless)
	assert.Equal(t, "playwright", got.Backend)
	assert.Empty(t, got.UserAgent)
	assert.Equal(t, 10*time.Second, got.WaitTimeout)
	assert.Equal(t, 8192, got.ChunkLength)
	assert.Equal(t, 300, got.SummaryMaxTokens)
	assert.Empty(t, got.Tokenizer)
}

func TestBrowserSection_SetData(t *testing.T) {
	tests := []struct {
		data    map[string]interface{}
		check   func(t *testing.T, s BrowserSettings)
		name    string
		wantErr bool
	}{
		{
			name: "json decoded values",
			data: map[string]interface{}{
				"web_browser":        "Firefox",
				"headless":           false,
				"wait_timeout":       "15s",
				"chunk_length":       float64(4000),
				"summary_max_tokens": float64(200),
				"tokenizer":          "cl100k_base",
			},
			check: func(t *testing.T, s BrowserSettings) {
				assert.Equal(t, "firefox", s.WebBrowser)
				assert.False(t, s.Headless)
				assert.Equal(t, 15*time.Second, s.WaitTimeout)
				assert.Equal(t, 4000, s.ChunkLength)
				assert.Equal(t, 200, s.SummaryMaxTokens)
				assert.Equal(t, "cl100k_base", s.Tokenizer)
			},
		},
		{
			name: "wait timeout in seconds",
			data: map[string]interface{}{"wait_timeout": float64(2.5)},
			check: func(t *testing.T, s BrowserSettings) {
				assert.Equal(t, 2500*time.Millisecond, s.WaitTimeout)
			},
		},
		{name: "headless wrong type", data: map[string]interface{}{"headless": "yes"}, wantErr: true},
		{name: "fractional chunk length", data: map[string]interface{}{"chunk_length": 1.5}, wantErr: true},
		{name: "bad duration", data: map[string]interface{}{"wait_timeout": "soon"}, wantErr: true},
		{name: "browser wrong type", data: map[string]interface{}{"web_browser": 3}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewBrowserSection()
			err := s.SetData(tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, s.Snapshot())
		})
	}
}

func TestBrowserSection_SetDataIsAllOrNothing(t *testing.T) {
	s := NewBrowserSection()
	before := s.Snapshot()

	// Map order is random, so the bad key may be applied first or last.
	for i := 0; i < 20; i++ {
		err := s.SetData(map[string]interface{}{
			"web_browser":  "firefox",
			"backend":      "chromedp",
			"chunk_length": 100,
			"headless":     "yes",
		})
		require.Error(t, err)
		assert.Equal(t, before, s.Snapshot())
	}
}

func TestBrowserSection_Validate(t *testing.T) {
	tests := []struct {
		data    map[string]interface{}
		name    string
		wantErr bool
	}{
		{name: "defaults", data: nil},
		{name: "safari playwright", data: map[string]interface{}{"web_browser": "safari"}},
		{name: "chrome chromedp", data: map[string]interface{}{"backend": "chromedp"}},
		{name: "firefox chromedp", data: map[string]interface{}{"web_browser": "firefox", "backend": "chromedp"}, wantErr: true},
		{name: "unknown browser", data: map[string]interface{}{"web_browser": "netscape"}, wantErr: true},
		{name: "unknown backend", data: map[string]interface{}{"backend": "selenium"}, wantErr: true},
		{name: "zero timeout", data: map[string]interface{}{"wait_timeout": "0s"}, wantErr: true},
		{name: "zero chunk", data: map[string]interface{}{"chunk_length": 0}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewBrowserSection()
			require.NoError(t, s.SetData(tt.data))
			if tt.wantErr {
				assert.Error(t, s.Validate())
			} else {
				assert.NoError(t, s.Validate())
			}
		})
	}
}

func TestBrowserSection_ApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvWebBrowser:      "Safari",
		EnvHeadlessBrowser: "False",
	}
	s := NewBrowserSection()
	s.ApplyEnv(func(k string) string { return env[k] })

	got := s.Snapshot()
	assert.Equal(t, "safari", got.WebBrowser)
	assert.False(t, got.Headless)

	// Unparseable headless values leave the current setting alone.
	env[EnvHeadlessBrowser] = "maybe"
	s.ApplyEnv(func(k string) string { return env[k] })
	assert.False(t, s.Snapshot().Headless)
}
