package batch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJobs = `
question: What does this page offer?
concurrency: 3
timeout: 45s
jobs:
  - name: go-home
    url: https://go.dev
  - name: go-docs
    url: https://go.dev/doc
    question: Where do I start?
  - url: https://pkg.go.dev
`

func TestParseConfig(t *testing.T) {
	config, err := ParseConfig([]byte(sampleJobs))
	require.NoError(t, err)

	assert.Equal(t, 3, config.Concurrency)
	assert.Equal(t, 45*time.Second, config.Timeout)
	require.Len(t, config.Jobs, 3)

	assert.Equal(t, Job{Name: "go-home", URL: "https://go.dev", Question: "What does this page offer?"}, config.Jobs[0])
	assert.Equal(t, "Where do I start?", config.Jobs[1].Question)
	assert.Equal(t, "job-3", config.Jobs[2].Name)
}

func TestParseConfigDefaults(t *testing.T) {
	config, err := ParseConfig([]byte("jobs:\n  - url: https://example.com\n    question: q\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConcurrency, config.Concurrency)
	assert.Equal(t, DefaultTimeout, config.Timeout)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty file", ""},
		{"no jobs", "question: q\n"},
		{"unknown key", "jobz: []\n"},
		{"relative url", "jobs:\n  - url: /docs\n    question: q\n"},
		{"missing question", "jobs:\n  - url: https://example.com\n"},
		{"duplicate names", "question: q\njobs:\n  - name: a\n    url: https://a.com\n  - name: a\n    url: https://b.com\n"},
		{"concurrency too high", "question: q\nconcurrency: 50\njobs:\n  - url: https://a.com\n"},
		{"negative timeout", "question: q\ntimeout: -1s\njobs:\n  - url: https://a.com\n"},
		{"bad yaml", "jobs: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleJobs), 0600))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, config.Path)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSelect(t *testing.T) {
	config, err := ParseConfig([]byte(sampleJobs))
	require.NoError(t, err)

	tests := []struct {
		pattern string
		want    []string
		wantErr bool
	}{
		{pattern: "", want: []string{"go-home", "go-docs", "job-3"}},
		{pattern: "go-*", want: []string{"go-home", "go-docs"}},
		{pattern: "{go-docs,job-3}", want: []string{"go-docs", "job-3"}},
		{pattern: "nothing*", wantErr: true},
		{pattern: "[", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			jobs, err := config.Select(tt.pattern)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			names := make([]string, len(jobs))
			for i, job := range jobs {
				names[i] = job.Name
			}
			assert.Equal(t, tt.want, names)
		})
	}
}
