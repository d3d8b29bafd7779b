// Package batch runs a list of page questions from a YAML job file and
// writes reports about the answers.
package batch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConcurrency is how many jobs run at once when unset.
	DefaultConcurrency = 2

	// MaxConcurrency bounds the number of browsers a batch may hold open.
	MaxConcurrency = 8

	// DefaultTimeout bounds each job when unset.
	DefaultTimeout = 3 * time.Minute
)

// Config is a batch job file:
//
//	question: What does this page offer?
//	concurrency: 2
//	timeout: 2m
//	jobs:
//	  - name: go-home
//	    url: https://go.dev
//	  - name: go-docs
//	    url: https://go.dev/doc
//	    question: Where do I start?
type Config struct {
	// Question is used by jobs that do not set their own.
	Question    string        `yaml:"question" json:"question"`
	Concurrency int           `yaml:"concurrency" json:"concurrency"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
	Jobs        []Job         `yaml:"jobs" json:"jobs"`

	// Path is the file the config was loaded from.
	Path string `yaml:"-" json:"-"`
}

// Job is one page and the question to answer from it.
type Job struct {
	Name     string `yaml:"name" json:"name"`
	URL      string `yaml:"url" json:"url"`
	Question string `yaml:"question" json:"question"`
}

// DefaultConfig returns an empty job list with default limits.
func DefaultConfig() *Config {
	return &Config{
		Concurrency: DefaultConcurrency,
		Timeout:     DefaultTimeout,
	}
}

// LoadConfig reads a job file. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}

	config, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	config.Path = path
	return config, nil
}

// ParseConfig decodes a job file, fills defaults and validates it.
func ParseConfig(data []byte) (*Config, error) {
	config := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse job file: %w", err)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	for i := range c.Jobs {
		if c.Jobs[i].Name == "" {
			c.Jobs[i].Name = fmt.Sprintf("job-%d", i+1)
		}
		if c.Jobs[i].Question == "" {
			c.Jobs[i].Question = c.Question
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Jobs) == 0 {
		return fmt.Errorf("job file has no jobs")
	}
	if c.Concurrency < 1 || c.Concurrency > MaxConcurrency {
		return fmt.Errorf("concurrency must be between 1 and %d, got %d", MaxConcurrency, c.Concurrency)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}

	seen := make(map[string]bool, len(c.Jobs))
	for _, job := range c.Jobs {
		if seen[job.Name] {
			return fmt.Errorf("duplicate job name %q", job.Name)
		}
		seen[job.Name] = true

		u, err := url.Parse(job.URL)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("job %q: url must be absolute, got %q", job.Name, job.URL)
		}
		if job.Question == "" {
			return fmt.Errorf("job %q: question is required (set it on the job or at the top level)", job.Name)
		}
	}
	return nil
}

// Select returns the jobs whose names match pattern, in file order. An
// empty pattern selects every job.
func (c *Config) Select(pattern string) ([]Job, error) {
	if pattern == "" {
		return c.Jobs, nil
	}

	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid job pattern %q: %w", pattern, err)
	}

	var selected []Job
	for _, job := range c.Jobs {
		if g.Match(job.Name) {
			selected = append(selected, job)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no jobs match %q", pattern)
	}
	return selected, nil
}
