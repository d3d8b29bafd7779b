package config

import (
	"sync"
)

const (
	// SectionIDLLM is the identifier for the LLM settings section
	SectionIDLLM = "llm"
)

// LLMSection holds provider credentials and model choices.
type LLMSection struct {
	Model              string
	BaseURL            string
	APIKey             string
	SummarizationModel string // optional; empty means Model
	mu                 sync.RWMutex
}

// NewLLMSection creates an empty LLM section.
func NewLLMSection() *LLMSection {
	return &LLMSection{}
}

func (s *LLMSection) ID() string    { return SectionIDLLM }
func (s *LLMSection) Title() string { return "LLM Settings" }

func (s *LLMSection) Description() string {
	return "OpenAI-compatible provider settings. summarization_model is optional; when set, page summaries use it instead of model."
}

// Data returns the current configuration data.
func (s *LLMSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"model":               s.Model,
		"base_url":            s.BaseURL,
		"api_key":             s.APIKey,
		"summarization_model": s.SummarizationModel,
	}
}

// SetData updates the configuration from the provided data.
func (s *LLMSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, dst := range map[string]*string{
		"model":               &s.Model,
		"base_url":            &s.BaseURL,
		"api_key":             &s.APIKey,
		"summarization_model": &s.SummarizationModel,
	} {
		if v, ok := data[key].(string); ok {
			*dst = v
		}
	}
	return nil
}

// Validate always succeeds; credentials are checked when a provider is built.
func (s *LLMSection) Validate() error {
	return nil
}

// Reset clears every field.
func (s *LLMSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Model, s.BaseURL, s.APIKey, s.SummarizationModel = "", "", "", ""
}

// GetModel returns the configured model name.
func (s *LLMSection) GetModel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Model
}

// SetModel sets the model name.
func (s *LLMSection) SetModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Model = model
}

// GetBaseURL returns the configured base URL.
func (s *LLMSection) GetBaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.BaseURL
}

// GetAPIKey returns the configured API key.
func (s *LLMSection) GetAPIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.APIKey
}

// GetSummarizationModel returns the model used for page summaries.
// An empty string means the main model.
func (s *LLMSection) GetSummarizationModel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.SummarizationModel
}

// SetSummarizationModel sets the summarization model name.
func (s *LLMSection) SetSummarizationModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SummarizationModel = model
}
