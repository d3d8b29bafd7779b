package config

import (
	"fmt"
	"os"

	"github.com/entrhq/webscout/pkg/llm/openai"
)

// ProviderSettings are the resolved values used to build an LLM provider.
type ProviderSettings struct {
	Model   string
	BaseURL string
	APIKey  string
}

// ResolveProvider applies precedence CLI flags > environment > config file >
// defaults. cliModel equal to defaultModel counts as unset so the file can
// override a flag's default value.
func ResolveProvider(cliModel, cliBaseURL, cliAPIKey, defaultModel string) ProviderSettings {
	resolved := ProviderSettings{Model: cliModel, BaseURL: cliBaseURL, APIKey: cliAPIKey}

	if resolved.APIKey == "" {
		resolved.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if resolved.BaseURL == "" {
		resolved.BaseURL = os.Getenv("OPENAI_BASE_URL")
	}

	if file := GetLLM(); file != nil {
		if cliModel == "" || cliModel == defaultModel {
			if m := file.GetModel(); m != "" {
				resolved.Model = m
			}
		}
		if resolved.BaseURL == "" {
			resolved.BaseURL = file.GetBaseURL()
		}
		if resolved.APIKey == "" {
			resolved.APIKey = file.GetAPIKey()
		}
	}

	if resolved.Model == "" {
		resolved.Model = defaultModel
	}
	return resolved
}

// BuildProvider resolves settings with ResolveProvider and creates an OpenAI
// provider. extra options are applied after model and base URL.
func BuildProvider(cliModel, cliBaseURL, cliAPIKey, defaultModel string, extra ...openai.ProviderOption) (*openai.Provider, error) {
	resolved := ResolveProvider(cliModel, cliBaseURL, cliAPIKey, defaultModel)

	if resolved.APIKey == "" {
		return nil, fmt.Errorf("API key is required. Set OPENAI_API_KEY, use -api-key, or set llm.api_key in ~/.webscout/config.json")
	}

	opts := []openai.ProviderOption{openai.WithModel(resolved.Model)}
	if resolved.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(resolved.BaseURL))
	}
	opts = append(opts, extra...)

	provider, err := openai.NewProvider(resolved.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}
	return provider, nil
}
