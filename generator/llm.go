package generator

import (
	"context"
	"fmt"
)

// LLMClient abstracts the model backend so it can be swapped or mocked.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings configures a concrete client.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// NewLLM builds the client for settings.Provider.
func NewLLM(settings LLMSettings, markerSyntax string) (LLMClient, error) {
	switch settings.Provider {
	case "openai", "deepseek", "gemini":
		// deepseek and gemini both expose OpenAI-compatible chat completions.
		if settings.BaseURL == "" {
			settings.BaseURL = defaultBaseURLs[settings.Provider]
		}
		llm, err := NewOpenAILLMFromConfig(&settings)
		if err != nil {
			return nil, err
		}
		return llm, nil
	case "mock":
		return MockLLM{MarkerSyntax: markerSyntax}, nil
	case "":
		return nil, fmt.Errorf("llm provider missing; set llm.provider in config or LLM_PROVIDER")
	default:
		return nil, fmt.Errorf("llm provider %s not supported", settings.Provider)
	}
}

var defaultBaseURLs = map[string]string{
	"deepseek": "https://api.deepseek.com/v1",
	"gemini":   "https://generativelanguage.googleapis.com/v1beta/openai/",
}
