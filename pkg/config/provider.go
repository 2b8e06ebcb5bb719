package config

import (
	"fmt"
	"os"

	"github.com/entrhq/stagehand/pkg/llm/openai"
)

// BuildProvider creates an LLM provider based on configuration precedence:
// CLI flags > Environment variables > Config file > Defaults
func BuildProvider(cliModel, cliBaseURL, cliAPIKey, defaultModel string) (*openai.Provider, error) {
	finalModel := cliModel
	finalBaseURL := cliBaseURL
	finalAPIKey := cliAPIKey

	if finalAPIKey == "" {
		finalAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if finalBaseURL == "" {
		finalBaseURL = os.Getenv("OPENAI_BASE_URL")
	}

	if llmConfig := GetLLM(); llmConfig != nil {
		// Model: config file wins only when the CLI left the default in place
		if cliModel == "" || cliModel == defaultModel {
			if configModel := llmConfig.GetModel(); configModel != "" {
				finalModel = configModel
			}
		}
		if finalBaseURL == "" {
			finalBaseURL = llmConfig.GetBaseURL()
		}
		if finalAPIKey == "" {
			finalAPIKey = llmConfig.GetAPIKey()
		}
	}

	if finalModel == "" {
		finalModel = defaultModel
	}

	if finalAPIKey == "" {
		return nil, fmt.Errorf("API key is required. Set OPENAI_API_KEY, use -api-key, or configure in ~/.stagehand/config.json")
	}

	providerOpts := []openai.ProviderOption{
		openai.WithModel(finalModel),
	}
	if finalBaseURL != "" {
		providerOpts = append(providerOpts, openai.WithBaseURL(finalBaseURL))
	}

	provider, err := openai.NewProvider(finalAPIKey, providerOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}

	return provider, nil
}
