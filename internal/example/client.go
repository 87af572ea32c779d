package example

import (
	"errors"
	"fmt"

	"github.com/at-ishikawa/studytracker/internal/config"
	"github.com/at-ishikawa/studytracker/internal/inference"
	"github.com/at-ishikawa/studytracker/internal/inference/huggingface"
	"github.com/at-ishikawa/studytracker/internal/inference/openai"
)

var ErrMissingAPIKey = errors.New("OPENAI_API_KEY environment variable is required")

// NewClient creates the inference client of the configured provider.
func NewClient(cfg *config.Config) (inference.Client, error) {
	switch cfg.Examples.Provider {
	case "", "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		return openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, inference.DefaultMaxRetryAttempts), nil
	case "huggingface":
		client, err := huggingface.NewClient(cfg.HuggingFace.BaseURL, cfg.HuggingFace.APIToken, cfg.HuggingFace.Model)
		if err != nil {
			return nil, fmt.Errorf("huggingface.NewClient > %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown examples provider: %s", cfg.Examples.Provider)
	}
}
