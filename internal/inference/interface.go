package inference

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client interface defines the methods for AI inference operations
type Client interface {
	GenerateExamples(ctx context.Context, params GenerateExamplesRequest) (GenerateExamplesResponse, error)
}

// GenerateExamplesRequest asks for example sentences that use Word
type GenerateExamplesRequest struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
	// Optional: topic or situation the examples should fit
	Context string `json:"context,omitempty"`
}

type GenerateExamplesResponse struct {
	Examples []string `json:"examples"`
}

const (
	DefaultMaxRetryAttempts = 3
)
