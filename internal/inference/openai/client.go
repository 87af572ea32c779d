package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/at-ishikawa/studytracker/internal/inference"
)

type Client struct {
	httpClient       *resty.Client
	model            string
	maxRetryAttempts uint
}

func NewClient(apiKey, model string, retryAttempts uint) *Client {
	client := resty.New()
	client.SetBaseURL("https://api.openai.com/v1")
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:       client,
		model:            model,
		maxRetryAttempts: retryAttempts,
	}
}

func (client Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client Client) GetModel() string {
	return client.model
}

type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type ChoiceMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Retry on JSON parsing errors as they might be due to incomplete responses
	errStr := err.Error()
	if strings.Contains(errStr, "json.Unmarshal") || strings.Contains(errStr, "unexpected end of JSON input") {
		return true
	}

	// Retry on network-related errors
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// Retry on 5xx errors (server errors)
	if strings.Contains(errStr, "response error 5") {
		return true
	}

	// Retry on rate limiting (429)
	if strings.Contains(errStr, "response error 429") {
		return true
	}

	return false
}

// GenerateExamples implements the inference.Client interface
func (client *Client) GenerateExamples(
	ctx context.Context,
	params inference.GenerateExamplesRequest,
) (inference.GenerateExamplesResponse, error) {
	var result inference.GenerateExamplesResponse
	if err := retry.Do(
		func() error {
			response, err := client.generateExamples(ctx, params)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			result = response
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		return inference.GenerateExamplesResponse{}, err
	}
	return result, nil
}

const systemPrompt = `You write example sentences for language learners reviewing flashcards.

Return ONLY a JSON array of strings with exactly the requested number of sentences.
- Every sentence must use the given word or phrase naturally, in any inflected form.
- Keep each sentence short, clear, and different from the others.
- If a context is given, every sentence must fit that context.
- Each sentence starts with a capital letter and ends with punctuation.
No text outside the JSON array.`

func (client *Client) getRequestBody(args inference.GenerateExamplesRequest) (ChatCompletionRequest, error) {
	userContent, err := json.Marshal(args)
	if err != nil {
		return ChatCompletionRequest{}, fmt.Errorf("json.Marshal > %w", err)
	}

	return ChatCompletionRequest{
		Model: client.model,
		Messages: []Message{
			{
				Role:    RoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    RoleUser,
				Content: string(userContent),
			},
		},
		Temperature: 0.7,
	}, nil
}

func (client *Client) generateExamples(
	ctx context.Context,
	args inference.GenerateExamplesRequest,
) (inference.GenerateExamplesResponse, error) {
	if args.Count <= 0 {
		return inference.GenerateExamplesResponse{}, nil
	}

	requestBody, err := client.getRequestBody(args)
	if err != nil {
		return inference.GenerateExamplesResponse{}, fmt.Errorf("getRequestBody > %w", err)
	}

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&ChatCompletionResponse{}).
		Post("/chat/completions")
	if err != nil {
		return inference.GenerateExamplesResponse{}, fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return inference.GenerateExamplesResponse{}, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*ChatCompletionResponse)
	if responseBody == nil || len(responseBody.Choices) == 0 {
		return inference.GenerateExamplesResponse{}, fmt.Errorf("empty response body or choices: %s", response.String())
	}

	content := responseBody.Choices[0].Message.Content
	if content == "" {
		return inference.GenerateExamplesResponse{}, fmt.Errorf("empty response content: %s", response.String())
	}
	slog.Default().Debug("openai response content",
		"request", requestBody,
		"response", responseBody,
	)

	var decoded []string
	if err := json.Unmarshal([]byte(extractJSONArray(content)), &decoded); err != nil {
		slog.Default().Error("Failed to parse OpenAI response as JSON",
			"word", args.Word,
			"error", err)
		return inference.GenerateExamplesResponse{}, fmt.Errorf("json.Unmarshal(%s) > %w", content, err)
	}

	examples := make([]string, 0, len(decoded))
	for _, example := range decoded {
		if example = strings.TrimSpace(example); example != "" {
			examples = append(examples, example)
		}
	}
	if len(examples) > args.Count {
		examples = examples[:args.Count]
	}
	return inference.GenerateExamplesResponse{Examples: examples}, nil
}

// extractJSONArray strips text around the outermost JSON array, such as markdown code fences
func extractJSONArray(content string) string {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return content
	}
	return content[start : end+1]
}
