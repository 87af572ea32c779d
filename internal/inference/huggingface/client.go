// Package huggingface generates example sentences with the Hugging Face Inference API.
package huggingface

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"

	"github.com/at-ishikawa/studytracker/internal/inference"
)

const DefaultBaseURL = "https://api-inference.huggingface.co"

var ErrUnknownModel = errors.New("unknown model")

// Model is a text generation model hosted on the Inference API.
type Model struct {
	Path        string
	MaxLength   int
	Temperature float64
}

// Models are the free models examples can be generated with, keyed by their short name.
var Models = map[string]Model{
	"gpt2":       {Path: "gpt2", MaxLength: 100, Temperature: 0.7},
	"distilgpt2": {Path: "distilgpt2", MaxLength: 80, Temperature: 0.7},
	"flan-t5":    {Path: "google/flan-t5-base", MaxLength: 100, Temperature: 0.6},
	"bloomz":     {Path: "bigscience/bloomz-560m", MaxLength: 100, Temperature: 0.7},
	"phi-2":      {Path: "microsoft/phi-2", MaxLength: 100, Temperature: 0.7},
}

// ModelNames returns the short names of Models in alphabetical order.
func ModelNames() []string {
	names := make([]string, 0, len(Models))
	for name := range Models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Client struct {
	httpClient *resty.Client
	model      Model
}

func NewClient(baseURL, apiToken, modelName string) (*Client, error) {
	model, ok := Models[modelName]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %s)", ErrUnknownModel, modelName, strings.Join(ModelNames(), ", "))
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json")
	if apiToken != "" {
		client.SetAuthToken(apiToken)
	}
	return &Client{
		httpClient: client,
		model:      model,
	}, nil
}

type generateRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters generateParameters `json:"parameters"`
	Options    generateOptions    `json:"options"`
}

type generateParameters struct {
	MaxLength         int     `json:"max_length"`
	Temperature       float64 `json:"temperature"`
	DoSample          bool    `json:"do_sample"`
	TopP              float64 `json:"top_p"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
}

type generateOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type generatedText struct {
	GeneratedText string `json:"generated_text"`
}

// GenerateExamples implements the inference.Client interface.
// Each example is generated from its own prompt; empty generations are dropped.
func (c *Client) GenerateExamples(ctx context.Context, params inference.GenerateExamplesRequest) (inference.GenerateExamplesResponse, error) {
	var examples []string
	for i := 0; i < params.Count; i++ {
		prompt := Prompt(params.Word, i, params.Context)
		text, err := c.generate(ctx, prompt)
		if err != nil {
			return inference.GenerateExamplesResponse{}, err
		}
		if cleaned := CleanGeneratedText(text, prompt); cleaned != "" {
			examples = append(examples, cleaned)
		}
	}
	return inference.GenerateExamplesResponse{Examples: examples}, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	var result []generatedText
	res, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(generateRequest{
			Inputs: prompt,
			Parameters: generateParameters{
				MaxLength:         c.model.MaxLength,
				Temperature:       c.model.Temperature,
				DoSample:          true,
				TopP:              0.9,
				RepetitionPenalty: 1.2,
			},
			Options: generateOptions{
				WaitForModel: true,
			},
		}).
		SetResult(&result).
		Post("/models/" + c.model.Path)
	if err != nil {
		return "", fmt.Errorf("client.R.Post > %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("status code: %d, body: %s", res.StatusCode(), string(res.Body()))
	}
	if len(result) == 0 {
		slog.Default().Debug("huggingface returned no generations", "prompt", prompt)
		return "", nil
	}
	return result[0].GeneratedText, nil
}

var promptVariations = []string{
	`Write a clear example sentence using the word "%s": `,
	`Create a simple sentence with "%s" in it: `,
	`Example sentence using "%s": `,
	`Show how to use "%s" in a sentence: `,
}

// Prompt returns the prompt of the given variation. Variations repeat after the fourth.
func Prompt(word string, variation int, usageContext string) string {
	prompt := fmt.Sprintf(promptVariations[variation%len(promptVariations)], word)
	if usageContext != "" {
		prompt = fmt.Sprintf("In the context of %s, %s", usageContext, strings.ToLower(prompt))
	}
	return prompt
}

// CleanGeneratedText removes the echoed prompt and keeps the first sentence,
// capitalized and ending with punctuation. It returns "" when nothing is left.
func CleanGeneratedText(text, prompt string) string {
	cleaned := strings.TrimSpace(strings.Replace(text, prompt, "", 1))
	if cleaned == "" {
		return ""
	}

	for i, r := range cleaned {
		if i == 0 || !isSentenceEnd(r) {
			continue
		}
		next := i + utf8.RuneLen(r)
		if next < len(cleaned) {
			following, _ := utf8.DecodeRuneInString(cleaned[next:])
			if unicode.IsSpace(following) {
				cleaned = cleaned[:next]
				break
			}
		}
	}

	last, _ := utf8.DecodeLastRuneInString(cleaned)
	if !isSentenceEnd(last) {
		cleaned += "."
	}

	first, size := utf8.DecodeRuneInString(cleaned)
	return string(unicode.ToUpper(first)) + cleaned[size:]
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
