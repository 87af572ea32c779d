package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"resty.dev/v3"

	"github.com/at-ishikawa/studytracker/internal/inference"
)

func writeCompletion(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	mockResponse := ChatCompletionResponse{
		ID:      "chatcmpl-123",
		Object:  "chat.completion",
		Created: 1677652288,
		Model:   "gpt-4",
		Choices: []Choice{
			{
				Index: 0,
				Message: ChoiceMessage{
					Role:    RoleAssistant,
					Content: content,
				},
				FinishReason: "stop",
			},
		},
		Usage: Usage{
			PromptTokens:     100,
			CompletionTokens: 50,
			TotalTokens:      150,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	require.NoError(t, json.NewEncoder(w).Encode(mockResponse))
}

func TestClient_GenerateExamples(t *testing.T) {
	tests := []struct {
		name              string
		request           inference.GenerateExamplesRequest
		mockServerHandler func(t *testing.T, w http.ResponseWriter, r *http.Request)

		wantResponse    inference.GenerateExamplesResponse
		wantError       bool
		wantErrorString string
		wantCalls       int32
	}{
		{
			name: "Success",
			request: inference.GenerateExamplesRequest{
				Word:    "serendipity",
				Count:   2,
				Context: "travel",
			},
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				// Verify request
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/chat/completions", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var reqBody ChatCompletionRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
				assert.Equal(t, "gpt-4", reqBody.Model)
				require.Len(t, reqBody.Messages, 2)
				assert.Equal(t, RoleSystem, reqBody.Messages[0].Role)
				assert.JSONEq(t, `{"word":"serendipity","count":2,"context":"travel"}`, reqBody.Messages[1].Content)

				writeCompletion(t, w, `["Finding that café was pure serendipity.", "Our trip was full of serendipity."]`)
			},
			wantResponse: inference.GenerateExamplesResponse{
				Examples: []string{
					"Finding that café was pure serendipity.",
					"Our trip was full of serendipity.",
				},
			},
			wantCalls: 1,
		},
		{
			name:    "Code fences and extra examples are removed",
			request: inference.GenerateExamplesRequest{Word: "run", Count: 1},
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				writeCompletion(t, w, "```json\n[\"I run every morning.\", \"  \", \"She runs a shop.\"]\n```")
			},
			wantResponse: inference.GenerateExamplesResponse{
				Examples: []string{"I run every morning."},
			},
			wantCalls: 1,
		},
		{
			name:    "Zero count does not call the API",
			request: inference.GenerateExamplesRequest{Word: "run", Count: 0},
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				t.Error("unexpected request")
			},
			wantResponse: inference.GenerateExamplesResponse{},
			wantCalls:    0,
		},
		{
			name:    "Client error is not retried",
			request: inference.GenerateExamplesRequest{Word: "run", Count: 1},
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = fmt.Fprint(w, `{"error":{"message":"invalid api key"}}`)
			},
			wantError:       true,
			wantErrorString: "response error 401",
			wantCalls:       1,
		},
		{
			name:    "Server error is retried",
			request: inference.GenerateExamplesRequest{Word: "run", Count: 1},
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			wantError:       true,
			wantErrorString: "response error 503",
			wantCalls:       2,
		},
		{
			name:    "Invalid JSON content is retried",
			request: inference.GenerateExamplesRequest{Word: "run", Count: 1},
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				writeCompletion(t, w, `I run every morning.`)
			},
			wantError:       true,
			wantErrorString: "json.Unmarshal",
			wantCalls:       2,
		},
		{
			name:    "Empty choices",
			request: inference.GenerateExamplesRequest{Word: "run", Count: 1},
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = fmt.Fprint(w, `{"choices":[]}`)
			},
			wantError:       true,
			wantErrorString: "empty response body or choices",
			wantCalls:       1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			// Create mock HTTP server
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				tt.mockServerHandler(t, w, r)
			}))
			defer server.Close()

			// Create client with mock server
			client := &Client{
				httpClient:       resty.New().SetBaseURL(server.URL),
				model:            "gpt-4",
				maxRetryAttempts: 1,
			}

			// Execute test
			ctx := context.Background()
			gotResponse, gotErr := client.GenerateExamples(ctx, tt.request)
			assert.Equal(t, tt.wantCalls, calls.Load())

			// Assert error expectations
			if tt.wantError {
				require.Error(t, gotErr)
				if tt.wantErrorString != "" {
					assert.Contains(t, gotErr.Error(), tt.wantErrorString)
				}
				return
			}

			require.NoError(t, gotErr)
			require.Equal(t, tt.wantResponse, gotResponse)
		})
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "json", err: errors.New("json.Unmarshal(x) > invalid character"), want: true},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), want: true},
		{name: "server error", err: errors.New("response error 502: bad gateway"), want: true},
		{name: "rate limited", err: errors.New("response error 429: slow down"), want: true},
		{name: "bad request", err: errors.New("response error 400: invalid"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableError(tt.err))
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	assert.Equal(t, `["a"]`, extractJSONArray("```json\n[\"a\"]\n```"))
	assert.Equal(t, `["a", ["b"]]`, extractJSONArray(`Here: ["a", ["b"]] done`))
	assert.Equal(t, "no array", extractJSONArray("no array"))
}
