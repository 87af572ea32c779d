// Package example generates example sentences for flashcard words.
package example

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/at-ishikawa/studytracker/internal/inference"
)

const DefaultCount = 3

var ErrEmptyWord = errors.New("word must not be empty")

type Result struct {
	Examples []string `json:"examples"`
	// Fallback is true when the examples are canned sentences instead of generated ones
	Fallback bool `json:"fallback"`
}

// Generator generates examples with an inference client and caches successful results in memory.
// A nil client always returns fallback examples.
type Generator struct {
	client    inference.Client
	logger    *slog.Logger
	fileCache *FileCache

	mu    sync.Mutex
	cache map[string][]string
}

type GeneratorOption func(*Generator)

// WithFileCache keeps generated examples on disk as well, so they survive restarts.
func WithFileCache(cache *FileCache) GeneratorOption {
	return func(g *Generator) {
		g.fileCache = cache
	}
}

func NewGenerator(client inference.Client, logger *slog.Logger, opts ...GeneratorOption) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Generator{
		client: client,
		logger: logger,
		cache:  make(map[string][]string),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func cacheKey(word string, count int, usageContext string) string {
	return fmt.Sprintf("%s-%d-%s", word, count, usageContext)
}

// Generate returns count examples for word. Failures of the client are not returned;
// they produce fallback examples, which are not cached so a later call can try again.
func (g *Generator) Generate(ctx context.Context, word string, count int, usageContext string) (Result, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return Result{}, ErrEmptyWord
	}
	if count <= 0 {
		count = DefaultCount
	}
	usageContext = strings.TrimSpace(usageContext)

	key := cacheKey(word, count, usageContext)
	g.mu.Lock()
	cached, ok := g.cache[key]
	g.mu.Unlock()
	if ok {
		return Result{Examples: append([]string(nil), cached...)}, nil
	}
	if examples, ok := g.loadFromFile(key); ok {
		g.mu.Lock()
		g.cache[key] = append([]string(nil), examples...)
		g.mu.Unlock()
		return Result{Examples: examples}, nil
	}

	if g.client == nil {
		return Result{Examples: FallbackExamples(word), Fallback: true}, nil
	}

	response, err := g.client.GenerateExamples(ctx, inference.GenerateExamplesRequest{
		Word:    word,
		Count:   count,
		Context: usageContext,
	})
	if err != nil {
		g.logger.Warn("failed to generate examples, using fallback examples",
			slog.String("word", word),
			slog.Any("error", err),
		)
		return Result{Examples: FallbackExamples(word), Fallback: true}, nil
	}
	if len(response.Examples) == 0 {
		g.logger.Warn("no examples were generated, using fallback examples",
			slog.String("word", word),
		)
		return Result{Examples: FallbackExamples(word), Fallback: true}, nil
	}

	g.mu.Lock()
	g.cache[key] = append([]string(nil), response.Examples...)
	g.mu.Unlock()
	if g.fileCache != nil {
		if err := g.fileCache.Store(key, response.Examples); err != nil {
			g.logger.Warn("failed to write the example cache",
				slog.String("word", word),
				slog.Any("error", err),
			)
		}
	}
	return Result{Examples: response.Examples}, nil
}

func (g *Generator) loadFromFile(key string) ([]string, bool) {
	if g.fileCache == nil {
		return nil, false
	}
	examples, ok, err := g.fileCache.Load(key)
	if err != nil {
		g.logger.Warn("failed to read the example cache",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return nil, false
	}
	if !ok || len(examples) == 0 {
		return nil, false
	}
	return examples, true
}

// FallbackExamples returns canned examples used when generation is unavailable.
func FallbackExamples(word string) []string {
	return []string{
		fmt.Sprintf("I need to learn the word %q.", word),
		fmt.Sprintf("The word %q is important to remember.", word),
		fmt.Sprintf("Can you use %q in a sentence?", word),
	}
}
