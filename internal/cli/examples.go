package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/at-ishikawa/studytracker/internal/example"
)

// RunExamples prints example sentences for word.
func RunExamples(ctx context.Context, stdoutWriter io.Writer, generator *example.Generator, word string, count int, usageContext string) error {
	result, err := generator.Generate(ctx, word, count, usageContext)
	if err != nil {
		return fmt.Errorf("generator.Generate() > %w", err)
	}

	if _, err := color.New(color.Bold).Fprintf(stdoutWriter, "Examples for %q\n", word); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	for i, sentence := range result.Examples {
		if _, err := fmt.Fprintf(stdoutWriter, "  %d. %s\n", i+1, sentence); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
	}
	if result.Fallback {
		if _, err := color.New(color.FgYellow).Fprintln(stdoutWriter, "Generated examples are unavailable, showing template sentences instead"); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
	}
	return nil
}
