package ai

import (
	"context"
	"log"
	"time"

	"sales-practice-api/internal/domain/ports/adapter"
)

var _ adapter.CompletionAdapter = (*NoopAdapter)(nil)

// NoopAdapter implements adapter.CompletionAdapter for local/dev testing.
// It logs the prompt instead of calling a real completion service.
type NoopAdapter struct{}

// NewNoopAdapter constructs the noop adapter.
func NewNoopAdapter() *NoopAdapter {
	return &NoopAdapter{}
}

func (a *NoopAdapter) ModelName() string { return "noop-model" }

// Complete simulates a small processing delay and returns a canned reply.
func (a *NoopAdapter) Complete(ctx context.Context, messages []adapter.Message, opts adapter.Options) (string, error) {
	select {
	case <-time.After(100 * time.Millisecond):
		// proceed
	case <-ctx.Done():
		return "", ctx.Err()
	}
	log.Printf("[noop-ai] %d messages, temperature=%.1f\n", len(messages), opts.Temperature)
	return "This is a noop completion response.", nil
}
