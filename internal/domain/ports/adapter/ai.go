package adapter

import "context"

// Message represents a chat message on the wire.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// Options bound a single completion call.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// CompletionAdapter is the port for the external chat-completion service.
// Implementations perform exactly one attempt per call and translate every
// failure into *domain.GatewayError.
type CompletionAdapter interface {
	// Complete sends the ordered message list and returns the assistant text.
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)

	// ModelName reports the configured model identifier.
	ModelName() string
}
