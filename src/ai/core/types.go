package core

import "context"

// Message represents a single chat turn.
type Message struct {
	Role    string
	Content string
}

// Options controls model behavior; fields are optional per provider.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int
	SystemPrompt        string
	// JSONResponse asks the provider for a JSON-object response format.
	JSONResponse bool
}

// Usage reports token consumption of one completed call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client is a provider-agnostic interface for the LLM operations we need.
type Client interface {
	// Complete runs one chat completion and returns the assistant text.
	Complete(ctx context.Context, messages []Message, opts Options) (string, Usage, error)
	// Model returns the default model identifier, for ledger entries.
	Model() string
}
