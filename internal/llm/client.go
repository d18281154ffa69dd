package llm

import (
	"context"
	"fmt"
	"strings"
)

// Client is the interface that all LLM providers must implement.
type Client interface {
	// Chat sends a chat completion request and returns the response.
	Chat(ctx context.Context, model string, messages []Message, tools []map[string]any) (*ChatResponse, error)

	// Ping checks if the provider is reachable.
	Ping(ctx context.Context) error
}

// ParseModel splits a "provider/model-name" string into its parts.
// The provider selects the client implementation ("ollama" or "openai");
// the remainder is passed through as the model name.
func ParseModel(s string) (provider, model string, err error) {
	provider, model, found := strings.Cut(s, "/")
	if !found || provider == "" || model == "" {
		return "", "", fmt.Errorf("model %q must be in provider/model-name form", s)
	}
	return provider, model, nil
}
