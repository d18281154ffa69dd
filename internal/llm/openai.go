package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/datasage-io/datasage/internal/httpkit"
)

// OpenAIClient talks to any OpenAI-compatible chat completion endpoint
// (api.openai.com, llama.cpp server, vLLM, LM Studio, ...).
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a client for an OpenAI-compatible endpoint.
// baseURL may be empty for the official API.
func NewOpenAIClient(baseURL, apiKey string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = httpkit.NewClient(httpkit.WithTimeout(5 * time.Minute))
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg)}
}

// Chat sends a chat completion request.
func (c *OpenAIClient) Chat(ctx context.Context, model string, messages []Message, tools []map[string]any) (*ChatResponse, error) {
	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: toOpenAIMessages(messages),
		Tools:    toOpenAITools(tools),
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	choice := resp.Choices[0]
	msg := Message{
		Role:    choice.Message.Role,
		Content: choice.Message.Content,
	}
	for _, tc := range choice.Message.ToolCalls {
		var call ToolCall
		call.ID = tc.ID
		call.Function.Name = tc.Function.Name
		if tc.Function.Arguments != "" {
			// The wire format carries arguments as a JSON string; a parse
			// failure surfaces to the tool layer as empty arguments.
			_ = json.Unmarshal([]byte(tc.Function.Arguments), &call.Function.Arguments)
		}
		msg.ToolCalls = append(msg.ToolCalls, call)
	}

	return &ChatResponse{
		Model:        resp.Model,
		CreatedAt:    time.Unix(resp.Created, 0),
		Message:      msg,
		Done:         true,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}

// Ping checks if the endpoint is reachable.
func (c *OpenAIClient) Ping(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("openai endpoint unreachable: %w", err)
	}
	return nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		om := openai.ChatCompletionMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			args, _ := json.Marshal(tc.Function.Arguments)
			om.ToolCalls = append(om.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: string(args),
				},
			})
		}
		out = append(out, om)
	}
	return out
}

// toOpenAITools converts the registry's tool definitions (already in the
// {"type":"function","function":{...}} shape) into typed go-openai tools.
func toOpenAITools(tools []map[string]any) []openai.Tool {
	var out []openai.Tool
	for _, t := range tools {
		fn, ok := t["function"].(map[string]any)
		if !ok {
			continue
		}
		name, _ := fn["name"].(string)
		desc, _ := fn["description"].(string)
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        name,
				Description: desc,
				Parameters:  fn["parameters"],
			},
		})
	}
	return out
}
