// Package agent implements the tool-calling conversation loop.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/datasage-io/datasage/internal/llm"
	"github.com/datasage-io/datasage/internal/prompts"
	"github.com/datasage-io/datasage/internal/tools"
)

const defaultMaxSteps = 10

// recentToolWindow is how many trailing messages are scanned for the
// most recent tool result when surfacing plot images.
const recentToolWindow = 4

// Options configures a Loop.
type Options struct {
	// Model is the model name passed to the LLM client.
	Model string

	// SystemPrompt overrides the built-in system prompt when set.
	SystemPrompt string

	// MaxSteps bounds the reasoning iterations per question.
	MaxSteps int

	// PlotOrigin is the plot server origin used to recognize image
	// references in tool output, e.g. "http://localhost:8001".
	PlotOrigin string
}

// Loop runs the ReAct cycle: call the model, execute requested tools,
// feed results back, repeat until the model answers in text.
type Loop struct {
	logger   *slog.Logger
	llm      llm.Client
	registry *tools.Registry
	opts     Options

	imageRef *regexp.Regexp
	history  []llm.Message
	now      func() time.Time
}

// New creates a conversation loop.
func New(logger *slog.Logger, client llm.Client, registry *tools.Registry, opts Options) *Loop {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = defaultMaxSteps
	}
	return &Loop{
		logger:   logger,
		llm:      client,
		registry: registry,
		opts:     opts,
		imageRef: regexp.MustCompile(`(!\[[^\]]*\]\(` + regexp.QuoteMeta(opts.PlotOrigin) + `/[^)]+\))`),
		now:      time.Now,
	}
}

// Reset clears the conversation history.
func (l *Loop) Reset() {
	l.history = nil
}

// History returns the messages accumulated so far.
func (l *Loop) History() []llm.Message {
	return l.history
}

// Ask runs one question through the loop and returns the assistant's
// answer. History carries over between calls, so follow-up questions
// see earlier loads and results.
func (l *Loop) Ask(ctx context.Context, question string) (string, error) {
	l.history = append(l.history, llm.Message{Role: "user", Content: question})

	toolDefs := l.registry.List()
	startTime := time.Now()

	for step := 0; step < l.opts.MaxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("conversation cancelled: %w", err)
		}

		messages := append([]llm.Message{l.systemMessage()}, l.history...)

		l.logger.Debug("llm call", "step", step, "model", l.opts.Model, "msgs", len(messages))
		resp, err := l.llm.Chat(ctx, l.opts.Model, messages, toolDefs)
		if err != nil {
			return "", fmt.Errorf("llm call failed (step %d): %w", step, err)
		}

		l.logger.Debug("llm response",
			"step", step,
			"tool_calls", len(resp.Message.ToolCalls),
			"input_tokens", resp.InputTokens,
			"output_tokens", resp.OutputTokens,
		)

		// No tool calls — final answer.
		if len(resp.Message.ToolCalls) == 0 {
			answer := resp.Message.Content
			if images := l.recentImages(); len(images) > 0 {
				answer = strings.Join(images, "\n") + "\n\n" + answer
			}
			l.history = append(l.history, resp.Message)
			l.logger.Info("conversation done",
				"steps", step+1,
				"elapsed", time.Since(startTime).Round(time.Millisecond),
			)
			return answer, nil
		}

		// Step budget exhausted while the model still wants tools.
		if step == l.opts.MaxSteps-1 {
			l.logger.Warn("max steps reached", "max_steps", l.opts.MaxSteps)
			l.history = append(l.history, llm.Message{Role: "assistant", Content: prompts.Apology})
			return prompts.Apology, nil
		}

		l.history = append(l.history, resp.Message)
		for _, tc := range resp.Message.ToolCalls {
			l.logger.Info("tool exec", "step", step, "tool", tc.Function.Name)

			result, err := l.registry.ExecuteArgs(ctx, tc.Function.Name, tc.Function.Arguments)
			if err != nil {
				result = "Error: " + err.Error()
				l.logger.Error("tool exec failed", "tool", tc.Function.Name, "error", err)
			}

			l.history = append(l.history, llm.Message{
				Role:       "tool",
				Content:    result,
				ToolCallID: tc.ID,
			})
		}
	}

	// Unreachable: the last iteration either returns an answer or the
	// apology.
	return prompts.Apology, nil
}

func (l *Loop) systemMessage() llm.Message {
	content := prompts.SystemPrompt(l.now())
	if l.opts.SystemPrompt != "" {
		content = prompts.WithSystemTime(l.opts.SystemPrompt, l.now())
	}
	return llm.Message{Role: "system", Content: content}
}

// recentImages extracts plot image references from the most recent tool
// message, looking back a few messages at most. Older tool results are
// ignored so stale charts are not resurfaced.
func (l *Loop) recentImages() []string {
	stop := len(l.history) - recentToolWindow
	if stop < 0 {
		stop = 0
	}
	for i := len(l.history) - 1; i >= stop; i-- {
		msg := l.history[i]
		if msg.Role != "tool" {
			continue
		}
		if !strings.Contains(msg.Content, "![") || !strings.Contains(msg.Content, l.opts.PlotOrigin+"/") {
			continue
		}
		return l.imageRef.FindAllString(msg.Content, -1)
	}
	return nil
}
