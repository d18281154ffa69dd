package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/datasage-io/datasage/internal/agent"
	"github.com/datasage-io/datasage/internal/config"
	"github.com/datasage-io/datasage/internal/plotserver"
	"github.com/datasage-io/datasage/internal/session"
	"github.com/datasage-io/datasage/internal/tools"
)

// buildLoop assembles the session, tool registry, and conversation
// loop from a loaded config.
func buildLoop(logger *slog.Logger, cfg *config.Config) (*agent.Loop, error) {
	client, model, err := buildClient(cfg)
	if err != nil {
		return nil, err
	}

	sess := session.New(cfg.Plots.Dir, cfg.PlotOrigin())
	sess.Visualization = cfg.VisualizationEnabled()
	sess.MaxOutputLength = cfg.MaxOutputLength

	registry := tools.NewRegistry(logger, sess)

	return agent.New(logger, client, registry, agent.Options{
		Model:        model,
		SystemPrompt: cfg.SystemPrompt,
		MaxSteps:     cfg.MaxSteps,
		PlotOrigin:   cfg.PlotOrigin(),
	}), nil
}

// runAsk handles "datasage ask <question>": one question, one answer,
// no REPL and no plot server.
func runAsk(ctx context.Context, stdout io.Writer, stderr io.Writer, configPath string, ov overrides, args []string) error {
	cfg, cfgPath, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	ov.apply(cfg)

	// Logs go to stderr so the answer on stdout stays clean.
	logger := newLogger(stderr, cfg.LogLevel)
	logger.Debug("config loaded", "path", cfgPath)

	loop, err := buildLoop(logger, cfg)
	if err != nil {
		return err
	}

	answer, err := loop.Ask(ctx, strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}

	fmt.Fprintln(stdout, answer)
	return nil
}

// runChat handles "datasage chat": an interactive REPL with markdown
// rendering. When visualization is enabled the plot file server runs
// in-process so image references in answers resolve immediately.
func runChat(ctx context.Context, stdin io.Reader, stdout io.Writer, stderr io.Writer, configPath string, ov overrides) error {
	cfg, cfgPath, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	ov.apply(cfg)

	logger := newLogger(stderr, cfg.LogLevel)
	logger.Info("config loaded", "path", cfgPath, "model", cfg.Model)

	loop, err := buildLoop(logger, cfg)
	if err != nil {
		return err
	}

	if cfg.VisualizationEnabled() {
		srv := plotserver.New(cfg.Plots.Host, cfg.Plots.Port, cfg.Plots.Dir, logger)
		srv.SetRetention(
			time.Duration(cfg.Plots.RetentionMinutes)*time.Minute,
			time.Duration(cfg.Plots.SweepMinutes)*time.Minute,
		)
		go func() {
			if err := srv.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("plot server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		logger.Warn("markdown renderer unavailable, printing raw text", "error", err)
	}

	fmt.Fprintf(stdout, "datasage %s — load a file, then ask questions about it.\n", cfg.Model)
	fmt.Fprintln(stdout, "Commands: /reset clears history, exit quits.")
	fmt.Fprintln(stdout)

	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(stdout, "you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "/reset":
			loop.Reset()
			fmt.Fprintln(stdout, "History cleared.")
			continue
		}

		answer, err := loop.Ask(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(stdout, "error: %v\n", err)
			continue
		}

		fmt.Fprintln(stdout, renderMarkdown(renderer, answer))
	}
	return scanner.Err()
}

// renderMarkdown renders the answer for the terminal, falling back to
// the raw text when rendering is unavailable or fails.
func renderMarkdown(renderer *glamour.TermRenderer, text string) string {
	if renderer == nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
