// Datasage is a conversational data analysis agent.
//
// It wraps an LLM tool-calling loop around three data tools (load a
// CSV, load an Excel sheet, run analysis code against the loaded
// table) and serves generated charts from a small HTTP file server.
// Configuration is loaded from a single YAML file discovered
// automatically (see [config.DefaultSearchPaths]).
//
// Usage:
//
//	datasage chat             Start an interactive analysis session
//	datasage ask <question>   Ask a single question
//	datasage serve-plots      Run only the plot file server
//	datasage version          Print version and build information
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/datasage-io/datasage/internal/buildinfo"
	"github.com/datasage-io/datasage/internal/config"
	"github.com/datasage-io/datasage/internal/llm"
	"github.com/datasage-io/datasage/internal/plotserver"
)

// main is intentionally minimal. It constructs the OS-level environment
// (context, stdio, argv) and delegates immediately to [run] so the full
// lifecycle can be driven from tests.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

// run is the real entry point. Arguments are parsed by hand: the flag
// package relies on package-level globals, which makes it impossible to
// call run() concurrently from tests, and the argument surface here is
// small.
func run(ctx context.Context, stdout io.Writer, stderr io.Writer, args []string) error {
	var configPath string
	var model string
	var prompt string
	var logLevel string
	var outputFmt string
	var command string
	var cmdArgs []string

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-config" && i+1 < len(args):
			configPath = args[i+1]
			i++
		case strings.HasPrefix(args[i], "-config="):
			configPath = strings.TrimPrefix(args[i], "-config=")
		case args[i] == "-model" && i+1 < len(args):
			model = args[i+1]
			i++
		case strings.HasPrefix(args[i], "-model="):
			model = strings.TrimPrefix(args[i], "-model=")
		case args[i] == "-prompt" && i+1 < len(args):
			prompt = args[i+1]
			i++
		case strings.HasPrefix(args[i], "-prompt="):
			prompt = strings.TrimPrefix(args[i], "-prompt=")
		case args[i] == "-log-level" && i+1 < len(args):
			logLevel = args[i+1]
			i++
		case strings.HasPrefix(args[i], "-log-level="):
			logLevel = strings.TrimPrefix(args[i], "-log-level=")
		case (args[i] == "-o" || args[i] == "--output") && i+1 < len(args):
			outputFmt = args[i+1]
			i++
		case strings.HasPrefix(args[i], "-o="):
			outputFmt = strings.TrimPrefix(args[i], "-o=")
		case args[i] == "-h" || args[i] == "-help" || args[i] == "--help":
			return printUsage(stdout)
		case !strings.HasPrefix(args[i], "-") && command == "":
			command = args[i]
		default:
			if command != "" {
				cmdArgs = append(cmdArgs, args[i])
			} else {
				return fmt.Errorf("unknown flag: %s", args[i])
			}
		}
	}

	if outputFmt == "" {
		outputFmt = "text"
	}
	if outputFmt != "text" && outputFmt != "json" {
		return fmt.Errorf("unknown output format: %q (expected text or json)", outputFmt)
	}

	overrides := overrides{model: model, prompt: prompt, logLevel: logLevel}

	switch command {
	case "chat":
		return runChat(ctx, os.Stdin, stdout, stderr, configPath, overrides)
	case "ask":
		if len(cmdArgs) == 0 {
			return fmt.Errorf("usage: datasage ask <question>")
		}
		return runAsk(ctx, stdout, stderr, configPath, overrides, cmdArgs)
	case "serve-plots":
		return runServePlots(ctx, stdout, configPath, overrides)
	case "version":
		return runVersion(stdout, outputFmt)
	case "":
		return printUsage(stdout)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// overrides are per-invocation config overrides from flags.
type overrides struct {
	model    string
	prompt   string
	logLevel string
}

// apply folds flag overrides into the loaded config.
func (o overrides) apply(cfg *config.Config) {
	if o.model != "" {
		cfg.Model = o.model
	}
	if o.prompt != "" {
		cfg.SystemPrompt = o.prompt
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
}

// runVersion prints build metadata in the requested output format.
func runVersion(w io.Writer, outputFmt string) error {
	info := buildinfo.Info()
	if outputFmt == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	fmt.Fprintln(w, buildinfo.String())
	for _, k := range []string{"version", "git_commit", "git_branch", "build_time", "go_version", "os", "arch"} {
		if v, ok := info[k]; ok {
			fmt.Fprintf(w, "  %-12s %s\n", k+":", v)
		}
	}
	return nil
}

// runServePlots runs only the plot file server, for pairing with an
// externally hosted chat UI.
func runServePlots(ctx context.Context, stdout io.Writer, configPath string, ov overrides) error {
	cfg, cfgPath, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	ov.apply(cfg)
	logger := newLogger(stdout, cfg.LogLevel)
	logger.Info("config loaded", "path", cfgPath)

	srv := plotserver.New(cfg.Plots.Host, cfg.Plots.Port, cfg.Plots.Dir, logger)
	srv.SetRetention(
		time.Duration(cfg.Plots.RetentionMinutes)*time.Minute,
		time.Duration(cfg.Plots.SweepMinutes)*time.Minute,
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// printUsage writes the top-level help text to w.
func printUsage(w io.Writer) error {
	fmt.Fprintln(w, "Datasage - Conversational Data Analysis Agent")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: datasage [flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  chat         Start an interactive analysis session")
	fmt.Fprintln(w, "  ask          Ask a single question")
	fmt.Fprintln(w, "  serve-plots  Run only the plot file server")
	fmt.Fprintln(w, "  version      Show version information")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -config <path>     Path to config file (default: auto-discover)")
	fmt.Fprintln(w, "  -model <name>      Model as provider/model-name (e.g. ollama/qwen3)")
	fmt.Fprintln(w, "  -prompt <text>     Override the system prompt")
	fmt.Fprintln(w, "  -log-level <lvl>   trace, debug, info, warn, or error")
	fmt.Fprintln(w, "  -o, --output fmt   Output format: text (default) or json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config search order:")
	fmt.Fprintln(w, "  ./datasage.yaml, ~/.config/datasage/config.yaml, /etc/datasage/config.yaml")
	return nil
}

// newLogger builds the process logger. Invalid levels fall back to
// info; the trace level renders as TRACE via ReplaceLogLevelNames.
func newLogger(w io.Writer, levelName string) *slog.Logger {
	level, err := config.ParseLogLevel(levelName)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: config.ReplaceLogLevelNames,
	}))
}

// loadConfig locates and parses the YAML configuration. An explicit
// path must exist; with no path and no discoverable file, built-in
// defaults are used.
func loadConfig(explicit string) (*config.Config, string, error) {
	cfgPath, err := config.FindConfig(explicit)
	if err != nil {
		if explicit != "" {
			return nil, "", err
		}
		cfg := config.Default()
		return &cfg, "(defaults)", nil
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, "", err
	}
	return cfg, cfgPath, nil
}

// buildClient selects the provider from the configured model string.
func buildClient(cfg *config.Config) (llm.Client, string, error) {
	provider, model, err := llm.ParseModel(cfg.Model)
	if err != nil {
		return nil, "", err
	}

	switch provider {
	case "ollama":
		return llm.NewOllamaClient(cfg.Ollama.URL), model, nil
	case "openai":
		return llm.NewOpenAIClient(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey), model, nil
	default:
		return nil, "", fmt.Errorf("unknown provider %q (valid: ollama, openai)", provider)
	}
}
