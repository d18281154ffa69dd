package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/datasage-io/datasage/internal/config"
)

func TestRunVersionText(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), &out, &out, []string{"version"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "datasage") {
		t.Errorf("output = %q", out.String())
	}
	if !strings.Contains(out.String(), "go_version:") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunVersionJSON(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), &out, &out, []string{"-o", "json", "version"}); err != nil {
		t.Fatal(err)
	}
	var info map[string]string
	if err := json.Unmarshal(out.Bytes(), &info); err != nil {
		t.Fatalf("not JSON: %v\n%s", err, out.String())
	}
	if info["version"] == "" {
		t.Errorf("info = %v", info)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), &out, &out, []string{"frobnicate"}); err == nil {
		t.Error("unknown command should error")
	}
}

func TestRunUnknownFlag(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), &out, &out, []string{"-bogus"}); err == nil {
		t.Error("unknown flag should error")
	}
}

func TestRunNoArgsPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), &out, &out, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Usage: datasage") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunAskRequiresQuestion(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), &out, &out, []string{"ask"}); err == nil {
		t.Error("ask without a question should error")
	}
}

func TestRunBadOutputFormat(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), &out, &out, []string{"-o", "yaml", "version"}); err == nil {
		t.Error("bad output format should error")
	}
}

func TestOverridesApply(t *testing.T) {
	cfg := config.Default()
	ov := overrides{model: "openai/gpt-4o", prompt: "be terse", logLevel: "debug"}
	ov.apply(&cfg)

	if cfg.Model != "openai/gpt-4o" {
		t.Errorf("model = %q", cfg.Model)
	}
	if cfg.SystemPrompt != "be terse" {
		t.Errorf("prompt = %q", cfg.SystemPrompt)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	if _, _, err := loadConfig("/nonexistent/datasage.yaml"); err == nil {
		t.Error("explicit missing config should error")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datasage.yaml")
	if err := os.WriteFile(path, []byte("model: openai/gpt-4o\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, cfgPath, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfgPath != path {
		t.Errorf("path = %q", cfgPath)
	}
	if cfg.Model != "openai/gpt-4o" {
		t.Errorf("model = %q", cfg.Model)
	}
	// Defaults still applied around the override.
	if cfg.MaxSteps != 10 {
		t.Errorf("max steps = %d", cfg.MaxSteps)
	}
}

func TestBuildClient(t *testing.T) {
	cfg := config.Default()

	client, model, err := buildClient(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	if client == nil || model != "qwen3" {
		t.Errorf("client = %v, model = %q", client, model)
	}

	cfg.Model = "openai/gpt-4o"
	if _, model, err = buildClient(&cfg); err != nil || model != "gpt-4o" {
		t.Errorf("model = %q, err = %v", model, err)
	}

	cfg.Model = "anthropic/claude"
	if _, _, err = buildClient(&cfg); err == nil {
		t.Error("unknown provider should error")
	}

	cfg.Model = "bare-model"
	if _, _, err = buildClient(&cfg); err == nil {
		t.Error("missing provider should error")
	}
}
