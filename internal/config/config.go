// Package config handles datasage configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultSearchPaths returns the config file search order.
// An explicit path (from -config flag) is checked first.
// Then: ./datasage.yaml, ~/.config/datasage/config.yaml, /etc/datasage/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"datasage.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "datasage", "config.yaml"))
	}

	paths = append(paths, "/etc/datasage/config.yaml")
	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must exist.
// Otherwise, searches DefaultSearchPaths and returns the first that exists.
// Returns the path found, or an error if nothing was found.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v)", DefaultSearchPaths())
}

// Config holds all datasage configuration.
type Config struct {
	// Model selects the chat model as "provider/model-name",
	// e.g. "ollama/qwen3" or "openai/gpt-4o".
	Model string `yaml:"model"`

	// SystemPrompt overrides the built-in system prompt when non-empty.
	SystemPrompt string `yaml:"system_prompt"`

	// MaxSteps caps the number of model/tool iterations per question.
	MaxSteps int `yaml:"max_steps"`

	// MaxOutputLength caps the text returned by the code execution tool.
	MaxOutputLength int `yaml:"max_output_length"`

	Visualization VisualizationConfig `yaml:"visualization"`
	Plots         PlotsConfig         `yaml:"plots"`
	Ollama        OllamaConfig        `yaml:"ollama"`
	OpenAI        OpenAIConfig        `yaml:"openai"`

	LogLevel string `yaml:"log_level"`
}

// VisualizationConfig toggles chart generation in the code runner.
type VisualizationConfig struct {
	Enabled *bool `yaml:"enabled"`
}

// PlotsConfig defines the shared plot directory and the file server
// that exposes it.
type PlotsConfig struct {
	// Dir is the directory plot images are written to and served from.
	Dir string `yaml:"dir"`
	// Host and Port form the URL origin embedded in image references.
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// RetentionMinutes is how long artifacts live before the janitor
	// removes them. SweepMinutes is the janitor interval.
	RetentionMinutes int `yaml:"retention_minutes"`
	SweepMinutes     int `yaml:"sweep_minutes"`
}

// OllamaConfig defines the Ollama provider endpoint.
type OllamaConfig struct {
	URL string `yaml:"url"`
}

// OpenAIConfig defines an OpenAI-compatible provider endpoint.
type OpenAIConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills zero-valued fields with defaults.
func (c *Config) ApplyDefaults() {
	if c.Model == "" {
		c.Model = "ollama/qwen3"
	}
	if c.MaxSteps == 0 {
		c.MaxSteps = 10
	}
	if c.MaxOutputLength == 0 {
		c.MaxOutputLength = 5000
	}
	if c.Visualization.Enabled == nil {
		enabled := true
		c.Visualization.Enabled = &enabled
	}
	if c.Plots.Dir == "" {
		c.Plots.Dir = filepath.Join(os.TempDir(), "datasage_plots")
	}
	if c.Plots.Host == "" {
		c.Plots.Host = "localhost"
	}
	if c.Plots.Port == 0 {
		c.Plots.Port = 8001
	}
	if c.Plots.RetentionMinutes == 0 {
		c.Plots.RetentionMinutes = 60
	}
	if c.Plots.SweepMinutes == 0 {
		c.Plots.SweepMinutes = 5
	}
	if c.Ollama.URL == "" {
		c.Ollama.URL = "http://localhost:11434"
	}
}

// PlotOrigin returns the URL origin for plot references,
// e.g. "http://localhost:8001".
func (c *Config) PlotOrigin() string {
	return fmt.Sprintf("http://%s:%d", c.Plots.Host, c.Plots.Port)
}

// VisualizationEnabled reports whether chart generation is on.
func (c *Config) VisualizationEnabled() bool {
	return c.Visualization.Enabled == nil || *c.Visualization.Enabled
}

// Load reads and parses a config file, applying defaults afterward.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	c.ApplyDefaults()
	return &c, nil
}
