package praxis

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds settings shared by the REPL, the server and the MCP bridge.
type Config struct {
	Prompt         string `yaml:"prompt"`
	ContinuePrompt string `yaml:"continue_prompt"`
	HistoryFile    string `yaml:"history_file"`
	Journal        string `yaml:"journal"` // SQLite path; empty disables the journal
	Socket         string `yaml:"socket"`
	HTTPAddr       string `yaml:"http_addr"`
	MaxTraces      int    `yaml:"max_traces"`
}

// DefaultConfig returns the settings used when nothing else is configured.
func DefaultConfig() Config {
	history := ".praxis_history"
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, history)
	}
	return Config{
		Prompt:         "praxis> ",
		ContinuePrompt: "...> ",
		HistoryFile:    history,
		Socket:         "/tmp/praxis.sock",
		HTTPAddr:       "127.0.0.1:8080",
		MaxTraces:      1000,
	}
}

// LoadConfig starts from DefaultConfig, applies the YAML file at path if path
// is not empty, then applies environment overrides. PRAXIS_CONFIG names the
// file when path is empty.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = os.Getenv("PRAXIS_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %v", ErrConfig, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: %s: %v", ErrConfig, path, err)
		}
	}
	cfg.applyEnv()
	if cfg.MaxTraces <= 0 {
		return Config{}, fmt.Errorf("%w: max_traces must be positive, got %d", ErrConfig, cfg.MaxTraces)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PRAXIS_SOCK"); v != "" {
		c.Socket = v
	}
	if v := os.Getenv("PRAXIS_HISTORY"); v != "" {
		c.HistoryFile = v
	}
	if v := os.Getenv("PRAXIS_JOURNAL"); v != "" {
		c.Journal = v
	}
	if v := os.Getenv("PRAXIS_HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
}
