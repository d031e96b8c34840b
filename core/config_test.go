package praxis

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PRAXIS_CONFIG", "PRAXIS_SOCK", "PRAXIS_HISTORY", "PRAXIS_JOURNAL", "PRAXIS_HTTP_ADDR"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "praxis.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Prompt != "praxis> " || cfg.ContinuePrompt != "...> " {
		t.Fatalf("prompts %q %q", cfg.Prompt, cfg.ContinuePrompt)
	}
	if cfg.Socket != "/tmp/praxis.sock" || cfg.MaxTraces != 1000 || cfg.Journal != "" {
		t.Fatalf("got %+v", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfig(t, "prompt: \"calc> \"\nsocket: /tmp/other.sock\nmax_traces: 5\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Prompt != "calc> " || cfg.Socket != "/tmp/other.sock" || cfg.MaxTraces != 5 {
		t.Fatalf("got %+v", cfg)
	}
	if cfg.ContinuePrompt != "...> " {
		t.Fatalf("unset keys should keep defaults, got %q", cfg.ContinuePrompt)
	}
}

func TestLoadConfigFromEnvPath(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PRAXIS_CONFIG", writeConfig(t, "journal: /tmp/j.db\n"))
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Journal != "/tmp/j.db" {
		t.Fatalf("journal %q", cfg.Journal)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfig(t, "socket: /tmp/file.sock\nhistory_file: /tmp/file_history\n")
	t.Setenv("PRAXIS_SOCK", "/tmp/env.sock")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Socket != "/tmp/env.sock" {
		t.Fatalf("socket %q", cfg.Socket)
	}
	t.Setenv("PRAXIS_HTTP_ADDR", ":9999")
	if cfg, _ = LoadConfig(path); cfg.HTTPAddr != ":9999" {
		t.Fatalf("http addr %q", cfg.HTTPAddr)
	}
	if cfg.HistoryFile != "/tmp/file_history" {
		t.Fatalf("history %q", cfg.HistoryFile)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	clearConfigEnv(t)
	for name, path := range map[string]string{
		"missing":   filepath.Join(t.TempDir(), "nope.yaml"),
		"malformed": writeConfig(t, "prompt: [unclosed\n"),
		"bad limit": writeConfig(t, "max_traces: 0\n"),
	} {
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfig) {
			t.Errorf("%s: expected ErrConfig, got %v", name, err)
		}
	}
}
