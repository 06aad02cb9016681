package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	cfg := New(t.TempDir())

	if cfg.API.URL != DefaultAPIURL {
		t.Errorf("expected API URL %q, got %q", DefaultAPIURL, cfg.API.URL)
	}
	if cfg.AI.Provider != "gemini" {
		t.Errorf("expected provider gemini, got %q", cfg.AI.Provider)
	}
	if cfg.LogLevel() != "warn" {
		t.Errorf("expected log level warn, got %q", cfg.LogLevel())
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultConfigDir(); got != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("unexpected config dir %q", got)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	toml := `
[api]
url = "http://tasks.example:8080/"
[ai]
provider = "openai"
model = "gpt-4o-mini"
[log]
level = "info"
`
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(toml), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("TASKMATE_LOG_LEVEL", "error")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.API.URL != "http://tasks.example:8080" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.API.URL)
	}
	if cfg.AI.Provider != "openai" || cfg.AI.Model != "gpt-4o-mini" {
		t.Errorf("unexpected ai config: %+v", cfg.AI)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("expected env to override file, got %q", cfg.Log.Level)
	}
	if cfg.AI.APIKey != "sk-test" {
		t.Errorf("expected OPENAI_API_KEY to be picked up, got %q", cfg.AI.APIKey)
	}
}

func TestLoad_DotEnvInConfigDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, EnvFile), []byte("GEMINI_API_KEY=from-dotenv\n"), 0600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Setenv("GEMINI_API_KEY", "")
	os.Unsetenv("GEMINI_API_KEY")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AI.APIKey != "from-dotenv" {
		t.Errorf("expected key from .env, got %q", cfg.AI.APIKey)
	}
}

func TestLoad_RealEnvWinsOverDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, EnvFile), []byte("GEMINI_API_KEY=from-dotenv\n"), 0600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AI.APIKey != "from-env" {
		t.Errorf("expected real env to win, got %q", cfg.AI.APIKey)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte("[api\nurl="), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for invalid config.toml")
	}
}

func TestPaths(t *testing.T) {
	cfg := New("/cfg")
	if cfg.ThemePath() != filepath.Join("/cfg", "theme") {
		t.Errorf("unexpected theme path %q", cfg.ThemePath())
	}
	if cfg.ServerDBPath() != filepath.Join("/cfg", "devserver.db") {
		t.Errorf("unexpected db path %q", cfg.ServerDBPath())
	}
	cfg.Server.DB = "/data/tasks.db"
	if cfg.ServerDBPath() != "/data/tasks.db" {
		t.Errorf("expected explicit db path, got %q", cfg.ServerDBPath())
	}
	cfg.Debug = true
	if cfg.LogLevel() != "debug" {
		t.Errorf("expected --debug to force debug level, got %q", cfg.LogLevel())
	}
}
