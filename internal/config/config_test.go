package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"marquee/internal/config"
)

func TestLoadDefaultConfigUsesEnvCredentialsAndExpandsPaths(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "test-key")
	t.Setenv("TMDB_ACCESS_TOKEN", "test-token")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogDir := filepath.Join(tempHome, ".local", "share", "marquee", "logs")
	if cfg.Paths.LogDir != wantLogDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogDir)
	}
	if cfg.Server.Bind != "127.0.0.1:6277" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
	if cfg.TMDB.APIKey != "test-key" {
		t.Fatalf("expected TMDB key from env, got %q", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.AccessToken != "test-token" {
		t.Fatalf("expected TMDB access token from env, got %q", cfg.TMDB.AccessToken)
	}
	if cfg.TMDB.BaseURL != config.Default().TMDB.BaseURL {
		t.Fatalf("unexpected TMDB base url: %q", cfg.TMDB.BaseURL)
	}
	if cfg.TMDB.Language != "en-US" {
		t.Fatalf("unexpected TMDB language: %q", cfg.TMDB.Language)
	}
	if !cfg.CORS.Enabled {
		t.Fatal("expected CORS enabled by default")
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Fatalf("unexpected CORS origins: %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	info, err := os.Stat(cfg.Paths.LogDir)
	if err != nil {
		t.Fatalf("expected log dir to exist: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("expected %q to be directory", cfg.Paths.LogDir)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "marquee.toml")

	type payload struct {
		TMDB struct {
			APIKey      string `toml:"api_key"`
			AccessToken string `toml:"access_token"`
			BaseURL     string `toml:"base_url"`
		} `toml:"tmdb"`
		Server struct {
			Bind string `toml:"bind"`
		} `toml:"server"`
		CORS struct {
			AllowedOrigins []string `toml:"allowed_origins"`
		} `toml:"cors"`
	}
	custom := payload{}
	custom.TMDB.APIKey = "abc123"
	custom.TMDB.AccessToken = "token456"
	custom.TMDB.BaseURL = "https://example.com/tmdb/"
	custom.Server.Bind = "0.0.0.0:9001"
	custom.CORS.AllowedOrigins = []string{" https://app.example.com ", "https://app.example.com", ""}

	raw, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, raw, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.TMDB.APIKey != "abc123" {
		t.Fatalf("unexpected api key: %q", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.BaseURL != "https://example.com/tmdb" {
		t.Fatalf("expected trailing slash to be trimmed, got %q", cfg.TMDB.BaseURL)
	}
	if cfg.Server.Bind != "0.0.0.0:9001" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "https://app.example.com" {
		t.Fatalf("expected origins to be trimmed and deduplicated, got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadMissingAPIKeyFails(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("TMDB_ACCESS_TOKEN", "token")
	t.Setenv("HOME", t.TempDir())

	_, _, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected error for missing api key")
	}
	if !strings.Contains(err.Error(), "tmdb.api_key") {
		t.Fatalf("expected api key guidance, got %v", err)
	}
}

func TestLoadMissingAccessTokenFails(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "key")
	t.Setenv("TMDB_ACCESS_TOKEN", "")
	t.Setenv("HOME", t.TempDir())

	_, _, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected error for missing access token")
	}
	if !strings.Contains(err.Error(), "tmdb.access_token") {
		t.Fatalf("expected access token guidance, got %v", err)
	}
}

func TestValidateRejectsBadLanguage(t *testing.T) {
	cfg := config.Default()
	cfg.TMDB.APIKey = "key"
	cfg.TMDB.AccessToken = "token"
	cfg.TMDB.Language = "not a language"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid language tag")
	}
	if !strings.Contains(err.Error(), "tmdb.language") {
		t.Fatalf("expected language guidance, got %v", err)
	}
}

func TestValidateRejectsBadBind(t *testing.T) {
	cfg := config.Default()
	cfg.TMDB.APIKey = "key"
	cfg.TMDB.AccessToken = "token"
	cfg.Server.Bind = "nonsense"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid bind address")
	}
	if !strings.Contains(err.Error(), "server.bind") {
		t.Fatalf("expected bind guidance, got %v", err)
	}
}

func TestValidateRejectsBadBaseURL(t *testing.T) {
	cfg := config.Default()
	cfg.TMDB.APIKey = "key"
	cfg.TMDB.AccessToken = "token"
	cfg.TMDB.BaseURL = "not-a-url"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid base url")
	}
	if !strings.Contains(err.Error(), "tmdb.base_url") {
		t.Fatalf("expected base url guidance, got %v", err)
	}
}

func TestRedactedMasksSecrets(t *testing.T) {
	cfg := config.Default()
	cfg.TMDB.APIKey = "secret-key"
	cfg.TMDB.AccessToken = "secret-token"

	redacted := cfg.Redacted()
	if redacted.TMDB.APIKey != "[redacted]" || redacted.TMDB.AccessToken != "[redacted]" {
		t.Fatalf("expected secrets to be masked, got %+v", redacted.TMDB)
	}
	if cfg.TMDB.APIKey != "secret-key" {
		t.Fatal("expected original config to be untouched")
	}

	defaultCfg := config.Default()
	empty := defaultCfg.Redacted()
	if empty.TMDB.APIKey != "" {
		t.Fatalf("expected empty secret to stay empty, got %q", empty.TMDB.APIKey)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "key")
	t.Setenv("TMDB_ACCESS_TOKEN", "token")

	samplePath := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(samplePath); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	cfg, _, exists, err := config.Load(samplePath)
	if err != nil {
		t.Fatalf("Load of sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.TMDB.BaseURL != config.Default().TMDB.BaseURL {
		t.Fatalf("unexpected base url from sample: %q", cfg.TMDB.BaseURL)
	}
}
