package config

import (
	"flag"
	"io"
	"os"
	"testing"
	"time"
)

func loadWithArgs(t *testing.T, args ...string) *Config {
	t.Helper()

	if len(args) == 0 {
		args = []string{"test"}
	}

	oldCommandLine := flag.CommandLine
	oldArgs := os.Args

	flag.CommandLine = flag.NewFlagSet(args[0], flag.ContinueOnError)
	flag.CommandLine.SetOutput(io.Discard)
	os.Args = args

	t.Cleanup(func() {
		flag.CommandLine = oldCommandLine
		os.Args = oldArgs
	})

	return Load()
}

func TestLoadDefaults(t *testing.T) {
	cfg := loadWithArgs(t, "test")

	if cfg.Server.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q", cfg.Server.HTTPAddr)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("Cache.Backend = %q", cfg.Cache.Backend)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Database.Driver = %q", cfg.Database.Driver)
	}
	if cfg.Monitor.DefaultInterval != 5*time.Minute {
		t.Errorf("Monitor.DefaultInterval = %v", cfg.Monitor.DefaultInterval)
	}
	if cfg.Auth.JWTIssuer != "buzzwatch" {
		t.Errorf("Auth.JWTIssuer = %q", cfg.Auth.JWTIssuer)
	}
	if cfg.Auth.JWTSecret != "" {
		t.Errorf("Auth.JWTSecret should default to empty, got %q", cfg.Auth.JWTSecret)
	}
}

func TestLoadFlags(t *testing.T) {
	cfg := loadWithArgs(t, "test", "-http", ":9000", "-db-driver", "sqlite", "-sqlite-path", "/tmp/test.db")

	if cfg.Server.HTTPAddr != ":9000" {
		t.Errorf("HTTPAddr = %q", cfg.Server.HTTPAddr)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q", cfg.Database.Driver)
	}
	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SEARCH_PROXY_API_KEY", "key-from-env")
	t.Setenv("MONITOR_DEFAULT_INTERVAL", "90s")
	t.Setenv("AUTH_JWT_SECRET", "secret-from-env")

	cfg := loadWithArgs(t, "test")

	if cfg.Server.HTTPAddr != ":7070" {
		t.Errorf("HTTPAddr = %q", cfg.Server.HTTPAddr)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q", cfg.Database.Driver)
	}
	if cfg.Search.APIKey != "key-from-env" {
		t.Errorf("Search.APIKey = %q", cfg.Search.APIKey)
	}
	if cfg.Monitor.DefaultInterval != 90*time.Second {
		t.Errorf("Monitor.DefaultInterval = %v", cfg.Monitor.DefaultInterval)
	}
	if cfg.Auth.JWTSecret != "secret-from-env" {
		t.Errorf("Auth.JWTSecret = %q", cfg.Auth.JWTSecret)
	}
}

func TestLoadRedditCredentials(t *testing.T) {
	t.Setenv("REDDIT_CLIENT_ID", "id")
	t.Setenv("REDDIT_CLIENT_SECRET", "secret")
	t.Setenv("REDDIT_USERNAME", "user")
	t.Setenv("REDDIT_PASSWORD", "pass")

	cfg := loadWithArgs(t, "test")

	if cfg.Reddit.ClientID != "id" || cfg.Reddit.ClientSecret != "secret" ||
		cfg.Reddit.Username != "user" || cfg.Reddit.Password != "pass" {
		t.Errorf("Reddit = %+v", cfg.Reddit)
	}
}

func TestLoadInvalidMonitorInterval(t *testing.T) {
	t.Setenv("MONITOR_DEFAULT_INTERVAL", "not-a-duration")

	cfg := loadWithArgs(t, "test")
	if cfg.Monitor.DefaultInterval != 5*time.Minute {
		t.Errorf("Monitor.DefaultInterval = %v, want default", cfg.Monitor.DefaultInterval)
	}
}
