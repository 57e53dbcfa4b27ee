package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default server port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Catalog.Path != "config/catalog.json" {
		t.Errorf("expected default catalog path, got %q", cfg.Catalog.Path)
	}
	if cfg.Redis.Enabled {
		t.Error("expected Redis disabled by default")
	}
	if cfg.Search.DefaultLimit != 20 || cfg.Search.MaxLimit != 100 {
		t.Errorf("unexpected search limits: default=%d max=%d", cfg.Search.DefaultLimit, cfg.Search.MaxLimit)
	}
	if cfg.Search.VocabularyPath != "" {
		t.Errorf("expected no vocabulary path by default, got %q", cfg.Search.VocabularyPath)
	}
	if cfg.OTEL.Enabled {
		t.Error("expected OTEL disabled by default")
	}
	if cfg.Env != "development" {
		t.Errorf("expected development env, got %q", cfg.Env)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("SEARCH_DEFAULT_LIMIT", "50")
	t.Setenv("VOCABULARY_PATH", "config/vocab.json")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected server port 9090, got %d", cfg.Server.Port)
	}
	if !cfg.Redis.Enabled {
		t.Error("expected Redis enabled")
	}
	if got := cfg.Redis.RedisAddr(); got != "cache.internal:6379" {
		t.Errorf("expected redis addr cache.internal:6379, got %q", got)
	}
	if cfg.Search.DefaultLimit != 50 {
		t.Errorf("expected search default limit 50, got %d", cfg.Search.DefaultLimit)
	}
	if cfg.Search.VocabularyPath != "config/vocab.json" {
		t.Errorf("expected vocabulary path override, got %q", cfg.Search.VocabularyPath)
	}
	if cfg.Env != "production" {
		t.Errorf("expected production env, got %q", cfg.Env)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("REDIS_ENABLED", "maybe")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected fallback port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Redis.Enabled {
		t.Error("expected fallback Redis disabled")
	}
}
