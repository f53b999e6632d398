package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ServerPort == "" {
		t.Fatalf("expected default server port")
	}
	if cfg.PostgresURL == "" {
		t.Fatalf("expected default postgres url")
	}
	if cfg.OverpassURL == "" || cfg.WeatherURL == "" || cfg.GeocodeURL == "" {
		t.Fatalf("expected default upstream urls")
	}
	if cfg.KVBackend != "redis" {
		t.Fatalf("expected redis kv backend by default, got %q", cfg.KVBackend)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9000")
	t.Setenv("POSTGRES_URL", "postgres://example")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_PASSWORD", "hunter2")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("KV_BACKEND", "postgres")
	t.Setenv("RUN_MIGRATIONS", "true")
	t.Setenv("OVERPASS_URL", "http://overpass.local/api")

	cfg := Load()
	if cfg.ServerPort != ":9000" {
		t.Fatalf("expected override port")
	}
	if cfg.PostgresURL != "postgres://example" {
		t.Fatalf("expected override postgres")
	}
	if cfg.RedisAddr != "redis:6379" || cfg.RedisPassword != "hunter2" {
		t.Fatalf("expected override redis")
	}
	if cfg.JWTSecret != "secret" {
		t.Fatalf("expected override secret")
	}
	if cfg.KVBackend != "postgres" || !cfg.RunMigrations {
		t.Fatalf("expected kv backend and migrations override")
	}
	if cfg.OverpassURL != "http://overpass.local/api" {
		t.Fatalf("expected override overpass url")
	}
}
