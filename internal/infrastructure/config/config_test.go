package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func load(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	return Load(context.Background(), envconfig.MapLookuper(env))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t, map[string]string{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.StoreDriver != DriverPostgres {
		t.Errorf("StoreDriver = %q, want %q", cfg.StoreDriver, DriverPostgres)
	}
	if cfg.AllowZeroAge {
		t.Error("AllowZeroAge should default to false")
	}
	if cfg.StoreTimeout != 5*time.Second {
		t.Errorf("StoreTimeout = %s, want 5s", cfg.StoreTimeout)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %s, want 10s", cfg.ShutdownTimeout)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
	if !cfg.Postgres.Migrate {
		t.Error("Postgres.Migrate should default to true")
	}
	if cfg.Postgres.MaxConns != 10 {
		t.Errorf("Postgres.MaxConns = %d, want 10", cfg.Postgres.MaxConns)
	}
	if cfg.Redis.Enabled() {
		t.Error("Redis should be disabled without REDIS_ADDR")
	}
	if cfg.Redis.IdempotencyTTL != 24*time.Hour {
		t.Errorf("IdempotencyTTL = %s, want 24h", cfg.Redis.IdempotencyTTL)
	}
	if !cfg.IsDevelopment() {
		t.Error("default ENV should be development")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(t, map[string]string{
		"PORT":            "9090",
		"ENV":             "production",
		"STORE_DRIVER":    "Mongo",
		"ALLOW_ZERO_AGE":  "true",
		"STORE_TIMEOUT":   "750ms",
		"CORS_ORIGINS":    "https://a.example,https://b.example",
		"REDIS_ADDR":      "cache:6379",
		"IDEMPOTENCY_TTL": "1h",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.IsDevelopment() {
		t.Error("production should not report development")
	}
	if cfg.StoreDriver != DriverMongo {
		t.Errorf("StoreDriver = %q, want normalised %q", cfg.StoreDriver, DriverMongo)
	}
	if !cfg.AllowZeroAge {
		t.Error("AllowZeroAge should be true")
	}
	if cfg.StoreTimeout != 750*time.Millisecond {
		t.Errorf("StoreTimeout = %s", cfg.StoreTimeout)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v, want two entries", cfg.CORSOrigins)
	}
	if !cfg.Redis.Enabled() || cfg.Redis.Addr != "cache:6379" {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
	if cfg.Redis.IdempotencyTTL != time.Hour {
		t.Errorf("IdempotencyTTL = %s", cfg.Redis.IdempotencyTTL)
	}
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	if _, err := load(t, map[string]string{"STORE_DRIVER": "sqlite"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestLoad_RejectsNonPositiveTimeout(t *testing.T) {
	if _, err := load(t, map[string]string{"STORE_TIMEOUT": "0s"}); err == nil {
		t.Fatal("expected error for zero STORE_TIMEOUT")
	}
}

func TestLoad_MalformedValue(t *testing.T) {
	if _, err := load(t, map[string]string{"POSTGRES_PORT": "not-a-port"}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestPostgresDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  PostgresConfig
		want string
	}{
		{
			name: "assembled from parts",
			cfg:  PostgresConfig{Host: "db", Port: 5432, User: "postgres", Password: "secret", Database: "civic"},
			want: "postgres://postgres:secret@db:5432/civic?sslmode=disable",
		},
		{
			name: "url wins",
			cfg:  PostgresConfig{URL: "postgres://u:p@h:1/d", Host: "ignored"},
			want: "postgres://u:p@h:1/d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.DSN(); got != tt.want {
				t.Errorf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}
