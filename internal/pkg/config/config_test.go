package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.API.BaseURL != "http://localhost:3000" {
		t.Fatalf("unexpected api base url %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Fatalf("unexpected api timeout %s", cfg.API.Timeout)
	}
	if cfg.Session.Store != StoreMemory || cfg.Session.CookieName != "todo_session" {
		t.Fatalf("unexpected session config %+v", cfg.Session)
	}
	if cfg.Session.TTL != 168*time.Hour {
		t.Fatalf("unexpected session ttl %s", cfg.Session.TTL)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development env by default")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"API_BASE_URL":     "https://api.example.com",
		"SESSION_STORE":    "redis",
		"REDIS_ADDR":       "cache:6379",
		"COOKIE_SECURE":    "true",
		"GOOGLE_CLIENT_ID": "abc.apps.googleusercontent.com",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.API.BaseURL != "https://api.example.com" {
		t.Fatalf("unexpected base url %q", cfg.API.BaseURL)
	}
	if cfg.Session.Store != StoreRedis || cfg.Redis.Addr != "cache:6379" {
		t.Fatalf("unexpected store config: %+v %+v", cfg.Session, cfg.Redis)
	}
	if !cfg.Session.CookieSecure {
		t.Fatalf("expected secure cookie")
	}
	if cfg.Google.ClientID == "" {
		t.Fatalf("expected google client id")
	}
}

func TestLoadFrom_RejectsUnknownStore(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"SESSION_STORE": "etcd",
	}))
	if err == nil {
		t.Fatalf("expected error for unknown store")
	}
}
