package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "PRICING_PROVIDER", "CACHE_TTL", "VOLUMETRIC_DIVISOR", "REDIS_ENABLED"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8080" || cfg.LogLevel != slog.LevelInfo || cfg.PricingProvider != "local" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.CacheTTL != 30*time.Minute || cfg.VolumetricDivisor != 5000 || cfg.RedisEnabled {
		t.Fatalf("unexpected cache defaults: %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("PRICING_TIMEOUT", "750ms")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("VOLUMETRIC_DIVISOR", "6000")
	cfg := Load()
	if cfg.Port != "9090" || cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.PricingTimeout != 750*time.Millisecond || !cfg.RedisEnabled || cfg.RedisDB != 3 || cfg.VolumetricDivisor != 6000 {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")
	t.Setenv("REDIS_DB", "two")
	t.Setenv("VOLUMETRIC_DIVISOR", "-1")
	t.Setenv("LOG_LEVEL", "chatty")
	cfg := Load()
	if cfg.CacheTTL != 30*time.Minute || cfg.RedisDB != 0 || cfg.VolumetricDivisor != 5000 || cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("bad values should use defaults: %+v", cfg)
	}
}
