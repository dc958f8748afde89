package config

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.TableCount != 12 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !cfg.TaxRate.Equal(decimal.RequireFromString("0.08")) {
		t.Errorf("tax rate = %s", cfg.TaxRate)
	}
	if cfg.AITimeout != 20*time.Second {
		t.Errorf("ai timeout = %s", cfg.AITimeout)
	}
	if cfg.Location() != time.UTC {
		t.Errorf("location = %s", cfg.Location())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "test-secret")
	t.Setenv("TAX_RATE", "0.0725")
	t.Setenv("TABLE_COUNT", "20")
	t.Setenv("AI_TIMEOUT", "5s")
	t.Setenv("TIMEZONE", "Not/AZone")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.TaxRate.Equal(decimal.RequireFromString("0.0725")) || cfg.TableCount != 20 || cfg.AITimeout != 5*time.Second {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Location() != time.UTC {
		t.Error("unknown timezone should fall back to UTC")
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "")
	os.Unsetenv("APP_JWT_SECRET")
	if _, err := Load(); err == nil {
		t.Error("expected error without APP_JWT_SECRET")
	}
}
