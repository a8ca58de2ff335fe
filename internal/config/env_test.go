package config

import (
	"strings"
	"testing"
	"time"
)

func TestGetEnvFallback(t *testing.T) {
	t.Setenv("BUS_TEST_KEY", "  ")
	if got := GetEnv("BUS_TEST_KEY", "dflt"); got != "dflt" {
		t.Fatalf("expected fallback for blank value, got %q", got)
	}
	t.Setenv("BUS_TEST_KEY", " value ")
	if got := GetEnv("BUS_TEST_KEY", "dflt"); got != "value" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
	if got := GetEnv("BUS_TEST_MISSING"); got != "" {
		t.Fatalf("expected empty string without fallback, got %q", got)
	}
}

func TestLoadEnvDefaults(t *testing.T) {
	for _, k := range []string{"APP_ADDR", "STORE_DRIVER", "DB_HOST", "DB_NAME", "JWT_SECRET", "AUTH_REQUIRED", "CORS_ALLOWED_ORIGINS", "TOKEN_TTL"} {
		t.Setenv(k, "")
	}
	env := LoadEnv()
	if env.AppAddr != ":8080" || env.StoreDriver != "mysql" || env.DBName != "bus_booking" {
		t.Fatalf("unexpected defaults: %+v", env)
	}
	if env.JWTSecret == "" {
		t.Fatalf("expected development jwt secret")
	}
	if env.AuthRequired {
		t.Fatalf("auth should be optional by default")
	}
	if env.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected default token ttl: %s", env.TokenTTL)
	}
	if len(env.CORSOrigins) == 0 {
		t.Fatalf("expected default cors origins")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("AUTH_REQUIRED", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	env := LoadEnv()
	if env.StoreDriver != "memory" {
		t.Fatalf("store driver not normalized: %q", env.StoreDriver)
	}
	if !env.AuthRequired {
		t.Fatalf("auth_required not parsed")
	}
	if strings.Join(env.CORSOrigins, "|") != "https://a.example|https://b.example" {
		t.Fatalf("unexpected origins: %v", env.CORSOrigins)
	}
}

func TestLoadEnvTokenTTL(t *testing.T) {
	t.Setenv("TOKEN_TTL", "90m")
	if got := LoadEnv().TokenTTL; got != 90*time.Minute {
		t.Fatalf("TOKEN_TTL not applied: %s", got)
	}
	for _, bad := range []string{"tomorrow", "-1h", "0s"} {
		t.Setenv("TOKEN_TTL", bad)
		if got := LoadEnv().TokenTTL; got != 24*time.Hour {
			t.Fatalf("TOKEN_TTL=%q should fall back, got %s", bad, got)
		}
	}
}

func TestSeedOperatorNeedsPassword(t *testing.T) {
	t.Setenv("SEED_OPERATOR_USERNAME", "hadi")
	t.Setenv("SEED_OPERATOR_PASSWORD", "")
	if LoadEnv().SeedOperator() {
		t.Fatalf("seed enabled without a password")
	}
	t.Setenv("SEED_OPERATOR_PASSWORD", "rahasia")
	if !LoadEnv().SeedOperator() {
		t.Fatalf("seed disabled with username and password set")
	}
	t.Setenv("SEED_OPERATOR_USERNAME", "")
	if LoadEnv().SeedOperator() {
		t.Fatalf("seed enabled without a username")
	}
}

func TestDSN(t *testing.T) {
	dsn := DSN(Env{DBUser: "app", DBPassword: "pw", DBHost: "db:3306", DBName: "bus_booking"})
	if !strings.HasPrefix(dsn, "app:pw@tcp(db:3306)/bus_booking?") {
		t.Fatalf("unexpected dsn: %s", dsn)
	}
	if !strings.Contains(dsn, "parseTime=true") || !strings.Contains(dsn, "charset=utf8mb4") {
		t.Fatalf("dsn missing params: %s", dsn)
	}
}
