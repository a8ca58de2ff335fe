package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	devJWTSecret    = "bus-booking-dev-secret-change-me"
	defaultTokenTTL = 24 * time.Hour
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

type Env struct {
	AppAddr      string
	GinMode      string
	StoreDriver  string
	DBHost       string
	DBUser       string
	DBPassword   string
	DBName       string
	JWTSecret    string
	TokenTTL     time.Duration
	AuthRequired bool
	CORSOrigins  []string

	// first operator account, created at startup when the username is free
	// and both username and password are set
	SeedOperatorUsername string
	SeedOperatorPassword string
	SeedOperatorName     string
}

// LoadEnv reads .env (when present) and then the process environment.
func LoadEnv() Env {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Println("file .env tidak ditemukan, memakai environment proses")
		} else {
			log.Printf("warning: gagal membaca .env: %v", err)
		}
	}

	env := Env{
		AppAddr:      GetEnv("APP_ADDR", ":8080"),
		GinMode:      GetEnv("GIN_MODE"),
		StoreDriver:  strings.ToLower(GetEnv("STORE_DRIVER", "mysql")),
		DBHost:       GetEnv("DB_HOST", "127.0.0.1:3306"),
		DBUser:       GetEnv("DB_USER", "root"),
		DBPassword:   os.Getenv("DB_PASSWORD"),
		DBName:       GetEnv("DB_NAME", "bus_booking"),
		JWTSecret:    GetEnv("JWT_SECRET"),
		TokenTTL:     parseDuration("TOKEN_TTL", defaultTokenTTL),
		AuthRequired: parseBool(GetEnv("AUTH_REQUIRED", "false")),
		CORSOrigins:  splitList(GetEnv("CORS_ALLOWED_ORIGINS")),

		SeedOperatorUsername: GetEnv("SEED_OPERATOR_USERNAME"),
		SeedOperatorPassword: os.Getenv("SEED_OPERATOR_PASSWORD"),
		SeedOperatorName:     GetEnv("SEED_OPERATOR_NAME"),
	}
	if env.JWTSecret == "" {
		log.Println("warning: JWT_SECRET kosong, memakai secret development")
		env.JWTSecret = devJWTSecret
	}
	if len(env.CORSOrigins) == 0 {
		env.CORSOrigins = append([]string(nil), defaultCORSOrigins...)
	}
	if env.SeedOperatorUsername != "" && env.SeedOperatorPassword == "" {
		log.Println("warning: SEED_OPERATOR_USERNAME diisi tanpa SEED_OPERATOR_PASSWORD, operator awal tidak dibuat")
	}
	return env
}

// SeedOperator reports whether a first operator account should be created.
func (e Env) SeedOperator() bool {
	return e.SeedOperatorUsername != "" && e.SeedOperatorPassword != ""
}

// GetEnv returns the trimmed value of key, or the first fallback when unset.
func GetEnv(key string, fallback ...string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return ""
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

// parseDuration reads key as a Go duration ("12h", "90m"). Unset, invalid or
// non-positive values fall back.
func parseDuration(key string, fallback time.Duration) time.Duration {
	v := GetEnv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("warning: %s=%q tidak valid, memakai %s", key, v, fallback)
		return fallback
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
