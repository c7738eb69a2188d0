// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration. Strings for identifiers and
// secrets, integers for durations and costs; every field maps to one
// environment variable.
type Config struct {
	Env              string // application environment (dev/test/prod)
	Port             string // HTTP port to listen on
	DBUser           string // database username
	DBPass           string // database password (optional)
	DBHost           string // database host address
	DBPort           string // database port number
	DBName           string // database name
	JWTSecret        string // base64-encoded HS256 signing secret
	JWTDurationSec   int64  // access token time-to-live in seconds
	BcryptCost       int    // bcrypt cost for password hashing
	PythonAPIBaseURL string // base URL of the upstream HR/payroll service
	ProxyTimeoutSec  int    // timeout for proxied upstream calls
	AdminUserName    string // bootstrap admin username
	AdminPassword    string // bootstrap admin password
	AdminEmail       string // bootstrap admin email
}

// Load reads configuration from the environment. Required variables are
// enforced by must(); a missing value exits with a fatal log message, since a
// partially configured server must not come up.
func Load() Config {
	return Config{
		Env:              must("APP_ENV"),
		Port:             must("APP_PORT"),
		DBUser:           must("DB_USER"),
		DBPass:           os.Getenv("DB_PASS"),
		DBHost:           must("DB_HOST"),
		DBPort:           must("DB_PORT"),
		DBName:           must("DB_NAME"),
		JWTSecret:        must("JWT_SECRET"),
		JWTDurationSec:   mustInt64("JWT_DURATION_SEC"),
		BcryptCost:       mustInt("BCRYPT_COST"),
		PythonAPIBaseURL: getenv("PYTHON_API_BASE_URL", "http://localhost:5000"),
		ProxyTimeoutSec:  atoiDefault(os.Getenv("PROXY_TIMEOUT_SEC"), 30),
		AdminUserName:    getenv("ADMIN_USERNAME", "admin"),
		AdminPassword:    getenv("ADMIN_PASSWORD", "Admin123"),
		AdminEmail:       getenv("ADMIN_EMAIL", "admin@localhost"),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the value to an int.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// mustInt64 is like must() but converts the value to an int64.
func mustInt64(key string) int64 {
	s := must(key)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
