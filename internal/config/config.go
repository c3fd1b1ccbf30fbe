package config

import (
	"errors"
	"os"
	"strings"
)

// Config holds all application configuration sourced from the environment.
type Config struct {
	Server ServerConfig
	Graph  GraphConfig
	Cache  CacheConfig

	// Simulation forces the in-memory backend even when credentials are present.
	// It is also entered automatically when the token endpoint is unreachable.
	Simulation bool
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// GraphConfig is the credential record for the Microsoft Graph token exchange.
// All four fields are required before any token request is attempted.
type GraphConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	TenantID     string
	DriveRoot    string
}

type CacheConfig struct {
	// ConfigPath is the local cache of the system config document, the only
	// client-local persisted state.
	ConfigPath string
}

// Load reads configuration from environment variables. Credential values are
// trimmed of surrounding whitespace before use; Load itself never fails.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: splitOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		},
		Graph: GraphConfig{
			ClientID:     strings.TrimSpace(os.Getenv("GRAPH_CLIENT_ID")),
			ClientSecret: strings.TrimSpace(os.Getenv("GRAPH_CLIENT_SECRET")),
			RefreshToken: strings.TrimSpace(os.Getenv("GRAPH_REFRESH_TOKEN")),
			TenantID:     strings.TrimSpace(os.Getenv("GRAPH_TENANT_ID")),
			DriveRoot:    getEnv("DRIVE_ROOT", "CloudDrive"),
		},
		Cache: CacheConfig{
			ConfigPath: getEnv("CONFIG_CACHE_PATH", "./config_cache.json"),
		},
		Simulation: os.Getenv("SIMULATION") == "1" || strings.EqualFold(os.Getenv("SIMULATION"), "true"),
	}
}

// Complete reports whether every credential field is present.
func (g GraphConfig) Complete() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.RefreshToken != "" && g.TenantID != ""
}

// Validate checks that the configuration is usable. A missing credential set is
// fatal unless simulation mode is enabled.
func (c *Config) Validate() error {
	if c.Simulation {
		return nil
	}
	if !c.Graph.Complete() {
		return errors.New("GRAPH_CLIENT_ID, GRAPH_CLIENT_SECRET, GRAPH_REFRESH_TOKEN and GRAPH_TENANT_ID are all required (set SIMULATION=1 to run without them)")
	}
	return nil
}

// JWTSecret resolves the token signing secret. It is the single place the
// secret (and its development fallback) is read: in release mode a missing
// secret is fatal rather than silently falling back.
func JWTSecret() []byte {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key"
	}
	return []byte(secret)
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func splitOrigins(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
