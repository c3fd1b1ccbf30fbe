package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTSecret(t *testing.T) {
	t.Setenv("GIN_MODE", "")

	t.Setenv("JWT_SECRET", "  s3cret  ")
	assert.Equal(t, []byte("s3cret"), JWTSecret())

	// development fallback when unset; signing and verification go through
	// this same function, so they cannot disagree
	t.Setenv("JWT_SECRET", "")
	assert.Equal(t, []byte("default_super_secret_key"), JWTSecret())
}

func TestJWTSecretRequiredInRelease(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("JWT_SECRET", "")
	assert.Panics(t, func() { JWTSecret() })
}

func TestValidateRequiresCredentialsUnlessSimulated(t *testing.T) {
	cfg := &Config{}
	require.Error(t, cfg.Validate())

	cfg.Simulation = true
	require.NoError(t, cfg.Validate())

	cfg = &Config{Graph: GraphConfig{
		ClientID: "id", ClientSecret: "secret", RefreshToken: "rt", TenantID: "tenant",
	}}
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Graph.Complete())
}

func TestLoadTrimsAndDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("GRAPH_CLIENT_ID", "  abc  ")
	t.Setenv("DRIVE_ROOT", "")
	t.Setenv("ALLOWED_ORIGINS", "http://a.local, http://b.local ,")
	t.Setenv("SIMULATION", "true")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "abc", cfg.Graph.ClientID)
	assert.Equal(t, "CloudDrive", cfg.Graph.DriveRoot)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Simulation)
}
