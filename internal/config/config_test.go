package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigs(t *testing.T, public, private string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "public.yaml"), []byte(public), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "private.yaml"), []byte(private), 0o600))
	return dir
}

func TestMustLoad(t *testing.T) {
	dir := writeConfigs(t, `
port: 8080
base_url: "https://opsgate.internal"
allowed_domains:
  - acme.com
jwt_ttl_hours: 24
magic_link_ttl_minutes: 15
`, `
jwt_key: "secret"
pg:
  host: localhost
  port: 5432
  user: opsgate
  password: opsgate
  dbname: opsgate
`)

	cfg := MustLoad(dir)

	assert.Equal(t, 8080, cfg.Public.Port)
	assert.Equal(t, []string{"acme.com"}, cfg.Public.AllowedDomains)
	assert.Equal(t, 24*time.Hour, cfg.JwtTTL())
	assert.Equal(t, 15*time.Minute, cfg.MagicLinkTTL())
	assert.Equal(t, "secret", cfg.JwtKey())
}

func TestMustLoad_EnvOverridesSecrets(t *testing.T) {
	dir := writeConfigs(t, `
base_url: "https://opsgate.internal"
jwt_ttl_hours: 1
magic_link_ttl_minutes: 5
`, `
jwt_key: "from-yaml"
`)

	t.Setenv("OPSGATE_JWT_KEY", "from-env")
	cfg := MustLoad(dir)
	assert.Equal(t, "from-env", cfg.JwtKey())
}

func TestMustLoad_RequiredFields(t *testing.T) {
	// magic_link_ttl_minutes is intentionally missing
	dir := writeConfigs(t, `
base_url: "https://opsgate.internal"
jwt_ttl_hours: 1
`, `
jwt_key: "k"
`)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic due to missing required field, got none")
		}
	}()

	_ = MustLoad(dir)
}

func TestMustLoad_MissingFile(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic for missing config folder, got none")
		}
	}()

	_ = MustLoad(t.TempDir())
}
