package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig("")
	assert.Equal(t, "/api/v1", cfg.Web.ApiRoot)
	assert.Equal(t, "admin-only", cfg.Web.RevocationPolicy)
	assert.Equal(t, "postgres", cfg.Database.Type)
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	cfile := filepath.Join(t.TempDir(), "eshop.yml")
	content := "web:\n  port: 8080\n  api_root: /api/v2\n"
	require.NoError(t, os.WriteFile(cfile, []byte(content), 0o644))

	t.Setenv("ESHOP_WEB_PORT", "9090")
	t.Setenv("ESHOP_WEB_SECRET", "unit-test-secret")

	cfg := LoadConfig(cfile)
	assert.Equal(t, "/api/v2", cfg.Web.ApiRoot)
	// env wins over file
	assert.Equal(t, 9090, cfg.Web.Port)
	assert.Equal(t, "unit-test-secret", cfg.Web.Secret)
}
