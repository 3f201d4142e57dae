package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLoaderConfig(files ...string) aconfig.Config {
	return aconfig.Config{
		SkipFlags: true,
		EnvPrefix: "STOREFRONT",
		Files:     files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := loadConfig(testLoaderConfig())
	require.NoError(t, err)

	assert.Equal(t, defaultAddr, cfg.Addr)
	assert.False(t, cfg.Cart.StrictMode)
	assert.Equal(t, 10000, cfg.Sessions.Max)
	assert.Equal(t, 30*time.Minute, cfg.Sessions.TTL)
	assert.Equal(t, 100, cfg.RateLimit.Max)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, []string{"*"}, cfg.CORS.Origins)
	assert.Equal(t, 3*time.Second, cfg.Graceful.ReadinessDelay)
	assert.Equal(t, 15*time.Second, cfg.Graceful.ShutdownTimeout)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STOREFRONT_ADDR", "127.0.0.1:9000")
	t.Setenv("STOREFRONT_CART_STRICT_MODE", "true")
	t.Setenv("STOREFRONT_SESSIONS_MAX", "5")
	t.Setenv("STOREFRONT_SESSIONS_TTL", "90s")

	cfg, err := loadConfig(testLoaderConfig())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.True(t, cfg.Cart.StrictMode)
	assert.Equal(t, 5, cfg.Sessions.Max)
	assert.Equal(t, 90*time.Second, cfg.Sessions.TTL)
}

func TestLoadConfig_File(t *testing.T) {
	t.Setenv("PORT", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sessions:\n  max: 42\nrate_limit:\n  max: 7\n"), 0o600))

	cfg, err := loadConfig(testLoaderConfig(path))
	require.NoError(t, err)

	assert.Equal(t, 42, cfg.Sessions.Max)
	assert.Equal(t, 7, cfg.RateLimit.Max)
}

func TestLoadConfig_PlatformPort(t *testing.T) {
	t.Setenv("PORT", "3000")

	cfg, err := loadConfig(testLoaderConfig())
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:3000", cfg.Addr)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STOREFRONT_SESSIONS_MAX", "0")

	_, err := loadConfig(testLoaderConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sessions.max")
}
