package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	conf, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, ":8080", conf.HTTP.Address)
	assert.Equal(t, []string{"*"}, conf.HTTP.AllowedOrigins)
	assert.True(t, conf.HTTP.AllowAllOrigins())
	assert.Empty(t, conf.HTTP.AccessKey)
	assert.Equal(t, 10*time.Second, conf.HTTP.ShutdownTimeout)
	assert.Equal(t, "items.sqlite", conf.Storage.DSN)
	assert.Equal(t, "Local", conf.Display.Timezone)
}

func TestParse_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ITEMS_HTTP_ADDRESS", "127.0.0.1:9000")
	t.Setenv("ITEMS_HTTP_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("ITEMS_HTTP_ACCESS_KEY", "secret")
	t.Setenv("ITEMS_HTTP_RATE_LIMIT", "2.5")
	t.Setenv("ITEMS_STORAGE_DSN", ":memory:")
	t.Setenv("ITEMS_DISPLAY_TIMEZONE", "UTC")

	conf, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", conf.HTTP.Address)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, conf.HTTP.AllowedOrigins)
	assert.False(t, conf.HTTP.AllowAllOrigins())
	assert.Equal(t, "secret", conf.HTTP.AccessKey)
	assert.Equal(t, 2.5, conf.HTTP.RateLimit)
	assert.Equal(t, ":memory:", conf.Storage.DSN)

	loc, err := conf.Display.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestDisplay_InvalidTimezone(t *testing.T) {
	_, err := Display{Timezone: "Not/AZone"}.Location()
	assert.Error(t, err)
}
