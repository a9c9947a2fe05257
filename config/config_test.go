package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	require.NoError(t, LoadConfig())

	assert.Equal(t, 8080, Port())
	assert.Equal(t, "memory", SessionStore())
	assert.Equal(t, 3500*time.Millisecond, HighlightDuration())
	assert.Equal(t, 12*time.Hour, CacheTTL())
	assert.Equal(t, "polygon", DropChain())
	assert.Equal(t, 2*time.Second, DropConfirmInterval())
	assert.Equal(t, 10*time.Minute, DropConfirmTimeout())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_STORE", "REDIS")
	t.Setenv("HIGHLIGHT_DURATION", "1s")
	t.Setenv("DROP_GATEWAY_URL", "https://gateway.example/")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("DROP_CONFIRM_TIMEOUT", "90s")
	require.NoError(t, LoadConfig())

	assert.Equal(t, 9000, Port())
	assert.Equal(t, "redis", SessionStore())
	assert.Equal(t, time.Second, HighlightDuration())
	assert.Equal(t, "https://gateway.example", DropGatewayUrl())
	assert.Equal(t, zerolog.WarnLevel, LogLevel())
	assert.Equal(t, 90*time.Second, DropConfirmTimeout())
}

func TestSessionStoreFallsBackToMemory(t *testing.T) {
	t.Setenv("SESSION_STORE", "etcd")
	require.NoError(t, LoadConfig())
	assert.Equal(t, "memory", SessionStore())
}

func TestLogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	require.NoError(t, LoadConfig())
	assert.Equal(t, "json", LogFormat())

	t.Setenv("LOG_FORMAT", "Text")
	require.NoError(t, LoadConfig())
	assert.Equal(t, "text", LogFormat())
}
