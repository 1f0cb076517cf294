package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	cfg := &Config{}
	require.ErrorIs(t, cfg.Validate(), ErrURLRequired)

	cfg = &Config{URL: "redis://localhost:6379"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "sift", cfg.Prefix)

	cfg = &Config{URL: "redis://localhost:6379", Prefix: "custom"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "custom", cfg.Prefix)
}

func TestPrefixing(t *testing.T) {
	cfg := &Config{URL: "redis://localhost:6379", Prefix: "sift"}

	assert.Equal(t, "sift:runs", cfg.PrefixKey("runs"))
	assert.Equal(t, "sift:top_orders", cfg.PrefixQueue("top_orders"))
}
