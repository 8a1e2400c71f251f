package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "development", cfg.Env)
	require.Equal(t, "amazon.nova-lite-v1:0", cfg.ModelID)
	require.Equal(t, "amazon.titan-embed-text-v2:0", cfg.EmbeddingModelID)
	require.Equal(t, "DRAFT", cfg.GuardrailVersion)
	require.Equal(t, 5*time.Minute, cfg.CacheTTL)
	require.Equal(t, 8, cfg.AgentMaxSteps)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BEDROCKLAB_MODEL_ID", "amazon.nova-pro-v1:0")
	t.Setenv("BEDROCKLAB_CACHE_TTL", "30s")
	t.Setenv("BEDROCKLAB_ROUTER_PRO_THRESHOLD", "9")
	t.Setenv("AWS_REGION", "eu-central-1")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "amazon.nova-pro-v1:0", cfg.ModelID)
	require.Equal(t, 30*time.Second, cfg.CacheTTL)
	require.Equal(t, 9, cfg.RouterProThreshold)
	require.Equal(t, "eu-central-1", cfg.Region)
}
