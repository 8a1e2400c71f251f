// Package config loads runtime settings from the environment, with .env
// autoload for local development.
package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds every setting the labs read from the environment. Required
// IDs are validated where they are used, not at load time, so labs that do
// not need them still run.
type Config struct {
	Env    string `envconfig:"BEDROCKLAB_ENV" default:"development"`
	Region string `envconfig:"AWS_REGION"`

	ModelID          string `envconfig:"BEDROCKLAB_MODEL_ID" default:"amazon.nova-lite-v1:0"`
	EmbeddingModelID string `envconfig:"BEDROCKLAB_EMBEDDING_MODEL_ID" default:"amazon.titan-embed-text-v2:0"`

	KnowledgeBaseID  string `envconfig:"BEDROCKLAB_KNOWLEDGE_BASE_ID"`
	GuardrailID      string `envconfig:"BEDROCKLAB_GUARDRAIL_ID"`
	GuardrailVersion string `envconfig:"BEDROCKLAB_GUARDRAIL_VERSION" default:"DRAFT"`

	RedisURL string        `envconfig:"BEDROCKLAB_REDIS_URL"`
	CacheTTL time.Duration `envconfig:"BEDROCKLAB_CACHE_TTL" default:"5m"`

	AgentMaxSteps int `envconfig:"BEDROCKLAB_AGENT_MAX_STEPS" default:"8"`

	RouterLiteThreshold int `envconfig:"BEDROCKLAB_ROUTER_LITE_THRESHOLD" default:"2"`
	RouterProThreshold  int `envconfig:"BEDROCKLAB_ROUTER_PRO_THRESHOLD" default:"5"`
}

// Load reads .env if present, then binds the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
