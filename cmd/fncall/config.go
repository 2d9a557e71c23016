package main

import (
	"os"

	"github.com/rickchristie/fncall/models"
	"github.com/tmc/langchaingo/llms"
)

// Environment variables read by the run command.
const (
	envAPIKey  = "FNCALL_API_KEY"
	envBaseURL = "FNCALL_BASE_URL"
	envModel   = "FNCALL_MODEL"
)

const defaultModel = "gpt-4.1-mini"

// envConfig is the model configuration taken from the environment.
type envConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

func loadEnvConfig() envConfig {
	cfg := envConfig{
		APIKey:  os.Getenv(envAPIKey),
		BaseURL: os.Getenv(envBaseURL),
		Model:   os.Getenv(envModel),
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	return cfg
}

// newModel creates the chat model. Tests replace it with a fake.
var newModel = func(cfg envConfig) (llms.Model, error) {
	return models.NewOpenAI(models.OpenAIConfig{
		Token:   cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})
}
