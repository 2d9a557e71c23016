package models

import (
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// GitHubModelsBaseURL is the base URL of the OpenAI-compatible GitHub Models API.
const GitHubModelsBaseURL = "https://models.github.ai/inference"

// OpenAIConfig configures an OpenAI-compatible chat model.
type OpenAIConfig struct {
	// Token is the API key. Required.
	Token string
	// BaseURL overrides the API endpoint, e.g. a local server or GitHubModelsBaseURL.
	BaseURL string
	// Model is the model identifier, e.g. "gpt-4.1-mini" or "openai/gpt-4.1".
	Model string
}

// githubHeaderTransport injects the GitHub API version header into every request.
type githubHeaderTransport struct {
	base http.RoundTripper
}

func (t *githubHeaderTransport) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	return t.base.RoundTrip(req)
}

// NewOpenAI creates an llms.Model for any OpenAI-compatible endpoint.
// Requests to GitHubModelsBaseURL carry the GitHub API version header.
func NewOpenAI(cfg OpenAIConfig, opts ...openai.Option) (llms.Model, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("API token is required")
	}

	baseOpts := []openai.Option{openai.WithToken(cfg.Token)}
	if cfg.BaseURL != "" {
		baseOpts = append(baseOpts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Model != "" {
		baseOpts = append(baseOpts, openai.WithModel(cfg.Model))
	}
	if cfg.BaseURL == GitHubModelsBaseURL {
		baseOpts = append(baseOpts, openai.WithHTTPClient(&githubHeaderTransport{
			base: http.DefaultTransport,
		}))
	}

	// Caller options come last so they can override defaults.
	llm, err := openai.New(append(baseOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create OpenAI client: %w", err)
	}
	return llm, nil
}
