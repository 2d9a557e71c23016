package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rickchristie/fncall/catalog"
	"github.com/tmc/langchaingo/llms"
)

// ErrEmptyResponse is returned when the model answers without any choice.
var ErrEmptyResponse = errors.New("model returned no choices")

// Request is one generation request.
type Request struct {
	// Prompt is the user prompt the model must turn into a function call.
	Prompt string

	// Previous is the output of the last rejected attempt, if any.
	Previous string

	// Feedback holds the reasons Previous was rejected. When set, the model is
	// shown its previous output and asked to correct it.
	Feedback []string
}

// Response is the raw model text plus usage information.
type Response struct {
	Text         string
	InputTokens  int
	OutputTokens int
	Duration     time.Duration
}

// Generator asks a LangChainGo model for function call candidates. It is the
// upstream producer of raw text; it makes no attempt to check the output.
//
// Example usage:
//
//	llm, _ := openai.New(openai.WithToken(apiKey))
//	gen := models.NewGenerator(llm, cat).
//	    WithModelName("gpt-4.1-mini").
//	    WithMaxTokens(256)
//
//	resp, err := gen.Generate(ctx, models.Request{Prompt: "Add 2 and 3"})
//
// A Generator is safe for concurrent use if the wrapped llms.Model is.
type Generator struct {
	model       llms.Model
	catalog     *catalog.Catalog
	modelName   string
	maxTokens   int
	temperature *float64
	stopWords   []string
}

// NewGenerator creates a Generator that describes the catalog's functions to
// the model.
func NewGenerator(model llms.Model, cat *catalog.Catalog) *Generator {
	return &Generator{
		model:   model,
		catalog: cat,
	}
}

// WithModelName sets the model name reported in logs.
func (g *Generator) WithModelName(name string) *Generator {
	g.modelName = name
	return g
}

// WithMaxTokens caps the number of generated tokens. Zero leaves the provider
// default.
func (g *Generator) WithMaxTokens(n int) *Generator {
	g.maxTokens = n
	return g
}

// WithTemperature sets the sampling temperature.
func (g *Generator) WithTemperature(t float64) *Generator {
	g.temperature = &t
	return g
}

// WithStopWords stops generation at any of the given strings.
func (g *Generator) WithStopWords(words ...string) *Generator {
	g.stopWords = words
	return g
}

// ModelName returns the configured model name.
func (g *Generator) ModelName() string {
	return g.modelName
}

// Unwrap returns the underlying llms.Model.
func (g *Generator) Unwrap() llms.Model {
	return g.model
}

// SystemPrompt returns the instructions sent before every request.
func (g *Generator) SystemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You translate requests into function calls.\n")
	sb.WriteString("Answer with exactly one JSON object and nothing else:\n")
	sb.WriteString(`{"prompt": "<the request, verbatim>", "fn_name": "<function>", "args": {...}}`)
	sb.WriteString("\nUse only the functions below and provide every argument.\n\n")
	sb.WriteString(g.catalog.AvailableFunctionsPrompt())
	return sb.String()
}

// Messages builds the conversation for a request.
func (g *Generator) Messages(req Request) []llms.MessageContent {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, g.SystemPrompt()),
		llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt),
	}
	if len(req.Feedback) == 0 {
		return messages
	}

	var sb strings.Builder
	sb.WriteString("Your previous answer was rejected:\n")
	for _, reason := range req.Feedback {
		sb.WriteString("- ")
		sb.WriteString(reason)
		sb.WriteString("\n")
	}
	sb.WriteString("Reply with the corrected JSON object only.")

	return append(messages,
		llms.TextParts(llms.ChatMessageTypeAI, req.Previous),
		llms.TextParts(llms.ChatMessageTypeHuman, sb.String()),
	)
}

func (g *Generator) callOptions() []llms.CallOption {
	var opts []llms.CallOption
	if g.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(g.maxTokens))
	}
	if g.temperature != nil {
		opts = append(opts, llms.WithTemperature(*g.temperature))
	}
	if len(g.stopWords) > 0 {
		opts = append(opts, llms.WithStopWords(g.stopWords))
	}
	return opts
}

// Generate asks the model for a candidate and returns its raw text.
func (g *Generator) Generate(ctx context.Context, req Request) (*Response, error) {
	startTime := time.Now()
	lcgResponse, err := g.model.GenerateContent(ctx, g.Messages(req), g.callOptions()...)
	duration := time.Since(startTime)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if lcgResponse == nil || len(lcgResponse.Choices) == 0 || lcgResponse.Choices[0] == nil {
		return nil, ErrEmptyResponse
	}

	choice := lcgResponse.Choices[0]
	response := &Response{
		Text:     choice.Content,
		Duration: duration,
	}
	if choice.GenerationInfo != nil {
		response.InputTokens = extractInputTokens(choice.GenerationInfo)
		response.OutputTokens = extractOutputTokens(choice.GenerationInfo)
	}
	return response, nil
}

// extractInputTokens extracts input/prompt token count from GenerationInfo.
// Handles different key names used by different providers.
func extractInputTokens(info map[string]any) int {
	// OpenAI / Ollama / Google (compat)
	if v := getIntFromMap(info, "PromptTokens"); v > 0 {
		return v
	}
	// Anthropic
	if v := getIntFromMap(info, "InputTokens"); v > 0 {
		return v
	}
	// Google / Bedrock
	return getIntFromMap(info, "input_tokens")
}

// extractOutputTokens extracts output/completion token count from GenerationInfo.
func extractOutputTokens(info map[string]any) int {
	if v := getIntFromMap(info, "CompletionTokens"); v > 0 {
		return v
	}
	if v := getIntFromMap(info, "OutputTokens"); v > 0 {
		return v
	}
	return getIntFromMap(info, "output_tokens")
}

// getIntFromMap extracts an int value from a map, handling various numeric types.
func getIntFromMap(m map[string]any, key string) int {
	switch n := m[key].(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
