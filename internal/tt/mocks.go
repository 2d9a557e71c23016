package tt

import (
	"context"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

// -----------------------------------------------------------------------------
// MockLLM - implements llms.Model
// -----------------------------------------------------------------------------

// HandlerFunc computes a response from the request messages.
type HandlerFunc func(messages []llms.MessageContent) (string, error)

// MockLLM is a configurable llms.Model. Queued responses are returned in call
// order; once the queue is exhausted the handler is used, if set. It is safe for
// concurrent use.
type MockLLM struct {
	mu        sync.Mutex
	responses []string
	errors    []error
	handler   HandlerFunc
	callCount int

	// CapturedMessages stores the messages of every GenerateContent call.
	CapturedMessages [][]llms.MessageContent
	// CapturedOptions stores the resolved call options of every call.
	CapturedOptions []llms.CallOptions
}

// NewMockLLM creates an empty MockLLM.
func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

// AddResponse queues a text response.
func (m *MockLLM) AddResponse(content string) *MockLLM {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, content)
	m.errors = append(m.errors, nil)
	return m
}

// AddError queues an error for the next call.
func (m *MockLLM) AddError(err error) *MockLLM {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, "")
	m.errors = append(m.errors, err)
	return m
}

// WithHandler sets the function used once queued responses run out.
func (m *MockLLM) WithHandler(fn HandlerFunc) *MockLLM {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = fn
	return m
}

// CallCount returns the number of GenerateContent calls.
func (m *MockLLM) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// GenerateContent implements llms.Model.
func (m *MockLLM) GenerateContent(
	ctx context.Context,
	messages []llms.MessageContent,
	options ...llms.CallOption,
) (*llms.ContentResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var opts llms.CallOptions
	for _, opt := range options {
		opt(&opts)
	}

	m.mu.Lock()
	idx := m.callCount
	m.callCount++
	m.CapturedMessages = append(m.CapturedMessages, messages)
	m.CapturedOptions = append(m.CapturedOptions, opts)
	handler := m.handler
	var (
		content string
		err     error
		queued  bool
	)
	if idx < len(m.responses) {
		content, err, queued = m.responses[idx], m.errors[idx], true
	}
	m.mu.Unlock()

	if !queued {
		if handler == nil {
			content = "{}"
		} else {
			content, err = handler(messages)
		}
	}
	if err != nil {
		return nil, err
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			Content: content,
			GenerationInfo: map[string]any{
				"PromptTokens":     10,
				"CompletionTokens": 5,
			},
		}},
	}, nil
}

// Call implements llms.Model.
func (m *MockLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

// LastHumanText returns the text of the last human message, or "".
func LastHumanText(messages []llms.MessageContent) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != llms.ChatMessageTypeHuman {
			continue
		}
		for _, part := range messages[i].Parts {
			if tc, ok := part.(llms.TextContent); ok {
				return tc.Text
			}
		}
	}
	return ""
}

// FirstHumanText returns the text of the first human message, or "".
func FirstHumanText(messages []llms.MessageContent) string {
	for _, msg := range messages {
		if msg.Role != llms.ChatMessageTypeHuman {
			continue
		}
		for _, part := range msg.Parts {
			if tc, ok := part.(llms.TextContent); ok {
				return tc.Text
			}
		}
	}
	return ""
}

var _ llms.Model = (*MockLLM)(nil)
