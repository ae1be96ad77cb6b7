package llm

import (
	"context"

	"github.com/deeppurple/deeppurple/internal/domain"
)

// Request contains question-answering parameters.
//
// System, when set, replaces the question-answering persona and the
// question is sent to the model verbatim, without the QA template.
// Structured analysis uses this to carry its own output contract.
type Request struct {
	Question string
	Context  string
	History  []domain.QA
	System   string
}

// Response contains an LLM completion result
type Response struct {
	Answer     string
	Sources    []string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Complete answers a question against the supplied context
	Complete(ctx context.Context, req Request, model string) (*Response, error)

	// Stream answers a question, delivering the raw completion to onToken
	// as it arrives. A non-nil return from onToken aborts the stream.
	Stream(ctx context.Context, req Request, model string, onToken func(string) error) error
}
