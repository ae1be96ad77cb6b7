package mock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deeppurple/deeppurple/internal/llm"
)

// Provider is a deterministic offline provider. It serves development and
// tests, and is the fallback when no real provider has credentials.
type Provider struct{}

// NewProvider creates a new mock provider
func NewProvider() llm.Provider {
	return &Provider{}
}

func (p *Provider) Name() string {
	return "mock"
}

func (p *Provider) AvailableModels() []string {
	return []string{"mock-v1"}
}

func (p *Provider) DefaultModel() string {
	return "mock-v1"
}

func (p *Provider) IsConfigured() bool {
	return true
}

// analysisJSON is the canned structured-analysis payload
const analysisJSON = `{
    "sentiment": {"positive": 0.6, "negative": 0.1, "neutral": 0.3, "overall": "positive"},
    "emotions": {"joy": 0.5, "sadness": 0.1, "anger": 0.05, "fear": 0.05, "surprise": 0.2, "disgust": 0.1, "dominant_emotion": "joy"},
    "topics": [{"name": "general discussion", "keywords": ["text", "analysis", "content"]}],
    "summary": "The text discusses its subject in a generally positive tone."
}`

func (p *Provider) Complete(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	start := time.Now()

	raw := p.completion(req)
	answer, sources := llm.ParseCompletion(raw)

	return &llm.Response{
		Answer:    answer,
		Sources:   sources,
		Model:     p.DefaultModel(),
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}

func (p *Provider) Stream(ctx context.Context, req llm.Request, model string, onToken func(string) error) error {
	raw := p.completion(req)

	// Emit word-sized fragments so callers exercise real accumulation.
	words := strings.SplitAfter(raw, " ")
	for _, w := range words {
		if w == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := onToken(w); err != nil {
			return err
		}
	}
	return nil
}

func (p *Provider) completion(req llm.Request) string {
	// Structured-analysis prompts get the canned JSON payload.
	if strings.Contains(req.Question, "Format your response as a JSON object") {
		return analysisJSON
	}

	if strings.TrimSpace(req.Context) == "" {
		return fmt.Sprintf("I'm DeepPurple, a text analysis assistant. You asked: %q. Upload a document and I can analyze its sentiment, emotions and topics.", req.Question)
	}

	return fmt.Sprintf("Based on the provided text, here is my answer to %q: the document's content addresses your question directly.\nSources:\nGeneral knowledge", req.Question)
}
