package llm_test

import (
	"context"
	"testing"

	"github.com/deeppurple/deeppurple/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingProvider records the request it was asked to complete.
type capturingProvider struct {
	lastRequest llm.Request
	answer      string
}

func (p *capturingProvider) Name() string              { return "capturing" }
func (p *capturingProvider) AvailableModels() []string { return []string{"capturing-v1"} }
func (p *capturingProvider) DefaultModel() string      { return "capturing-v1" }
func (p *capturingProvider) IsConfigured() bool        { return true }

func (p *capturingProvider) Complete(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	p.lastRequest = req
	return &llm.Response{Answer: p.answer}, nil
}

func (p *capturingProvider) Stream(ctx context.Context, req llm.Request, model string, onToken func(string) error) error {
	p.lastRequest = req
	return onToken(p.answer)
}

const analysisPayload = `{
	"sentiment": {"positive": 0.7, "negative": 0.1, "neutral": 0.2, "overall": "positive"},
	"emotions": {"joy": 0.6, "sadness": 0.1, "anger": 0.0, "fear": 0.0, "surprise": 0.2, "disgust": 0.1, "dominant_emotion": "joy"},
	"topics": [{"name": "customer service", "keywords": ["support", "response", "help"]}],
	"summary": "Customers are broadly satisfied with support."
}`

func TestParseAnalysis(t *testing.T) {
	a, err := llm.ParseAnalysis(analysisPayload)
	require.NoError(t, err)

	assert.Equal(t, "positive", a.Sentiment.Overall)
	assert.InDelta(t, 0.7, a.Sentiment.Positive, 0.001)
	assert.Equal(t, "joy", a.Emotions.DominantEmotion)
	require.Len(t, a.Topics, 1)
	assert.Equal(t, "customer service", a.Topics[0].Name)
	assert.Equal(t, "Customers are broadly satisfied with support.", a.Summary)
}

func TestParseAnalysis_CodeFenced(t *testing.T) {
	fenced := "```json\n" + analysisPayload + "\n```"

	a, err := llm.ParseAnalysis(fenced)
	require.NoError(t, err)
	assert.Equal(t, "positive", a.Sentiment.Overall)
}

func TestParseAnalysis_BackfillsOmittedFields(t *testing.T) {
	payload := `{
		"sentiment": {"positive": 0.2, "negative": 0.6, "neutral": 0.2},
		"emotions": {"joy": 0.1, "sadness": 0.7, "anger": 0.1, "fear": 0.05, "surprise": 0.05, "disgust": 0.0},
		"topics": [],
		"summary": "Mostly complaints."
	}`

	a, err := llm.ParseAnalysis(payload)
	require.NoError(t, err)
	assert.Equal(t, "negative", a.Sentiment.Overall)
	assert.Equal(t, "sadness", a.Emotions.DominantEmotion)
}

func TestParseAnalysis_InvalidJSON(t *testing.T) {
	_, err := llm.ParseAnalysis("I cannot analyze this")
	assert.Error(t, err)
}

func TestAnalyze_UsesAnalysisSystemPrompt(t *testing.T) {
	provider := &capturingProvider{answer: analysisPayload}

	a, err := llm.Analyze(context.Background(), provider, "", "The support team was wonderful.")
	require.NoError(t, err)
	assert.Equal(t, "positive", a.Sentiment.Overall)

	req := provider.lastRequest
	assert.Equal(t, llm.AnalysisSystemPrompt, req.System)
	assert.Equal(t, llm.AnalysisSystemPrompt, llm.SystemFor(req))

	// The analysis prompt is self-contained: sent verbatim, no QA template
	// and no competing "Sources:" formatting instruction.
	user := llm.UserPrompt(req)
	assert.Equal(t, req.Question, user)
	assert.Contains(t, user, "Format your response as a JSON object")
	assert.NotContains(t, user, "Sources:")
	assert.NotContains(t, user, "Previous conversation:")
}

func TestBuildAnalysisPrompt_TruncatesInput(t *testing.T) {
	long := make([]byte, 30000)
	for i := range long {
		long[i] = 'x'
	}

	prompt := llm.BuildAnalysisPrompt(string(long))
	assert.Less(t, len(prompt), 12000)
}
