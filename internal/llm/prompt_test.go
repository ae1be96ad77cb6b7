package llm_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/deeppurple/deeppurple/internal/domain"
	"github.com/deeppurple/deeppurple/internal/llm"
	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	req := llm.Request{
		Question: "What is the overall sentiment?",
		Context:  "I really enjoyed the product launch event.",
		History: []domain.QA{
			{Question: "What is this about?", Answer: "A product launch."},
		},
	}

	prompt := llm.BuildPrompt(req)

	mustContain := []string{
		"What is the overall sentiment?",
		"I really enjoyed the product launch event.",
		"User: What is this about?",
		"Assistant: A product launch.",
		"Sources:",
	}
	for _, s := range mustContain {
		assert.Contains(t, prompt, s)
	}
}

func TestBuildPrompt_TruncatesContext(t *testing.T) {
	long := make([]byte, 20000)
	for i := range long {
		long[i] = 'a'
	}

	prompt := llm.BuildPrompt(llm.Request{Question: "q", Context: string(long)})

	assert.Less(t, len(prompt), 12000)
}

func TestSystemFor(t *testing.T) {
	assert.Equal(t, llm.SystemPrompt, llm.SystemFor(llm.Request{Question: "q"}))
	assert.Equal(t, "custom contract", llm.SystemFor(llm.Request{Question: "q", System: "custom contract"}))
}

func TestUserPrompt(t *testing.T) {
	t.Run("default wraps in QA template", func(t *testing.T) {
		prompt := llm.UserPrompt(llm.Request{Question: "What changed?", Context: "release notes"})
		assert.Contains(t, prompt, "Question: What changed?")
		assert.Contains(t, prompt, "Sources:")
	})

	t.Run("own system prompt sends question verbatim", func(t *testing.T) {
		req := llm.Request{Question: "Analyze this.", System: "custom contract"}
		assert.Equal(t, "Analyze this.", llm.UserPrompt(req))
	})
}

func TestTruncateChars(t *testing.T) {
	t.Run("short input unchanged", func(t *testing.T) {
		assert.Equal(t, "héllo", llm.TruncateChars("héllo", 10))
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		s := strings.Repeat("é", 8)
		got := llm.TruncateChars(s, 5)
		assert.Equal(t, strings.Repeat("é", 5), got)
		assert.True(t, utf8.ValidString(got))
	})

	t.Run("never splits a rune", func(t *testing.T) {
		s := strings.Repeat("語", 100)
		got := llm.TruncateChars(s, 33)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, 33, utf8.RuneCountInString(got))
	})
}

func TestParseCompletion(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantAnswer  string
		wantSources []string
	}{
		{
			name:        "answer with sources",
			raw:         "The tone is positive.\nSources:\nParagraph 1\nParagraph 3\n",
			wantAnswer:  "The tone is positive.",
			wantSources: []string{"Paragraph 1", "Paragraph 3"},
		},
		{
			name:        "no sources marker",
			raw:         "Just an answer with no citations.",
			wantAnswer:  "Just an answer with no citations.",
			wantSources: nil,
		},
		{
			name:        "splits on first marker only",
			raw:         "See below.\nSources:\nA note about Sources: formatting",
			wantAnswer:  "See below.",
			wantSources: []string{"A note about Sources: formatting"},
		},
		{
			name:        "blank source lines dropped",
			raw:         "Answer.\nSources:\n\n  General knowledge  \n\n",
			wantAnswer:  "Answer.",
			wantSources: []string{"General knowledge"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer, sources := llm.ParseCompletion(tt.raw)
			assert.Equal(t, tt.wantAnswer, answer)
			assert.Equal(t, tt.wantSources, sources)
		})
	}
}

func TestNormalizeSources(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"nil", nil, []string{}},
		{"string slice", []string{"a", "b"}, []string{"a", "b"}},
		{"any slice", []any{"a", 2}, []string{"a", "2"}},
		{"empty string", "", []string{}},
		{"non-empty string", "page 2", []string{"page 2"}},
		{"false", false, []string{}},
		{"true", true, []string{"true"}},
		{"zero int", 0, []string{}},
		{"non-zero int", 7, []string{"7"}},
		{"zero float", 0.0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, llm.NormalizeSources(tt.in))
		})
	}
}
