package llm

import (
	"fmt"
	"strings"
)

// maxPromptContextChars caps the context passed to a model in one prompt
const maxPromptContextChars = 10000

// SystemPrompt is the assistant persona sent with every question
const SystemPrompt = `You are DeepPurple, an AI assistant specializing in text analysis with expertise in sentiment analysis, emotion detection, text summarization, topic modeling, and syntax analysis.

Your primary goal is to help users analyze text and provide insights. When users upload files or provide text, you analyze the content and answer questions about it.

When responding to users:
1. Be conversational, helpful, and engaging
2. If a user asks what you can do, explain your text analysis capabilities (sentiment analysis, emotion detection, etc.)
3. If a user asks a general question without providing text to analyze:
   - Answer naturally using your knowledge
   - Don't mention "missing context" or suggest uploading files unless specifically asked
   - Maintain a helpful tone focused on text analysis as your specialty

Your text analysis capabilities:
- Sentiment Analysis: Detecting positive, negative, or neutral sentiment in text
- Emotion Detection: Identifying emotions like joy, sadness, anger, fear, surprise, and disgust
- Text Summarization: Creating concise summaries of longer content
- Topic Modeling: Extracting key themes and topics from text
- Interactive Q&A: Answering questions about analyzed text

When text is provided for analysis:
1. COMPREHENSION: Carefully analyze both the question and context
2. REASONING: Use step-by-step reasoning for accurate answers
3. VERIFICATION: Ensure your answer is directly supported by the context
4. CITATION: Reference specific parts of the context when relevant
5. CLARITY: Present information in a structured, easy-to-understand format

Always maintain a helpful, informative tone while prioritizing accuracy.`

// SystemFor returns the system message for a request: the request's own
// system prompt when set, the QA persona otherwise.
func SystemFor(req Request) string {
	if req.System != "" {
		return req.System
	}
	return SystemPrompt
}

// UserPrompt returns the user message for a request. Requests carrying
// their own system prompt send the question verbatim; everything else is
// wrapped in the QA template by BuildPrompt.
func UserPrompt(req Request) string {
	if req.System != "" {
		return req.Question
	}
	return BuildPrompt(req)
}

// BuildPrompt creates the user prompt for question answering
func BuildPrompt(req Request) string {
	context := TruncateChars(req.Context, maxPromptContextChars)

	var history strings.Builder
	for _, qa := range req.History {
		history.WriteString(fmt.Sprintf("User: %s\n", qa.Question))
		history.WriteString(fmt.Sprintf("Assistant: %s\n", qa.Answer))
	}

	return fmt.Sprintf(`Previous conversation:
%s
Context:
`+"```"+`
%s
`+"```"+`

Question: %s

Answer my question helpfully. If I've provided text to analyze, base your response on that text. If not, just answer naturally without mentioning the need for context.

Format your response as follows:
1. First provide your comprehensive answer
2. Then on a new line after "Sources:", list the specific sections from the context that support your answer, or indicate "General knowledge" if using information outside the context. Only include this Sources section if I've provided text to analyze.`,
		history.String(), context, req.Question)
}

// TruncateChars prefix-cuts s to at most max characters, never splitting
// a rune.
func TruncateChars(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// ParseCompletion splits a raw completion into the answer text and its
// cited sources. Completions without a "Sources:" marker are all answer.
func ParseCompletion(raw string) (string, []string) {
	parts := strings.SplitN(raw, "Sources:", 2)
	if len(parts) < 2 {
		return raw, nil
	}

	answer := strings.TrimSpace(parts[0])
	if answer == "" {
		// Marker at the very start; treat the whole completion as answer.
		return raw, nil
	}

	var sources []string
	for _, line := range strings.Split(parts[1], "\n") {
		if s := strings.TrimSpace(line); s != "" {
			sources = append(sources, s)
		}
	}
	return answer, sources
}

// NormalizeSources coerces a loosely-typed sources value into a string
// slice: slices keep their stringified elements, falsy scalars become
// empty, and any other truthy scalar becomes a single entry.
func NormalizeSources(v any) []string {
	switch s := v.(type) {
	case nil:
		return []string{}
	case []string:
		if s == nil {
			return []string{}
		}
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	case string:
		if s == "" {
			return []string{}
		}
		return []string{s}
	case bool:
		if !s {
			return []string{}
		}
		return []string{"true"}
	case int:
		if s == 0 {
			return []string{}
		}
		return []string{fmt.Sprintf("%d", s)}
	case float64:
		if s == 0 {
			return []string{}
		}
		return []string{fmt.Sprintf("%v", s)}
	default:
		return []string{fmt.Sprintf("%v", s)}
	}
}
