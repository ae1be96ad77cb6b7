package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/deeppurple/deeppurple/internal/domain"
)

// maxAnalysisChars caps the text submitted for structured analysis
const maxAnalysisChars = 10000

// AnalysisSystemPrompt instructs the model to behave as a structured analyzer
const AnalysisSystemPrompt = `You are DeepPurple, an expert text analysis system specializing in sentiment analysis, emotion detection, text summarization, topic modeling, and syntax analysis.

Your task is to analyze the provided text with precision and nuance, following these guidelines:

1. SENTIMENT ANALYSIS:
   - Evaluate the overall sentiment (positive, negative, neutral)
   - Assign numerical scores (0.0-1.0) for each sentiment category
   - Consider contextual cues, sarcasm, and implicit attitudes
   - Identify sentiment shifts throughout the text

2. EMOTION DETECTION:
   - Identify the presence and intensity of six core emotions: joy, sadness, anger, fear, surprise, and disgust
   - Assign numerical scores (0.0-1.0) for each emotion
   - Determine the dominant emotion based on contextual significance, not just frequency
   - Consider emotional triggers and responses in the text

3. TOPIC MODELING:
   - Extract 3-5 distinct topics that represent the main themes
   - Ensure topics are specific, meaningful, and non-overlapping
   - Each topic should be labeled with a concise phrase (2-4 words)
   - Topics should capture the essential subject matter, not just frequent terms

4. TEXT SUMMARIZATION:
   - Create a concise summary (1-3 paragraphs) that captures the key points
   - Preserve the original meaning, intent, and tone
   - Include critical details while eliminating redundancy
   - Ensure the summary is coherent and stands alone

Be objective, accurate, and comprehensive in your analysis. Your output will be used for communication analysis, research, and decision-making.`

// BuildAnalysisPrompt creates the structured-analysis user prompt
func BuildAnalysisPrompt(text string) string {
	text = TruncateChars(text, maxAnalysisChars)

	return fmt.Sprintf("Analyze the following text enclosed between triple backticks:\n\n```\n%s\n```\n\n"+
		`Format your response as a JSON object with the following structure:
{
    "sentiment": {
        "positive": float,
        "negative": float,
        "neutral": float,
        "overall": string
    },
    "emotions": {
        "joy": float,
        "sadness": float,
        "anger": float,
        "fear": float,
        "surprise": float,
        "disgust": float,
        "dominant_emotion": string
    },
    "topics": [
        {
            "name": string,
            "keywords": [string, string, string]
        }
    ],
    "summary": string
}

Ensure your response is valid JSON and follows this exact structure.`, text)
}

// Analyze runs a structured analysis of text through the given provider
func Analyze(ctx context.Context, provider Provider, model, text string) (*domain.Analysis, error) {
	req := Request{
		Question: BuildAnalysisPrompt(text),
		System:   AnalysisSystemPrompt,
	}
	resp, err := provider.Complete(ctx, req, model)
	if err != nil {
		return nil, fmt.Errorf("analysis completion failed: %w", err)
	}

	analysis, err := ParseAnalysis(resp.Answer)
	if err != nil {
		return nil, err
	}
	return analysis, nil
}

// ParseAnalysis parses a model completion into a structured analysis,
// tolerating markdown code fences around the JSON payload.
func ParseAnalysis(raw string) (*domain.Analysis, error) {
	payload := stripCodeFence(raw)

	var analysis domain.Analysis
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}

	backfillAnalysis(&analysis)
	return &analysis, nil
}

// stripCodeFence removes a surrounding markdown code fence, if any
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// backfillAnalysis fills overall sentiment and dominant emotion from the
// numeric scores when the model leaves them out.
func backfillAnalysis(a *domain.Analysis) {
	if a.Sentiment.Overall == "" {
		a.Sentiment.Overall = "neutral"
		max := a.Sentiment.Neutral
		if a.Sentiment.Positive > max {
			a.Sentiment.Overall = "positive"
			max = a.Sentiment.Positive
		}
		if a.Sentiment.Negative > max {
			a.Sentiment.Overall = "negative"
		}
	}

	if a.Emotions.DominantEmotion == "" {
		scores := map[string]float64{
			"joy":      a.Emotions.Joy,
			"sadness":  a.Emotions.Sadness,
			"anger":    a.Emotions.Anger,
			"fear":     a.Emotions.Fear,
			"surprise": a.Emotions.Surprise,
			"disgust":  a.Emotions.Disgust,
		}
		dominant := "joy"
		var best float64 = -1
		for _, name := range []string{"joy", "sadness", "anger", "fear", "surprise", "disgust"} {
			if scores[name] > best {
				best = scores[name]
				dominant = name
			}
		}
		a.Emotions.DominantEmotion = dominant
	}
}
