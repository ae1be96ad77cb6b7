package service

import (
	"context"
	"fmt"
	"time"

	"github.com/deeppurple/deeppurple/internal/domain"
	"github.com/deeppurple/deeppurple/internal/llm"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// InsightService runs structured analyses and persists their results
type InsightService struct {
	insightRepo domain.InsightRepository
	fileRepo    domain.FileRepository
	turnRepo    domain.TurnRepository
	router      *llm.Router
}

// NewInsightService creates a new insight service
func NewInsightService(
	insightRepo domain.InsightRepository,
	fileRepo domain.FileRepository,
	turnRepo domain.TurnRepository,
	router *llm.Router,
) *InsightService {
	return &InsightService{
		insightRepo: insightRepo,
		fileRepo:    fileRepo,
		turnRepo:    turnRepo,
		router:      router,
	}
}

// AnalyzeText runs a full structured analysis of raw text and stores the
// results as insight rows on the session.
func (s *InsightService) AnalyzeText(ctx context.Context, sessionID uuid.UUID, text string) (*domain.Analysis, error) {
	provider, err := s.router.GetProvider("")
	if err != nil {
		return nil, fmt.Errorf("no analysis provider: %w", err)
	}

	analysis, err := llm.Analyze(ctx, provider, "", text)
	if err != nil {
		return nil, err
	}

	s.storeInsights(ctx, sessionID, analysis)
	s.appendVisualizationTurn(ctx, sessionID, analysis)
	return analysis, nil
}

// AnalyzeFile analyzes the extracted text of a stored file
func (s *InsightService) AnalyzeFile(ctx context.Context, sessionID, fileID uuid.UUID) (*domain.Analysis, error) {
	file, err := s.fileRepo.Get(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	if file == nil || file.SessionID != sessionID {
		return nil, ErrFileNotFound
	}

	content, err := s.fileRepo.GetContentByFile(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get file content: %w", err)
	}
	if content == nil {
		return nil, ErrFileNotFound
	}

	return s.AnalyzeText(ctx, sessionID, content.Content)
}

// List returns the session's stored insights in creation order
func (s *InsightService) List(ctx context.Context, sessionID uuid.UUID) ([]domain.Insight, error) {
	insights, err := s.insightRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	return insights, nil
}

// storeInsights persists one row per insight type. Storage failures are
// logged; the caller still gets their analysis.
func (s *InsightService) storeInsights(ctx context.Context, sessionID uuid.UUID, analysis *domain.Analysis) {
	now := time.Now()
	rows := []struct {
		insightType domain.InsightType
		value       any
	}{
		{domain.InsightSentiment, analysis.Sentiment},
		{domain.InsightEmotion, analysis.Emotions},
		{domain.InsightTopic, analysis.Topics},
		{domain.InsightSummary, analysis.Summary},
	}

	for _, row := range rows {
		insight := &domain.Insight{
			ID:        uuid.New(),
			SessionID: sessionID,
			Type:      row.insightType,
			Value:     row.value,
			CreatedAt: now,
		}
		if err := s.insightRepo.Create(ctx, insight); err != nil {
			log.Error().Err(err).
				Str("session_id", sessionID.String()).
				Str("insight_type", string(row.insightType)).
				Msg("failed to store insight")
		}
	}
}

// appendVisualizationTurn records the emotion distribution as a chart turn
// so follow-up questions can reference the visualization the user saw.
func (s *InsightService) appendVisualizationTurn(ctx context.Context, sessionID uuid.UUID, analysis *domain.Analysis) {
	chartType := domain.ChartEmotionDistribution
	answer := fmt.Sprintf("Analysis complete. Overall sentiment: %s; dominant emotion: %s.",
		analysis.Sentiment.Overall, analysis.Emotions.DominantEmotion)
	now := time.Now()

	turn := &domain.Turn{
		ID:           uuid.New(),
		SessionID:    sessionID,
		QuestionText: "Analyze the uploaded text",
		AnswerText:   &answer,
		ChartType:    &chartType,
		ChartData: map[string]float64{
			"joy":      analysis.Emotions.Joy,
			"sadness":  analysis.Emotions.Sadness,
			"anger":    analysis.Emotions.Anger,
			"fear":     analysis.Emotions.Fear,
			"surprise": analysis.Emotions.Surprise,
			"disgust":  analysis.Emotions.Disgust,
		},
		CreatedAt:  now,
		AnsweredAt: &now,
	}
	if err := s.turnRepo.Create(ctx, turn); err != nil {
		log.Error().Err(err).
			Str("session_id", sessionID.String()).
			Msg("failed to append visualization turn")
	}
}
