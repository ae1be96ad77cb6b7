package service

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/deeppurple/deeppurple/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestContextAssembler_GatherContext(t *testing.T) {
	ctx := context.Background()
	sessionID := uuid.New()

	t.Run("joins documents with blank line", func(t *testing.T) {
		fileRepo := new(MockFileRepository)
		fileRepo.On("ListContentsBySession", ctx, sessionID).
			Return([]string{"first document", "second document"}, nil)

		a := NewContextAssembler(fileRepo, nil, nil, 0)
		got, err := a.GatherContext(ctx, sessionID)

		require.NoError(t, err)
		assert.Equal(t, "first document\n\nsecond document", got)
	})

	t.Run("zero documents is empty string, not an error", func(t *testing.T) {
		fileRepo := new(MockFileRepository)
		fileRepo.On("ListContentsBySession", ctx, sessionID).Return([]string{}, nil)

		a := NewContextAssembler(fileRepo, nil, nil, 0)
		got, err := a.GatherContext(ctx, sessionID)

		require.NoError(t, err)
		assert.Equal(t, "", got)
	})

	t.Run("truncates to the limit deterministically", func(t *testing.T) {
		big := strings.Repeat("x", 9000)
		fileRepo := new(MockFileRepository)
		fileRepo.On("ListContentsBySession", ctx, sessionID).
			Return([]string{big, big}, nil)

		a := NewContextAssembler(fileRepo, nil, nil, 10000)

		first, err := a.GatherContext(ctx, sessionID)
		require.NoError(t, err)
		second, err := a.GatherContext(ctx, sessionID)
		require.NoError(t, err)

		assert.Len(t, first, 10000)
		assert.Equal(t, first, second)
	})

	t.Run("multibyte context never cut mid-rune", func(t *testing.T) {
		fileRepo := new(MockFileRepository)
		fileRepo.On("ListContentsBySession", ctx, sessionID).
			Return([]string{strings.Repeat("émotion ", 30)}, nil)

		a := NewContextAssembler(fileRepo, nil, nil, 100)
		got, err := a.GatherContext(ctx, sessionID)

		require.NoError(t, err)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, 100, utf8.RuneCountInString(got))
	})

	t.Run("short context returned unchanged", func(t *testing.T) {
		fileRepo := new(MockFileRepository)
		fileRepo.On("ListContentsBySession", ctx, sessionID).
			Return([]string{"short"}, nil)

		a := NewContextAssembler(fileRepo, nil, nil, 10000)
		got, err := a.GatherContext(ctx, sessionID)

		require.NoError(t, err)
		assert.Equal(t, "short", got)
	})
}

func TestContextAssembler_GatherHistory(t *testing.T) {
	ctx := context.Background()
	sessionID := uuid.New()

	t.Run("reverses storage order to chronological", func(t *testing.T) {
		turnRepo := new(MockTurnRepository)
		turnRepo.On("ListRecentAnswered", ctx, sessionID, 5).Return([]domain.Turn{
			{QuestionText: "newest", AnswerText: strPtr("a3")},
			{QuestionText: "middle", AnswerText: strPtr("a2")},
			{QuestionText: "oldest", AnswerText: strPtr("a1")},
		}, nil)

		a := NewContextAssembler(nil, turnRepo, nil, 0)
		history, err := a.GatherHistory(ctx, sessionID, 5)

		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.Equal(t, "oldest", history[0].Question)
		assert.Equal(t, "a1", history[0].Answer)
		assert.Equal(t, "newest", history[2].Question)
	})

	t.Run("unanswered turns never reach the transcript", func(t *testing.T) {
		turnRepo := new(MockTurnRepository)
		turnRepo.On("ListRecentAnswered", ctx, sessionID, 5).Return([]domain.Turn{
			{QuestionText: "answered", AnswerText: strPtr("done")},
			{QuestionText: "still pending", AnswerText: nil},
		}, nil)

		a := NewContextAssembler(nil, turnRepo, nil, 0)
		history, err := a.GatherHistory(ctx, sessionID, 5)

		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, "answered", history[0].Question)
	})

	t.Run("limit zero means no history and no query", func(t *testing.T) {
		turnRepo := new(MockTurnRepository)

		a := NewContextAssembler(nil, turnRepo, nil, 0)
		history, err := a.GatherHistory(ctx, sessionID, 0)

		require.NoError(t, err)
		assert.Empty(t, history)
		turnRepo.AssertNotCalled(t, "ListRecentAnswered")
	})

	t.Run("negative limit behaves like zero", func(t *testing.T) {
		a := NewContextAssembler(nil, new(MockTurnRepository), nil, 0)
		history, err := a.GatherHistory(ctx, sessionID, -3)

		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("chart turns inline their payload", func(t *testing.T) {
		chartType := domain.ChartEmotionDistribution
		turnRepo := new(MockTurnRepository)
		turnRepo.On("ListRecentAnswered", ctx, sessionID, 5).Return([]domain.Turn{
			{
				QuestionText: "Analyze the uploaded text",
				AnswerText:   strPtr("Analysis complete."),
				ChartType:    &chartType,
				ChartData:    map[string]float64{"joy": 0.9},
			},
		}, nil)

		a := NewContextAssembler(nil, turnRepo, nil, 0)
		history, err := a.GatherHistory(ctx, sessionID, 5)

		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Contains(t, history[0].Answer, "Analysis complete.")
		assert.Contains(t, history[0].Answer, "emotion_distribution")
		assert.Contains(t, history[0].Answer, `"joy":0.9`)
	})
}
