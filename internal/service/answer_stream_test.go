package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/deeppurple/deeppurple/internal/domain"
	"github.com/deeppurple/deeppurple/internal/llm"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAnswerService_AnswerStream(t *testing.T) {
	ctx := context.Background()
	sessionID := uuid.New()

	setup := func(provider llm.Provider) (*AnswerService, *MockTurnRepository, *[]*domain.Turn) {
		svc, fileRepo, turnRepo := newAnswerFixture(provider)
		fileRepo.On("ListContentsBySession", mock.Anything, sessionID).Return([]string{"doc"}, nil)
		turnRepo.On("ListRecentAnswered", mock.Anything, sessionID, 5).Return([]domain.Turn{}, nil)

		var persisted []*domain.Turn
		turnRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Turn")).
			Run(func(args mock.Arguments) { persisted = append(persisted, args.Get(1).(*domain.Turn)) }).
			Return(nil)
		return svc, turnRepo, &persisted
	}

	t.Run("forwards every fragment and persists their concatenation", func(t *testing.T) {
		provider := &fakeProvider{streamTokens: []string{"The ", "answer ", "is 42."}}
		svc, turnRepo, persisted := setup(provider)

		var received []string
		err := svc.AnswerStream(ctx, sessionID, "q?", 5, func(frag string) error {
			received = append(received, frag)
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"The ", "answer ", "is 42."}, received)

		require.Len(t, *persisted, 1)
		turn := (*persisted)[0]
		require.NotNil(t, turn.AnswerText)
		assert.Equal(t, strings.Join(received, ""), *turn.AnswerText)
		assert.Equal(t, "q?", turn.QuestionText)
		turnRepo.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("mid-stream failure appends an error fragment and still persists", func(t *testing.T) {
		provider := &fakeProvider{
			streamTokens: []string{"partial "},
			streamErr:    errors.New("connection reset"),
		}
		svc, _, persisted := setup(provider)

		var received []string
		err := svc.AnswerStream(ctx, sessionID, "q?", 5, func(frag string) error {
			received = append(received, frag)
			return nil
		})

		require.NoError(t, err)
		require.Len(t, received, 2)
		assert.Equal(t, "partial ", received[0])
		assert.Contains(t, received[1], "connection reset")

		require.Len(t, *persisted, 1)
		require.NotNil(t, (*persisted)[0].AnswerText)
		assert.Equal(t, strings.Join(received, ""), *(*persisted)[0].AnswerText)
	})

	t.Run("caller disconnect persists what accumulated so far", func(t *testing.T) {
		provider := &fakeProvider{streamTokens: []string{"one ", "two ", "three"}}
		svc, _, persisted := setup(provider)

		calls := 0
		err := svc.AnswerStream(ctx, sessionID, "q?", 5, func(frag string) error {
			calls++
			if calls == 2 {
				return errors.New("client gone")
			}
			return nil
		})

		require.NoError(t, err)
		require.Len(t, *persisted, 1)
		require.NotNil(t, (*persisted)[0].AnswerText)
		// Both fragments reached the accumulator before the disconnect.
		assert.Equal(t, "one two ", *(*persisted)[0].AnswerText)
		// No error fragment for a caller-side abort.
		assert.NotContains(t, *(*persisted)[0].AnswerText, "Error:")
	})

	t.Run("persistence failure after streaming is swallowed", func(t *testing.T) {
		provider := &fakeProvider{streamTokens: []string{"done"}}
		svc, fileRepo, turnRepo := newAnswerFixture(provider)
		fileRepo.On("ListContentsBySession", mock.Anything, sessionID).Return([]string{"doc"}, nil)
		turnRepo.On("ListRecentAnswered", mock.Anything, sessionID, 5).Return([]domain.Turn{}, nil)
		turnRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Turn")).
			Return(errors.New("db down"))

		err := svc.AnswerStream(ctx, sessionID, "q?", 5, func(string) error { return nil })

		require.NoError(t, err)
	})
}
