package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/deeppurple/deeppurple/internal/domain"
	"github.com/deeppurple/deeppurple/internal/llm"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// pastedTextMinQuestion is the question length past which an empty-context
// question is suspected to be pasted document text.
const pastedTextMinQuestion = 100

// pastedTextMinRemainder is how much text must follow the first '?' for the
// remainder to count as pasted context.
const pastedTextMinRemainder = 50

// genericAnalysisQuestion substitutes for a pasted blob with no usable question
const genericAnalysisQuestion = "Can you analyze this text for me?"

// AnswerResult is the outcome of one synchronous question
type AnswerResult struct {
	Answer              string      `json:"answer"`
	Sources             []string    `json:"sources"`
	ConversationHistory []domain.QA `json:"conversation_history"`
}

// AnswerService orchestrates question answering: context and history
// assembly, the model call, and the turn write. Model failures degrade to
// in-band answers; they never fail the request.
type AnswerService struct {
	assembler *ContextAssembler
	turnRepo  domain.TurnRepository
	router    *llm.Router
}

// NewAnswerService creates a new answer service
func NewAnswerService(assembler *ContextAssembler, turnRepo domain.TurnRepository, router *llm.Router) *AnswerService {
	return &AnswerService{
		assembler: assembler,
		turnRepo:  turnRepo,
		router:    router,
	}
}

// Answer resolves context and history, asks the model, and appends exactly
// one turn carrying the original question text.
func (s *AnswerService) Answer(ctx context.Context, sessionID uuid.UUID, question string, historyLimit int) (*AnswerResult, error) {
	docContext, history, err := s.gather(ctx, sessionID, historyLimit)
	if err != nil {
		return nil, err
	}

	effQuestion, effContext := reclassifyQuestion(question, docContext)

	answer, sources := s.complete(ctx, llm.Request{
		Question: effQuestion,
		Context:  effContext,
		History:  history,
	})

	if err := s.appendTurn(ctx, sessionID, question, answer); err != nil {
		return nil, err
	}

	return &AnswerResult{
		Answer:              answer,
		Sources:             sources,
		ConversationHistory: history,
	}, nil
}

// AnswerStream resolves context and history, then streams the model's
// answer fragment by fragment through onFragment while accumulating the
// full text. The turn write is deferred so it runs exactly once whether
// the stream completes, fails partway, or the caller disconnects.
func (s *AnswerService) AnswerStream(ctx context.Context, sessionID uuid.UUID, question string, historyLimit int, onFragment func(string) error) error {
	docContext, history, err := s.gather(ctx, sessionID, historyLimit)
	if err != nil {
		return err
	}

	effQuestion, effContext := reclassifyQuestion(question, docContext)

	var accumulated strings.Builder
	defer func() {
		// The client already has its fragments; a failed write here is
		// logged and swallowed rather than corrupting the response.
		answer := accumulated.String()
		if err := s.appendTurn(context.WithoutCancel(ctx), sessionID, question, answer); err != nil {
			log.Error().Err(err).
				Str("session_id", sessionID.String()).
				Msg("failed to persist streamed turn")
		}
	}()

	provider, err := s.router.GetProvider("")
	if err != nil {
		frag := fmt.Sprintf("Error: %s", err)
		accumulated.WriteString(frag)
		_ = onFragment(frag)
		return nil
	}

	req := llm.Request{Question: effQuestion, Context: effContext, History: history}

	var forwardErr error
	streamErr := provider.Stream(ctx, req, "", func(token string) error {
		accumulated.WriteString(token)
		if err := onFragment(token); err != nil {
			forwardErr = err
			return err
		}
		return nil
	})

	// A caller disconnect stops the stream; whatever accumulated is
	// persisted by the deferred write. Only a genuine provider fault gets
	// the in-band error fragment.
	if streamErr != nil && forwardErr == nil && ctx.Err() == nil {
		frag := fmt.Sprintf("Error: %s", streamErr)
		accumulated.WriteString(frag)
		_ = onFragment(frag)
	}
	return nil
}

// ListTurns returns a chronological page of the session's turn log
func (s *AnswerService) ListTurns(ctx context.Context, sessionID uuid.UUID, limit, offset int) ([]domain.Turn, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	turns, err := s.turnRepo.ListBySession(ctx, sessionID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}
	return turns, nil
}

func (s *AnswerService) gather(ctx context.Context, sessionID uuid.UUID, historyLimit int) (string, []domain.QA, error) {
	docContext, err := s.assembler.GatherContext(ctx, sessionID)
	if err != nil {
		return "", nil, err
	}
	history, err := s.assembler.GatherHistory(ctx, sessionID, historyLimit)
	if err != nil {
		return "", nil, err
	}
	return docContext, history, nil
}

func (s *AnswerService) complete(ctx context.Context, req llm.Request) (string, []string) {
	provider, err := s.router.GetProvider("")
	if err != nil {
		return errorAnswer(err), []string{}
	}

	resp, err := provider.Complete(ctx, req, "")
	if err != nil {
		return errorAnswer(err), []string{}
	}

	return resp.Answer, llm.NormalizeSources(resp.Sources)
}

func (s *AnswerService) appendTurn(ctx context.Context, sessionID uuid.UUID, question, answer string) error {
	now := time.Now()
	turn := &domain.Turn{
		ID:           uuid.New(),
		SessionID:    sessionID,
		QuestionText: question,
		AnswerText:   &answer,
		CreatedAt:    now,
		AnsweredAt:   &now,
	}
	if err := s.turnRepo.Create(ctx, turn); err != nil {
		return fmt.Errorf("failed to append turn: %w", err)
	}
	return nil
}

func errorAnswer(err error) string {
	return fmt.Sprintf("I encountered an error processing your question about the uploaded content. Error: %s", err)
}

// reclassifyQuestion handles questions that are really pasted document
// text. When the session has no documents and the "question" is long, the
// text is split on its first '?': a long remainder becomes ad-hoc context
// for the prefix question; otherwise the whole blob becomes context for a
// generic analysis question. The caller persists the original text either
// way.
func reclassifyQuestion(question, docContext string) (effQuestion, effContext string) {
	if docContext != "" || utf8.RuneCountInString(question) <= pastedTextMinQuestion {
		return question, docContext
	}

	if idx := strings.Index(question, "?"); idx >= 0 {
		remainder := question[idx+1:]
		if utf8.RuneCountInString(remainder) > pastedTextMinRemainder {
			return question[:idx+1], strings.TrimSpace(remainder)
		}
	}
	return genericAnalysisQuestion, question
}
