package handler

import (
	"encoding/json"
	"net/http"

	"github.com/deeppurple/deeppurple/internal/api/response"
	"github.com/deeppurple/deeppurple/internal/service"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// QuestionHandler handles Q&A endpoints
type QuestionHandler struct {
	sessionService      *service.SessionService
	answerService       *service.AnswerService
	defaultHistoryLimit int
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(sessionService *service.SessionService, answerService *service.AnswerService, defaultHistoryLimit int) *QuestionHandler {
	if defaultHistoryLimit <= 0 {
		defaultHistoryLimit = 5
	}
	return &QuestionHandler{
		sessionService:      sessionService,
		answerService:       answerService,
		defaultHistoryLimit: defaultHistoryLimit,
	}
}

type questionRequest struct {
	Question     string `json:"question" validate:"required,min=1"`
	HistoryLimit *int   `json:"history_limit" validate:"omitempty,max=50"`
}

func (h *QuestionHandler) parse(w http.ResponseWriter, r *http.Request) (uuid.UUID, questionRequest, bool) {
	userID, ok := requireUser(w, r)
	if !ok {
		return uuid.Nil, questionRequest{}, false
	}

	sessionID, err := uuidParam(r, "sessionID")
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return uuid.Nil, questionRequest{}, false
	}

	var input questionRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return uuid.Nil, questionRequest{}, false
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return uuid.Nil, questionRequest{}, false
	}

	// Ownership check happens before any model work.
	if _, err := h.sessionService.Get(r.Context(), sessionID, userID); err != nil {
		writeServiceError(w, err)
		return uuid.Nil, questionRequest{}, false
	}
	return sessionID, input, true
}

func (h *QuestionHandler) historyLimit(input questionRequest) int {
	if input.HistoryLimit != nil {
		return *input.HistoryLimit
	}
	return h.defaultHistoryLimit
}

// Ask answers a question synchronously
func (h *QuestionHandler) Ask(w http.ResponseWriter, r *http.Request) {
	sessionID, input, ok := h.parse(w, r)
	if !ok {
		return
	}

	result, err := h.answerService.Answer(r.Context(), sessionID, input.Question, h.historyLimit(input))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, result)
}

// AskStream answers a question as a chunked plain-text stream. Fragments
// are flushed as they arrive from the model.
func (h *QuestionHandler) AskStream(w http.ResponseWriter, r *http.Request) {
	sessionID, input, ok := h.parse(w, r)
	if !ok {
		return
	}

	flusher, canFlush := w.(http.Flusher)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	err := h.answerService.AnswerStream(r.Context(), sessionID, input.Question, h.historyLimit(input), func(fragment string) error {
		if _, err := w.Write([]byte(fragment)); err != nil {
			return err
		}
		if canFlush {
			flusher.Flush()
		}
		return nil
	})
	if err != nil {
		// Headers are gone; nothing to do but log.
		log.Error().Err(err).Str("session_id", sessionID.String()).Msg("answer stream failed")
	}
}

// ListTurns returns the session transcript
func (h *QuestionHandler) ListTurns(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	sessionID, err := uuidParam(r, "sessionID")
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}

	if _, err := h.sessionService.Get(r.Context(), sessionID, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	turns, err := h.answerService.ListTurns(r.Context(), sessionID, queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, turns)
}
