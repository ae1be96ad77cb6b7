package handler

import (
	"encoding/json"
	"net/http"

	"github.com/deeppurple/deeppurple/internal/api/response"
	"github.com/deeppurple/deeppurple/internal/domain"
	"github.com/deeppurple/deeppurple/internal/service"
)

// SessionHandler handles session CRUD endpoints
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Create creates a new analysis session
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var input struct {
		Name string `json:"name" validate:"omitempty,max=255"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	session, err := h.sessionService.Create(r.Context(), userID, input.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, session)
}

// List returns the caller's sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	includeArchived := r.URL.Query().Get("include_archived") == "true"
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	sessions, err := h.sessionService.List(r.Context(), userID, includeArchived, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, sessions)
}

// Get returns one session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	sessionID, err := uuidParam(r, "sessionID")
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}

	session, err := h.sessionService.Get(r.Context(), sessionID, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, session)
}

// Update renames or archives a session
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	sessionID, err := uuidParam(r, "sessionID")
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}

	var input domain.SessionUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	session, err := h.sessionService.Update(r.Context(), sessionID, userID, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, session)
}

// Delete removes a session and all of its data
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	sessionID, err := uuidParam(r, "sessionID")
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}

	if err := h.sessionService.Delete(r.Context(), sessionID, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	response.NoContent(w)
}
