package handler

import (
	"encoding/json"
	"net/http"

	"github.com/deeppurple/deeppurple/internal/api/response"
	"github.com/deeppurple/deeppurple/internal/service"
)

// AnalysisHandler handles structured-analysis endpoints
type AnalysisHandler struct {
	sessionService *service.SessionService
	insightService *service.InsightService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(sessionService *service.SessionService, insightService *service.InsightService) *AnalysisHandler {
	return &AnalysisHandler{
		sessionService: sessionService,
		insightService: insightService,
	}
}

// AnalyzeText analyzes raw text posted in the request body
func (h *AnalysisHandler) AnalyzeText(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	sessionID, err := uuidParam(r, "sessionID")
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}

	var input struct {
		Text string `json:"text" validate:"required,min=1"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	if _, err := h.sessionService.Get(r.Context(), sessionID, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	analysis, err := h.insightService.AnalyzeText(r.Context(), sessionID, input.Text)
	if err != nil {
		response.Error(w, http.StatusBadGateway, "analysis failed")
		return
	}

	response.OK(w, analysis)
}

// AnalyzeFile analyzes the extracted text of an uploaded file
func (h *AnalysisHandler) AnalyzeFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	sessionID, err := uuidParam(r, "sessionID")
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}
	fileID, err := uuidParam(r, "fileID")
	if err != nil {
		response.BadRequest(w, "invalid file ID")
		return
	}

	if _, err := h.sessionService.Get(r.Context(), sessionID, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	analysis, err := h.insightService.AnalyzeFile(r.Context(), sessionID, fileID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, analysis)
}

// ListInsights returns the session's stored insights
func (h *AnalysisHandler) ListInsights(w http.ResponseWriter, r *http.Request) {
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

	insights, err := h.insightService.List(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, insights)
}
