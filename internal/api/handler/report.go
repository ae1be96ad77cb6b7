package handler

import (
	"fmt"
	"net/http"

	"github.com/deeppurple/deeppurple/internal/api/response"
	"github.com/deeppurple/deeppurple/internal/service"
)

// ReportHandler handles session export endpoints
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Generate renders the session as markdown, csv or pdf
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	sessionID, err := uuidParam(r, "sessionID")
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}

	format := service.ReportFormat(r.URL.Query().Get("format"))

	report, err := h.reportService.Generate(r.Context(), sessionID, userID, format)
	if err != nil {
		if err == service.ErrSessionNotFound {
			writeServiceError(w, err)
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	w.Write(report.Data)
}
