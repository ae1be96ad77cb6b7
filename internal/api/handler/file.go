package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/deeppurple/deeppurple/internal/api/response"
	"github.com/deeppurple/deeppurple/internal/service"
	"github.com/google/uuid"
)

// FileHandler handles document upload and retrieval endpoints
type FileHandler struct {
	sessionService *service.SessionService
	fileService    *service.FileService
	maxUploadBytes int64
}

// NewFileHandler creates a new file handler
func NewFileHandler(sessionService *service.SessionService, fileService *service.FileService, maxUploadBytes int64) *FileHandler {
	return &FileHandler{
		sessionService: sessionService,
		fileService:    fileService,
		maxUploadBytes: maxUploadBytes,
	}
}

// session verifies the path session belongs to the caller
func (h *FileHandler) session(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := requireUser(w, r)
	if !ok {
		return uuid.Nil, false
	}

	sessionID, err := uuidParam(r, "sessionID")
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return uuid.Nil, false
	}

	if _, err := h.sessionService.Get(r.Context(), sessionID, userID); err != nil {
		writeServiceError(w, err)
		return uuid.Nil, false
	}
	return sessionID, true
}

// Upload accepts a TXT, CSV or PDF document
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}

	upload, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "no file uploaded")
		return
	}
	defer upload.Close()

	data, err := io.ReadAll(upload)
	if err != nil {
		response.InternalError(w, "failed to read upload")
		return
	}

	file, err := h.fileService.Upload(r.Context(), sessionID, header.Filename, data)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	response.Created(w, file)
}

// List returns the session's files
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	files, err := h.fileService.List(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, files)
}

// Download streams the original uploaded bytes
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	fileID, err := uuidParam(r, "fileID")
	if err != nil {
		response.BadRequest(w, "invalid file ID")
		return
	}

	file, data, err := h.fileService.Download(r.Context(), sessionID, fileID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Write(data)
}

// Content returns the extracted plain text
func (h *FileHandler) Content(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	fileID, err := uuidParam(r, "fileID")
	if err != nil {
		response.BadRequest(w, "invalid file ID")
		return
	}

	content, err := h.fileService.Content(r.Context(), sessionID, fileID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, content)
}

// Delete removes a document
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	fileID, err := uuidParam(r, "fileID")
	if err != nil {
		response.BadRequest(w, "invalid file ID")
		return
	}

	if err := h.fileService.Delete(r.Context(), sessionID, fileID); err != nil {
		writeServiceError(w, err)
		return
	}

	response.NoContent(w)
}
