package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/deeppurple/deeppurple/internal/api/middleware"
	"github.com/deeppurple/deeppurple/internal/api/response"
	"github.com/deeppurple/deeppurple/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// uuidParam parses a UUID path parameter
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

// queryInt reads an integer query parameter with a fallback
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// writeServiceError maps service errors to HTTP responses
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrFileNotFound),
		errors.Is(err, service.ErrUserNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, service.ErrEmailExists):
		response.BadRequest(w, err.Error())
	case errors.Is(err, service.ErrInvalidLogin),
		errors.Is(err, service.ErrAccountDisabled):
		response.Unauthorized(w, err.Error())
	default:
		response.InternalError(w, "internal error")
	}
}

// requireUser pulls the authenticated user ID out of the request context
func requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return uuid.Nil, false
	}
	return userID, true
}
