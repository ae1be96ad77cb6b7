package handler

import (
	"encoding/json"
	"net/http"

	"github.com/deeppurple/deeppurple/internal/api/response"
	"github.com/deeppurple/deeppurple/internal/service"
)

// AdminHandler handles user administration endpoints
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListUsers returns a page of users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context(), queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.OK(w, users)
}

// SetUserActive activates or deactivates an account
func (h *AdminHandler) SetUserActive(w http.ResponseWriter, r *http.Request) {
	userID, err := uuidParam(r, "userID")
	if err != nil {
		response.BadRequest(w, "invalid user ID")
		return
	}

	var input struct {
		Active *bool `json:"active" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if input.Active == nil {
		response.BadRequest(w, "active is required")
		return
	}

	if err := h.adminService.SetUserActive(r.Context(), userID, *input.Active); err != nil {
		writeServiceError(w, err)
		return
	}
	response.NoContent(w)
}

// DeleteUser removes a user account
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuidParam(r, "userID")
	if err != nil {
		response.BadRequest(w, "invalid user ID")
		return
	}

	if err := h.adminService.DeleteUser(r.Context(), userID); err != nil {
		writeServiceError(w, err)
		return
	}
	response.NoContent(w)
}
