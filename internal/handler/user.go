package handler

import (
	"log/slog"
	"net/http"

	directorySvc "doctracker/internal/domain/services/directory"
	"doctracker/internal/httputil"
)

// UserHandler handles user and membership HTTP requests
type UserHandler struct {
	userService directorySvc.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService directorySvc.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// CreateUser creates a new user
// POST /api/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req directorySvc.CreateUserRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.CreateUser(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, user)
}

// Me retrieves the authenticated user
// GET /api/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetUser(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, user)
}

// GetUser retrieves a user with department memberships
// GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := PathParam(w, r, "id", "User ID")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, user)
}

// ListUsers lists users in a company
// GET /api/users?company_id=:id
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("company_id")
	if companyID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "company_id query parameter is required")
		return
	}

	users, err := h.userService.ListUsers(r.Context(), companyID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, users)
}

// AddToDepartment records a department membership
// PUT /api/users/{id}/departments/{departmentID}
func (h *UserHandler) AddToDepartment(w http.ResponseWriter, r *http.Request) {
	userID, ok := PathParam(w, r, "id", "User ID")
	if !ok {
		return
	}
	departmentID, ok := PathParam(w, r, "departmentID", "Department ID")
	if !ok {
		return
	}

	if err := h.userService.AddToDepartment(r.Context(), userID, departmentID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveFromDepartment removes a department membership
// DELETE /api/users/{id}/departments/{departmentID}
func (h *UserHandler) RemoveFromDepartment(w http.ResponseWriter, r *http.Request) {
	userID, ok := PathParam(w, r, "id", "User ID")
	if !ok {
		return
	}
	departmentID, ok := PathParam(w, r, "departmentID", "Department ID")
	if !ok {
		return
	}

	if err := h.userService.RemoveFromDepartment(r.Context(), userID, departmentID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
