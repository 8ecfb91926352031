package handler

import (
	"log/slog"
	"net/http"

	models "doctracker/internal/domain/models/docstore"
	"doctracker/internal/httputil"
	"doctracker/internal/service/authz"
)

// PermissionHandler exposes the point permission check
type PermissionHandler struct {
	resolver authz.Resolver
	logger   *slog.Logger
}

// NewPermissionHandler creates a new permission handler
func NewPermissionHandler(resolver authz.Resolver, logger *slog.Logger) *PermissionHandler {
	return &PermissionHandler{
		resolver: resolver,
		logger:   logger,
	}
}

// checkResponse is the permission check result
type checkResponse struct {
	HasPermission bool `json:"hasPermission"`
}

// Check answers whether a user holds a permission on a resource.
// Always returns 200 with an allowed flag once the parameters parse; a
// missing user or resource is a deny, not an error.
// GET /api/permissions/check?user_id=&resource_type=&resource_id=&permission=
func (h *PermissionHandler) Check(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	userID := q.Get("user_id")
	if userID == "" {
		// Default to the authenticated caller
		userID = httputil.GetUserID(r)
	}

	resourceType := models.ResourceType(q.Get("resource_type"))
	if !resourceType.Valid() {
		httputil.RespondError(w, http.StatusBadRequest, "resource_type must be folder or file")
		return
	}

	resourceID := q.Get("resource_id")
	if resourceID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "resource_id query parameter is required")
		return
	}

	permission := models.PermissionKind(q.Get("permission"))
	if !permission.Valid() {
		httputil.RespondError(w, http.StatusBadRequest, "unknown permission kind")
		return
	}

	allowed := h.resolver.CheckPermission(r.Context(), userID, resourceType, resourceID, permission)

	httputil.RespondJSON(w, http.StatusOK, checkResponse{HasPermission: allowed})
}
