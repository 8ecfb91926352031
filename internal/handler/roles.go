package handler

import (
	"net/http"

	"doctracker/internal/httputil"
	"doctracker/internal/roles"
)

// RolesHandler exposes the role templates permission entries can reference
type RolesHandler struct {
	registry *roles.Registry
}

// NewRolesHandler creates a new roles handler
func NewRolesHandler(registry *roles.Registry) *RolesHandler {
	return &RolesHandler{registry: registry}
}

// ListRoles lists the available role templates
// GET /api/roles
func (h *RolesHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.registry.List())
}
