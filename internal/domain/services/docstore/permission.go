package docstore

import (
	"doctracker/internal/domain/models/docstore"
)

// UpdatePermissionsRequest replaces a resource's whole permission list.
// Not a merge: entries absent from the request are dropped.
type UpdatePermissionsRequest struct {
	Entries []PermissionEntryRequest `json:"entries"`
}

// PermissionEntryRequest grants one user a set of permissions, either as a
// named role template (expanded server-side) or as explicit kinds. Exactly
// one of Role and Permissions must be set.
type PermissionEntryRequest struct {
	UserID      string                    `json:"user_id"`
	Role        *string                   `json:"role,omitempty"`
	Permissions []docstore.PermissionKind `json:"permissions,omitempty"`
}
