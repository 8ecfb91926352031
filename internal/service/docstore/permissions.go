package docstore

import (
	"fmt"

	"doctracker/internal/config"
	"doctracker/internal/domain"
	models "doctracker/internal/domain/models/docstore"
	docstoreSvc "doctracker/internal/domain/services/docstore"
	"doctracker/internal/roles"
)

// expandEntries turns an update request into storable permission entries,
// expanding role templates through the registry. Each request entry must
// carry exactly one of role or permissions.
func expandEntries(registry *roles.Registry, req *docstoreSvc.UpdatePermissionsRequest) ([]models.PermissionEntry, error) {
	if len(req.Entries) > config.MaxPermissionEntries {
		return nil, fmt.Errorf("%w: at most %d permission entries per resource", domain.ErrValidation, config.MaxPermissionEntries)
	}

	entries := make([]models.PermissionEntry, 0, len(req.Entries))
	for i, entry := range req.Entries {
		hasRole := entry.Role != nil
		hasKinds := len(entry.Permissions) > 0
		if hasRole == hasKinds {
			return nil, fmt.Errorf("%w: entry %d must set exactly one of role or permissions", domain.ErrValidation, i)
		}

		kinds := entry.Permissions
		if hasRole {
			expanded, err := registry.Expand(*entry.Role)
			if err != nil {
				return nil, fmt.Errorf("%w: entry %d: %v", domain.ErrValidation, i, err)
			}
			kinds = expanded
		}

		entries = append(entries, models.PermissionEntry{
			UserID:      entry.UserID,
			Permissions: kinds,
		})
	}

	if err := models.ValidatePermissionEntries(entries); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return entries, nil
}
