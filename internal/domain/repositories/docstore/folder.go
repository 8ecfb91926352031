package docstore

import (
	"context"

	"doctracker/internal/domain/models/docstore"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create creates a new folder
	Create(ctx context.Context, folder *docstore.Folder) error

	// GetByID retrieves a folder by ID (excludes soft-deleted folders)
	GetByID(ctx context.Context, id string) (*docstore.Folder, error)

	// Update updates a folder's name, parent and scope fields
	Update(ctx context.Context, folder *docstore.Folder) error

	// Delete soft-deletes a folder
	Delete(ctx context.Context, id string) (*docstore.Folder, error)

	// ListChildren lists immediate child folders (nil parentID = roots)
	ListChildren(ctx context.Context, parentID *string, companyID string) ([]docstore.Folder, error)

	// UpdatePermissions replaces the folder's whole explicit permission
	// list and returns the updated folder. Not a merge: callers send the
	// complete desired list.
	UpdatePermissions(ctx context.Context, id string, entries []docstore.PermissionEntry) (*docstore.Folder, error)
}
