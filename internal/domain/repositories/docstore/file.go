package docstore

import (
	"context"

	"doctracker/internal/domain/models/docstore"
)

// FileRepository defines data access operations for files
type FileRepository interface {
	// Create creates a new file record
	Create(ctx context.Context, file *docstore.File) error

	// GetByID retrieves a file by ID
	GetByID(ctx context.Context, id string) (*docstore.File, error)

	// Update updates a file's name and scope fields
	Update(ctx context.Context, file *docstore.File) error

	// Delete deletes a file record (links cascade at the storage layer)
	Delete(ctx context.Context, id string) error
}

// ResourceLinkRepository defines data access for file-to-folder links
type ResourceLinkRepository interface {
	// Create files a file into a folder
	Create(ctx context.Context, link *docstore.ResourceLink) error

	// Get retrieves the link keyed by (fileID, folderID)
	Get(ctx context.Context, fileID, folderID string) (*docstore.ResourceLink, error)

	// ListByFile lists every link for a file across all folders
	ListByFile(ctx context.Context, fileID string) ([]docstore.ResourceLink, error)

	// ListByFolder lists every link into a folder
	ListByFolder(ctx context.Context, folderID string) ([]docstore.ResourceLink, error)

	// UpdatePermissions replaces the link's whole permission list and
	// returns the updated link
	UpdatePermissions(ctx context.Context, fileID, folderID string, entries []docstore.PermissionEntry) (*docstore.ResourceLink, error)

	// Delete removes the link
	Delete(ctx context.Context, fileID, folderID string) error
}
