package docstore

import (
	"context"

	"doctracker/internal/domain/models/docstore"
)

// FileService handles file business logic, including the links that file
// a file into folders.
type FileService interface {
	// CreateFile creates a new file record, optionally linking it into a
	// folder in the same step
	CreateFile(ctx context.Context, req *CreateFileRequest) (*docstore.File, error)

	// GetFile retrieves a file
	GetFile(ctx context.Context, userID, fileID string) (*docstore.File, error)

	// UpdateFile updates a file (rename)
	UpdateFile(ctx context.Context, userID, fileID string, req *UpdateFileRequest) (*docstore.File, error)

	// DeleteFile deletes a file and all its links
	DeleteFile(ctx context.Context, userID, fileID string) error

	// LinkFile files a file into a folder
	LinkFile(ctx context.Context, userID, fileID, folderID string) (*docstore.ResourceLink, error)

	// UnlinkFile removes a file from a folder
	UnlinkFile(ctx context.Context, userID, fileID, folderID string) error

	// ListLinks lists every folder a file is filed into
	ListLinks(ctx context.Context, userID, fileID string) ([]docstore.ResourceLink, error)

	// GetFilePermissions returns the file's resolved permission view,
	// link-scoped when folderID is given
	GetFilePermissions(ctx context.Context, userID, fileID string, folderID *string) (*docstore.FilePermissionView, error)

	// UpdateLinkPermissions replaces the permission list on one link.
	// Requires manage on the file or a master user.
	UpdateLinkPermissions(ctx context.Context, userID, fileID, folderID string, req *UpdatePermissionsRequest) (*docstore.ResourceLink, error)
}

// CreateFileRequest represents a file creation request
type CreateFileRequest struct {
	UserID       string  `json:"-"`
	CompanyID    string  `json:"company_id"`
	Name         string  `json:"name"`
	ScopeLevel   string  `json:"scope_level"`
	DepartmentID *string `json:"department_id,omitempty"`
	DivisionID   *string `json:"division_id,omitempty"`
	FolderID     *string `json:"folder_id,omitempty"` // link into this folder on create
}

// UpdateFileRequest represents a file update request
type UpdateFileRequest struct {
	Name *string `json:"name,omitempty"`
}
