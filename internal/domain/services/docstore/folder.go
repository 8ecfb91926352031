package docstore

import (
	"context"

	"doctracker/internal/domain/models/docstore"
)

// FolderService handles folder business logic
type FolderService interface {
	// CreateFolder creates a new folder
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*docstore.Folder, error)

	// GetFolder retrieves a folder
	GetFolder(ctx context.Context, userID, folderID string) (*docstore.Folder, error)

	// UpdateFolder updates a folder (rename or move)
	UpdateFolder(ctx context.Context, userID, folderID string, req *UpdateFolderRequest) (*docstore.Folder, error)

	// DeleteFolder soft-deletes a folder
	DeleteFolder(ctx context.Context, userID, folderID string) error

	// ListChildren lists a folder's child folders and linked files
	// (nil folderID = company roots)
	ListChildren(ctx context.Context, userID string, folderID *string, companyID string) (*FolderContents, error)

	// GetFolderPermissions returns the folder's resolved permission view
	GetFolderPermissions(ctx context.Context, userID, folderID string) (*docstore.FolderPermissionView, error)

	// UpdateFolderPermissions replaces the folder's whole explicit
	// permission list. Requires manage on the folder or a master user.
	UpdateFolderPermissions(ctx context.Context, userID, folderID string, req *UpdatePermissionsRequest) (*docstore.Folder, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	UserID         string  `json:"-"`
	CompanyID      string  `json:"company_id"`
	Name           string  `json:"name"`
	ParentFolderID *string `json:"parent_folder_id,omitempty"` // null for root
	ScopeLevel     string  `json:"scope_level"`
	DepartmentID   *string `json:"department_id,omitempty"`
	DivisionID     *string `json:"division_id,omitempty"`
}

// UpdateFolderRequest represents a folder update request
type UpdateFolderRequest struct {
	Name           *string `json:"name,omitempty"`             // rename
	ParentFolderID *string `json:"parent_folder_id,omitempty"` // move
	ToRoot         bool    `json:"to_root,omitempty"`          // move to root level
}

// FolderContents represents a folder with its children
type FolderContents struct {
	Folder  *docstore.Folder  `json:"folder,omitempty"` // null for root
	Folders []docstore.Folder `json:"folders"`
	Files   []docstore.File   `json:"files"`
}
