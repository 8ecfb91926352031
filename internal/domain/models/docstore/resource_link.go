package docstore

import (
	"time"
)

// ResourceLink files a file into a folder. A file may be linked into many
// folders, each link carrying its own permission list - the same file can
// be wide open in a working folder and locked down in an archive folder.
type ResourceLink struct {
	FileID   string `json:"file_id" db:"file_id"`
	FolderID string `json:"folder_id" db:"folder_id"`
	// Permissions is the link-scoped ACL. Nil means the link carries no
	// explicit grants (scope-level access still applies to the file).
	Permissions []PermissionEntry `json:"permissions" db:"permissions"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}
