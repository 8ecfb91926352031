package docstore

import (
	"time"
)

type File struct {
	ID           string     `json:"id" db:"id"`
	CompanyID    string     `json:"company_id" db:"company_id"`
	DepartmentID *string    `json:"department_id,omitempty" db:"department_id"`
	DivisionID   *string    `json:"division_id,omitempty" db:"division_id"`
	ScopeLevel   ScopeLevel `json:"scope_level" db:"scope_level"`
	Name         string     `json:"name" db:"name"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// FilePermissionView is the resolved permission picture for a file. Files
// have no inheritance chain: the only explicit permission source is the
// link into a specific folder, so the view is link-scoped.
type FilePermissionView struct {
	FileID       string     `json:"file_id"`
	FolderID     *string    `json:"folder_id,omitempty"` // The link the view was resolved against, if any
	ScopeLevel   ScopeLevel `json:"scope_level"`
	CompanyID    string     `json:"company_id"`
	DepartmentID *string    `json:"department_id,omitempty"`
	DivisionID   *string    `json:"division_id,omitempty"`
	// ExplicitPermissions is nil when no folder was given or the file is
	// not linked into the given folder.
	ExplicitPermissions []PermissionEntry `json:"explicit_permissions"`
}
