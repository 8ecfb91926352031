package docstore

import (
	"time"
)

type Folder struct {
	ID             string            `json:"id" db:"id"`
	CompanyID      string            `json:"company_id" db:"company_id"`
	DepartmentID   *string           `json:"department_id,omitempty" db:"department_id"`
	DivisionID     *string           `json:"division_id,omitempty" db:"division_id"`
	ScopeLevel     ScopeLevel        `json:"scope_level" db:"scope_level"`
	ParentFolderID *string           `json:"parent_folder_id,omitempty" db:"parent_folder_id"` // NULL = root level
	Name           string            `json:"name" db:"name"`
	Permissions    []PermissionEntry `json:"permissions" db:"permissions"` // Explicit per-folder ACL, JSONB in storage
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" db:"updated_at"`
	DeletedAt      *time.Time        `json:"deleted_at,omitempty" db:"deleted_at"`
}

// FolderPermissionView is the resolved permission picture for one folder:
// its own entries merged with everything inherited down the parent chain.
type FolderPermissionView struct {
	FolderID       string     `json:"folder_id"`
	ScopeLevel     ScopeLevel `json:"scope_level"`
	CompanyID      string     `json:"company_id"`
	DepartmentID   *string    `json:"department_id,omitempty"`
	DivisionID     *string    `json:"division_id,omitempty"`
	ParentFolderID *string    `json:"parent_folder_id,omitempty"`
	// ExplicitPermissions is the merged list: inherited entries overridden
	// by the folder's own entries where the same user appears in both.
	ExplicitPermissions []PermissionEntry `json:"explicit_permissions"`
	// InheritedPermissions is what flowed in from ancestors alone.
	InheritedPermissions []PermissionEntry `json:"inherited_permissions"`
}
