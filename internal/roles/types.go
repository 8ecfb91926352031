package roles

import (
	"doctracker/internal/domain/models/docstore"
)

// Template is a named bundle of permission kinds. Clients assign a role
// name instead of enumerating kinds; the registry expands it at grant
// time, so changing a template later does not rewrite stored lists.
type Template struct {
	Name        string                    `yaml:"name" json:"name"`
	Description string                    `yaml:"description" json:"description"`
	Permissions []docstore.PermissionKind `yaml:"permissions" json:"permissions"`
}

// TemplateSet is the on-disk shape of a role template YAML file
type TemplateSet struct {
	Roles []Template `yaml:"roles"`
}
