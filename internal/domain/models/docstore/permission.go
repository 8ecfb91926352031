package docstore

import (
	"encoding/json"
	"fmt"
)

// PermissionKind is a single point permission on a folder or file.
type PermissionKind string

const (
	PermissionRead   PermissionKind = "read"
	PermissionWrite  PermissionKind = "write"
	PermissionDelete PermissionKind = "delete"
	PermissionShare  PermissionKind = "share"
	PermissionManage PermissionKind = "manage"
)

func (k PermissionKind) String() string {
	return string(k)
}

// Valid reports whether k is one of the known permission kinds.
func (k PermissionKind) Valid() bool {
	switch k {
	case PermissionRead, PermissionWrite, PermissionDelete, PermissionShare, PermissionManage:
		return true
	}
	return false
}

// ScopeLevel is the organizational tier at which a resource is visible by
// default, independent of explicit grants.
type ScopeLevel string

const (
	ScopeCompany    ScopeLevel = "company"
	ScopeDepartment ScopeLevel = "department"
	ScopeDivision   ScopeLevel = "division"
)

// Valid reports whether s is one of the known scope levels.
func (s ScopeLevel) Valid() bool {
	switch s {
	case ScopeCompany, ScopeDepartment, ScopeDivision:
		return true
	}
	return false
}

// ResourceType identifies the kind of resource a permission check targets.
type ResourceType string

const (
	ResourceFolder ResourceType = "folder"
	ResourceFile   ResourceType = "file"
)

// Valid reports whether t is one of the known resource types.
func (t ResourceType) Valid() bool {
	return t == ResourceFolder || t == ResourceFile
}

// PermissionEntry is a directly-attached grant on a specific resource:
// one user, the set of permissions they hold there.
type PermissionEntry struct {
	UserID      string           `json:"user_id"`
	Permissions []PermissionKind `json:"permissions"`
}

// Has reports whether the entry grants the given permission.
func (e *PermissionEntry) Has(kind PermissionKind) bool {
	for _, p := range e.Permissions {
		if p == kind {
			return true
		}
	}
	return false
}

// ValidatePermissionEntries checks the invariants every stored permission
// list must hold: non-empty user IDs, at most one entry per user, and only
// known permission kinds. Duplicate kinds within an entry are rejected too
// so stored lists stay canonical.
func ValidatePermissionEntries(entries []PermissionEntry) error {
	seenUsers := make(map[string]bool, len(entries))
	for i, entry := range entries {
		if entry.UserID == "" {
			return fmt.Errorf("permission entry %d: user_id is required", i)
		}
		if seenUsers[entry.UserID] {
			return fmt.Errorf("permission entry %d: duplicate entry for user %s", i, entry.UserID)
		}
		seenUsers[entry.UserID] = true

		if len(entry.Permissions) == 0 {
			return fmt.Errorf("permission entry %d: at least one permission is required", i)
		}
		seenKinds := make(map[PermissionKind]bool, len(entry.Permissions))
		for _, kind := range entry.Permissions {
			if !kind.Valid() {
				return fmt.Errorf("permission entry %d: unknown permission %q", i, kind)
			}
			if seenKinds[kind] {
				return fmt.Errorf("permission entry %d: duplicate permission %q", i, kind)
			}
			seenKinds[kind] = true
		}
	}
	return nil
}

// DecodePermissionEntries parses a stored JSONB permission payload into a
// validated entry list. The storage layer is the trust boundary: anything
// that fails validation here never reaches the resolver.
//
// A SQL NULL (nil or empty payload) decodes to a nil list, which callers
// treat as "no explicit grants".
func DecodePermissionEntries(data []byte) ([]PermissionEntry, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	var entries []PermissionEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode permission entries: %w", err)
	}
	if err := ValidatePermissionEntries(entries); err != nil {
		return nil, fmt.Errorf("decode permission entries: %w", err)
	}
	return entries, nil
}

// EncodePermissionEntries serializes an entry list for storage. A nil list
// encodes to JSON null so "no explicit grants" round-trips as SQL NULL.
func EncodePermissionEntries(entries []PermissionEntry) ([]byte, error) {
	if entries == nil {
		return []byte("null"), nil
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode permission entries: %w", err)
	}
	return data, nil
}
