package docstore

import (
	"strings"
	"testing"
)

func TestValidatePermissionEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []PermissionEntry
		wantErr string
	}{
		{
			name:    "nil list is valid",
			entries: nil,
		},
		{
			name: "single entry",
			entries: []PermissionEntry{
				{UserID: "u1", Permissions: []PermissionKind{PermissionRead}},
			},
		},
		{
			name: "multiple users with distinct grants",
			entries: []PermissionEntry{
				{UserID: "u1", Permissions: []PermissionKind{PermissionRead, PermissionWrite}},
				{UserID: "u2", Permissions: []PermissionKind{PermissionManage}},
			},
		},
		{
			name: "empty user id",
			entries: []PermissionEntry{
				{UserID: "", Permissions: []PermissionKind{PermissionRead}},
			},
			wantErr: "user_id is required",
		},
		{
			name: "duplicate user",
			entries: []PermissionEntry{
				{UserID: "u1", Permissions: []PermissionKind{PermissionRead}},
				{UserID: "u1", Permissions: []PermissionKind{PermissionWrite}},
			},
			wantErr: "duplicate entry for user u1",
		},
		{
			name: "empty permission set",
			entries: []PermissionEntry{
				{UserID: "u1", Permissions: nil},
			},
			wantErr: "at least one permission is required",
		},
		{
			name: "unknown permission kind",
			entries: []PermissionEntry{
				{UserID: "u1", Permissions: []PermissionKind{"admin"}},
			},
			wantErr: `unknown permission "admin"`,
		},
		{
			name: "duplicate kind within entry",
			entries: []PermissionEntry{
				{UserID: "u1", Permissions: []PermissionKind{PermissionRead, PermissionRead}},
			},
			wantErr: `duplicate permission "read"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePermissionEntries(tt.entries)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidatePermissionEntries() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidatePermissionEntries() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidatePermissionEntries() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestDecodePermissionEntries(t *testing.T) {
	t.Run("sql null decodes to nil", func(t *testing.T) {
		for _, payload := range [][]byte{nil, {}, []byte("null")} {
			entries, err := DecodePermissionEntries(payload)
			if err != nil {
				t.Fatalf("DecodePermissionEntries(%q) error = %v", payload, err)
			}
			if entries != nil {
				t.Errorf("DecodePermissionEntries(%q) = %v, want nil", payload, entries)
			}
		}
	})

	t.Run("valid payload", func(t *testing.T) {
		payload := []byte(`[{"user_id":"u1","permissions":["read","write"]}]`)
		entries, err := DecodePermissionEntries(payload)
		if err != nil {
			t.Fatalf("DecodePermissionEntries() error = %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("got %d entries, want 1", len(entries))
		}
		if entries[0].UserID != "u1" {
			t.Errorf("UserID = %q, want u1", entries[0].UserID)
		}
		if !entries[0].Has(PermissionWrite) {
			t.Errorf("entry should grant write")
		}
		if entries[0].Has(PermissionManage) {
			t.Errorf("entry should not grant manage")
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		if _, err := DecodePermissionEntries([]byte(`{not json`)); err == nil {
			t.Fatal("expected error for malformed payload")
		}
	})

	t.Run("stored payload violating invariants is rejected", func(t *testing.T) {
		payload := []byte(`[{"user_id":"u1","permissions":["read"]},{"user_id":"u1","permissions":["write"]}]`)
		if _, err := DecodePermissionEntries(payload); err == nil {
			t.Fatal("expected error for duplicate user in stored payload")
		}
	})
}

func TestEncodePermissionEntries(t *testing.T) {
	t.Run("nil encodes to json null", func(t *testing.T) {
		data, err := EncodePermissionEntries(nil)
		if err != nil {
			t.Fatalf("EncodePermissionEntries(nil) error = %v", err)
		}
		if string(data) != "null" {
			t.Errorf("EncodePermissionEntries(nil) = %s, want null", data)
		}
	})

	t.Run("round trip preserves order", func(t *testing.T) {
		entries := []PermissionEntry{
			{UserID: "u2", Permissions: []PermissionKind{PermissionManage}},
			{UserID: "u1", Permissions: []PermissionKind{PermissionRead}},
		}
		data, err := EncodePermissionEntries(entries)
		if err != nil {
			t.Fatalf("EncodePermissionEntries() error = %v", err)
		}
		decoded, err := DecodePermissionEntries(data)
		if err != nil {
			t.Fatalf("DecodePermissionEntries() error = %v", err)
		}
		if len(decoded) != 2 || decoded[0].UserID != "u2" || decoded[1].UserID != "u1" {
			t.Errorf("round trip reordered entries: %v", decoded)
		}
	})
}

func TestKindAndScopeValidity(t *testing.T) {
	for _, kind := range []PermissionKind{PermissionRead, PermissionWrite, PermissionDelete, PermissionShare, PermissionManage} {
		if !kind.Valid() {
			t.Errorf("%s should be valid", kind)
		}
	}
	if PermissionKind("owner").Valid() {
		t.Error("owner should not be a valid kind")
	}

	for _, scope := range []ScopeLevel{ScopeCompany, ScopeDepartment, ScopeDivision} {
		if !scope.Valid() {
			t.Errorf("%s should be valid", scope)
		}
	}
	if ScopeLevel("team").Valid() {
		t.Error("team should not be a valid scope")
	}

	if !ResourceFolder.Valid() || !ResourceFile.Valid() {
		t.Error("folder and file should be valid resource types")
	}
	if ResourceType("document").Valid() {
		t.Error("document should not be a valid resource type")
	}
}
