package authz

import (
	"context"
	"log/slog"
	"time"

	"doctracker/internal/domain/models/docstore"
)

// PermissionChange describes a successful whole-list permission overwrite.
type PermissionChange struct {
	ResourceType docstore.ResourceType
	ResourceID   string
	// FolderID is set for file link updates (the link the change targeted)
	FolderID   *string
	ActorID    string
	Entries    []docstore.PermissionEntry
	OccurredAt time.Time
}

// PermissionAuditor is notified after every successful permission update.
// Audit persistence and change notifications live behind this interface,
// outside the resolver; the default implementation just logs.
type PermissionAuditor interface {
	PermissionsChanged(ctx context.Context, change PermissionChange)
}

// LogAuditor writes permission changes to the structured log.
type LogAuditor struct {
	logger *slog.Logger
}

// NewLogAuditor creates an auditor that records changes via slog
func NewLogAuditor(logger *slog.Logger) *LogAuditor {
	return &LogAuditor{logger: logger}
}

// PermissionsChanged implements PermissionAuditor
func (a *LogAuditor) PermissionsChanged(ctx context.Context, change PermissionChange) {
	attrs := []any{
		"resource_type", change.ResourceType,
		"resource_id", change.ResourceID,
		"actor_id", change.ActorID,
		"entry_count", len(change.Entries),
	}
	if change.FolderID != nil {
		attrs = append(attrs, "folder_id", *change.FolderID)
	}
	a.logger.Info("permissions changed", attrs...)
}
