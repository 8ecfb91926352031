package docstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"doctracker/internal/domain"
	models "doctracker/internal/domain/models/docstore"
	docstoreRepo "doctracker/internal/domain/repositories/docstore"
	"doctracker/internal/repository/postgres"
)

// PostgresResourceLinkRepository implements the ResourceLinkRepository
// interface. Like folders, link permission lists live in a JSONB column
// validated on read; unlike folders, the column is nullable and NULL means
// "link carries no explicit grants".
type PostgresResourceLinkRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewResourceLinkRepository creates a new resource link repository
func NewResourceLinkRepository(config *postgres.RepositoryConfig) docstoreRepo.ResourceLinkRepository {
	return &PostgresResourceLinkRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const linkColumns = "file_id, folder_id, permissions, created_at, updated_at"

// Create files a file into a folder
func (r *PostgresResourceLinkRepository) Create(ctx context.Context, link *models.ResourceLink) error {
	permissions, err := models.EncodePermissionEntries(link.Permissions)
	if err != nil {
		return fmt.Errorf("create resource link: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (file_id, folder_id, permissions, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING created_at, updated_at
	`, r.tables.ResourceLinks)

	executor := postgres.GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query, link.FileID, link.FolderID, permissions).
		Scan(&link.CreatedAt, &link.UpdatedAt)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("file %s is already linked into folder %s", link.FileID, link.FolderID),
				ResourceType: "link",
				ResourceID:   link.FileID,
			}
		}
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("file or folder: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create resource link: %w", err)
	}

	return nil
}

// Get retrieves the link keyed by (fileID, folderID)
func (r *PostgresResourceLinkRepository) Get(ctx context.Context, fileID, folderID string) (*models.ResourceLink, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE file_id = $1 AND folder_id = $2
	`, linkColumns, r.tables.ResourceLinks)

	executor := postgres.GetExecutor(ctx, r.pool)
	link, err := scanLink(executor.QueryRow(ctx, query, fileID, folderID))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("link (%s, %s): %w", fileID, folderID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get resource link: %w", err)
	}

	return link, nil
}

// ListByFile lists every link for a file across all folders
func (r *PostgresResourceLinkRepository) ListByFile(ctx context.Context, fileID string) ([]models.ResourceLink, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE file_id = $1
		ORDER BY folder_id
	`, linkColumns, r.tables.ResourceLinks)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, fileID)
	if err != nil {
		return nil, fmt.Errorf("list resource links: %w", err)
	}
	defer rows.Close()

	var links []models.ResourceLink
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource link: %w", err)
		}
		links = append(links, *link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resource links: %w", err)
	}

	if links == nil {
		links = []models.ResourceLink{}
	}

	return links, nil
}

// ListByFolder lists every link into a folder
func (r *PostgresResourceLinkRepository) ListByFolder(ctx context.Context, folderID string) ([]models.ResourceLink, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE folder_id = $1
		ORDER BY file_id
	`, linkColumns, r.tables.ResourceLinks)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("list resource links: %w", err)
	}
	defer rows.Close()

	var links []models.ResourceLink
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource link: %w", err)
		}
		links = append(links, *link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resource links: %w", err)
	}

	if links == nil {
		links = []models.ResourceLink{}
	}

	return links, nil
}

// UpdatePermissions replaces the link's whole permission list
func (r *PostgresResourceLinkRepository) UpdatePermissions(ctx context.Context, fileID, folderID string, entries []models.PermissionEntry) (*models.ResourceLink, error) {
	permissions, err := models.EncodePermissionEntries(entries)
	if err != nil {
		return nil, fmt.Errorf("update link permissions: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET permissions = $1, updated_at = NOW()
		WHERE file_id = $2 AND folder_id = $3
		RETURNING %s
	`, r.tables.ResourceLinks, linkColumns)

	executor := postgres.GetExecutor(ctx, r.pool)
	link, err := scanLink(executor.QueryRow(ctx, query, permissions, fileID, folderID))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("update link permissions: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update link permissions: %w", err)
	}

	return link, nil
}

// Delete removes the link
func (r *PostgresResourceLinkRepository) Delete(ctx context.Context, fileID, folderID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE file_id = $1 AND folder_id = $2
	`, r.tables.ResourceLinks)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, fileID, folderID)
	if err != nil {
		return fmt.Errorf("delete resource link: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("link (%s, %s): %w", fileID, folderID, domain.ErrNotFound)
	}

	return nil
}

// scanLink scans a link row and decodes its JSONB permission payload
func scanLink(row rowScanner) (*models.ResourceLink, error) {
	var link models.ResourceLink
	var permissions []byte

	err := row.Scan(
		&link.FileID,
		&link.FolderID,
		&permissions,
		&link.CreatedAt,
		&link.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entries, err := models.DecodePermissionEntries(permissions)
	if err != nil {
		return nil, fmt.Errorf("link (%s, %s): %w", link.FileID, link.FolderID, err)
	}
	link.Permissions = entries

	return &link, nil
}
