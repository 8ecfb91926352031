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

// PostgresFolderRepository implements the FolderRepository interface.
// The explicit permission list is stored as a JSONB column and validated
// on every read: a payload that fails validation never reaches the resolver.
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *postgres.RepositoryConfig) docstoreRepo.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const folderColumns = "id, company_id, department_id, division_id, scope_level, parent_folder_id, name, permissions, created_at, updated_at, deleted_at"

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	permissions, err := models.EncodePermissionEntries(folder.Permissions)
	if err != nil {
		return fmt.Errorf("create folder: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, company_id, department_id, division_id, scope_level, parent_folder_id, name, permissions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query,
		folder.ID,
		folder.CompanyID,
		folder.DepartmentID,
		folder.DivisionID,
		folder.ScopeLevel,
		folder.ParentFolderID,
		folder.Name,
		permissions,
	).Scan(&folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			existingID, queryErr := r.getExistingFolderID(ctx, folder.CompanyID, folder.ParentFolderID, folder.Name)
			if queryErr != nil {
				return fmt.Errorf("folder %q already exists: %w", folder.Name, domain.ErrConflict)
			}
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a folder named %q already exists in this location", folder.Name),
				ResourceType: "folder",
				ResourceID:   existingID,
			}
		}
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("parent folder: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by ID, excluding soft-deleted folders
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND deleted_at IS NULL
	`, folderColumns, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return folder, nil
}

// Update updates a folder's name, parent and scope fields
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, parent_folder_id = $2, scope_level = $3, department_id = $4, division_id = $5, updated_at = NOW()
		WHERE id = $6 AND deleted_at IS NULL
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		folder.Name,
		folder.ParentFolderID,
		folder.ScopeLevel,
		folder.DepartmentID,
		folder.DivisionID,
		folder.ID,
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a folder named %q already exists in this location", folder.Name),
				ResourceType: "folder",
				ResourceID:   folder.ID,
			}
		}
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete soft-deletes a folder by setting deleted_at and returns the deleted folder
func (r *PostgresFolderRepository) Delete(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING %s
	`, r.tables.Folders, folderColumns)

	executor := postgres.GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("delete folder: %w", err)
	}

	return folder, nil
}

// ListChildren lists immediate child folders. A nil parentID lists the
// company's root-level folders.
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, parentID *string, companyID string) ([]models.Folder, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE parent_folder_id IS NULL AND company_id = $1 AND deleted_at IS NULL
			ORDER BY name
		`, folderColumns, r.tables.Folders)
		args = []interface{}{companyID}
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE parent_folder_id = $1 AND company_id = $2 AND deleted_at IS NULL
			ORDER BY name
		`, folderColumns, r.tables.Folders)
		args = []interface{}{*parentID, companyID}
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list child folders: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	if folders == nil {
		folders = []models.Folder{}
	}

	return folders, nil
}

// UpdatePermissions replaces the folder's whole explicit permission list
func (r *PostgresFolderRepository) UpdatePermissions(ctx context.Context, id string, entries []models.PermissionEntry) (*models.Folder, error) {
	permissions, err := models.EncodePermissionEntries(entries)
	if err != nil {
		return nil, fmt.Errorf("update folder permissions: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET permissions = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
		RETURNING %s
	`, r.tables.Folders, folderColumns)

	executor := postgres.GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, permissions, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update folder permissions: %w", err)
	}

	return folder, nil
}

// getExistingFolderID queries for an existing folder by location and name
func (r *PostgresFolderRepository) getExistingFolderID(ctx context.Context, companyID string, parentID *string, name string) (string, error) {
	query := fmt.Sprintf(`
		SELECT id
		FROM %s
		WHERE company_id = $1 AND parent_folder_id IS NOT DISTINCT FROM $2 AND name = $3 AND deleted_at IS NULL
	`, r.tables.Folders)

	var id string
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, companyID, parentID, name).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("get existing folder ID: %w", err)
	}

	return id, nil
}

// rowScanner lets scanFolder work for both QueryRow and rows iteration
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanFolder scans a folder row and decodes its JSONB permission payload
func scanFolder(row rowScanner) (*models.Folder, error) {
	var folder models.Folder
	var permissions []byte

	err := row.Scan(
		&folder.ID,
		&folder.CompanyID,
		&folder.DepartmentID,
		&folder.DivisionID,
		&folder.ScopeLevel,
		&folder.ParentFolderID,
		&folder.Name,
		&permissions,
		&folder.CreatedAt,
		&folder.UpdatedAt,
		&folder.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	entries, err := models.DecodePermissionEntries(permissions)
	if err != nil {
		return nil, fmt.Errorf("folder %s: %w", folder.ID, err)
	}
	folder.Permissions = entries

	return &folder, nil
}
