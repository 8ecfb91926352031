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

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *postgres.RepositoryConfig) docstoreRepo.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new file record
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, company_id, department_id, division_id, scope_level, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		file.ID,
		file.CompanyID,
		file.DepartmentID,
		file.DivisionID,
		file.ScopeLevel,
		file.Name,
	).Scan(&file.CreatedAt, &file.UpdatedAt)

	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a file named %q already exists", file.Name),
				ResourceType: "file",
				ResourceID:   file.ID,
			}
		}
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// GetByID retrieves a file by ID
func (r *PostgresFileRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	query := fmt.Sprintf(`
		SELECT id, company_id, department_id, division_id, scope_level, name, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Files)

	var file models.File
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&file.ID,
		&file.CompanyID,
		&file.DepartmentID,
		&file.DivisionID,
		&file.ScopeLevel,
		&file.Name,
		&file.CreatedAt,
		&file.UpdatedAt,
	)

	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return &file, nil
}

// Update updates a file's name and scope fields
func (r *PostgresFileRepository) Update(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, scope_level = $2, department_id = $3, division_id = $4, updated_at = NOW()
		WHERE id = $5
	`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		file.Name,
		file.ScopeLevel,
		file.DepartmentID,
		file.DivisionID,
		file.ID,
	)
	if err != nil {
		return fmt.Errorf("update file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", file.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a file record. Links reference the file with ON DELETE
// CASCADE, so they disappear with it.
func (r *PostgresFileRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
