package directory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"doctracker/internal/domain"
	models "doctracker/internal/domain/models/directory"
	directoryRepo "doctracker/internal/domain/repositories/directory"
	"doctracker/internal/repository/postgres"
)

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewUserRepository creates a new user repository
func NewUserRepository(config *postgres.RepositoryConfig) directoryRepo.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetByID retrieves a user by ID with department memberships populated.
// Memberships are read on every call so permission checks always see the
// user's current org placement.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, company_id, email, name, master, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Users)

	var user models.User
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.CompanyID,
		&user.Email,
		&user.Name,
		&user.Master,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	departmentIDs, err := r.listDepartmentIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	user.DepartmentIDs = departmentIDs

	return &user, nil
}

// ListByCompany retrieves all users in a company, ordered by name
func (r *PostgresUserRepository) ListByCompany(ctx context.Context, companyID string) ([]models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, company_id, email, name, master, created_at, updated_at
		FROM %s
		WHERE company_id = $1
		ORDER BY name
	`, r.tables.Users)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID,
			&user.CompanyID,
			&user.Email,
			&user.Name,
			&user.Master,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	if users == nil {
		users = []models.User{}
	}

	return users, nil
}

// Create creates a new user
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, company_id, email, name, master, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`, r.tables.Users)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		user.ID,
		user.CompanyID,
		user.Email,
		user.Name,
		user.Master,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("user with email %q already exists", user.Email),
				ResourceType: "user",
				ResourceID:   user.ID,
			}
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// AddToDepartment records a department membership. Adding an existing
// membership is a no-op.
func (r *PostgresUserRepository) AddToDepartment(ctx context.Context, userID, departmentID string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, department_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, department_id) DO NOTHING
	`, r.tables.UserDepartments)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, userID, departmentID); err != nil {
		return fmt.Errorf("add department membership: %w", err)
	}
	return nil
}

// RemoveFromDepartment removes a department membership
func (r *PostgresUserRepository) RemoveFromDepartment(ctx context.Context, userID, departmentID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = $1 AND department_id = $2
	`, r.tables.UserDepartments)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, userID, departmentID)
	if err != nil {
		return fmt.Errorf("remove department membership: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("membership of user %s in department %s: %w", userID, departmentID, domain.ErrNotFound)
	}
	return nil
}

// listDepartmentIDs reads the membership rows for a user
func (r *PostgresUserRepository) listDepartmentIDs(ctx context.Context, userID string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT department_id
		FROM %s
		WHERE user_id = $1
		ORDER BY department_id
	`, r.tables.UserDepartments)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list department memberships: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan department membership: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate department memberships: %w", err)
	}

	return ids, nil
}
