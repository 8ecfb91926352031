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

// PostgresOrgRepository implements the OrgRepository interface
type PostgresOrgRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewOrgRepository creates a new org repository
func NewOrgRepository(config *postgres.RepositoryConfig) directoryRepo.OrgRepository {
	return &PostgresOrgRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// CreateCompany creates a new company
func (r *PostgresOrgRepository) CreateCompany(ctx context.Context, company *models.Company) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING created_at, updated_at
	`, r.tables.Companies)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, company.ID, company.Name).
		Scan(&company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("company %q already exists", company.Name),
				ResourceType: "company",
				ResourceID:   company.ID,
			}
		}
		return fmt.Errorf("create company: %w", err)
	}
	return nil
}

// CreateDepartment creates a new department
func (r *PostgresOrgRepository) CreateDepartment(ctx context.Context, department *models.Department) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, company_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING created_at, updated_at
	`, r.tables.Departments)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, department.ID, department.CompanyID, department.Name).
		Scan(&department.CreatedAt, &department.UpdatedAt)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("department %q already exists", department.Name),
				ResourceType: "department",
				ResourceID:   department.ID,
			}
		}
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

// CreateDivision creates a new division
func (r *PostgresOrgRepository) CreateDivision(ctx context.Context, division *models.Division) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, company_id, department_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at
	`, r.tables.Divisions)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, division.ID, division.CompanyID, division.DepartmentID, division.Name).
		Scan(&division.CreatedAt, &division.UpdatedAt)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("division %q already exists", division.Name),
				ResourceType: "division",
				ResourceID:   division.ID,
			}
		}
		return fmt.Errorf("create division: %w", err)
	}
	return nil
}

// GetCompany retrieves a company by ID
func (r *PostgresOrgRepository) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	query := fmt.Sprintf(`
		SELECT id, name, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Companies)

	var company models.Company
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&company.ID,
		&company.Name,
		&company.CreatedAt,
		&company.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("company %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &company, nil
}

// ListDepartments lists all departments in a company, ordered by name
func (r *PostgresOrgRepository) ListDepartments(ctx context.Context, companyID string) ([]models.Department, error) {
	query := fmt.Sprintf(`
		SELECT id, company_id, name, created_at, updated_at
		FROM %s
		WHERE company_id = $1
		ORDER BY name
	`, r.tables.Departments)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var departments []models.Department
	for rows.Next() {
		var department models.Department
		err := rows.Scan(
			&department.ID,
			&department.CompanyID,
			&department.Name,
			&department.CreatedAt,
			&department.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		departments = append(departments, department)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate departments: %w", err)
	}

	if departments == nil {
		departments = []models.Department{}
	}

	return departments, nil
}
