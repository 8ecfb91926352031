package directory

import (
	"context"

	"doctracker/internal/domain/models/directory"
)

// UserRepository defines data access operations for users and their
// organizational memberships.
type UserRepository interface {
	// GetByID retrieves a user with department memberships populated.
	// Looked up fresh per permission check - no caching, so a check always
	// reflects current org membership.
	GetByID(ctx context.Context, id string) (*directory.User, error)

	// ListByCompany lists all users in a company
	ListByCompany(ctx context.Context, companyID string) ([]directory.User, error)

	// Create creates a new user
	Create(ctx context.Context, user *directory.User) error

	// AddToDepartment records a department membership
	AddToDepartment(ctx context.Context, userID, departmentID string) error

	// RemoveFromDepartment removes a department membership
	RemoveFromDepartment(ctx context.Context, userID, departmentID string) error
}

// OrgRepository defines data access for the organizational structure.
// Used by seeding and the directory handlers; the resolver itself only
// needs UserRepository.
type OrgRepository interface {
	CreateCompany(ctx context.Context, company *directory.Company) error
	CreateDepartment(ctx context.Context, department *directory.Department) error
	CreateDivision(ctx context.Context, division *directory.Division) error
	GetCompany(ctx context.Context, id string) (*directory.Company, error)
	ListDepartments(ctx context.Context, companyID string) ([]directory.Department, error)
}
