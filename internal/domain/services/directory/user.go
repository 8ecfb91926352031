package directory

import (
	"context"

	"doctracker/internal/domain/models/directory"
)

// UserService handles user and membership business logic
type UserService interface {
	// GetUser retrieves a user with department memberships
	GetUser(ctx context.Context, id string) (*directory.User, error)

	// ListUsers lists users in a company
	ListUsers(ctx context.Context, companyID string) ([]directory.User, error)

	// CreateUser creates a new user
	CreateUser(ctx context.Context, req *CreateUserRequest) (*directory.User, error)

	// AddToDepartment records a department membership
	AddToDepartment(ctx context.Context, userID, departmentID string) error

	// RemoveFromDepartment removes a department membership
	RemoveFromDepartment(ctx context.Context, userID, departmentID string) error
}

// CreateUserRequest represents a user creation request
type CreateUserRequest struct {
	CompanyID string `json:"company_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Master    bool   `json:"master"`
}
