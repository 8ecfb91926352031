package directory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"doctracker/internal/domain"
	models "doctracker/internal/domain/models/directory"
	directoryRepo "doctracker/internal/domain/repositories/directory"
	directorySvc "doctracker/internal/domain/services/directory"
)

type userService struct {
	userRepo directoryRepo.UserRepository
	orgRepo  directoryRepo.OrgRepository
	logger   *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo directoryRepo.UserRepository,
	orgRepo directoryRepo.OrgRepository,
	logger *slog.Logger,
) directorySvc.UserService {
	return &userService{
		userRepo: userRepo,
		orgRepo:  orgRepo,
		logger:   logger,
	}
}

// GetUser retrieves a user with department memberships
func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListUsers lists users in a company
func (s *userService) ListUsers(ctx context.Context, companyID string) ([]models.User, error) {
	if _, err := s.orgRepo.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}
	return s.userRepo.ListByCompany(ctx, companyID)
}

// CreateUser creates a new user
func (s *userService) CreateUser(ctx context.Context, req *directorySvc.CreateUserRequest) (*models.User, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.orgRepo.GetCompany(ctx, req.CompanyID); err != nil {
		return nil, err
	}

	user := &models.User{
		ID:        uuid.NewString(),
		CompanyID: req.CompanyID,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Name:      strings.TrimSpace(req.Name),
		Master:    req.Master,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		"id", user.ID,
		"email", user.Email,
		"company_id", user.CompanyID,
		"master", user.Master,
	)

	return user, nil
}

// AddToDepartment records a department membership
func (s *userService) AddToDepartment(ctx context.Context, userID, departmentID string) error {
	if err := s.userRepo.AddToDepartment(ctx, userID, departmentID); err != nil {
		return err
	}
	s.logger.Info("user added to department", "user_id", userID, "department_id", departmentID)
	return nil
}

// RemoveFromDepartment removes a department membership
func (s *userService) RemoveFromDepartment(ctx context.Context, userID, departmentID string) error {
	if err := s.userRepo.RemoveFromDepartment(ctx, userID, departmentID); err != nil {
		return err
	}
	s.logger.Info("user removed from department", "user_id", userID, "department_id", departmentID)
	return nil
}

// validateCreateRequest validates a user creation request
func (s *userService) validateCreateRequest(req *directorySvc.CreateUserRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.CompanyID, validation.Required),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Name, validation.Required, validation.Length(1, 255)),
	)
}
