package docstore

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"doctracker/internal/config"
	"doctracker/internal/domain"
	"doctracker/internal/domain/models/directory"
	models "doctracker/internal/domain/models/docstore"
	"doctracker/internal/domain/repositories"
	directoryRepo "doctracker/internal/domain/repositories/directory"
	docstoreRepo "doctracker/internal/domain/repositories/docstore"
	docstoreSvc "doctracker/internal/domain/services/docstore"
	"doctracker/internal/roles"
	"doctracker/internal/service/authz"
)

var folderNamePattern = regexp.MustCompile(`^[^/]+$`)

type folderService struct {
	folderRepo docstoreRepo.FolderRepository
	fileRepo   docstoreRepo.FileRepository
	linkRepo   docstoreRepo.ResourceLinkRepository
	userRepo   directoryRepo.UserRepository
	resolver   authz.Resolver
	registry   *roles.Registry
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo docstoreRepo.FolderRepository,
	fileRepo docstoreRepo.FileRepository,
	linkRepo docstoreRepo.ResourceLinkRepository,
	userRepo directoryRepo.UserRepository,
	resolver authz.Resolver,
	registry *roles.Registry,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) docstoreSvc.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		linkRepo:   linkRepo,
		userRepo:   userRepo,
		resolver:   resolver,
		registry:   registry,
		txManager:  txManager,
		logger:     logger,
	}
}

// CreateFolder creates a new folder
func (s *folderService) CreateFolder(ctx context.Context, req *docstoreSvc.CreateFolderRequest) (*models.Folder, error) {
	// Normalize empty string to nil for root-level folders
	if req.ParentFolderID != nil && *req.ParentFolderID == "" {
		req.ParentFolderID = nil
	}

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	user, err := s.requireUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !user.Master && user.CompanyID != req.CompanyID {
		return nil, &domain.ForbiddenError{Message: "cannot create folders in another company"}
	}

	if req.ParentFolderID != nil {
		parent, err := s.folderRepo.GetByID(ctx, *req.ParentFolderID)
		if err != nil {
			return nil, err
		}
		if parent.CompanyID != req.CompanyID {
			return nil, fmt.Errorf("%w: parent folder belongs to another company", domain.ErrValidation)
		}
		if err := s.authorize(ctx, user, models.PermissionWrite, parent.ID); err != nil {
			return nil, err
		}
	}

	name := strings.TrimSpace(req.Name)

	// Check for duplicate name among siblings
	siblings, err := s.folderRepo.ListChildren(ctx, req.ParentFolderID, req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate names: %w", err)
	}
	for _, sibling := range siblings {
		if sibling.Name == name {
			return nil, &domain.ConflictError{
				Message:      fmt.Sprintf("a folder named %q already exists in this location", name),
				ResourceType: "folder",
				ResourceID:   sibling.ID,
			}
		}
	}

	folder := &models.Folder{
		ID:             uuid.NewString(),
		CompanyID:      req.CompanyID,
		DepartmentID:   req.DepartmentID,
		DivisionID:     req.DivisionID,
		ScopeLevel:     models.ScopeLevel(req.ScopeLevel),
		ParentFolderID: req.ParentFolderID,
		Name:           name,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"company_id", folder.CompanyID,
		"scope_level", folder.ScopeLevel,
		"parent_folder_id", folder.ParentFolderID,
	)

	return folder, nil
}

// GetFolder retrieves a folder
// Authorization is checked first: read via scope or explicit grant
func (s *folderService) GetFolder(ctx context.Context, userID, folderID string) (*models.Folder, error) {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, user, models.PermissionRead, folderID); err != nil {
		return nil, err
	}

	return s.folderRepo.GetByID(ctx, folderID)
}

// UpdateFolder updates a folder (rename or move)
func (s *folderService) UpdateFolder(ctx context.Context, userID, folderID string, req *docstoreSvc.UpdateFolderRequest) (*models.Folder, error) {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, user, models.PermissionWrite, folderID); err != nil {
		return nil, err
	}

	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		folder.Name = strings.TrimSpace(*req.Name)
	}

	if req.ToRoot {
		folder.ParentFolderID = nil
		s.logger.Debug("moving folder to root", "folder_id", folderID)
	} else if req.ParentFolderID != nil {
		parent, err := s.folderRepo.GetByID(ctx, *req.ParentFolderID)
		if err != nil {
			return nil, fmt.Errorf("parent folder not found: %w", err)
		}
		if parent.CompanyID != folder.CompanyID {
			return nil, fmt.Errorf("%w: cannot move folder into another company", domain.ErrValidation)
		}
		if err := s.validateNoCircularReference(ctx, folderID, parent.ID); err != nil {
			return nil, err
		}
		folder.ParentFolderID = &parent.ID
		s.logger.Debug("moving folder to new parent",
			"folder_id", folderID,
			"parent_folder_id", parent.ID,
		)
	}

	// Check for duplicate name in the target location
	siblings, err := s.folderRepo.ListChildren(ctx, folder.ParentFolderID, folder.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate names: %w", err)
	}
	for _, sibling := range siblings {
		if sibling.ID != folder.ID && sibling.Name == folder.Name {
			return nil, &domain.ConflictError{
				Message:      fmt.Sprintf("a folder named %q already exists in this location", folder.Name),
				ResourceType: "folder",
				ResourceID:   sibling.ID,
			}
		}
	}

	folder.UpdatedAt = time.Now()

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"id", folder.ID,
		"name", folder.Name,
		"parent_folder_id", folder.ParentFolderID,
	)

	return folder, nil
}

// DeleteFolder soft-deletes a folder, its descendant folders, and the
// links filing files into any of them. Runs in a single transaction so a
// partial failure leaves the tree intact.
func (s *folderService) DeleteFolder(ctx context.Context, userID, folderID string) error {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, user, models.PermissionDelete, folderID); err != nil {
		return err
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return err
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.deleteDescendants(ctx, folderID, folder.CompanyID); err != nil {
			return err
		}
		if err := s.unlinkFolder(ctx, folderID); err != nil {
			return err
		}
		_, err := s.folderRepo.Delete(ctx, folderID)
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"id", folderID,
		"name", folder.Name,
		"company_id", folder.CompanyID,
	)

	return nil
}

// deleteDescendants soft-deletes all child folders depth-first
func (s *folderService) deleteDescendants(ctx context.Context, folderID, companyID string) error {
	children, err := s.folderRepo.ListChildren(ctx, &folderID, companyID)
	if err != nil {
		return fmt.Errorf("failed to list child folders: %w", err)
	}

	for _, child := range children {
		if err := s.deleteDescendants(ctx, child.ID, companyID); err != nil {
			return err
		}
		if err := s.unlinkFolder(ctx, child.ID); err != nil {
			return err
		}
		if _, err := s.folderRepo.Delete(ctx, child.ID); err != nil {
			return fmt.Errorf("failed to delete child folder %q: %w", child.Name, err)
		}
		s.logger.Debug("deleted child folder", "id", child.ID, "name", child.Name)
	}

	return nil
}

// unlinkFolder removes every link filing a file into the folder
func (s *folderService) unlinkFolder(ctx context.Context, folderID string) error {
	links, err := s.linkRepo.ListByFolder(ctx, folderID)
	if err != nil {
		return fmt.Errorf("failed to list links: %w", err)
	}
	for _, link := range links {
		if err := s.linkRepo.Delete(ctx, link.FileID, folderID); err != nil {
			return fmt.Errorf("failed to unlink file %s: %w", link.FileID, err)
		}
	}
	return nil
}

// ListChildren lists a folder's child folders and linked files
func (s *folderService) ListChildren(ctx context.Context, userID string, folderID *string, companyID string) (*docstoreSvc.FolderContents, error) {
	// Normalize empty string to nil for root-level listing
	if folderID != nil && *folderID == "" {
		folderID = nil
	}

	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var folder *models.Folder
	if folderID != nil {
		if err := s.authorize(ctx, user, models.PermissionRead, *folderID); err != nil {
			return nil, err
		}
		folder, err = s.folderRepo.GetByID(ctx, *folderID)
		if err != nil {
			return nil, err
		}
		companyID = folder.CompanyID
	} else if !user.Master && user.CompanyID != companyID {
		return nil, &domain.ForbiddenError{Message: "cannot list folders of another company"}
	}

	children, err := s.folderRepo.ListChildren(ctx, folderID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list child folders: %w", err)
	}

	files := []models.File{}
	if folderID != nil {
		links, err := s.linkRepo.ListByFolder(ctx, *folderID)
		if err != nil {
			return nil, fmt.Errorf("failed to list links: %w", err)
		}
		for _, link := range links {
			file, err := s.fileRepo.GetByID(ctx, link.FileID)
			if err != nil {
				// A dangling link is storage inconsistency, not a reason to
				// fail the whole listing
				s.logger.Warn("skipping dangling link", "file_id", link.FileID, "folder_id", *folderID, "error", err)
				continue
			}
			files = append(files, *file)
		}
	}

	return &docstoreSvc.FolderContents{
		Folder:  folder,
		Folders: children,
		Files:   files,
	}, nil
}

// GetFolderPermissions returns the folder's resolved permission view
func (s *folderService) GetFolderPermissions(ctx context.Context, userID, folderID string) (*models.FolderPermissionView, error) {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, user, models.PermissionRead, folderID); err != nil {
		return nil, err
	}

	return s.resolver.ResolveFolderPermissions(ctx, folderID)
}

// UpdateFolderPermissions replaces the folder's whole explicit permission
// list. Requires manage on the folder; master users bypass the check.
func (s *folderService) UpdateFolderPermissions(ctx context.Context, userID, folderID string, req *docstoreSvc.UpdatePermissionsRequest) (*models.Folder, error) {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, user, models.PermissionManage, folderID); err != nil {
		return nil, err
	}

	entries, err := expandEntries(s.registry, req)
	if err != nil {
		return nil, err
	}

	return s.resolver.UpdateFolderPermissions(ctx, folderID, entries, userID)
}

// requireUser loads the acting user; an unknown user is an authorization
// failure, not a lookup miss.
func (s *folderService) requireUser(ctx context.Context, userID string) (*directory.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, &domain.UnauthorizedError{Message: "unknown user"}
	}
	return user, nil
}

// authorize enforces a permission kind on a folder. Master users bypass.
func (s *folderService) authorize(ctx context.Context, user *directory.User, kind models.PermissionKind, folderID string) error {
	if user.Master {
		return nil
	}
	if s.resolver.CheckPermission(ctx, user.ID, models.ResourceFolder, folderID, kind) {
		return nil
	}
	return &domain.ForbiddenError{Message: fmt.Sprintf("missing %s permission on folder", kind)}
}

// validateCreateRequest validates a folder creation request
func (s *folderService) validateCreateRequest(req *docstoreSvc.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.CompanyID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
			validation.Match(folderNamePattern).Error("folder name cannot contain slashes"),
		),
		validation.Field(&req.ScopeLevel,
			validation.Required,
			validation.In("company", "department", "division"),
		),
		validation.Field(&req.DepartmentID,
			validation.Required.When(req.ScopeLevel == string(models.ScopeDepartment)).
				Error("department_id is required for department scope"),
		),
		validation.Field(&req.DivisionID,
			validation.Required.When(req.ScopeLevel == string(models.ScopeDivision)).
				Error("division_id is required for division scope"),
		),
	)
}

// validateUpdateRequest validates a folder update request
func (s *folderService) validateUpdateRequest(req *docstoreSvc.UpdateFolderRequest) error {
	if req.Name == nil && req.ParentFolderID == nil && !req.ToRoot {
		return fmt.Errorf("at least one field must be provided")
	}
	if req.ParentFolderID != nil && req.ToRoot {
		return fmt.Errorf("parent_folder_id and to_root are mutually exclusive")
	}

	if req.Name != nil {
		return validation.ValidateStruct(req,
			validation.Field(&req.Name,
				validation.Required,
				validation.Length(1, config.MaxFolderNameLength),
				validation.Match(folderNamePattern).Error("folder name cannot contain slashes"),
			),
		)
	}
	return nil
}

// validateNoCircularReference ensures moving a folder won't create a cycle.
// The walk carries a visited set so corrupted parent chains cannot loop it.
func (s *folderService) validateNoCircularReference(ctx context.Context, folderID, newParentID string) error {
	if folderID == newParentID {
		return fmt.Errorf("%w: cannot move folder to be its own parent", domain.ErrValidation)
	}

	visited := map[string]bool{newParentID: true}
	currentID := newParentID
	for {
		current, err := s.folderRepo.GetByID(ctx, currentID)
		if err != nil {
			return err
		}
		if current.ParentFolderID == nil {
			return nil
		}
		parentID := *current.ParentFolderID
		if parentID == folderID {
			return fmt.Errorf("%w: cannot move folder under its own descendant", domain.ErrValidation)
		}
		if visited[parentID] {
			return nil
		}
		visited[parentID] = true
		currentID = parentID
	}
}
