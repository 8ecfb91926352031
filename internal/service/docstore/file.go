package docstore

import (
	"context"
	"fmt"
	"log/slog"
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

type fileService struct {
	fileRepo   docstoreRepo.FileRepository
	folderRepo docstoreRepo.FolderRepository
	linkRepo   docstoreRepo.ResourceLinkRepository
	userRepo   directoryRepo.UserRepository
	resolver   authz.Resolver
	registry   *roles.Registry
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewFileService creates a new file service
func NewFileService(
	fileRepo docstoreRepo.FileRepository,
	folderRepo docstoreRepo.FolderRepository,
	linkRepo docstoreRepo.ResourceLinkRepository,
	userRepo directoryRepo.UserRepository,
	resolver authz.Resolver,
	registry *roles.Registry,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) docstoreSvc.FileService {
	return &fileService{
		fileRepo:   fileRepo,
		folderRepo: folderRepo,
		linkRepo:   linkRepo,
		userRepo:   userRepo,
		resolver:   resolver,
		registry:   registry,
		txManager:  txManager,
		logger:     logger,
	}
}

// CreateFile creates a new file record, optionally linking it into a
// folder in the same transaction
func (s *fileService) CreateFile(ctx context.Context, req *docstoreSvc.CreateFileRequest) (*models.File, error) {
	if req.FolderID != nil && *req.FolderID == "" {
		req.FolderID = nil
	}

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	user, err := s.requireUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !user.Master && user.CompanyID != req.CompanyID {
		return nil, &domain.ForbiddenError{Message: "cannot create files in another company"}
	}

	if req.FolderID != nil {
		folder, err := s.folderRepo.GetByID(ctx, *req.FolderID)
		if err != nil {
			return nil, err
		}
		if folder.CompanyID != req.CompanyID {
			return nil, fmt.Errorf("%w: folder belongs to another company", domain.ErrValidation)
		}
		if err := s.authorizeFolder(ctx, user, models.PermissionWrite, folder.ID); err != nil {
			return nil, err
		}
	}

	file := &models.File{
		ID:           uuid.NewString(),
		CompanyID:    req.CompanyID,
		DepartmentID: req.DepartmentID,
		DivisionID:   req.DivisionID,
		ScopeLevel:   models.ScopeLevel(req.ScopeLevel),
		Name:         strings.TrimSpace(req.Name),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.fileRepo.Create(ctx, file); err != nil {
			return err
		}
		if req.FolderID != nil {
			return s.linkRepo.Create(ctx, &models.ResourceLink{
				FileID:   file.ID,
				FolderID: *req.FolderID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("file created",
		"id", file.ID,
		"name", file.Name,
		"company_id", file.CompanyID,
		"scope_level", file.ScopeLevel,
		"folder_id", req.FolderID,
	)

	return file, nil
}

// GetFile retrieves a file
func (s *fileService) GetFile(ctx context.Context, userID, fileID string) (*models.File, error) {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeFile(ctx, user, models.PermissionRead, fileID); err != nil {
		return nil, err
	}

	return s.fileRepo.GetByID(ctx, fileID)
}

// UpdateFile updates a file (rename)
func (s *fileService) UpdateFile(ctx context.Context, userID, fileID string, req *docstoreSvc.UpdateFileRequest) (*models.File, error) {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeFile(ctx, user, models.PermissionWrite, fileID); err != nil {
		return nil, err
	}

	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		file.Name = strings.TrimSpace(*req.Name)
	}
	file.UpdatedAt = time.Now()

	if err := s.fileRepo.Update(ctx, file); err != nil {
		return nil, err
	}

	s.logger.Info("file updated", "id", file.ID, "name", file.Name)

	return file, nil
}

// DeleteFile deletes a file; its links are removed by the storage layer
func (s *fileService) DeleteFile(ctx context.Context, userID, fileID string) error {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.authorizeFile(ctx, user, models.PermissionDelete, fileID); err != nil {
		return err
	}

	if err := s.fileRepo.Delete(ctx, fileID); err != nil {
		return err
	}

	s.logger.Info("file deleted", "id", fileID)
	return nil
}

// LinkFile files a file into a folder. The new link starts with no
// explicit permissions (NULL in storage).
func (s *fileService) LinkFile(ctx context.Context, userID, fileID, folderID string) (*models.ResourceLink, error) {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeFile(ctx, user, models.PermissionShare, fileID); err != nil {
		return nil, err
	}
	if err := s.authorizeFolder(ctx, user, models.PermissionWrite, folderID); err != nil {
		return nil, err
	}

	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if file.CompanyID != folder.CompanyID {
		return nil, fmt.Errorf("%w: file and folder belong to different companies", domain.ErrValidation)
	}

	link := &models.ResourceLink{
		FileID:   fileID,
		FolderID: folderID,
	}
	if err := s.linkRepo.Create(ctx, link); err != nil {
		return nil, err
	}

	s.logger.Info("file linked", "file_id", fileID, "folder_id", folderID)
	return link, nil
}

// UnlinkFile removes a file from a folder
func (s *fileService) UnlinkFile(ctx context.Context, userID, fileID, folderID string) error {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.authorizeFile(ctx, user, models.PermissionShare, fileID); err != nil {
		return err
	}

	if err := s.linkRepo.Delete(ctx, fileID, folderID); err != nil {
		return err
	}

	s.logger.Info("file unlinked", "file_id", fileID, "folder_id", folderID)
	return nil
}

// ListLinks lists every folder a file is filed into
func (s *fileService) ListLinks(ctx context.Context, userID, fileID string) ([]models.ResourceLink, error) {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeFile(ctx, user, models.PermissionRead, fileID); err != nil {
		return nil, err
	}

	return s.linkRepo.ListByFile(ctx, fileID)
}

// GetFilePermissions returns the file's resolved permission view
func (s *fileService) GetFilePermissions(ctx context.Context, userID, fileID string, folderID *string) (*models.FilePermissionView, error) {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeFile(ctx, user, models.PermissionRead, fileID); err != nil {
		return nil, err
	}

	return s.resolver.ResolveFilePermissions(ctx, fileID, folderID)
}

// UpdateLinkPermissions replaces the permission list on one link.
// Requires manage on the file; master users bypass the check.
func (s *fileService) UpdateLinkPermissions(ctx context.Context, userID, fileID, folderID string, req *docstoreSvc.UpdatePermissionsRequest) (*models.ResourceLink, error) {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeFile(ctx, user, models.PermissionManage, fileID); err != nil {
		return nil, err
	}

	entries, err := expandEntries(s.registry, req)
	if err != nil {
		return nil, err
	}

	return s.resolver.UpdateFileLinkPermissions(ctx, fileID, folderID, entries, userID)
}

func (s *fileService) requireUser(ctx context.Context, userID string) (*directory.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, &domain.UnauthorizedError{Message: "unknown user"}
	}
	return user, nil
}

func (s *fileService) authorizeFile(ctx context.Context, user *directory.User, kind models.PermissionKind, fileID string) error {
	if user.Master {
		return nil
	}
	if s.resolver.CheckPermission(ctx, user.ID, models.ResourceFile, fileID, kind) {
		return nil
	}
	return &domain.ForbiddenError{Message: fmt.Sprintf("missing %s permission on file", kind)}
}

func (s *fileService) authorizeFolder(ctx context.Context, user *directory.User, kind models.PermissionKind, folderID string) error {
	if user.Master {
		return nil
	}
	if s.resolver.CheckPermission(ctx, user.ID, models.ResourceFolder, folderID, kind) {
		return nil
	}
	return &domain.ForbiddenError{Message: fmt.Sprintf("missing %s permission on folder", kind)}
}

// validateCreateRequest validates a file creation request
func (s *fileService) validateCreateRequest(req *docstoreSvc.CreateFileRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.CompanyID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFileNameLength),
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

// validateUpdateRequest validates a file update request
func (s *fileService) validateUpdateRequest(req *docstoreSvc.UpdateFileRequest) error {
	if req.Name == nil {
		return fmt.Errorf("at least one field must be provided")
	}
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFileNameLength),
		),
	)
}
