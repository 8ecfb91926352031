package handler

import (
	"log/slog"
	"net/http"

	models "doctracker/internal/domain/models/docstore"
	docstoreSvc "doctracker/internal/domain/services/docstore"
	"doctracker/internal/httputil"
)

// FileHandler handles file and file link HTTP requests
type FileHandler struct {
	fileService docstoreSvc.FileService
	logger      *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService docstoreSvc.FileService, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		logger:      logger,
	}
}

// CreateFile creates a new file, optionally linking it into a folder
// POST /api/files
func (h *FileHandler) CreateFile(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req docstoreSvc.CreateFileRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.UserID = userID

	file, err := h.fileService.CreateFile(r.Context(), &req)
	if err != nil {
		HandleCreateConflict(w, err, func(id string) (*models.File, error) {
			return h.fileService.GetFile(r.Context(), userID, id)
		})
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, file)
}

// GetFile retrieves a file by ID
// GET /api/files/{id}
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	fileID, ok := PathParam(w, r, "id", "File ID")
	if !ok {
		return
	}

	userID := httputil.GetUserID(r)
	file, err := h.fileService.GetFile(r.Context(), userID, fileID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, file)
}

// UpdateFile updates a file (rename)
// PATCH /api/files/{id}
func (h *FileHandler) UpdateFile(w http.ResponseWriter, r *http.Request) {
	fileID, ok := PathParam(w, r, "id", "File ID")
	if !ok {
		return
	}

	userID := httputil.GetUserID(r)
	var req docstoreSvc.UpdateFileRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	file, err := h.fileService.UpdateFile(r.Context(), userID, fileID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, file)
}

// DeleteFile deletes a file and all its links
// DELETE /api/files/{id}
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	fileID, ok := PathParam(w, r, "id", "File ID")
	if !ok {
		return
	}

	userID := httputil.GetUserID(r)
	if err := h.fileService.DeleteFile(r.Context(), userID, fileID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListLinks lists every folder a file is filed into
// GET /api/files/{id}/links
func (h *FileHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	fileID, ok := PathParam(w, r, "id", "File ID")
	if !ok {
		return
	}

	userID := httputil.GetUserID(r)
	links, err := h.fileService.ListLinks(r.Context(), userID, fileID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, links)
}

// linkRequest names the folder a file should be filed into
type linkRequest struct {
	FolderID string `json:"folder_id"`
}

// LinkFile files a file into a folder
// POST /api/files/{id}/links
func (h *FileHandler) LinkFile(w http.ResponseWriter, r *http.Request) {
	fileID, ok := PathParam(w, r, "id", "File ID")
	if !ok {
		return
	}

	var req linkRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.FolderID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "folder_id is required")
		return
	}

	userID := httputil.GetUserID(r)
	link, err := h.fileService.LinkFile(r.Context(), userID, fileID, req.FolderID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, link)
}

// UnlinkFile removes a file from a folder
// DELETE /api/files/{id}/links/{folderID}
func (h *FileHandler) UnlinkFile(w http.ResponseWriter, r *http.Request) {
	fileID, ok := PathParam(w, r, "id", "File ID")
	if !ok {
		return
	}
	folderID, ok := PathParam(w, r, "folderID", "Folder ID")
	if !ok {
		return
	}

	userID := httputil.GetUserID(r)
	if err := h.fileService.UnlinkFile(r.Context(), userID, fileID, folderID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetPermissions returns the file's resolved permission view, link-scoped
// when folder_id is given
// GET /api/files/{id}/permissions?folder_id=:id
func (h *FileHandler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	fileID, ok := PathParam(w, r, "id", "File ID")
	if !ok {
		return
	}

	userID := httputil.GetUserID(r)
	var folderID *string
	if v := r.URL.Query().Get("folder_id"); v != "" {
		folderID = &v
	}

	view, err := h.fileService.GetFilePermissions(r.Context(), userID, fileID, folderID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, view)
}

// UpdateLinkPermissions replaces the permission list on one file link
// PUT /api/files/{id}/links/{folderID}/permissions
func (h *FileHandler) UpdateLinkPermissions(w http.ResponseWriter, r *http.Request) {
	fileID, ok := PathParam(w, r, "id", "File ID")
	if !ok {
		return
	}
	folderID, ok := PathParam(w, r, "folderID", "Folder ID")
	if !ok {
		return
	}

	userID := httputil.GetUserID(r)
	var req docstoreSvc.UpdatePermissionsRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	link, err := h.fileService.UpdateLinkPermissions(r.Context(), userID, fileID, folderID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, link)
}
