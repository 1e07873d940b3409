package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/drivebox/apiserver/internal/services"
	"github.com/drivebox/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// FileHandler provides the simulated file listing and upload
// endpoints. No file content is stored or read anywhere.
type FileHandler struct {
	files *services.FileService
}

func NewFileHandler(files *services.FileService) *FileHandler {
	return &FileHandler{files: files}
}

// FileRouter registers file routes on the given router. All routes
// require authentication.
func FileRouter(r chi.Router, files *services.FileService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewFileHandler(files)

	r.Use(authMiddleware)
	r.Get("/", handler.List)
	r.Post("/upload", handler.Upload)
}

// List returns a fabricated file listing for the account.
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgTokenInvalid)
		return
	}

	files, err := h.files.List(r.Context(), claims.AccountID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FileListResponse{Files: files})
}

// Upload simulates an upload: it charges the declared size against the
// account's quota and fabricates a file record.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgTokenInvalid)
		return
	}

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if req.Size <= 0 {
		writeError(w, http.StatusBadRequest, msgInvalidFileSize)
		return
	}

	file, account, err := h.files.Upload(r.Context(), claims.AccountID, strings.TrimSpace(req.Name), req.Size)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, UploadResponse{
		File:         file,
		StorageUsed:  account.StorageUsed,
		StorageLimit: account.StorageLimit,
	})
}

type UploadRequest struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

type UploadResponse struct {
	File         types.File `json:"file"`
	StorageUsed  int64      `json:"storageUsed"`
	StorageLimit int64      `json:"storageLimit"`
}

type FileListResponse struct {
	Files []types.File `json:"files"`
}
