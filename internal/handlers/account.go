package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/drivebox/apiserver/internal/services"
	"github.com/drivebox/apiserver/internal/store"
	"github.com/drivebox/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// AccountHandler provides profile and storage-quota endpoints.
type AccountHandler struct {
	accounts *services.AccountService
}

func NewAccountHandler(accounts *services.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// AccountRouter registers profile and storage routes on the given
// router. All routes require authentication.
func AccountRouter(r chi.Router, accounts *services.AccountService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewAccountHandler(accounts)

	r.With(authMiddleware).Get("/profile", handler.GetProfile)
	r.With(authMiddleware).Put("/profile", handler.UpdateProfile)
	r.With(authMiddleware).Get("/storage", handler.GetStorage)
}

// GetProfile returns the authenticated account's sanitized view.
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgTokenInvalid)
		return
	}

	account, err := h.accounts.GetByID(r.Context(), claims.AccountID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account.Profile())
}

// UpdateProfile applies a partial update to username, email, and
// settings. Fields absent from the body are left untouched; any other
// field in the body is ignored.
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgTokenInvalid)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	patch := store.ProfilePatch{Settings: req.Settings}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			writeError(w, http.StatusBadRequest, msgMissingFields)
			return
		}
		patch.Username = &username
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" {
			writeError(w, http.StatusBadRequest, msgMissingFields)
			return
		}
		patch.Email = &email
	}

	account, err := h.accounts.UpdateProfile(r.Context(), claims.AccountID, patch)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account.Profile())
}

// GetStorage returns the account's quota counters.
func (h *AccountHandler) GetStorage(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgTokenInvalid)
		return
	}

	account, err := h.accounts.GetByID(r.Context(), claims.AccountID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, StorageResponse{
		StorageUsed:  account.StorageUsed,
		StorageLimit: account.StorageLimit,
	})
}

type UpdateProfileRequest struct {
	Username *string         `json:"username"`
	Email    *string         `json:"email"`
	Settings *types.Settings `json:"settings"`
}

type StorageResponse struct {
	StorageUsed  int64 `json:"storageUsed"`
	StorageLimit int64 `json:"storageLimit"`
}
