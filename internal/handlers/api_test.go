package handlers

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/drivebox/apiserver/internal/auth"
	"github.com/drivebox/apiserver/internal/services"
	"github.com/drivebox/apiserver/internal/store"
	"github.com/drivebox/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) (*chi.Mux, *auth.TokenService) {
	t.Helper()

	repo := store.NewAccountRepository(store.NewMemoryBackend())
	accounts := services.NewAccountService(repo)
	files := services.NewFileService(accounts)
	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	authMiddleware := RequireAuth(tokens)

	router := chi.NewRouter()
	router.Get("/healthz", Healthz)
	router.Route("/auth", func(r chi.Router) {
		AuthRouter(r, accounts, tokens)
	})
	AccountRouter(router, accounts, authMiddleware)
	router.Route("/files", func(r chi.Router) {
		FileRouter(r, files, authMiddleware)
	})
	return router, tokens
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func register(t *testing.T, router http.Handler, username, email, password string) AuthResponse {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp AuthResponse
	decodeBody(t, rec, &resp)
	return resp
}

func TestRegisterReturnsSanitizedUser(t *testing.T) {
	router, tokens := newTestAPI(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "ana",
		"email":    "ana@x.com",
		"password": "p1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var raw struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}
	decodeBody(t, rec, &raw)

	assert.NotEmpty(t, raw.Token)
	assert.NotContains(t, raw.User, "password")
	assert.Equal(t, "ana", raw.User["username"])
	assert.Equal(t, float64(0), raw.User["storageUsed"])
	assert.Equal(t, float64(1099511627776), raw.User["storageLimit"])

	claims, err := tokens.Verify(raw.Token)
	require.NoError(t, err)
	assert.Equal(t, raw.User["id"], claims.AccountID)
	assert.Equal(t, "ana@x.com", claims.Email)
}

func TestRegisterValidation(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "ana",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Campos obrigatórios ausentes", resp.Error)
}

func TestRegisterDuplicateConflict(t *testing.T) {
	router, _ := newTestAPI(t)
	register(t, router, "ana", "ana@x.com", "p1")

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "ana",
		"email":    "other@x.com",
		"password": "p1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogin(t *testing.T) {
	router, tokens := newTestAPI(t)
	registered := register(t, router, "ana", "ana@x.com", "p1")

	rec := doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "ana@x.com",
		"password": "p1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp AuthResponse
	decodeBody(t, rec, &resp)
	claims, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.AccountID)
}

func TestLoginWrongPassword(t *testing.T) {
	router, _ := newTestAPI(t)
	register(t, router, "ana", "ana@x.com", "p1")

	for _, body := range []map[string]string{
		{"email": "ana@x.com", "password": "wrong"},
		{"email": "nobody@x.com", "password": "p1"},
	} {
		rec := doJSON(t, router, http.MethodPost, "/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var resp ErrorResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, "Credenciais inválidas", resp.Error)
	}
}

func TestRequireAuth(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := doJSON(t, router, http.MethodGet, "/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Token não fornecido", resp.Error)

	rec = doJSON(t, router, http.MethodGet, "/profile", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Token inválido", resp.Error)
}

func TestExpiredToken(t *testing.T) {
	router, _ := newTestAPI(t)
	registered := register(t, router, "ana", "ana@x.com", "p1")

	expired := auth.NewTokenService([]byte("test-secret"), -time.Minute)
	token, err := expired.Issue(registered.User.ID, registered.User.Email)
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodGet, "/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Token expirado", resp.Error)
}

func TestMeAndProfile(t *testing.T) {
	router, _ := newTestAPI(t)
	registered := register(t, router, "ana", "ana@x.com", "p1")

	for _, path := range []string{"/auth/me", "/profile"} {
		rec := doJSON(t, router, http.MethodGet, path, registered.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)

		var profile types.Profile
		decodeBody(t, rec, &profile)
		assert.Equal(t, registered.User.ID, profile.ID, path)
	}
}

func TestUpdateProfile(t *testing.T) {
	router, _ := newTestAPI(t)
	registered := register(t, router, "ana", "ana@x.com", "p1")

	rec := doJSON(t, router, http.MethodPut, "/profile", registered.Token, map[string]any{
		"username": "ana_nova",
		"settings": map[string]any{"autoSync": false, "notifications": true, "theme": "dark"},
		// disallowed field, silently ignored
		"storageLimit": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var profile types.Profile
	decodeBody(t, rec, &profile)
	assert.Equal(t, "ana_nova", profile.Username)
	assert.Equal(t, "ana@x.com", profile.Email)
	assert.Equal(t, "dark", profile.Settings.Theme)
	assert.Equal(t, types.DefaultStorageLimit, profile.StorageLimit)
}

func TestUpdateProfileDuplicateEmail(t *testing.T) {
	router, _ := newTestAPI(t)
	register(t, router, "ana", "ana@x.com", "p1")
	other := register(t, router, "bia", "bia@x.com", "p2")

	rec := doJSON(t, router, http.MethodPut, "/profile", other.Token, map[string]any{
		"email": "ana@x.com",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUploadAndStorage(t *testing.T) {
	router, _ := newTestAPI(t)
	registered := register(t, router, "ana", "ana@x.com", "p1")

	rec := doJSON(t, router, http.MethodPost, "/files/upload", registered.Token, map[string]any{
		"name": "foto.jpg",
		"size": 2048,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var uploaded UploadResponse
	decodeBody(t, rec, &uploaded)
	assert.Equal(t, "foto.jpg", uploaded.File.Name)
	assert.Equal(t, int64(2048), uploaded.StorageUsed)

	rec = doJSON(t, router, http.MethodGet, "/storage", registered.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var storage StorageResponse
	decodeBody(t, rec, &storage)
	assert.Equal(t, int64(2048), storage.StorageUsed)
	assert.Equal(t, types.DefaultStorageLimit, storage.StorageLimit)
}

func TestUploadQuotaExceeded(t *testing.T) {
	router, _ := newTestAPI(t)
	registered := register(t, router, "ana", "ana@x.com", "p1")

	rec := doJSON(t, router, http.MethodPost, "/files/upload", registered.Token, map[string]any{
		"size": types.DefaultStorageLimit + 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Limite de armazenamento excedido", resp.Error)

	rec = doJSON(t, router, http.MethodGet, "/storage", registered.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var storage StorageResponse
	decodeBody(t, rec, &storage)
	assert.Equal(t, int64(0), storage.StorageUsed, "failed upload must not move the counter")
}

// A size near the int64 ceiling must hit the quota guard, not wrap
// the counter negative.
func TestUploadHugeSize(t *testing.T) {
	router, _ := newTestAPI(t)
	registered := register(t, router, "ana", "ana@x.com", "p1")

	rec := doJSON(t, router, http.MethodPost, "/files/upload", registered.Token, map[string]any{
		"size": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/files/upload", registered.Token, map[string]any{
		"size": int64(math.MaxInt64),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Limite de armazenamento excedido", resp.Error)

	rec = doJSON(t, router, http.MethodGet, "/storage", registered.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var storage StorageResponse
	decodeBody(t, rec, &storage)
	assert.Equal(t, int64(1), storage.StorageUsed)
}

func TestUploadInvalidSize(t *testing.T) {
	router, _ := newTestAPI(t)
	registered := register(t, router, "ana", "ana@x.com", "p1")

	for _, size := range []int64{0, -5} {
		rec := doJSON(t, router, http.MethodPost, "/files/upload", registered.Token, map[string]any{
			"size": size,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestListFiles(t *testing.T) {
	router, _ := newTestAPI(t)
	registered := register(t, router, "ana", "ana@x.com", "p1")

	rec := doJSON(t, router, http.MethodGet, "/files/", registered.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listing FileListResponse
	decodeBody(t, rec, &listing)
	assert.NotEmpty(t, listing.Files)
}

func TestHealthz(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
