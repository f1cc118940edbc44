package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"star-admin-api/internal/cache"
	"star-admin-api/internal/config"
	"star-admin-api/internal/credential"
	"star-admin-api/internal/handler"
	"star-admin-api/internal/mail"
	"star-admin-api/internal/middleware"
	"star-admin-api/internal/model"
	"star-admin-api/internal/repository"
	"star-admin-api/internal/service"
	"star-admin-api/internal/session"
	"star-admin-api/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Error      string          `json:"error"`
	Data       json.RawMessage `json:"data"`
	Token      string          `json:"token"`
	Pagination *struct {
		CurrentPage  int   `json:"currentPage"`
		TotalPages   int   `json:"totalPages"`
		TotalRecords int64 `json:"totalRecords"`
	} `json:"pagination"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	ctx := context.Background()
	log := zap.NewNop()

	db, err := repository.Open(ctx, config.DatabaseConfig{
		Dialect: "sqlite",
		Path:    filepath.Join(t.TempDir(), "router.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repository.Migrate(ctx, db))

	store := session.NewMemoryRevocationStore(log)
	authority, err := session.NewAuthority("router-test-secret", store)
	require.NoError(t, err)

	cipher, err := credential.NewCipher("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	files, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	stats := cache.NewMemoryCache()
	t.Cleanup(func() { _ = stats.Close() })

	adminRepo := repository.NewSQLAdminRepository(db)
	authService := service.NewAuthService(adminRepo, credential.NewHasher(4), authority, mail.NewLogSender(log), log)
	userService := service.NewUserService(repository.NewSQLUserRepository(db), stats, 0, log)
	support := service.NewManagerService(repository.NewSQLManagerRepository(db, model.SupportManagers), cipher, files, log)
	stars := service.NewManagerService(repository.NewSQLManagerRepository(db, model.StarManagers), cipher, files, log)

	r := New(Config{
		Handler:               handler.New(db, "test"),
		AuthHandler:           handler.NewAuthHandler(authService, log),
		UserHandler:           handler.NewUserHandler(userService, log),
		SupportManagerHandler: handler.NewManagerHandler(support, 1<<20, log),
		StarManagerHandler:    handler.NewManagerHandler(stars, 1<<20, log),
		VersionHandler:        handler.NewVersionHandler(service.NewVersionService(repository.NewSQLVersionRepository(db)), log),
		PolicyHandler:         handler.NewPolicyHandler(service.NewPolicyService(repository.NewSQLPolicyRepository(db), files), 1<<20, log),
		AuthMiddleware: middleware.NewAuthMiddleware(middleware.AuthConfig{
			Authority: authority,
			Public:    PublicRoutes,
			Logger:    log,
		}),
		UploadDir: files.Root(),
		Logger:    log,
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, token, body string) (int, envelope) {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func signupAndLogin(t *testing.T, srv *httptest.Server) string {
	t.Helper()

	status, env := do(t, srv, http.MethodPost, "/api/admin/signup", "",
		`{"userId":"root","name":"Root","email":"root@example.com","password":"hunter22"}`)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, env.Token)

	status, env = do(t, srv, http.MethodPost, "/api/admin/login", "",
		`{"email":"root@example.com","password":"hunter22"}`)
	require.Equal(t, http.StatusOK, status)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestPublicRoutes(t *testing.T) {
	srv := newTestServer(t)

	status, env := do(t, srv, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Admin Panel API is running", env.Message)

	status, _ = do(t, srv, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, status)

	status, env = do(t, srv, http.MethodGet, "/api/policyDocument/all", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	status, env = do(t, srv, http.MethodGet, "/api/version/check?deviceType=ios&version=1.0.0", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"deviceType":"ios","version":"1.0.0","updateRequired":false}`, string(env.Data))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	status, env := do(t, srv, http.MethodGet, "/api/user/count", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)
	assert.Equal(t, "Authorization header missing or malformed.", env.Message)

	status, env = do(t, srv, http.MethodGet, "/api/user/count", "not.a.jwt", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid or malformed token.", env.Message)

	// a public GET does not open the POST on the same path
	status, _ = do(t, srv, http.MethodPost, "/api/version/check", "", "{}")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLogoutRevokesToken(t *testing.T) {
	srv := newTestServer(t)
	token := signupAndLogin(t, srv)

	status, env := do(t, srv, http.MethodGet, "/api/user/count", token, "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"totalUsers":"0","totalStars":"0","activeUsers":"0","blockedUsers":"0"}`, string(env.Data))

	status, _ = do(t, srv, http.MethodPost, "/api/admin/logout", token, "")
	require.Equal(t, http.StatusOK, status)

	status, env = do(t, srv, http.MethodGet, "/api/user/count", token, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Token is invalid or blacklisted.", env.Message)
}

func TestStaffPasswordsAreRevealedInListing(t *testing.T) {
	srv := newTestServer(t)
	token := signupAndLogin(t, srv)

	status, env := do(t, srv, http.MethodPost, "/api/starManager/addnew", token,
		`{"name":"Nova","uId":"nova","email":"nova@example.com","password":"Secret#1","imageUrl":"http://x/uploads/starManagers/a.png"}`)
	require.Equal(t, http.StatusCreated, status, env.Message)

	status, env = do(t, srv, http.MethodPost, "/api/starManager/addnew", token,
		`{"name":"Nova","uId":"nova2","email":"nova@example.com","password":"Secret#1","imageUrl":"http://x/a.png"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)

	status, env = do(t, srv, http.MethodGet, "/api/starManager/all", token, "")
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, int64(1), env.Pagination.TotalRecords)

	var managers []struct {
		UserID   string  `json:"userId"`
		Password *string `json:"password"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &managers))
	require.Len(t, managers, 1)
	assert.Equal(t, "nova", managers[0].UserID)
	require.NotNil(t, managers[0].Password)
	assert.Equal(t, "Secret#1", *managers[0].Password)

	// support managers live in their own table
	status, env = do(t, srv, http.MethodGet, "/api/SupportManager/count", token, "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"0"`)
}

func TestUnknownUserToggleIsNotFound(t *testing.T) {
	srv := newTestServer(t)
	token := signupAndLogin(t, srv)

	status, env := do(t, srv, http.MethodPut, "/api/user/999", token, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)
}

func TestUploadsServeFilesButNotListings(t *testing.T) {
	srv := newTestServer(t)
	token := signupAndLogin(t, srv)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "secret-face.png")
	require.NoError(t, err)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	_, err = part.Write(png)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/SupportManager/image", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

	var uploaded struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &uploaded))
	require.Contains(t, uploaded.URL, "/uploads/"+model.SupportManagers.UploadCategory+"/")

	get := func(url string) (int, string) {
		resp, err := srv.Client().Get(url)
		require.NoError(t, err)
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(b)
	}

	status, content := get(uploaded.URL)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, string(png), content)

	for _, dir := range []string{
		"/uploads/",
		"/uploads/" + model.SupportManagers.UploadCategory + "/",
		"/uploads/" + model.SupportManagers.UploadCategory,
	} {
		status, content = get(srv.URL + dir)
		assert.Equal(t, http.StatusNotFound, status, dir)
		assert.NotContains(t, content, "secret-face.png", dir)
	}
}
