package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"equipinspect/internal/config"
	"equipinspect/internal/modules/admin"
	"equipinspect/internal/pkg/storage"
	"equipinspect/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AppEnv: "test",
		Server: config.ServerConfig{Port: 8000, ShutdownTimeout: time.Second},
		Auth:   config.AuthConfig{TokenSecret: "test-secret", CacheTTL: time.Minute},
		Storage: config.StorageConfig{
			Driver:   config.StorageLocal,
			LocalDir: t.TempDir(),
			URLBase:  "/media",
		},
		PDF: config.PDFConfig{Title: "Inspection"},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := testConfig(t)
	store, err := storage.NewLocal(cfg.Storage.LocalDir, cfg.Storage.URLBase)
	require.NoError(t, err)
	return New(Deps{Config: cfg, DB: testutil.SetupTestDB(t), Storage: store})
}

func TestAPIRoot(t *testing.T) {
	r := newTestApp(t).Router()

	rr := testutil.DoJSON(t, r, http.MethodGet, "/api/", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var links map[string]string
	testutil.Decode(t, rr, &links)
	assert.Equal(t, "http://example.com/api/equipment/", links["equipment"])
	assert.Equal(t, "http://example.com/api/auth/login/", links["auth-login"])
	assert.Len(t, links, len(resources))
}

func TestRouter_ResourcesRequireToken(t *testing.T) {
	r := newTestApp(t).Router()

	for _, path := range []string{
		"/api/equipment/",
		"/api/users/",
		"/api/checklist-items/",
		"/api/inspection-reports/",
		"/api/daily-inspection-data/",
		"/api/report-notes/",
		"/api/report-attachments/",
		"/api/reports/1/pdf-data/",
		"/api/auth/user/",
		"/api/admin/accounts/",
	} {
		rr := testutil.DoJSON(t, r, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}

func TestRouter_LoginThenBrowse(t *testing.T) {
	app := newTestApp(t)
	r := app.Router()

	_, err := app.Admin.CreateAccount(t.Context(), nil, admin.CreateAccountRequest{Username: "inspector", Password: "inspectorpass"})
	require.NoError(t, err)

	rr := testutil.DoJSON(t, r, http.MethodPost, "/api/auth/login/", map[string]string{"username": "inspector", "password": "inspectorpass"}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var login struct {
		Token string `json:"token"`
	}
	testutil.Decode(t, rr, &login)

	rr = testutil.DoJSON(t, r, http.MethodGet, "/api/equipment/", nil, login.Token)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	rr = testutil.DoJSON(t, r, http.MethodGet, "/api/admin/accounts/", nil, login.Token)
	assert.Equal(t, http.StatusForbidden, rr.Code, "non-staff accounts cannot administer")

	rr = testutil.DoJSON(t, r, http.MethodGet, "/api/nowhere/", nil, login.Token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHealth(t *testing.T) {
	r := newTestApp(t).Router()

	rr := testutil.DoJSON(t, r, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = testutil.DoJSON(t, r, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}
