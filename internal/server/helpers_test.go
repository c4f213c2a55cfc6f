package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bobmcallan/andolan/internal/app"
	"github.com/bobmcallan/andolan/internal/common"
)

const (
	testAdminEmail    = "admin@andolan.test"
	testAdminPassword = "kisan-admin-pass"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := common.NewDefaultConfig()
	cfg.Environment = "test"
	cfg.Storage.SQLite.Path = filepath.Join(t.TempDir(), "andolan.db")
	cfg.Auth.JWTSecret = "test-secret"

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	cfg.Auth.Admins = []common.AdminAccount{{Email: testAdminEmail, PasswordHash: string(hash)}}

	a, err := app.NewAppWithConfig(t.Context(), cfg, common.NewSilentLogger())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	return NewServer(a)
}

func adminToken(t *testing.T, srv *Server) string {
	t.Helper()
	token, err := signJWT(testAdminEmail, RoleAdmin, &srv.app.Config.Auth)
	require.NoError(t, err)
	return token
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

// do runs a request through the full middleware stack.
func do(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func TestPathParam(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/api/members/abc-123/status", nil)
	assert.Equal(t, "abc-123", PathParam(req, "/api/members/", "/status"))
	assert.Equal(t, "abc-123", PathParam(req, "/api/members/", ""))
	assert.Equal(t, "", PathParam(req, "/api/timeline/", ""))
}

func TestRequireMethod(t *testing.T) {
	rec := httptest.NewRecorder()
	ok := RequireMethod(rec, httptest.NewRequest(http.MethodPatch, "/", nil), http.MethodGet, http.MethodPost)

	assert.False(t, ok)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, POST", rec.Header().Get("Allow"))
}

func TestDecodeJSON_Invalid(t *testing.T) {
	rec := httptest.NewRecorder()
	var v map[string]string
	ok := DecodeJSON(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("{")), &v)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid JSON")
}
