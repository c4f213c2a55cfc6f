package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type loginResponse struct {
	Status string `json:"status"`
	Data   struct {
		Token     string `json:"token"`
		ExpiresIn int    `json:"expires_in"`
		User      struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	} `json:"data"`
}

func TestAuthLogin_Success(t *testing.T) {
	srv := newTestServer(t)
	body := jsonBody(t, map[string]string{"email": "ADMIN@andolan.test", "password": testAdminPassword})

	resp := do(srv, httptest.NewRequest(http.MethodPost, "/api/auth/login", body))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	login := decode[loginResponse](t, resp)
	assert.Equal(t, "ok", login.Status)
	assert.Equal(t, testAdminEmail, login.Data.User.Email)
	assert.Equal(t, RoleAdmin, login.Data.User.Role)
	assert.Equal(t, 24*60*60, login.Data.ExpiresIn)

	_, claims, err := validateJWT(login.Data.Token, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, testAdminEmail, claims["sub"])
	assert.Equal(t, "andolan-server", claims["iss"])

	// The token authenticates the profile endpoint
	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+login.Data.Token)
	resp = do(srv, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"email":"admin@andolan.test","role":"admin"}`, resp.Body.String())
}

func TestAuthLogin_WrongPassword(t *testing.T) {
	srv := newTestServer(t)
	body := jsonBody(t, map[string]string{"email": testAdminEmail, "password": "nope"})

	resp := do(srv, httptest.NewRequest(http.MethodPost, "/api/auth/login", body))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "invalid credentials", decode[ErrorResponse](t, resp).Error)
}

func TestAuthLogin_UnknownAdmin(t *testing.T) {
	srv := newTestServer(t)
	body := jsonBody(t, map[string]string{"email": "someone@andolan.test", "password": testAdminPassword})

	resp := do(srv, httptest.NewRequest(http.MethodPost, "/api/auth/login", body))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthLogin_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	resp := do(srv, httptest.NewRequest(http.MethodGet, "/api/auth/login", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)
}

func TestAuthProfile_Anonymous(t *testing.T) {
	srv := newTestServer(t)
	resp := do(srv, httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestValidateJWT_RejectsExpired(t *testing.T) {
	claims := jwt.MapClaims{
		"sub": testAdminEmail,
		"exp": time.Now().Add(-time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s"))
	require.NoError(t, err)

	_, _, err = validateJWT(signed, []byte("s"))
	assert.Error(t, err)
}

func TestValidateJWT_RejectsWrongSecret(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString([]byte("a"))
	require.NoError(t, err)

	_, _, err = validateJWT(signed, []byte("b"))
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret")))
}
