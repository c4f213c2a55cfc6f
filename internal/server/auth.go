package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/bobmcallan/andolan/internal/common"
)

// RoleAdmin is the role carried by admin tokens.
const RoleAdmin = "admin"

// signJWT creates a signed HMAC-SHA256 JWT for an admin account.
func signJWT(email, role string, config *common.AuthConfig) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  email,
		"role": role,
		"iss":  "andolan-server",
		"iat":  now.Unix(),
		"exp":  now.Add(config.GetTokenExpiry()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

// validateJWT parses and validates a JWT token string using the given secret.
func validateJWT(tokenString string, secret []byte) (*jwt.Token, jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return token, claims, nil
}

// HashPassword returns the bcrypt hash stored in auth.admins.password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncatePassword(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// bcrypt ignores input past 72 bytes and newer versions reject it.
func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) > 72 {
		b = b[:72]
	}
	return b
}

// requireAdmin checks that the caller holds an admin token. Returns false
// after writing 401 or 403 otherwise.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		if desc, rejected := tokenErrorFromContext(r.Context()); rejected {
			writeBearerChallenge(w, desc)
			return false
		}
		w.Header().Set("WWW-Authenticate", "Bearer")
		WriteError(w, http.StatusUnauthorized, "Authentication required")
		return false
	}
	if id.Role != RoleAdmin {
		WriteError(w, http.StatusForbidden, "Admin access required")
		return false
	}
	return true
}

// handleAuthLogin handles POST /api/auth/login: authenticate an admin.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	account, ok := s.app.Config.Auth.FindAdmin(req.Email)
	if !ok {
		WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), truncatePassword(req.Password)); err != nil {
		WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	email := strings.ToLower(account.Email)
	token, err := signJWT(email, RoleAdmin, &s.app.Config.Auth)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign JWT for login")
		WriteError(w, http.StatusInternalServerError, "failed to sign token")
		return
	}

	s.logger.Info().Str("email", email).Msg("Admin logged in")

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data": map[string]interface{}{
			"token":      token,
			"expires_in": int(s.app.Config.Auth.GetTokenExpiry().Seconds()),
			"user": map[string]interface{}{
				"email": email,
				"role":  RoleAdmin,
			},
		},
	})
}

// handleAuthProfile handles GET /api/auth/profile: the caller's identity.
func (s *Server) handleAuthProfile(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		if desc, rejected := tokenErrorFromContext(r.Context()); rejected {
			writeBearerChallenge(w, desc)
			return
		}
		w.Header().Set("WWW-Authenticate", "Bearer")
		WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"email": id.Email,
		"role":  id.Role,
	})
}
