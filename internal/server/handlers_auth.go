package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/arvyo/arvyo-server/internal/common"
	"github.com/arvyo/arvyo-server/internal/interfaces"
	"github.com/arvyo/arvyo-server/internal/models"
)

// --- JWT helpers ---

// signJWT creates a signed HMAC-SHA256 JWT for the given user.
func signJWT(user *models.InternalUser, config *common.AuthConfig) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"jti":   uuid.New().String(),
		"sub":   user.UserID,
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Role,
		"iss":   "arvyo-server",
		"iat":   now.Unix(),
		"exp":   now.Add(config.GetTokenExpiry()).Unix(),
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

// authResponse bundles the token and profile returned by register and login.
func (s *Server) authResponse(w http.ResponseWriter, statusCode int, user *models.InternalUser) {
	tokenString, err := signJWT(user, &s.app.Config.Auth)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign JWT")
		WriteError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	WriteJSON(w, statusCode, map[string]interface{}{
		"token":      tokenString,
		"expires_in": int(s.app.Config.Auth.GetTokenExpiry().Seconds()),
		"user":       user.Profile(),
	})
}

// handleAuthRegister handles POST /api/auth/register.
func (s *Server) handleAuthRegister(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := s.app.UserService.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.authResponse(w, http.StatusCreated, user)
}

// handleAuthLogin handles POST /api/auth/login.
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

	user, err := s.app.UserService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	s.authResponse(w, http.StatusOK, user)
}

// handleAuthValidate handles GET/POST /api/auth/validate - report on the bearer token.
func (s *Server) handleAuthValidate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	uc := common.UserContextFromContext(r.Context())
	if uc == nil {
		WriteJSON(w, http.StatusOK, map[string]interface{}{"valid": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"valid":   true,
		"user_id": uc.UserID,
		"email":   uc.Email,
		"role":    uc.Role,
	})
}

// routeUsers dispatches GET/PUT/DELETE for /api/users/{id}. Only the user
// themselves or an admin may touch an account.
func (s *Server) routeUsers(w http.ResponseWriter, r *http.Request) {
	targetID := strings.TrimPrefix(r.URL.Path, "/api/users/")
	if targetID == "" {
		s.handleUserList(w, r)
		return
	}

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if targetID != userID && !common.IsAdmin(r.Context()) {
		WriteError(w, http.StatusForbidden, "forbidden")
		return
	}

	switch r.Method {
	case http.MethodGet:
		user, err := s.app.UserService.GetUser(r.Context(), targetID)
		if err != nil {
			WriteError(w, http.StatusNotFound, "user not found")
			return
		}
		WriteJSON(w, http.StatusOK, user.Profile())

	case http.MethodPut:
		var req struct {
			Name     *string `json:"name"`
			Password *string `json:"password"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		user, err := s.app.UserService.UpdateUser(r.Context(), targetID, interfaces.UserUpdates{
			Name:     req.Name,
			Password: req.Password,
		})
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, user.Profile())

	case http.MethodDelete:
		if err := s.app.UserService.DeleteUser(r.Context(), targetID); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// handleUserList handles GET /api/users (admin only).
func (s *Server) handleUserList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireUser(w, r); !ok {
		return
	}
	if !common.IsAdmin(r.Context()) {
		WriteError(w, http.StatusForbidden, "admin role required")
		return
	}

	userIDs, err := s.app.Storage.InternalStore().ListUsers(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing users: %v", err))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"users": userIDs})
}

// handleUserMe handles GET/PUT/DELETE /api/users/me for the authenticated user.
func (s *Server) handleUserMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		user, err := s.app.UserService.GetUser(r.Context(), userID)
		if err != nil {
			WriteError(w, http.StatusNotFound, "user not found")
			return
		}
		WriteJSON(w, http.StatusOK, user.Profile())

	case http.MethodPut:
		var req struct {
			Name     *string `json:"name"`
			Password *string `json:"password"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		user, err := s.app.UserService.UpdateUser(r.Context(), userID, interfaces.UserUpdates{
			Name:     req.Name,
			Password: req.Password,
		})
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, user.Profile())

	case http.MethodDelete:
		if err := s.app.UserService.DeleteUser(r.Context(), userID); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}
