package http

import (
	"errors"
	"net/http"
	"strings"

	"forecourt/internal/auth"
	"forecourt/internal/core"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type resetPasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// handleRegister creates an account. The very first account bootstraps
// the install and always becomes the owner; after that only an owner
// may add users.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		respondValidation(w, map[string][]string{
			"username": {"username and password are required"},
		})
		return
	}
	if len(req.Password) < 8 {
		respondValidation(w, map[string][]string{
			"password": {"password must be at least 8 characters"},
		})
		return
	}

	count, err := s.store.CountUsers(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	role := auth.Role(req.Role)
	if count == 0 {
		role = auth.RoleOwner
	} else {
		token, err := auth.BearerToken(r)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		session, err := s.tokens.Verify(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		if !auth.Can(session.Role, auth.ResourceUsers, auth.ActionCreate) {
			respondError(w, http.StatusForbidden, "insufficient permissions")
			return
		}
		if err := role.Validate(); err != nil {
			respondValidation(w, map[string][]string{
				"role": {"role must be owner, manager or cashier"},
			})
			return
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to secure password")
		return
	}

	user, err := s.store.CreateUser(r.Context(), auth.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateDate) {
			respondError(w, http.StatusConflict, "username already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to create user")
		return
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{
		Token: token,
		User:  userResponse{ID: user.ID, Username: user.Username, Role: string(user.Role)},
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), strings.TrimSpace(req.Username))
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}

	respondJSON(w, http.StatusOK, authResponse{
		Token: token,
		User:  userResponse{ID: user.ID, Username: user.Username, Role: string(user.Role)},
	})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.NewPassword) < 8 {
		respondValidation(w, map[string][]string{
			"new_password": {"password must be at least 8 characters"},
		})
		return
	}

	user, err := s.store.GetUser(r.Context(), session.UserID)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		respondError(w, http.StatusUnauthorized, "current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to secure password")
		return
	}
	if err := s.store.UpdatePassword(r.Context(), user.ID, hash); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update password")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}
