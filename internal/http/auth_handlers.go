package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hussain2580/school-mangment/internal/crypto"
	"github.com/hussain2580/school-mangment/internal/model"
	"github.com/hussain2580/school-mangment/internal/store"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userPayload struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Class   string `json:"class,omitempty"`
	RollNo  string `json:"rollNo,omitempty"`
	Subject string `json:"subject,omitempty"`
}

// mapUserPayload never includes the password. Role-specific fields appear
// only for the matching role.
func mapUserPayload(user model.User) userPayload {
	payload := userPayload{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	}
	switch user.Role {
	case model.RoleStudent:
		payload.Class = user.Class
		payload.RollNo = user.RollNo
	case model.RoleTeacher:
		payload.Subject = user.Subject
	}
	return payload
}

func (s *Server) handleRoleLogin(w http.ResponseWriter, r *http.Request) {
	role, ok := model.ParseRole(chi.URLParam(r, "role"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid role")
		return
	}
	s.login(w, r, &role)
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	role := model.RoleAdmin
	s.login(w, r, &role)
}

// handleLogin authenticates against any role.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.login(w, r, nil)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request, role *model.Role) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Please provide email and password")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Please provide email and password")
		return
	}

	var user model.User
	var err error
	if role != nil {
		user, err = s.store.FindByEmailAndRole(r.Context(), req.Email, *role)
	} else {
		user, err = s.store.FindActiveByEmail(r.Context(), req.Email)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Same failure for unknown, inactive, and wrong-password
			// logins so accounts cannot be enumerated.
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		s.writeServerError(w, r, err)
		return
	}

	if err := crypto.CheckPassword(user.PasswordHash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		s.writeServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"user":    mapUserPayload(user),
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.resolveUser(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    mapUserPayload(user),
	})
}
