package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hussain2580/school-mangment/internal/crypto"
	"github.com/hussain2580/school-mangment/internal/model"
	"github.com/hussain2580/school-mangment/internal/store"
)

type createTeacherRequest struct {
	Name           string   `json:"name" validate:"required,max=50"`
	Email          string   `json:"email" validate:"required,email"`
	Password       string   `json:"password" validate:"omitempty,min=6"`
	Subject        string   `json:"subject" validate:"required"`
	Qualifications []string `json:"qualifications"`
	Experience     int      `json:"experience" validate:"min=0"`
	Phone          string   `json:"phone" validate:"omitempty,len=10,numeric"`
	Address        string   `json:"address" validate:"omitempty,max=200"`
}

func (s *Server) handleCreateTeacher(w http.ResponseWriter, r *http.Request) {
	var req createTeacherRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if !s.checkValid(w, req) {
		return
	}

	password := req.Password
	if password == "" {
		password = crypto.GenerateDefaultPassword()
	}
	hash, err := crypto.HashPasswordCost(password, s.cfg.BcryptCost)
	if err != nil {
		s.writeServerError(w, r, err)
		return
	}

	identity, _ := identityFromContext(r.Context())
	user := model.User{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   hash,
		Role:           model.RoleTeacher,
		Subject:        req.Subject,
		Qualifications: req.Qualifications,
		Experience:     req.Experience,
		Phone:          req.Phone,
		Address:        req.Address,
		IsActive:       true,
		CreatedBy:      identity.UserID,
	}

	created, err := s.store.Create(r.Context(), user)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			writeError(w, http.StatusBadRequest, "Teacher already exists with this email")
			return
		}
		s.writeServerError(w, r, err)
		return
	}

	// The one-time plaintext password is returned here so the admin can
	// hand it out; it is never surfaced again.
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Teacher created successfully",
		"teacher": map[string]interface{}{
			"id":       created.ID,
			"name":     created.Name,
			"email":    created.Email,
			"subject":  created.Subject,
			"password": password,
		},
	})
}

type createStudentRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"omitempty,min=6"`
	Class       string `json:"class" validate:"required,oneof=1 2 3 4 5 6 7 8 9 10 11 12"`
	RollNo      string `json:"rollNo" validate:"required"`
	ParentName  string `json:"parentName" validate:"omitempty,max=50"`
	ParentPhone string `json:"parentPhone" validate:"omitempty,len=10,numeric"`
	Phone       string `json:"phone" validate:"omitempty,len=10,numeric"`
	Address     string `json:"address" validate:"omitempty,max=200"`
}

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req createStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if !s.checkValid(w, req) {
		return
	}

	password := req.Password
	if password == "" {
		password = crypto.GenerateDefaultPassword()
	}
	hash, err := crypto.HashPasswordCost(password, s.cfg.BcryptCost)
	if err != nil {
		s.writeServerError(w, r, err)
		return
	}

	identity, _ := identityFromContext(r.Context())
	user := model.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RoleStudent,
		Class:        req.Class,
		RollNo:       req.RollNo,
		ParentName:   req.ParentName,
		ParentPhone:  req.ParentPhone,
		Phone:        req.Phone,
		Address:      req.Address,
		IsActive:     true,
		CreatedBy:    identity.UserID,
	}

	created, err := s.store.Create(r.Context(), user)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) || errors.Is(err, store.ErrDuplicateRollNo) {
			writeError(w, http.StatusBadRequest, "Student already exists with this email or roll number")
			return
		}
		s.writeServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Student created successfully",
		"student": map[string]interface{}{
			"id":       created.ID,
			"name":     created.Name,
			"email":    created.Email,
			"class":    created.Class,
			"rollNo":   created.RollNo,
			"password": password,
		},
	})
}

type teacherListItem struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Subject        string   `json:"subject"`
	Qualifications []string `json:"qualifications"`
	Experience     int      `json:"experience"`
	Phone          string   `json:"phone,omitempty"`
	IsActive       bool     `json:"isActive"`
}

func (s *Server) handleListTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := s.store.ListTeachers(r.Context())
	if err != nil {
		s.writeServerError(w, r, err)
		return
	}

	items := make([]teacherListItem, 0, len(teachers))
	for _, teacher := range teachers {
		qualifications := teacher.Qualifications
		if qualifications == nil {
			qualifications = []string{}
		}
		items = append(items, teacherListItem{
			ID:             teacher.ID,
			Name:           teacher.Name,
			Email:          teacher.Email,
			Subject:        teacher.Subject,
			Qualifications: qualifications,
			Experience:     teacher.Experience,
			Phone:          teacher.Phone,
			IsActive:       teacher.IsActive,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"count":    len(items),
		"teachers": items,
	})
}

type studentListItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Class       string `json:"class"`
	RollNo      string `json:"rollNo"`
	ParentName  string `json:"parentName,omitempty"`
	ParentPhone string `json:"parentPhone,omitempty"`
	Phone       string `json:"phone,omitempty"`
	IsActive    bool   `json:"isActive"`
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.store.ListStudents(r.Context())
	if err != nil {
		s.writeServerError(w, r, err)
		return
	}

	items := make([]studentListItem, 0, len(students))
	for _, student := range students {
		items = append(items, studentListItem{
			ID:          student.ID,
			Name:        student.Name,
			Email:       student.Email,
			Class:       student.Class,
			RollNo:      student.RollNo,
			ParentName:  student.ParentName,
			ParentPhone: student.ParentPhone,
			Phone:       student.Phone,
			IsActive:    student.IsActive,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"count":    len(items),
		"students": items,
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	totalStudents, err := s.store.CountActiveByRole(r.Context(), model.RoleStudent)
	if err != nil {
		s.writeServerError(w, r, err)
		return
	}
	totalTeachers, err := s.store.CountActiveByRole(r.Context(), model.RoleTeacher)
	if err != nil {
		s.writeServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"stats": map[string]int{
			"totalStudents": totalStudents,
			"totalTeachers": totalTeachers,
			"pendingTasks":  0,
			"totalFees":     0,
		},
	})
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"omitempty,min=6"`
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req resetPasswordRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if !s.checkValid(w, req) {
		return
	}

	if _, err := s.store.FindByID(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		s.writeServerError(w, r, err)
		return
	}

	newPassword := req.NewPassword
	if newPassword == "" {
		newPassword = crypto.GenerateDefaultPassword()
	}
	hash, err := crypto.HashPasswordCost(newPassword, s.cfg.BcryptCost)
	if err != nil {
		s.writeServerError(w, r, err)
		return
	}
	if err := s.store.UpdatePassword(r.Context(), id, hash); err != nil {
		s.writeServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     "Password reset successfully",
		"newPassword": newPassword,
	})
}

type updateUserRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=50"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,len=10,numeric"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=200"`
	Subject     *string `json:"subject,omitempty"`
	Class       *string `json:"class,omitempty" validate:"omitempty,oneof=1 2 3 4 5 6 7 8 9 10 11 12"`
	RollNo      *string `json:"rollNo,omitempty"`
	ParentName  *string `json:"parentName,omitempty" validate:"omitempty,max=50"`
	ParentPhone *string `json:"parentPhone,omitempty" validate:"omitempty,len=10,numeric"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !s.checkValid(w, req) {
		return
	}

	update := store.UserUpdate{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Subject:     req.Subject,
		Class:       req.Class,
		RollNo:      req.RollNo,
		ParentName:  req.ParentName,
		ParentPhone: req.ParentPhone,
	}

	user, err := s.store.Update(r.Context(), id, update)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, store.ErrDuplicateEmail):
			writeError(w, http.StatusBadRequest, "Email already exists")
		case errors.Is(err, store.ErrDuplicateRollNo):
			writeError(w, http.StatusBadRequest, "Roll number already exists in this class")
		default:
			s.writeServerError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User updated successfully",
		"user":    mapUserPayload(user),
	})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.store.SoftDelete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		s.writeServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User deleted successfully",
	})
}

// Bootstrap routes, mounted outside production only.

func (s *Server) handleTestCreateAdmin(w http.ResponseWriter, r *http.Request) {
	if existing, err := s.store.FindFirstByRole(r.Context(), model.RoleAdmin); err == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Admin already exists",
			"admin":   map[string]string{"email": existing.Email},
		})
		return
	}

	if err := s.createSeedUser(r.Context(), model.User{
		ID:    uuid.NewString(),
		Name:  "Super Admin",
		Email: "admin@school.com",
		Role:  model.RoleAdmin,
		Phone: "1234567890",
	}, "admin123"); err != nil {
		s.writeServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Admin created successfully",
		"admin": map[string]string{
			"email":    "admin@school.com",
			"password": "admin123",
		},
	})
}

func (s *Server) handleTestCreateSampleUsers(w http.ResponseWriter, r *http.Request) {
	teacher := model.User{
		ID:             uuid.NewString(),
		Name:           "John Teacher",
		Email:          "teacher@school.com",
		Role:           model.RoleTeacher,
		Subject:        "Mathematics",
		Qualifications: []string{"M.Sc Mathematics", "B.Ed"},
		Experience:     5,
		Phone:          "9876543210",
	}
	student := model.User{
		ID:          uuid.NewString(),
		Name:        "Alice Student",
		Email:       "student@school.com",
		Role:        model.RoleStudent,
		Class:       "10",
		RollNo:      "25",
		ParentName:  "Mr. Student",
		ParentPhone: "9876543211",
		Phone:       "9876543212",
	}

	if err := s.createSeedUser(r.Context(), teacher, "teacher123"); err != nil {
		s.writeServerError(w, r, err)
		return
	}
	if err := s.createSeedUser(r.Context(), student, "student123"); err != nil {
		s.writeServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Sample users created successfully",
		"users": map[string]map[string]string{
			"teacher": {"email": teacher.Email, "password": "teacher123"},
			"student": {"email": student.Email, "password": "student123"},
		},
	})
}

func (s *Server) createSeedUser(ctx context.Context, user model.User, password string) error {
	hash, err := crypto.HashPasswordCost(password, s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.IsActive = true
	_, err = s.store.Create(ctx, user)
	if errors.Is(err, store.ErrDuplicateEmail) || errors.Is(err, store.ErrDuplicateRollNo) {
		return nil
	}
	return err
}
