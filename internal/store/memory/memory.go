// Package memory is the non-persistent credential store backend. Unlike the
// process-global arrays it replaces, it is an explicitly constructed object
// handed to the HTTP layer, so tests get isolated instances, and its state is
// guarded by a mutex rather than relying on handler serialization.
package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hussain2580/school-mangment/internal/model"
	"github.com/hussain2580/school-mangment/internal/store"
)

type Store struct {
	mu    sync.RWMutex
	users map[string]model.User
}

func NewStore() *Store {
	return &Store{users: make(map[string]model.User)}
}

func (s *Store) FindByEmailAndRole(_ context.Context, email string, role model.Role) (model.User, error) {
	email = normalizeEmail(email)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email && user.Role == role && user.IsActive {
			return user, nil
		}
	}
	return model.User{}, store.ErrNotFound
}

func (s *Store) FindActiveByEmail(_ context.Context, email string) (model.User, error) {
	email = normalizeEmail(email)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email && user.IsActive {
			return user, nil
		}
	}
	return model.User{}, store.ErrNotFound
}

func (s *Store) FindByID(_ context.Context, id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return model.User{}, store.ErrNotFound
	}
	return user, nil
}

func (s *Store) FindFirstByRole(_ context.Context, role model.Role) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found model.User
	ok := false
	for _, user := range s.users {
		if user.Role != role || !user.IsActive {
			continue
		}
		if !ok || user.CreatedAt.Before(found.CreatedAt) {
			found = user
			ok = true
		}
	}
	if !ok {
		return model.User{}, store.ErrNotFound
	}
	return found, nil
}

func (s *Store) Create(_ context.Context, user model.User) (model.User, error) {
	user.Email = normalizeEmail(user.Email)
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return model.User{}, store.ErrDuplicateEmail
		}
		if user.Role == model.RoleStudent && existing.Role == model.RoleStudent &&
			existing.Class == user.Class && existing.RollNo == user.RollNo {
			return model.User{}, store.ErrDuplicateRollNo
		}
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) Update(_ context.Context, id string, update store.UserUpdate) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return model.User{}, store.ErrNotFound
	}
	if update.Email != nil {
		email := normalizeEmail(*update.Email)
		for otherID, other := range s.users {
			if otherID != id && other.Email == email {
				return model.User{}, store.ErrDuplicateEmail
			}
		}
		user.Email = email
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Address != nil {
		user.Address = *update.Address
	}
	if update.Subject != nil {
		user.Subject = *update.Subject
	}
	if update.Class != nil || update.RollNo != nil {
		class, rollNo := user.Class, user.RollNo
		if update.Class != nil {
			class = *update.Class
		}
		if update.RollNo != nil {
			rollNo = *update.RollNo
		}
		if user.Role == model.RoleStudent {
			for otherID, other := range s.users {
				if otherID != id && other.Role == model.RoleStudent &&
					other.Class == class && other.RollNo == rollNo {
					return model.User{}, store.ErrDuplicateRollNo
				}
			}
		}
		user.Class, user.RollNo = class, rollNo
	}
	if update.ParentName != nil {
		user.ParentName = *update.ParentName
	}
	if update.ParentPhone != nil {
		user.ParentPhone = *update.ParentPhone
	}
	user.UpdatedAt = time.Now().UTC()
	s.users[id] = user
	return user, nil
}

func (s *Store) UpdatePassword(_ context.Context, id, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now().UTC()
	s.users[id] = user
	return nil
}

func (s *Store) SoftDelete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.IsActive = false
	user.UpdatedAt = time.Now().UTC()
	s.users[id] = user
	return nil
}

func (s *Store) ListTeachers(_ context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	teachers := make([]model.User, 0)
	for _, user := range s.users {
		if user.Role == model.RoleTeacher {
			teachers = append(teachers, user)
		}
	}
	sort.Slice(teachers, func(i, j int) bool {
		return teachers[i].CreatedAt.After(teachers[j].CreatedAt)
	})
	return teachers, nil
}

func (s *Store) ListStudents(_ context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	students := make([]model.User, 0)
	for _, user := range s.users {
		if user.Role == model.RoleStudent {
			students = append(students, user)
		}
	}
	sort.Slice(students, func(i, j int) bool {
		if students[i].Class != students[j].Class {
			return lessNumeric(students[i].Class, students[j].Class)
		}
		return lessNumeric(students[i].RollNo, students[j].RollNo)
	})
	return students, nil
}

// lessNumeric orders "2" before "10"; non-numeric values fall back to
// lexicographic order.
func lessNumeric(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}

func (s *Store) CountActiveByRole(_ context.Context, role model.Role) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, user := range s.users {
		if user.Role == role && user.IsActive {
			count++
		}
	}
	return count, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
