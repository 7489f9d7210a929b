// Package store defines the credential store contract shared by the in-memory
// and postgres backends. All lookups used for login only return active users;
// soft-deleted records keep occupying their email and roll number.
package store

import (
	"context"
	"errors"

	"github.com/hussain2580/school-mangment/internal/model"
)

var (
	ErrNotFound        = errors.New("user not found")
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrDuplicateRollNo = errors.New("roll number already exists in class")
)

// UserUpdate applies only its non-nil fields.
type UserUpdate struct {
	Name        *string
	Email       *string
	Phone       *string
	Address     *string
	Subject     *string
	Class       *string
	RollNo      *string
	ParentName  *string
	ParentPhone *string
}

type Store interface {
	// FindByEmailAndRole resolves an active user for login. Inactive or
	// unknown users both return ErrNotFound so callers cannot distinguish
	// them.
	FindByEmailAndRole(ctx context.Context, email string, role model.Role) (model.User, error)
	// FindActiveByEmail is the role-agnostic login lookup.
	FindActiveByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	// FindFirstByRole returns the canonical (oldest) active user of a role.
	// Used to resolve role-tag tokens, which carry no identity.
	FindFirstByRole(ctx context.Context, role model.Role) (model.User, error)

	Create(ctx context.Context, user model.User) (model.User, error)
	Update(ctx context.Context, id string, update UserUpdate) (model.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SoftDelete(ctx context.Context, id string) error

	ListTeachers(ctx context.Context) ([]model.User, error)
	ListStudents(ctx context.Context) ([]model.User, error)
	CountActiveByRole(ctx context.Context, role model.Role) (int, error)
}
