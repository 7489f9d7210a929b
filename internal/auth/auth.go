// Package auth issues and validates the bearer credentials accepted by the
// API. Two interchangeable schemes exist: signed JWTs carrying the user id,
// and the legacy role-tag tokens understood by the mock frontend.
package auth

import (
	"errors"

	"github.com/hussain2580/school-mangment/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is what a validated token resolves to. UserID is empty for
// role-tag tokens, which carry only a role.
type Identity struct {
	UserID string
	Role   model.Role
}

type Issuer interface {
	Issue(user model.User) (string, error)
	Validate(token string) (Identity, error)
}
