package auth

import (
	"regexp"

	"github.com/hussain2580/school-mangment/internal/model"
)

var roleTagPattern = regexp.MustCompile(`^mock-token-(admin|teacher|student)$`)

// RoleTagIssuer produces the fixed `mock-token-<role>` strings the mock
// frontend expects. These carry a role but no identity and never expire, so
// any holder can act as any user of that role. Kept for compatibility with
// the mock client only; the JWT issuer is the default.
type RoleTagIssuer struct{}

func NewRoleTagIssuer() *RoleTagIssuer {
	return &RoleTagIssuer{}
}

func (*RoleTagIssuer) Issue(user model.User) (string, error) {
	return "mock-token-" + string(user.Role), nil
}

func (*RoleTagIssuer) Validate(token string) (Identity, error) {
	match := roleTagPattern.FindStringSubmatch(token)
	if match == nil {
		return Identity{}, ErrInvalidToken
	}
	return Identity{Role: model.Role(match[1])}, nil
}
