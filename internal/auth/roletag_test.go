package auth

import (
	"testing"

	"github.com/hussain2580/school-mangment/internal/model"
)

func TestRoleTagRoundTrip(t *testing.T) {
	issuer := NewRoleTagIssuer()
	for _, role := range []model.Role{model.RoleAdmin, model.RoleTeacher, model.RoleStudent} {
		token, err := issuer.Issue(model.User{ID: "ignored", Role: role})
		if err != nil {
			t.Fatalf("issue error: %v", err)
		}
		if token != "mock-token-"+string(role) {
			t.Fatalf("unexpected token %q", token)
		}
		identity, err := issuer.Validate(token)
		if err != nil {
			t.Fatalf("validate error: %v", err)
		}
		if identity.Role != role {
			t.Fatalf("expected role %s, got %s", role, identity.Role)
		}
		if identity.UserID != "" {
			t.Fatalf("role-tag tokens must not carry identity")
		}
	}
}

func TestRoleTagRejectsNonMatching(t *testing.T) {
	issuer := NewRoleTagIssuer()
	for _, token := range []string{"", "mock-token-", "mock-token-root", "mock-token-admin-extra", "Bearer mock-token-admin"} {
		if _, err := issuer.Validate(token); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", token, err)
		}
	}
}
