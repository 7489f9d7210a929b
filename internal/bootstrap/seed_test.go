package bootstrap

import (
	"context"
	"testing"

	"github.com/hussain2580/school-mangment/internal/crypto"
	"github.com/hussain2580/school-mangment/internal/model"
	"github.com/hussain2580/school-mangment/internal/store/memory"
)

func TestSeedDemoCreatesLoginableAccounts(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	if err := SeedDemo(ctx, s, 4); err != nil {
		t.Fatalf("seed error: %v", err)
	}

	cases := []struct {
		email    string
		password string
		role     model.Role
	}{
		{"admin@school.com", "admin123", model.RoleAdmin},
		{"teacher@school.com", "teacher123", model.RoleTeacher},
		{"student@school.com", "student123", model.RoleStudent},
	}
	for _, tc := range cases {
		user, err := s.FindByEmailAndRole(ctx, tc.email, tc.role)
		if err != nil {
			t.Fatalf("expected %s to exist: %v", tc.email, err)
		}
		if err := crypto.CheckPassword(user.PasswordHash, tc.password); err != nil {
			t.Fatalf("expected demo password to verify for %s", tc.email)
		}
	}
}

func TestSeedDemoIsIdempotent(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	if err := SeedDemo(ctx, s, 4); err != nil {
		t.Fatalf("seed error: %v", err)
	}
	if err := SeedDemo(ctx, s, 4); err != nil {
		t.Fatalf("expected second seed to be a no-op, got %v", err)
	}

	count, err := s.CountActiveByRole(ctx, model.RoleAdmin)
	if err != nil || count != 1 {
		t.Fatalf("expected exactly one admin, got %d (%v)", count, err)
	}
}
