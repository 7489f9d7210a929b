package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hussain2580/school-mangment/internal/model"
	"github.com/hussain2580/school-mangment/internal/store"
)

func newUser(id, email string, role model.Role) model.User {
	return model.User{
		ID:           id,
		Name:         "Test " + id,
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
		IsActive:     true,
	}
}

func TestCreateRejectsDuplicateEmailAcrossRoles(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if _, err := s.Create(ctx, newUser("t-1", "shared@school.com", model.RoleTeacher)); err != nil {
		t.Fatalf("create error: %v", err)
	}
	admin := newUser("a-1", "Shared@School.com", model.RoleAdmin)
	if _, err := s.Create(ctx, admin); !errors.Is(err, store.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestCreateRejectsDuplicateRollNo(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	first := newUser("s-1", "s1@school.com", model.RoleStudent)
	first.Class, first.RollNo = "10", "25"
	if _, err := s.Create(ctx, first); err != nil {
		t.Fatalf("create error: %v", err)
	}

	second := newUser("s-2", "s2@school.com", model.RoleStudent)
	second.Class, second.RollNo = "10", "25"
	if _, err := s.Create(ctx, second); !errors.Is(err, store.ErrDuplicateRollNo) {
		t.Fatalf("expected ErrDuplicateRollNo, got %v", err)
	}

	// Same roll number in another class is fine.
	third := newUser("s-3", "s3@school.com", model.RoleStudent)
	third.Class, third.RollNo = "11", "25"
	if _, err := s.Create(ctx, third); err != nil {
		t.Fatalf("create error: %v", err)
	}
}

func TestSoftDeleteHidesUserFromLoginLookups(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if _, err := s.Create(ctx, newUser("t-1", "t1@school.com", model.RoleTeacher)); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if err := s.SoftDelete(ctx, "t-1"); err != nil {
		t.Fatalf("soft delete error: %v", err)
	}

	if _, err := s.FindByEmailAndRole(ctx, "t1@school.com", model.RoleTeacher); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after soft delete, got %v", err)
	}
	// Record survives and keeps its email reserved.
	if _, err := s.FindByID(ctx, "t-1"); err != nil {
		t.Fatalf("expected record to survive soft delete: %v", err)
	}
	if _, err := s.Create(ctx, newUser("t-2", "t1@school.com", model.RoleTeacher)); !errors.Is(err, store.ErrDuplicateEmail) {
		t.Fatalf("expected email to stay reserved, got %v", err)
	}
}

func TestFindFirstByRolePicksOldestActive(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	older := newUser("a-1", "a1@school.com", model.RoleAdmin)
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := newUser("a-2", "a2@school.com", model.RoleAdmin)
	newer.CreatedAt = time.Now().UTC()

	if _, err := s.Create(ctx, newer); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if _, err := s.Create(ctx, older); err != nil {
		t.Fatalf("create error: %v", err)
	}

	found, err := s.FindFirstByRole(ctx, model.RoleAdmin)
	if err != nil {
		t.Fatalf("find error: %v", err)
	}
	if found.ID != "a-1" {
		t.Fatalf("expected oldest admin, got %s", found.ID)
	}
}

func TestListStudentsOrderedByClassAndRollNo(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	for _, tc := range []struct{ id, class, rollNo string }{
		{"s-1", "10", "30"},
		{"s-2", "10", "7"},
		{"s-3", "9", "40"},
		{"s-4", "2", "5"},
	} {
		u := newUser(tc.id, tc.id+"@school.com", model.RoleStudent)
		u.Class, u.RollNo = tc.class, tc.rollNo
		if _, err := s.Create(ctx, u); err != nil {
			t.Fatalf("create error: %v", err)
		}
	}

	students, err := s.ListStudents(ctx)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	got := make([]string, 0, len(students))
	for _, student := range students {
		got = append(got, student.ID)
	}
	// Classes and roll numbers order numerically: class 2 before 10, roll 7
	// before 30.
	want := []string{"s-4", "s-3", "s-2", "s-1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestUpdateRejectsDuplicateRollNo(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	for _, tc := range []struct{ id, class, rollNo string }{
		{"s-1", "10", "25"},
		{"s-2", "10", "26"},
		{"s-3", "11", "25"},
	} {
		u := newUser(tc.id, tc.id+"@school.com", model.RoleStudent)
		u.Class, u.RollNo = tc.class, tc.rollNo
		if _, err := s.Create(ctx, u); err != nil {
			t.Fatalf("create error: %v", err)
		}
	}

	rollNo := "25"
	if _, err := s.Update(ctx, "s-2", store.UserUpdate{RollNo: &rollNo}); !errors.Is(err, store.ErrDuplicateRollNo) {
		t.Fatalf("expected ErrDuplicateRollNo, got %v", err)
	}

	// Moving into an occupied (class, rollNo) pair via class is rejected too.
	class := "10"
	if _, err := s.Update(ctx, "s-3", store.UserUpdate{Class: &class}); !errors.Is(err, store.ErrDuplicateRollNo) {
		t.Fatalf("expected ErrDuplicateRollNo, got %v", err)
	}

	// The failed updates leave the record untouched.
	unchanged, err := s.FindByID(ctx, "s-2")
	if err != nil {
		t.Fatalf("find error: %v", err)
	}
	if unchanged.RollNo != "26" {
		t.Fatalf("expected rollNo to stay 26, got %s", unchanged.RollNo)
	}

	// A free pair still works.
	free := "27"
	updated, err := s.Update(ctx, "s-2", store.UserUpdate{RollNo: &free})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if updated.RollNo != "27" {
		t.Fatalf("expected rollNo 27, got %s", updated.RollNo)
	}
}

func TestUpdateAndCount(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if _, err := s.Create(ctx, newUser("t-1", "t1@school.com", model.RoleTeacher)); err != nil {
		t.Fatalf("create error: %v", err)
	}

	subject := "Physics"
	updated, err := s.Update(ctx, "t-1", store.UserUpdate{Subject: &subject})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if updated.Subject != "Physics" {
		t.Fatalf("expected subject update, got %q", updated.Subject)
	}

	if _, err := s.Update(ctx, "missing", store.UserUpdate{}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	count, err := s.CountActiveByRole(ctx, model.RoleTeacher)
	if err != nil || count != 1 {
		t.Fatalf("expected 1 active teacher, got %d (%v)", count, err)
	}
}
