// Package bootstrap provisions the fixed demo accounts the frontend login
// page advertises. Seeding is idempotent: accounts that already exist are
// left untouched.
package bootstrap

import (
	"context"
	"errors"

	"github.com/hussain2580/school-mangment/internal/crypto"
	"github.com/hussain2580/school-mangment/internal/model"
	"github.com/hussain2580/school-mangment/internal/store"
)

type demoAccount struct {
	user     model.User
	password string
}

func demoAccounts() []demoAccount {
	return []demoAccount{
		{
			user: model.User{
				ID:    "admin-1",
				Name:  "Admin User",
				Email: "admin@school.com",
				Role:  model.RoleAdmin,
				Phone: "1234567890",
			},
			password: "admin123",
		},
		{
			user: model.User{
				ID:      "teacher-1",
				Name:    "Teacher User",
				Email:   "teacher@school.com",
				Role:    model.RoleTeacher,
				Subject: "General",
			},
			password: "teacher123",
		},
		{
			user: model.User{
				ID:         "student-1",
				Name:       "Student User",
				Email:      "student@school.com",
				Role:       model.RoleStudent,
				Class:      "10",
				RollNo:     "25",
				ParentName: "Mr. Student",
			},
			password: "student123",
		},
	}
}

func SeedDemo(ctx context.Context, st store.Store, bcryptCost int) error {
	for _, account := range demoAccounts() {
		hash, err := crypto.HashPasswordCost(account.password, bcryptCost)
		if err != nil {
			return err
		}
		user := account.user
		user.PasswordHash = hash
		user.IsActive = true
		if _, err := st.Create(ctx, user); err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) || errors.Is(err, store.ErrDuplicateRollNo) {
				continue
			}
			return err
		}
	}
	return nil
}
