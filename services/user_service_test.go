package services

import (
	"errors"
	"testing"

	"campus-booking-backend/models"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.Register("Alice@Campus.Local", "Alice", "secret-password")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Email != "alice@campus.local" {
		t.Errorf("user.Email = %v, want normalized lowercase", user.Email)
	}
	if user.Role != models.RoleStudent {
		t.Errorf("user.Role = %v, want %v", user.Role, models.RoleStudent)
	}
	if user.PasswordHash == "secret-password" {
		t.Error("password stored in plain text")
	}

	got, err := svc.Authenticate("alice@campus.local", "secret-password")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("got.ID = %d, want %d", got.ID, user.ID)
	}

	if _, err := svc.Authenticate("alice@campus.local", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Authenticate(wrong password) error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Authenticate("nobody@campus.local", "secret-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Authenticate(unknown email) error = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	if _, err := svc.Register("alice@campus.local", "Alice", "secret-password"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err := svc.Register("alice@campus.local", "Imposter", "other-password")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Register(duplicate) error = %v, want ErrEmailTaken", err)
	}
}

func TestUpdateRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.Register("alice@campus.local", "Alice", "secret-password")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	updated, err := svc.UpdateRole(user.ID, models.RoleStaff)
	if err != nil {
		t.Fatalf("UpdateRole() error = %v", err)
	}
	if updated.Role != models.RoleStaff {
		t.Errorf("updated.Role = %v, want %v", updated.Role, models.RoleStaff)
	}

	if _, err := svc.UpdateRole(999, models.RoleStaff); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("UpdateRole(unknown) error = %v, want ErrUserNotFound", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	if _, err := svc.GetByID(999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID(unknown) error = %v, want ErrUserNotFound", err)
	}
}
