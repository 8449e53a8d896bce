package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent = "STUDENT"
	RoleStaff   = "STAFF"
	RoleAdmin   = "ADMIN"
)

// ValidRole reports whether role is one of the recognized user roles.
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleStaff || role == RoleAdmin
}

// IsPrivileged reports whether the role may approve/reject bookings and act
// on bookings owned by other users.
func IsPrivileged(role string) bool {
	return role == RoleStaff || role == RoleAdmin
}

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;size:150" json:"email"`
	Name         string `gorm:"size:120" json:"name"`
	PasswordHash string `gorm:"column:password_hash;size:255" json:"-"` // never returned in JSON
	Role         string `gorm:"size:20;default:STUDENT" json:"role"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
