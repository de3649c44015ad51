package models

import (
	"time"
)

// User roles
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// User is an account that signs in to the dashboard. Users are never hard
// deleted; deactivation clears IsActive.
type User struct {
	ID           string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Email        string     `json:"email" gorm:"size:320;not null;uniqueIndex" validate:"required,email,max=320"`
	PasswordHash string     `json:"-" gorm:"not null"`
	FullName     string     `json:"fullName" gorm:"size:255;not null" validate:"required,min=1,max=255"`
	Role         string     `json:"role" gorm:"size:20;not null;default:client;check:chk_users_role,role IN ('admin','client')" validate:"required,oneof=admin client"`
	IsActive     bool       `json:"isActive" gorm:"not null;default:true"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user may act on every client.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
