package model

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Clerks edit drafts and issue invoices; admins additionally
// manage the catalog, customers, users, and can void invoices.
const (
	RoleClerk = "clerk"
	RoleAdmin = "admin"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Email        *string   `gorm:"type:varchar(255)"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(20);not null;default:'clerk'"`
	Active       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
