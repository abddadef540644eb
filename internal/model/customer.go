package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer is an invoicing counterparty. Name is the display name the draft
// denormalizes when the customer is picked.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(255);not null;index"`
	Email     *string   `gorm:"type:varchar(255)"`
	Phone     *string   `gorm:"type:varchar(50)"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
