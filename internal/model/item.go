package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a catalog entry offered by the item picker. Rate is the default
// unit price copied onto a draft line when the item is picked.
type Item struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string          `gorm:"type:varchar(255);not null;index"`
	SKU       *string         `gorm:"type:varchar(100);uniqueIndex;column:sku"`
	Rate      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	Taxable   bool            `gorm:"not null;default:true"`
	Active    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
