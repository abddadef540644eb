package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice statuses. A draft invoice can still be edited by re-submitting;
// a confirmed one is issued and only voidable.
const (
	InvoiceStatusDraft     = "Draft"
	InvoiceStatusConfirmed = "Confirmed"
	InvoiceStatusVoid      = "Void"
)

// Invoice is the persisted form of a submitted draft.
type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceNumber string    `gorm:"type:varchar(30);uniqueIndex;not null"`
	CustomerID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Customer      *Customer
	InvoiceDate   time.Time `gorm:"not null"`
	// DueDate is derived from InvoiceDate + PaymentTerms at submit time.
	DueDate         time.Time `gorm:"not null"`
	PaymentTerms    string    `gorm:"type:varchar(20);not null;default:'DueOnReceipt'"`
	ReferenceNumber string    `gorm:"type:varchar(100)"`
	Notes           string    `gorm:"type:text"`
	BranchID        int       `gorm:"not null;default:1"`
	WarehouseID     int       `gorm:"not null;default:1"`
	CurrencyID      int       `gorm:"not null;default:1"`
	Status          string    `gorm:"type:varchar(20);not null;default:'Draft'"`
	Lines           []InvoiceLine   `gorm:"foreignKey:InvoiceID"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	TaxTotal        decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0;column:tax_total"`
	Total           decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	// PDFPath is relative to PDF_STORAGE_PATH; set by the render worker.
	PDFPath     *string    `gorm:"column:pdf_path"`
	CreatedByID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InvoiceLine is one row of a persisted invoice. Position preserves the
// display order the lines had in the draft.
type InvoiceLine struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID uuid.UUID  `gorm:"type:uuid;index;not null"`
	ItemID    *uuid.UUID `gorm:"type:uuid;index"`
	Name      string     `gorm:"type:varchar(255);not null"`
	Qty       decimal.Decimal `gorm:"type:decimal(20,4);not null;default:1"`
	Rate      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	Discount  decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	Taxable   bool            `gorm:"not null;default:true"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	Position  int             `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
