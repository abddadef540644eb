package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// InvoiceFilter is bound from the query string of GET /v1/invoices.
type InvoiceFilter struct {
	Status   string `form:"status,default=all"` // Draft | Confirmed | Void | all
	DateFrom string `form:"date_from"`          // YYYY-MM-DD
	DateTo   string `form:"date_to"`            // YYYY-MM-DD
	Customer string `form:"customer_id"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type InvoiceListItem struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerName  string          `json:"customer_name"`
	InvoiceDate   string          `json:"invoice_date"`
	DueDate       string          `json:"due_date"`
	Status        string          `json:"current_status"`
	Total         decimal.Decimal `json:"total"`
}

type InvoiceListResponse struct {
	Data  []InvoiceListItem `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// SubmitDraftRequest persists the caller's current draft. Confirm=true issues
// the invoice (status Confirmed, render job enqueued); false saves it as a
// backend draft that can be re-submitted later.
type SubmitDraftRequest struct {
	Confirm bool `json:"confirm"`
	// EmailTo: optional — when present, the render worker mails the PDF.
	EmailTo *string `json:"email_to" validate:"omitempty,email"`
}

type VoidInvoiceRequest struct {
	Reason string `json:"reason" validate:"required,min=5"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type InvoiceLineResponse struct {
	ID       string          `json:"id"`
	ItemID   string          `json:"item_id,omitempty"`
	Name     string          `json:"name"`
	Qty      decimal.Decimal `json:"qty"`
	Rate     decimal.Decimal `json:"rate"`
	Discount decimal.Decimal `json:"discount"`
	Taxable  bool            `json:"taxable"`
	Amount   decimal.Decimal `json:"amount"`
}

type InvoiceResponse struct {
	ID              string                `json:"id"`
	InvoiceNumber   string                `json:"invoice_number"`
	CustomerID      string                `json:"customer_id"`
	CustomerName    string                `json:"customer_name"`
	InvoiceDate     string                `json:"invoice_date"`
	DueDate         string                `json:"due_date"`
	PaymentTerms    string                `json:"payment_terms"`
	ReferenceNumber string                `json:"reference_number,omitempty"`
	Notes           string                `json:"notes,omitempty"`
	BranchID        int                   `json:"branch_id"`
	WarehouseID     int                   `json:"warehouse_id"`
	CurrencyID      int                   `json:"currency_id"`
	Status          string                `json:"current_status"`
	Lines           []InvoiceLineResponse `json:"lines"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	Total           decimal.Decimal       `json:"total"`
	CreatedAt       string                `json:"created_at"`
}
