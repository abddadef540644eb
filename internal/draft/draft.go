// Package draft holds the in-progress invoice being edited by a client
// session. It is a unidirectional-data-flow store: one Draft value, a closed
// set of actions, and a pure reducer. The package performs no I/O — persisting
// a draft is the invoice service's job, after which only the assigned id and
// number are written back in.
package draft

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentTerms controls how the invoice due date is derived from its date.
type PaymentTerms string

const (
	TermsDueOnReceipt PaymentTerms = "DueOnReceipt"
	TermsNet7         PaymentTerms = "Net7"
	TermsNet15        PaymentTerms = "Net15"
	TermsNet30        PaymentTerms = "Net30"
)

// DueDays returns the payment window in days. Unrecognized terms behave as
// due-on-receipt.
func (t PaymentTerms) DueDays() int {
	switch t {
	case TermsNet7:
		return 7
	case TermsNet15:
		return 15
	case TermsNet30:
		return 30
	default:
		return 0
	}
}

// Status values for Draft.Status. The store treats status as opaque data —
// it is threaded through to the backend without transition checks.
const (
	StatusDraft     = "Draft"
	StatusConfirmed = "Confirmed"
)

// DateLayout is the wire format for invoice dates.
const DateLayout = "2006-01-02"

// Customer is the chosen customer for the draft. ID and Name always travel
// together; the zero value means no customer has been picked yet.
type Customer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LineItem is one row of the draft. An empty ProductID and Name mean the row
// is still in its "select an item" placeholder state.
type LineItem struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Qty       decimal.Decimal `json:"qty"`
	Rate      decimal.Decimal `json:"rate"`
	Discount  decimal.Decimal `json:"discount"`
	Taxable   bool            `json:"taxable"`
}

// Amount returns qty*rate - discount for the line.
func (l LineItem) Amount() decimal.Decimal {
	return l.Qty.Mul(l.Rate).Sub(l.Discount)
}

// Draft is the single in-progress invoice for one editing session.
// InvoiceID and InvoiceNumber stay empty until the backend persists the
// invoice and assigns them.
type Draft struct {
	InvoiceID       string          `json:"invoice_id"`
	InvoiceNumber   string          `json:"invoice_number"`
	InvoiceDate     string          `json:"invoice_date"` // YYYY-MM-DD
	PaymentTerms    PaymentTerms    `json:"payment_terms"`
	Customer        Customer        `json:"customer"`
	ReferenceNumber string          `json:"reference_number"`
	Notes           string          `json:"notes"`
	BranchID        int             `json:"branch_id"`
	WarehouseID     int             `json:"warehouse_id"`
	CurrencyID      int             `json:"currency_id"`
	Status          string          `json:"current_status"`
	Lines           []LineItem      `json:"lines"`
}

// New returns the canonical fresh draft: today's date, due on receipt,
// default branch/warehouse/currency, exactly one empty line.
func New() Draft {
	return Draft{
		InvoiceDate:  time.Now().Format(DateLayout),
		PaymentTerms: TermsDueOnReceipt,
		BranchID:     1,
		WarehouseID:  1,
		CurrencyID:   1,
		Status:       StatusDraft,
		Lines:        []LineItem{NewLine()},
	}
}

// NewLine returns an empty line with a freshly generated id and defaults
// qty=1, rate=0, discount=0, taxable.
func NewLine() LineItem {
	return LineItem{
		ID:      newLineID(),
		Qty:     decimal.NewFromInt(1),
		Taxable: true,
	}
}

// newLineID generates a line id: unix milliseconds plus a random 32-bit
// suffix. Ids are never reused within a draft's lifetime.
func newLineID() string {
	return fmt.Sprintf("%d-%08x", time.Now().UnixMilli(), rand.Uint32())
}

// newLineFor returns a fresh line whose id does not collide with any line
// already in the draft. Bursts of adds landing in the same millisecond keep
// drawing suffixes until the id is unused.
func newLineFor(lines []LineItem) LineItem {
	l := NewLine()
	for lineIDTaken(lines, l.ID) {
		l.ID = newLineID()
	}
	return l
}

func lineIDTaken(lines []LineItem, id string) bool {
	for i := range lines {
		if lines[i].ID == id {
			return true
		}
	}
	return false
}

// Subtotal sums qty*rate - discount over all lines.
func (d Draft) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Lines {
		total = total.Add(l.Amount())
	}
	return total
}

// Clone returns a deep copy. Lines is the only reference-typed field.
func (d Draft) Clone() Draft {
	out := d
	out.Lines = make([]LineItem, len(d.Lines))
	copy(out.Lines, d.Lines)
	return out
}

// HasCustomer reports whether a customer has been picked.
func (d Draft) HasCustomer() bool { return d.Customer.ID != "" }
