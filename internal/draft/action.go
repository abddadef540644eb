package draft

import "github.com/shopspring/decimal"

// Action is the closed set of draft mutations. Each variant carries only the
// fields it needs; the reducer switches exhaustively over the concrete types.
type Action interface{ isAction() }

// Field names the top-level Draft fields addressable through SetField.
type Field string

const (
	FieldInvoiceDate     Field = "invoice_date"
	FieldPaymentTerms    Field = "payment_terms"
	FieldReferenceNumber Field = "reference_number"
	FieldNotes           Field = "notes"
	FieldStatus          Field = "current_status"
	FieldBranchID        Field = "branch_id"
	FieldWarehouseID     Field = "warehouse_id"
	FieldCurrencyID      Field = "currency_id"
)

// LineField names the LineItem fields addressable through UpdateLine.
type LineField string

const (
	LineFieldProductID LineField = "product_id"
	LineFieldName      LineField = "name"
	LineFieldQty       LineField = "qty"
	LineFieldRate      LineField = "rate"
	LineFieldDiscount  LineField = "discount"
	LineFieldTaxable   LineField = "taxable"
)

// SetField overwrites one top-level field. No validation is performed; a
// value of the wrong type for the field is a no-op.
type SetField struct {
	Field Field
	Value any
}

// SetCustomer sets the customer id and display name together. The two are
// never updated independently.
type SetCustomer struct {
	ID   string
	Name string
}

// AddLine appends an empty line with a freshly generated id.
type AddLine struct{}

// AddLineWith appends the given line verbatim. The caller supplies the id;
// the store does not check it for uniqueness.
type AddLineWith struct {
	Line LineItem
}

// RemoveLine removes the line with the given id. Unknown ids are a no-op.
// The reducer does not stop the last line from being removed.
type RemoveLine struct {
	LineID string
}

// UpdateLine overwrites one field of the matching line. Unknown line ids and
// mistyped values are no-ops.
type UpdateLine struct {
	LineID string
	Field  LineField
	Value  any
}

// SetLineItem fills a line from a picked catalog item. A nil Rate keeps the
// line's current rate.
type SetLineItem struct {
	LineID    string
	ProductID string
	Name      string
	Rate      *decimal.Decimal
}

// SetInvoiceNumber records the number assigned by the backend.
type SetInvoiceNumber struct {
	Number string
}

// SetInvoiceID records the id assigned by the backend.
type SetInvoiceID struct {
	ID string
}

// Reset discards the draft and replaces it with a fresh default one.
type Reset struct{}

func (SetField) isAction()         {}
func (SetCustomer) isAction()      {}
func (AddLine) isAction()          {}
func (AddLineWith) isAction()      {}
func (RemoveLine) isAction()       {}
func (UpdateLine) isAction()       {}
func (SetLineItem) isAction()      {}
func (SetInvoiceNumber) isAction() {}
func (SetInvoiceID) isAction()     {}
func (Reset) isAction()            {}
