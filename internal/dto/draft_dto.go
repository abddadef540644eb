package dto

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/zayar/cashflow-pwa-sub000/internal/draft"
)

// Action type discriminators accepted on POST /v1/draft/actions.
const (
	ActionSetField         = "set_field"
	ActionSetCustomer      = "set_customer"
	ActionAddLine          = "add_line"
	ActionAddLineWith      = "add_line_with"
	ActionRemoveLine       = "remove_line"
	ActionUpdateLine       = "update_line"
	ActionSetLineItem      = "set_line_item"
	ActionSetInvoiceNumber = "set_invoice_number"
	ActionSetInvoiceID     = "set_invoice_id"
	ActionReset            = "reset"
)

// DraftLinePayload is a fully-formed line supplied with add_line_with.
type DraftLinePayload struct {
	ID        string          `json:"id" validate:"required"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Qty       decimal.Decimal `json:"qty"`
	Rate      decimal.Decimal `json:"rate"`
	Discount  decimal.Decimal `json:"discount"`
	Taxable   bool            `json:"taxable"`
}

// DraftActionRequest is the JSON envelope for one draft mutation. Only the
// fields relevant to the given type need to be set; ToAction converts it
// into the typed action the reducer understands.
type DraftActionRequest struct {
	Type string `json:"type" validate:"required,oneof=set_field set_customer add_line add_line_with remove_line update_line set_line_item set_invoice_number set_invoice_id reset"`

	// set_field / update_line
	Field string          `json:"field,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`

	// set_customer
	CustomerID   string `json:"customer_id,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`

	// remove_line / update_line / set_line_item
	LineID string `json:"line_id,omitempty"`

	// add_line_with
	Line *DraftLinePayload `json:"line,omitempty"`

	// set_line_item
	ProductID string           `json:"product_id,omitempty"`
	Name      string           `json:"name,omitempty"`
	Rate      *decimal.Decimal `json:"rate,omitempty"`

	// set_invoice_number / set_invoice_id
	InvoiceNumber string `json:"invoice_number,omitempty"`
	InvoiceID     string `json:"invoice_id,omitempty"`
}

// ToAction converts the wire envelope into a typed draft action. Parsing and
// normalizing values is the caller's side of the contract — the store itself
// never coerces — so a value that does not decode for its field is rejected
// here with an error rather than dispatched.
func (r DraftActionRequest) ToAction() (draft.Action, error) {
	switch r.Type {
	case ActionSetField:
		value, err := decodeFieldValue(draft.Field(r.Field), r.Value)
		if err != nil {
			return nil, err
		}
		return draft.SetField{Field: draft.Field(r.Field), Value: value}, nil

	case ActionSetCustomer:
		return draft.SetCustomer{ID: r.CustomerID, Name: r.CustomerName}, nil

	case ActionAddLine:
		return draft.AddLine{}, nil

	case ActionAddLineWith:
		if r.Line == nil {
			return nil, fmt.Errorf("add_line_with requires a line")
		}
		return draft.AddLineWith{Line: draft.LineItem{
			ID:        r.Line.ID,
			ProductID: r.Line.ProductID,
			Name:      r.Line.Name,
			Qty:       r.Line.Qty,
			Rate:      r.Line.Rate,
			Discount:  r.Line.Discount,
			Taxable:   r.Line.Taxable,
		}}, nil

	case ActionRemoveLine:
		return draft.RemoveLine{LineID: r.LineID}, nil

	case ActionUpdateLine:
		value, err := decodeLineValue(draft.LineField(r.Field), r.Value)
		if err != nil {
			return nil, err
		}
		return draft.UpdateLine{LineID: r.LineID, Field: draft.LineField(r.Field), Value: value}, nil

	case ActionSetLineItem:
		return draft.SetLineItem{
			LineID:    r.LineID,
			ProductID: r.ProductID,
			Name:      r.Name,
			Rate:      r.Rate,
		}, nil

	case ActionSetInvoiceNumber:
		return draft.SetInvoiceNumber{Number: r.InvoiceNumber}, nil

	case ActionSetInvoiceID:
		return draft.SetInvoiceID{ID: r.InvoiceID}, nil

	case ActionReset:
		return draft.Reset{}, nil

	default:
		return nil, fmt.Errorf("unknown action type %q", r.Type)
	}
}

func decodeFieldValue(field draft.Field, raw json.RawMessage) (any, error) {
	switch field {
	case draft.FieldInvoiceDate, draft.FieldReferenceNumber, draft.FieldNotes, draft.FieldStatus:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("field %s expects a string: %w", field, err)
		}
		return s, nil
	case draft.FieldPaymentTerms:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("field %s expects a string: %w", field, err)
		}
		return draft.PaymentTerms(s), nil
	case draft.FieldBranchID, draft.FieldWarehouseID, draft.FieldCurrencyID:
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, fmt.Errorf("field %s expects an integer: %w", field, err)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unknown draft field %q", field)
	}
}

func decodeLineValue(field draft.LineField, raw json.RawMessage) (any, error) {
	switch field {
	case draft.LineFieldProductID, draft.LineFieldName:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("line field %s expects a string: %w", field, err)
		}
		return s, nil
	case draft.LineFieldQty, draft.LineFieldRate, draft.LineFieldDiscount:
		var d decimal.Decimal
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("line field %s expects a number: %w", field, err)
		}
		return d, nil
	case draft.LineFieldTaxable:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("line field %s expects a boolean: %w", field, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown line field %q", field)
	}
}

// DraftResponse is the snapshot returned by every draft endpoint.
type DraftResponse struct {
	Draft    draft.Draft     `json:"draft"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

func NewDraftResponse(d draft.Draft) DraftResponse {
	return DraftResponse{Draft: d, Subtotal: d.Subtotal()}
}
