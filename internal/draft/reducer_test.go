package draft

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReset_CanonicalDraft(t *testing.T) {
	d := New()
	d = Reduce(d, SetCustomer{ID: "C9", Name: "Stale Corp"})
	d = Reduce(d, AddLine{})
	d = Reduce(d, SetField{Field: FieldNotes, Value: "scratch"})

	d = Reduce(d, Reset{})

	require.Len(t, d.Lines, 1)
	line := d.Lines[0]
	assert.Equal(t, "1", line.Qty.String())
	assert.True(t, line.Rate.IsZero())
	assert.True(t, line.Discount.IsZero())
	assert.True(t, line.Taxable)
	assert.Empty(t, line.Name)
	assert.Empty(t, line.ProductID)
	assert.NotEmpty(t, line.ID)

	assert.False(t, d.HasCustomer())
	assert.Empty(t, d.Customer.Name)
	assert.Equal(t, time.Now().Format(DateLayout), d.InvoiceDate)
	assert.Equal(t, TermsDueOnReceipt, d.PaymentTerms)
	assert.Equal(t, StatusDraft, d.Status)
	assert.Empty(t, d.InvoiceID)
	assert.Empty(t, d.InvoiceNumber)
	assert.Equal(t, 1, d.BranchID)
	assert.Equal(t, 1, d.WarehouseID)
	assert.Equal(t, 1, d.CurrencyID)
}

func TestSetCustomer_Atomic(t *testing.T) {
	d := New()
	for _, tc := range []struct{ id, name string }{
		{"C1", "Acme"},
		{"C2", "Globex"},
		{"", ""},
	} {
		d = Reduce(d, SetCustomer{ID: tc.id, Name: tc.name})
		assert.Equal(t, tc.id, d.Customer.ID)
		assert.Equal(t, tc.name, d.Customer.Name)
	}
}

func TestAddLine_IDsAreUnique(t *testing.T) {
	// A burst of adds lands many lines in the same millisecond; ids must
	// still come out pairwise distinct.
	d := New()
	for i := 0; i < 500; i++ {
		d = Reduce(d, AddLine{})
	}
	d = Reduce(d, AddLineWith{Line: LineItem{ID: "caller-supplied", Qty: decimal.NewFromInt(2)}})
	require.Len(t, d.Lines, 502)

	seen := make(map[string]bool, len(d.Lines))
	for _, l := range d.Lines {
		assert.Falsef(t, seen[l.ID], "duplicate line id %q", l.ID)
		seen[l.ID] = true
	}
}

func TestNewLineFor_NeverReturnsTakenID(t *testing.T) {
	// Hammer the generator against a growing list; every returned id must be
	// absent from the lines it was generated for.
	lines := make([]LineItem, 0, 1000)
	for i := 0; i < 1000; i++ {
		l := newLineFor(lines)
		require.False(t, lineIDTaken(lines, l.ID), "id %q already in use", l.ID)
		lines = append(lines, l)
	}
}

func TestUpdateLine_Targeted(t *testing.T) {
	d := New()
	d = Reduce(d, AddLine{})
	d = Reduce(d, AddLine{})
	require.Len(t, d.Lines, 3)
	before := d.Clone()

	d = Reduce(d, UpdateLine{LineID: d.Lines[1].ID, Field: LineFieldQty, Value: decimal.NewFromInt(5)})

	assert.Equal(t, "5", d.Lines[1].Qty.String())
	assert.Equal(t, before.Lines[0], d.Lines[0])
	assert.Equal(t, before.Lines[2], d.Lines[2])
}

func TestUpdateLine_UnknownID_NoOp(t *testing.T) {
	d := New()
	before := d.Clone()
	d = Reduce(d, UpdateLine{LineID: "missing", Field: LineFieldRate, Value: decimal.NewFromInt(99)})
	assert.Equal(t, before, d)
}

func TestUpdateLine_WrongValueType_NoOp(t *testing.T) {
	d := New()
	before := d.Clone()
	// qty expects decimal.Decimal; a string must not be stored or panic
	d = Reduce(d, UpdateLine{LineID: d.Lines[0].ID, Field: LineFieldQty, Value: "five"})
	assert.Equal(t, before, d)
}

func TestRemoveLine_UnknownID_NoOp(t *testing.T) {
	d := New()
	d = Reduce(d, AddLine{})
	before := d.Clone()

	d = Reduce(d, RemoveLine{LineID: "does-not-exist"})
	assert.Equal(t, before.Lines, d.Lines)
}

func TestRemoveLine_CanEmptyTheList(t *testing.T) {
	// The reducer does not enforce the one-line minimum; that check lives in
	// the invoice service at submit time.
	d := New()
	d = Reduce(d, RemoveLine{LineID: d.Lines[0].ID})
	assert.Empty(t, d.Lines)
}

func TestSetLineItem_RateFallback(t *testing.T) {
	d := New()
	lineID := d.Lines[0].ID
	d = Reduce(d, UpdateLine{LineID: lineID, Field: LineFieldRate, Value: decimal.NewFromInt(100)})

	// No rate supplied — existing rate survives
	d = Reduce(d, SetLineItem{LineID: lineID, ProductID: "P1", Name: "Widget"})
	assert.Equal(t, "100", d.Lines[0].Rate.String())
	assert.Equal(t, "P1", d.Lines[0].ProductID)
	assert.Equal(t, "Widget", d.Lines[0].Name)

	// Explicit rate wins
	rate := decimal.NewFromInt(250)
	d = Reduce(d, SetLineItem{LineID: lineID, ProductID: "P1", Name: "Widget", Rate: &rate})
	assert.Equal(t, "250", d.Lines[0].Rate.String())
}

func TestSetField_UnknownFieldAndWrongType_NoOp(t *testing.T) {
	d := New()
	before := d.Clone()

	d = Reduce(d, SetField{Field: Field("no_such_field"), Value: "x"})
	assert.Equal(t, before, d)

	d = Reduce(d, SetField{Field: FieldBranchID, Value: "not-an-int"})
	assert.Equal(t, before, d)
}

func TestSetField_OverwritesTopLevelFields(t *testing.T) {
	d := New()
	d = Reduce(d, SetField{Field: FieldPaymentTerms, Value: TermsNet30})
	d = Reduce(d, SetField{Field: FieldReferenceNumber, Value: "PO-7731"})
	d = Reduce(d, SetField{Field: FieldNotes, Value: "deliver to dock 4"})
	d = Reduce(d, SetField{Field: FieldStatus, Value: StatusConfirmed})
	d = Reduce(d, SetField{Field: FieldInvoiceDate, Value: "2026-01-31"})

	assert.Equal(t, TermsNet30, d.PaymentTerms)
	assert.Equal(t, "PO-7731", d.ReferenceNumber)
	assert.Equal(t, "deliver to dock 4", d.Notes)
	assert.Equal(t, StatusConfirmed, d.Status)
	assert.Equal(t, "2026-01-31", d.InvoiceDate)
}

type futureAction struct{}

func (futureAction) isAction() {}

func TestUnknownAction_ReturnsStateUnchanged(t *testing.T) {
	d := New()
	d = Reduce(d, SetCustomer{ID: "C1", Name: "Acme"})
	before := d.Clone()

	after := Reduce(d, futureAction{})
	assert.Equal(t, before, after)

	after = Reduce(d, nil)
	assert.Equal(t, before, after)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	d := New()
	snapshot := d.Clone()

	_ = Reduce(d, UpdateLine{LineID: d.Lines[0].ID, Field: LineFieldName, Value: "changed"})
	_ = Reduce(d, RemoveLine{LineID: d.Lines[0].ID})

	assert.Equal(t, snapshot, d)
}

func TestEndToEnd_PickCustomerAndItem(t *testing.T) {
	d := Reduce(New(), Reset{})
	defaultLineID := d.Lines[0].ID

	d = Reduce(d, SetCustomer{ID: "C1", Name: "Acme"})
	d = Reduce(d, AddLineWith{Line: LineItem{
		ID:        "x",
		ProductID: "P1",
		Name:      "Widget",
		Qty:       decimal.NewFromInt(2),
		Rate:      decimal.NewFromInt(50),
		Discount:  decimal.Zero,
		Taxable:   true,
	}})
	d = Reduce(d, RemoveLine{LineID: defaultLineID})

	assert.Equal(t, "C1", d.Customer.ID)
	require.Len(t, d.Lines, 1)
	assert.Equal(t, "Widget", d.Lines[0].Name)
	assert.Equal(t, "100", d.Subtotal().String())
}
