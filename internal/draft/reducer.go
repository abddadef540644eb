package draft

import "github.com/shopspring/decimal"

// Reduce maps (state, action) to the next state. The input draft is never
// mutated — callers relying on snapshot comparison can keep the old value.
// Unrecognized actions return the state unchanged rather than failing, so a
// newer client dispatching an action this build does not know about degrades
// to a no-op instead of a crash.
func Reduce(d Draft, a Action) Draft {
	switch act := a.(type) {
	case SetField:
		return reduceSetField(d, act)

	case SetCustomer:
		next := d.Clone()
		next.Customer = Customer{ID: act.ID, Name: act.Name}
		return next

	case AddLine:
		next := d.Clone()
		next.Lines = append(next.Lines, newLineFor(next.Lines))
		return next

	case AddLineWith:
		next := d.Clone()
		next.Lines = append(next.Lines, act.Line)
		return next

	case RemoveLine:
		next := d.Clone()
		for i, l := range next.Lines {
			if l.ID == act.LineID {
				next.Lines = append(next.Lines[:i], next.Lines[i+1:]...)
				break
			}
		}
		return next

	case UpdateLine:
		return reduceUpdateLine(d, act)

	case SetLineItem:
		next := d.Clone()
		for i := range next.Lines {
			if next.Lines[i].ID != act.LineID {
				continue
			}
			next.Lines[i].ProductID = act.ProductID
			next.Lines[i].Name = act.Name
			if act.Rate != nil {
				next.Lines[i].Rate = *act.Rate
			}
			break
		}
		return next

	case SetInvoiceNumber:
		next := d.Clone()
		next.InvoiceNumber = act.Number
		return next

	case SetInvoiceID:
		next := d.Clone()
		next.InvoiceID = act.ID
		return next

	case Reset:
		return New()

	default:
		return d
	}
}

// reduceSetField overwrites one top-level field. The store does not validate
// values — that stays with the caller — but Go's typing forces a decision on
// mismatched types: they fall through as no-ops, mirroring the unknown-action
// path.
func reduceSetField(d Draft, act SetField) Draft {
	next := d.Clone()
	switch act.Field {
	case FieldInvoiceDate:
		if v, ok := act.Value.(string); ok {
			next.InvoiceDate = v
		}
	case FieldPaymentTerms:
		switch v := act.Value.(type) {
		case PaymentTerms:
			next.PaymentTerms = v
		case string:
			next.PaymentTerms = PaymentTerms(v)
		}
	case FieldReferenceNumber:
		if v, ok := act.Value.(string); ok {
			next.ReferenceNumber = v
		}
	case FieldNotes:
		if v, ok := act.Value.(string); ok {
			next.Notes = v
		}
	case FieldStatus:
		if v, ok := act.Value.(string); ok {
			next.Status = v
		}
	case FieldBranchID:
		if v, ok := act.Value.(int); ok {
			next.BranchID = v
		}
	case FieldWarehouseID:
		if v, ok := act.Value.(int); ok {
			next.WarehouseID = v
		}
	case FieldCurrencyID:
		if v, ok := act.Value.(int); ok {
			next.CurrencyID = v
		}
	}
	return next
}

func reduceUpdateLine(d Draft, act UpdateLine) Draft {
	next := d.Clone()
	for i := range next.Lines {
		if next.Lines[i].ID != act.LineID {
			continue
		}
		l := &next.Lines[i]
		switch act.Field {
		case LineFieldProductID:
			if v, ok := act.Value.(string); ok {
				l.ProductID = v
			}
		case LineFieldName:
			if v, ok := act.Value.(string); ok {
				l.Name = v
			}
		case LineFieldQty:
			if v, ok := act.Value.(decimal.Decimal); ok {
				l.Qty = v
			}
		case LineFieldRate:
			if v, ok := act.Value.(decimal.Decimal); ok {
				l.Rate = v
			}
		case LineFieldDiscount:
			if v, ok := act.Value.(decimal.Decimal); ok {
				l.Discount = v
			}
		case LineFieldTaxable:
			if v, ok := act.Value.(bool); ok {
				l.Taxable = v
			}
		}
		break
	}
	return next
}
