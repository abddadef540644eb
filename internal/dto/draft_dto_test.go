package dto

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zayar/cashflow-pwa-sub000/internal/draft"
)

func TestToAction_SetFieldDecoding(t *testing.T) {
	cases := []struct {
		name  string
		field string
		raw   string
		want  any
	}{
		{"string field", "notes", `"call before delivery"`, "call before delivery"},
		{"terms field", "payment_terms", `"Net30"`, draft.TermsNet30},
		{"int field", "branch_id", `2`, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := DraftActionRequest{Type: ActionSetField, Field: tc.field, Value: json.RawMessage(tc.raw)}
			a, err := req.ToAction()
			require.NoError(t, err)
			sf, ok := a.(draft.SetField)
			require.True(t, ok)
			assert.Equal(t, tc.want, sf.Value)
		})
	}
}

func TestToAction_SetFieldWrongType(t *testing.T) {
	req := DraftActionRequest{Type: ActionSetField, Field: "branch_id", Value: json.RawMessage(`"two"`)}
	_, err := req.ToAction()
	assert.Error(t, err)
}

func TestToAction_UnknownField(t *testing.T) {
	req := DraftActionRequest{Type: ActionSetField, Field: "tax_rate", Value: json.RawMessage(`5`)}
	_, err := req.ToAction()
	assert.Error(t, err)
}

func TestToAction_UpdateLineDecimal(t *testing.T) {
	req := DraftActionRequest{Type: ActionUpdateLine, LineID: "l1", Field: "rate", Value: json.RawMessage(`12.5`)}
	a, err := req.ToAction()
	require.NoError(t, err)
	ul := a.(draft.UpdateLine)
	assert.Equal(t, "l1", ul.LineID)
	assert.True(t, ul.Value.(decimal.Decimal).Equal(decimal.NewFromFloat(12.5)))
}

func TestToAction_AddLineWithRequiresLine(t *testing.T) {
	req := DraftActionRequest{Type: ActionAddLineWith}
	_, err := req.ToAction()
	assert.Error(t, err)
}

func TestToAction_SetLineItemOptionalRate(t *testing.T) {
	req := DraftActionRequest{Type: ActionSetLineItem, LineID: "l1", ProductID: "p1", Name: "Widget"}
	a, err := req.ToAction()
	require.NoError(t, err)
	sli := a.(draft.SetLineItem)
	assert.Nil(t, sli.Rate, "missing rate keeps the line's current rate")
}

func TestToAction_UnknownType(t *testing.T) {
	req := DraftActionRequest{Type: "explode"}
	_, err := req.ToAction()
	assert.Error(t, err)
}
