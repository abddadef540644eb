package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/zayar/cashflow-pwa-sub000/internal/draft"
	"github.com/zayar/cashflow-pwa-sub000/internal/dto"
	"github.com/zayar/cashflow-pwa-sub000/internal/model"
)

// ── In-memory Repository Stubs ────────────────────────────────────────────────

type stubInvoiceRepo struct {
	invoices map[uuid.UUID]*model.Invoice
	nextSeq  int64
	replaced map[uuid.UUID][]model.InvoiceLine
}

func newStubInvoiceRepo() *stubInvoiceRepo {
	return &stubInvoiceRepo{
		invoices: make(map[uuid.UUID]*model.Invoice),
		replaced: make(map[uuid.UUID][]model.InvoiceLine),
	}
}

func (r *stubInvoiceRepo) Create(_ context.Context, _ *gorm.DB, inv *model.Invoice) error {
	inv.ID = uuid.New()
	inv.CreatedAt = time.Now()
	copied := *inv
	r.invoices[inv.ID] = &copied
	return nil
}

func (r *stubInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copied := *inv
	return &copied, nil
}

func (r *stubInvoiceRepo) Update(_ context.Context, inv *model.Invoice) error {
	copied := *inv
	r.invoices[inv.ID] = &copied
	return nil
}

func (r *stubInvoiceRepo) SaveTx(_ context.Context, _ *gorm.DB, inv *model.Invoice) error {
	copied := *inv
	r.invoices[inv.ID] = &copied
	return nil
}

func (r *stubInvoiceRepo) UpdateStatus(_ context.Context, _ *gorm.DB, id uuid.UUID, status string) error {
	if inv, ok := r.invoices[id]; ok {
		inv.Status = status
	}
	return nil
}

func (r *stubInvoiceRepo) NextInvoiceNumber(_ context.Context, _ *gorm.DB) (int64, error) {
	r.nextSeq++
	return r.nextSeq, nil
}

func (r *stubInvoiceRepo) ReplaceLines(_ context.Context, _ *gorm.DB, invoiceID uuid.UUID, lines []model.InvoiceLine) error {
	r.replaced[invoiceID] = lines
	return nil
}

func (r *stubInvoiceRepo) List(_ context.Context, _ dto.InvoiceFilter) ([]model.Invoice, int64, error) {
	out := make([]model.Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}

func (r *stubInvoiceRepo) ListPendingRender(_ context.Context, _ time.Time, _ int) ([]model.Invoice, error) {
	return nil, nil
}

func (r *stubInvoiceRepo) DB() *gorm.DB { return nil }

type stubCustomerRepo struct{}

func (stubCustomerRepo) Create(_ context.Context, _ *model.Customer) error { return nil }
func (stubCustomerRepo) FindByID(_ context.Context, _ uuid.UUID) (*model.Customer, error) {
	return &model.Customer{Name: "ACME"}, nil
}
func (stubCustomerRepo) Update(_ context.Context, _ *model.Customer) error { return nil }
func (stubCustomerRepo) List(_ context.Context, _ dto.CustomerFilter) ([]model.Customer, int64, error) {
	return nil, 0, nil
}
func (stubCustomerRepo) SoftDelete(_ context.Context, _ uuid.UUID) error { return nil }

// ── Helpers ───────────────────────────────────────────────────────────────────

func preparedDraft(t *testing.T, sessions *draft.Sessions, userID uuid.UUID, customerID uuid.UUID) *draft.Store {
	t.Helper()
	st := sessions.Open(userID.String())
	st.Dispatch(draft.Reset{})
	st.Dispatch(draft.SetCustomer{ID: customerID.String(), Name: "ACME"})

	lineID := st.State().Lines[0].ID
	rate := decimal.NewFromInt(25)
	st.Dispatch(draft.SetLineItem{LineID: lineID, ProductID: uuid.NewString(), Name: "Widget", Rate: &rate})
	st.Dispatch(draft.UpdateLine{LineID: lineID, Field: draft.LineFieldQty, Value: decimal.NewFromInt(4)})
	return st
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestSubmitDraft_NoSession(t *testing.T) {
	svc := NewInvoiceService(newStubInvoiceRepo(), stubCustomerRepo{}, draft.NewSessions(), nil)

	_, err := svc.SubmitDraft(context.Background(), uuid.New(), dto.SubmitDraftRequest{})
	assert.ErrorIs(t, err, draft.ErrNoSession)
}

func TestSubmitDraft_RequiresCustomer(t *testing.T) {
	sessions := draft.NewSessions()
	userID := uuid.New()
	sessions.Open(userID.String()).Dispatch(draft.Reset{})

	svc := NewInvoiceService(newStubInvoiceRepo(), stubCustomerRepo{}, sessions, nil)
	_, err := svc.SubmitDraft(context.Background(), userID, dto.SubmitDraftRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "customer")
}

func TestSubmitDraft_RequiresUsableLine(t *testing.T) {
	sessions := draft.NewSessions()
	userID := uuid.New()
	st := sessions.Open(userID.String())
	st.Dispatch(draft.Reset{})
	st.Dispatch(draft.SetCustomer{ID: uuid.NewString(), Name: "ACME"})
	// The single default line has no item and no name

	svc := NewInvoiceService(newStubInvoiceRepo(), stubCustomerRepo{}, sessions, nil)
	_, err := svc.SubmitDraft(context.Background(), userID, dto.SubmitDraftRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one line")
}

func TestSubmitDraft_CreatesInvoiceAndWritesBack(t *testing.T) {
	sessions := draft.NewSessions()
	repo := newStubInvoiceRepo()
	userID := uuid.New()
	customerID := uuid.New()
	st := preparedDraft(t, sessions, userID, customerID)

	svc := NewInvoiceService(repo, stubCustomerRepo{}, sessions, nil)
	resp, err := svc.SubmitDraft(context.Background(), userID, dto.SubmitDraftRequest{})
	require.NoError(t, err)

	assert.Equal(t, "INV-000001", resp.InvoiceNumber)
	assert.Equal(t, model.InvoiceStatusDraft, resp.Status)
	assert.Equal(t, customerID.String(), resp.CustomerID)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "100", resp.Subtotal.String()) // 4 × 25

	// The assigned id/number flow back into the live draft
	d := st.State()
	assert.Equal(t, resp.ID, d.InvoiceID)
	assert.Equal(t, "INV-000001", d.InvoiceNumber)
}

func TestSubmitDraft_ConfirmSetsStatus(t *testing.T) {
	sessions := draft.NewSessions()
	repo := newStubInvoiceRepo()
	userID := uuid.New()
	preparedDraft(t, sessions, userID, uuid.New())

	svc := NewInvoiceService(repo, stubCustomerRepo{}, sessions, nil)
	resp, err := svc.SubmitDraft(context.Background(), userID, dto.SubmitDraftRequest{Confirm: true})
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusConfirmed, resp.Status)
}

func TestSubmitDraft_ResubmitUpdatesExisting(t *testing.T) {
	sessions := draft.NewSessions()
	repo := newStubInvoiceRepo()
	userID := uuid.New()
	st := preparedDraft(t, sessions, userID, uuid.New())

	svc := NewInvoiceService(repo, stubCustomerRepo{}, sessions, nil)
	first, err := svc.SubmitDraft(context.Background(), userID, dto.SubmitDraftRequest{})
	require.NoError(t, err)

	// Edit the draft and submit again
	st.Dispatch(draft.SetField{Field: draft.FieldNotes, Value: "updated notes"})
	second, err := svc.SubmitDraft(context.Background(), userID, dto.SubmitDraftRequest{})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "re-submit must not create a new invoice")
	assert.Equal(t, first.InvoiceNumber, second.InvoiceNumber, "number is assigned once")
	assert.Equal(t, "updated notes", second.Notes)
	assert.Len(t, repo.invoices, 1)

	id, _ := uuid.Parse(first.ID)
	assert.NotEmpty(t, repo.replaced[id], "lines are replaced on re-submit")
}

func TestSubmitDraft_ConfirmedInvoiceCannotBeResubmitted(t *testing.T) {
	sessions := draft.NewSessions()
	repo := newStubInvoiceRepo()
	userID := uuid.New()
	preparedDraft(t, sessions, userID, uuid.New())

	svc := NewInvoiceService(repo, stubCustomerRepo{}, sessions, nil)
	first, err := svc.SubmitDraft(context.Background(), userID, dto.SubmitDraftRequest{Confirm: true})
	require.NoError(t, err)

	_, err = svc.SubmitDraft(context.Background(), userID, dto.SubmitDraftRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), first.InvoiceNumber)
}

func TestSubmitDraft_SkipsPlaceholderLines(t *testing.T) {
	sessions := draft.NewSessions()
	repo := newStubInvoiceRepo()
	userID := uuid.New()
	st := preparedDraft(t, sessions, userID, uuid.New())
	st.Dispatch(draft.AddLine{}) // untouched empty line

	svc := NewInvoiceService(repo, stubCustomerRepo{}, sessions, nil)
	resp, err := svc.SubmitDraft(context.Background(), userID, dto.SubmitDraftRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Lines, 1, "empty placeholder line is not persisted")
}

func TestVoidInvoice(t *testing.T) {
	repo := newStubInvoiceRepo()
	inv := &model.Invoice{
		InvoiceNumber: "INV-000042",
		Status:        model.InvoiceStatusConfirmed,
		Notes:         "original",
	}
	require.NoError(t, repo.Create(context.Background(), nil, inv))

	svc := NewInvoiceService(repo, stubCustomerRepo{}, draft.NewSessions(), nil)
	require.NoError(t, svc.VoidInvoice(context.Background(), inv.ID, "duplicate billing"))

	stored := repo.invoices[inv.ID]
	assert.Equal(t, model.InvoiceStatusVoid, stored.Status)
	assert.Contains(t, stored.Notes, "original")
	assert.Contains(t, stored.Notes, "duplicate billing")

	err := svc.VoidInvoice(context.Background(), inv.ID, "again")
	assert.Error(t, err, "voiding twice must fail")
}

func TestInvoicePDF_PendingRender(t *testing.T) {
	repo := newStubInvoiceRepo()
	inv := &model.Invoice{Status: model.InvoiceStatusConfirmed}
	require.NoError(t, repo.Create(context.Background(), nil, inv))

	svc := NewInvoiceService(repo, stubCustomerRepo{}, draft.NewSessions(), nil)
	_, err := svc.InvoicePDF(context.Background(), inv.ID)
	require.Error(t, err)

	path := "/tmp/invoice.pdf"
	repo.invoices[inv.ID].PDFPath = &path
	got, err := svc.InvoicePDF(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, path, got)
}
