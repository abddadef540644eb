package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zayar/cashflow-pwa-sub000/internal/draft"
	"github.com/zayar/cashflow-pwa-sub000/internal/dto"
	"github.com/zayar/cashflow-pwa-sub000/internal/model"
	"github.com/zayar/cashflow-pwa-sub000/internal/repository"
	"github.com/zayar/cashflow-pwa-sub000/internal/worker"
)

type InvoiceService interface {
	SubmitDraft(ctx context.Context, userID uuid.UUID, req dto.SubmitDraftRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter dto.InvoiceFilter) (*dto.InvoiceListResponse, error)
	VoidInvoice(ctx context.Context, id uuid.UUID, reason string) error
	InvoicePDF(ctx context.Context, id uuid.UUID) (string, error)
}

type invoiceService struct {
	repo       repository.InvoiceRepository
	customers  repository.CustomerRepository
	sessions   *draft.Sessions
	dispatcher *worker.Dispatcher
}

func NewInvoiceService(
	repo repository.InvoiceRepository,
	customers repository.CustomerRepository,
	sessions *draft.Sessions,
	dispatcher *worker.Dispatcher,
) InvoiceService {
	return &invoiceService{
		repo:       repo,
		customers:  customers,
		sessions:   sessions,
		dispatcher: dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── SubmitDraft ───────────────────────────────────────────────────────────────
// Persists the caller's current draft:
//   1. Fetch the session's draft store — fails loudly when none is provisioned
//   2. Validate: customer picked, at least one usable line, parsable date
//   3. BEGIN TX: assign number from the sequence (first submit only),
//      create or update the invoice with its lines
//   4. COMMIT
//   5. Write the assigned id/number back into the draft — the only
//      post-persist mutation the store receives
//   6. (async) enqueue a render job when the invoice was confirmed

func (s *invoiceService) SubmitDraft(ctx context.Context, userID uuid.UUID, req dto.SubmitDraftRequest) (*dto.InvoiceResponse, error) {
	st, err := s.sessions.Get(userID.String())
	if err != nil {
		return nil, err
	}
	d := st.State()

	// 1. Validation the reducer deliberately does not do
	if !d.HasCustomer() {
		return nil, errors.New("no customer selected")
	}
	customerID, err := uuid.Parse(d.Customer.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid customer id: %w", err)
	}
	invoiceDate, err := time.Parse(draft.DateLayout, d.InvoiceDate)
	if err != nil {
		return nil, fmt.Errorf("invalid invoice date %q: %w", d.InvoiceDate, err)
	}

	lines := usableLines(d.Lines)
	if len(lines) == 0 {
		return nil, errors.New("invoice needs at least one line with an item")
	}

	status := model.InvoiceStatusDraft
	if req.Confirm {
		status = model.InvoiceStatusConfirmed
	}

	subtotal := decimal.Zero
	modelLines := make([]model.InvoiceLine, 0, len(lines))
	for i, l := range lines {
		amount := l.Amount()
		subtotal = subtotal.Add(amount)
		ml := model.InvoiceLine{
			Name:     l.Name,
			Qty:      l.Qty,
			Rate:     l.Rate,
			Discount: l.Discount,
			Taxable:  l.Taxable,
			Amount:   amount,
			Position: i,
		}
		if itemID, err := uuid.Parse(l.ProductID); err == nil {
			id := itemID
			ml.ItemID = &id
		}
		modelLines = append(modelLines, ml)
	}

	// 2. ACID transaction — create on first submit, update on re-submit
	var inv model.Invoice
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if d.InvoiceID == "" {
			seq, err := s.repo.NextInvoiceNumber(ctx, tx)
			if err != nil {
				return err
			}
			inv = model.Invoice{
				InvoiceNumber:   fmt.Sprintf("INV-%06d", seq),
				CustomerID:      customerID,
				InvoiceDate:     invoiceDate,
				DueDate:         invoiceDate.AddDate(0, 0, d.PaymentTerms.DueDays()),
				PaymentTerms:    string(d.PaymentTerms),
				ReferenceNumber: d.ReferenceNumber,
				Notes:           d.Notes,
				BranchID:        d.BranchID,
				WarehouseID:     d.WarehouseID,
				CurrencyID:      d.CurrencyID,
				Status:          status,
				Lines:           modelLines,
				Subtotal:        subtotal,
				Total:           subtotal,
				CreatedByID:     &userID,
			}
			return s.repo.Create(ctx, tx, &inv)
		}

		// Re-submit of an already-persisted draft
		existingID, err := uuid.Parse(d.InvoiceID)
		if err != nil {
			return fmt.Errorf("invalid invoice id on draft: %w", err)
		}
		existing, err := s.repo.FindByID(ctx, existingID)
		if err != nil {
			return errors.New("invoice not found")
		}
		if existing.Status != model.InvoiceStatusDraft {
			return fmt.Errorf("invoice %s is %s and can no longer be edited", existing.InvoiceNumber, existing.Status)
		}

		existing.CustomerID = customerID
		existing.InvoiceDate = invoiceDate
		existing.DueDate = invoiceDate.AddDate(0, 0, d.PaymentTerms.DueDays())
		existing.PaymentTerms = string(d.PaymentTerms)
		existing.ReferenceNumber = d.ReferenceNumber
		existing.Notes = d.Notes
		existing.BranchID = d.BranchID
		existing.WarehouseID = d.WarehouseID
		existing.CurrencyID = d.CurrencyID
		existing.Status = status
		existing.Subtotal = subtotal
		existing.Total = subtotal
		existing.Lines = nil

		if err := s.repo.ReplaceLines(ctx, tx, existing.ID, modelLines); err != nil {
			return err
		}
		if err := s.repo.SaveTx(ctx, tx, existing); err != nil {
			return err
		}
		inv = *existing
		inv.Lines = modelLines
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// 3. Write the backend-assigned identifiers back into the draft
	st.Dispatch(draft.SetInvoiceID{ID: inv.ID.String()})
	st.Dispatch(draft.SetInvoiceNumber{Number: inv.InvoiceNumber})

	// 4. Async render job (best-effort, fire & forget)
	if req.Confirm && s.dispatcher != nil {
		payload := worker.RenderJobPayload{InvoiceID: inv.ID.String()}
		if req.EmailTo != nil && *req.EmailTo != "" {
			payload.EmailTo = req.EmailTo
		}
		_ = s.dispatcher.EnqueueRender(ctx, payload)
	}

	resp := invoiceToResponse(&inv)
	resp.CustomerName = d.Customer.Name
	return resp, nil
}

// usableLines drops placeholder rows (no item picked, no free-text name) so
// an untouched default line does not end up on the persisted invoice.
func usableLines(lines []draft.LineItem) []draft.LineItem {
	out := make([]draft.LineItem, 0, len(lines))
	for _, l := range lines {
		if l.ProductID == "" && l.Name == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}

// ── Read / Void ───────────────────────────────────────────────────────────────

func (s *invoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("invoice not found")
	}
	return invoiceToResponse(inv), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter dto.InvoiceFilter) (*dto.InvoiceListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	invoices, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvoiceListItem, 0, len(invoices))
	for _, inv := range invoices {
		name := ""
		if inv.Customer != nil {
			name = inv.Customer.Name
		}
		items = append(items, dto.InvoiceListItem{
			ID:            inv.ID.String(),
			InvoiceNumber: inv.InvoiceNumber,
			CustomerName:  name,
			InvoiceDate:   inv.InvoiceDate.Format(draft.DateLayout),
			DueDate:       inv.DueDate.Format(draft.DateLayout),
			Status:        inv.Status,
			Total:         inv.Total,
		})
	}
	return &dto.InvoiceListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *invoiceService) VoidInvoice(ctx context.Context, id uuid.UUID, reason string) error {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("invoice not found")
	}
	if inv.Status == model.InvoiceStatusVoid {
		return errors.New("invoice is already void")
	}
	inv.Status = model.InvoiceStatusVoid
	inv.Notes = appendVoidReason(inv.Notes, reason)
	return s.repo.Update(ctx, inv)
}

// InvoicePDF returns the stored path of the rendered PDF, or an error while
// the render job has not completed yet.
func (s *invoiceService) InvoicePDF(ctx context.Context, id uuid.UUID) (string, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", errors.New("invoice not found")
	}
	if inv.PDFPath == nil || *inv.PDFPath == "" {
		return "", errors.New("pdf not rendered yet")
	}
	return *inv.PDFPath, nil
}

func appendVoidReason(notes, reason string) string {
	entry := fmt.Sprintf("[voided %s] %s", time.Now().Format(draft.DateLayout), reason)
	if notes == "" {
		return entry
	}
	return notes + "\n" + entry
}

func invoiceToResponse(inv *model.Invoice) *dto.InvoiceResponse {
	lines := make([]dto.InvoiceLineResponse, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		lr := dto.InvoiceLineResponse{
			ID:       l.ID.String(),
			Name:     l.Name,
			Qty:      l.Qty,
			Rate:     l.Rate,
			Discount: l.Discount,
			Taxable:  l.Taxable,
			Amount:   l.Amount,
		}
		if l.ItemID != nil {
			lr.ItemID = l.ItemID.String()
		}
		lines = append(lines, lr)
	}
	name := ""
	if inv.Customer != nil {
		name = inv.Customer.Name
	}
	return &dto.InvoiceResponse{
		ID:              inv.ID.String(),
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID.String(),
		CustomerName:    name,
		InvoiceDate:     inv.InvoiceDate.Format(draft.DateLayout),
		DueDate:         inv.DueDate.Format(draft.DateLayout),
		PaymentTerms:    inv.PaymentTerms,
		ReferenceNumber: inv.ReferenceNumber,
		Notes:           inv.Notes,
		BranchID:        inv.BranchID,
		WarehouseID:     inv.WarehouseID,
		CurrencyID:      inv.CurrencyID,
		Status:          inv.Status,
		Lines:           lines,
		Subtotal:        inv.Subtotal,
		Total:           inv.Total,
		CreatedAt:       inv.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
