package worker

// render_worker.go
// Processes invoice PDF render jobs from QueueRender.
// Loads the persisted invoice, renders an A4 PDF and records its path,
// then optionally enqueues an email job with the attachment.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/zayar/cashflow-pwa-sub000/internal/infra"
	"github.com/zayar/cashflow-pwa-sub000/internal/repository"
)

// RenderJobPayload is the job envelope sent to QueueRender.
type RenderJobPayload struct {
	InvoiceID string  `json:"invoice_id"`
	EmailTo   *string `json:"email_to,omitempty"`
}

// RenderWorker renders invoice PDFs off the request path.
type RenderWorker struct {
	invoiceRepo    repository.InvoiceRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
}

func NewRenderWorker(invoiceRepo repository.InvoiceRepository, dispatcher *Dispatcher, pdfStoragePath string) *RenderWorker {
	return &RenderWorker{
		invoiceRepo:    invoiceRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single render job:
//  1. Parse RenderJobPayload from the job envelope
//  2. Fetch the invoice (with lines and customer) from DB
//  3. Render the PDF and store its path on the invoice
//  4. Optionally enqueue an email job with the attachment
func (w *RenderWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload RenderJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("render_worker: invalid payload")
		return
	}

	invoiceID, err := uuid.Parse(payload.InvoiceID)
	if err != nil {
		log.Error().Str("invoice_id", payload.InvoiceID).Msg("render_worker: invalid invoice_id")
		return
	}

	inv, err := w.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		log.Error().Err(err).Str("invoice_id", payload.InvoiceID).Msg("render_worker: invoice not found")
		return
	}

	pdfPath, err := infra.GenerateInvoicePDF(inv, w.pdfStoragePath)
	if err != nil {
		// Leave pdf_path NULL — the render retry cron will pick it up
		log.Error().Err(err).Str("invoice_id", payload.InvoiceID).Msg("render_worker: PDF generation failed")
		return
	}

	inv.PDFPath = &pdfPath
	if err := w.invoiceRepo.Update(ctx, inv); err != nil {
		log.Error().Err(err).Str("invoice_id", payload.InvoiceID).Msg("render_worker: failed to store pdf path")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("invoice", inv.InvoiceNumber).Msg("render_worker: PDF generated")

	if payload.EmailTo != nil && *payload.EmailTo != "" {
		emailJob := EmailJobPayload{
			ToEmail: *payload.EmailTo,
			Subject: fmt.Sprintf("Invoice %s", inv.InvoiceNumber),
			Body:    fmt.Sprintf("Please find invoice %s attached.\nTotal: %s", inv.InvoiceNumber, inv.Total.StringFixed(2)),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *payload.EmailTo).Msg("render_worker: failed to enqueue email")
		} else {
			log.Info().Str("email", *payload.EmailTo).Msg("render_worker: email job enqueued")
		}
	}
}
