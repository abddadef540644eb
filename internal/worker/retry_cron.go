package worker

// retry_cron.go
// Background goroutine that periodically re-enqueues render jobs for
// confirmed invoices still missing a PDF. Covers worker crashes and
// transient render failures without any manual intervention.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zayar/cashflow-pwa-sub000/internal/repository"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
	renderStaleAfter  = 2 * time.Minute
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	InvoiceRepo repository.InvoiceRepository
	Dispatcher  *Dispatcher
}

// StartRetryCron launches a background goroutine that ticks every 30s and
// re-enqueues stale unrendered invoices. Respects ctx for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	cutoff := time.Now().Add(-renderStaleAfter)
	invoices, err := cfg.InvoiceRepo.ListPendingRender(ctx, cutoff, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query unrendered invoices")
		return
	}
	if len(invoices) == 0 {
		return
	}

	log.Info().Int("count", len(invoices)).Msg("retry_cron: re-enqueueing unrendered invoices")

	for i := range invoices {
		payload := RenderJobPayload{InvoiceID: invoices[i].ID.String()}
		if err := cfg.Dispatcher.EnqueueRender(ctx, payload); err != nil {
			log.Warn().Err(err).Str("invoice_id", payload.InvoiceID).Msg("retry_cron: enqueue failed")
		}
	}
}
