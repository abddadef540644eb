package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zayar/cashflow-pwa-sub000/internal/dto"
	"github.com/zayar/cashflow-pwa-sub000/internal/model"
)

type InvoiceRepository interface {
	Create(ctx context.Context, tx *gorm.DB, inv *model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	Update(ctx context.Context, inv *model.Invoice) error
	SaveTx(ctx context.Context, tx *gorm.DB, inv *model.Invoice) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error
	NextInvoiceNumber(ctx context.Context, tx *gorm.DB) (int64, error)
	ReplaceLines(ctx context.Context, tx *gorm.DB, invoiceID uuid.UUID, lines []model.InvoiceLine) error
	List(ctx context.Context, filter dto.InvoiceFilter) ([]model.Invoice, int64, error)
	ListPendingRender(ctx context.Context, before time.Time, limit int) ([]model.Invoice, error)
	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type invoiceRepo struct{ db *gorm.DB }

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository { return &invoiceRepo{db: db} }

func (r *invoiceRepo) DB() *gorm.DB { return r.db }

func (r *invoiceRepo) Create(ctx context.Context, tx *gorm.DB, inv *model.Invoice) error {
	return tx.WithContext(ctx).Create(inv).Error
}

func (r *invoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Customer").
		First(&inv, id).Error
	return &inv, err
}

func (r *invoiceRepo) Update(ctx context.Context, inv *model.Invoice) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *invoiceRepo) SaveTx(ctx context.Context, tx *gorm.DB, inv *model.Invoice) error {
	return tx.WithContext(ctx).Omit("Lines").Save(inv).Error
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.WithContext(ctx).Model(&model.Invoice{}).Where("id = ?", id).Update("status", status).Error
}

func (r *invoiceRepo) NextInvoiceNumber(ctx context.Context, tx *gorm.DB) (int64, error) {
	// Uses a PostgreSQL sequence for gap-free-enough, race-free numbering
	var num int64
	err := tx.WithContext(ctx).Raw("SELECT nextval('invoices_number_seq')").Scan(&num).Error
	return num, err
}

func (r *invoiceRepo) ReplaceLines(ctx context.Context, tx *gorm.DB, invoiceID uuid.UUID, lines []model.InvoiceLine) error {
	if err := tx.WithContext(ctx).Where("invoice_id = ?", invoiceID).Delete(&model.InvoiceLine{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].InvoiceID = invoiceID
	}
	return tx.WithContext(ctx).Create(&lines).Error
}

// ListPendingRender returns confirmed invoices still missing a PDF whose last
// update is older than before. Consumed by the render retry cron.
func (r *invoiceRepo) ListPendingRender(ctx context.Context, before time.Time, limit int) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.WithContext(ctx).
		Where("status = ? AND pdf_path IS NULL AND updated_at < ?", model.InvoiceStatusConfirmed, before).
		Order("updated_at ASC").
		Limit(limit).
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepo) List(ctx context.Context, filter dto.InvoiceFilter) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Invoice{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Customer != "" {
		q = q.Where("customer_id = ?", filter.Customer)
	}
	if filter.DateFrom != "" {
		q = q.Where("invoice_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		q = q.Where("invoice_date <= ?", filter.DateTo)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Customer").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&invoices).Error

	return invoices, total, err
}
