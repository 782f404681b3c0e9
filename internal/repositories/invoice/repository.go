// Package invoice persists vendor invoices decoded from 810 documents.
package invoice

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/database"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/models"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/tracing"
)

// Repository handles invoice persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new invoice repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Upsert writes an invoice and its lines keyed by (partner_id,
// invoice_number). Reprocessing the same invoice replaces the line set
// instead of appending, so the operation is idempotent.
func (r *Repository) Upsert(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	ctx, span := tracing.StartSpan(ctx, "invoice.Repository.Upsert")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":         "Upsert",
		"partner_id":     invoice.PartnerID,
		"invoice_number": invoice.InvoiceNumber,
	})

	now := time.Now().UTC()
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	invoice.CreatedAt = now
	invoice.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		log.WithError(err).Error("Failed to begin invoice transaction")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert invoice")
	}
	defer tx.Rollback()

	query := `
		INSERT INTO invoices (
			id, partner_id, invoice_number, invoice_date, po_number,
			purchase_order_id, total_amount, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (partner_id, invoice_number)
		DO UPDATE SET
			invoice_date = EXCLUDED.invoice_date,
			po_number = EXCLUDED.po_number,
			purchase_order_id = EXCLUDED.purchase_order_id,
			total_amount = EXCLUDED.total_amount,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`

	if err := tx.GetContext(ctx, invoice, query,
		invoice.ID, invoice.PartnerID, invoice.InvoiceNumber, invoice.InvoiceDate,
		invoice.PONumber, invoice.PurchaseOrderID, invoice.TotalAmount,
		invoice.CreatedAt, invoice.UpdatedAt,
	); err != nil {
		log.WithError(err).Error("Failed to upsert invoice")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert invoice")
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM invoice_items WHERE invoice_id = $1", invoice.ID); err != nil {
		log.WithError(err).Error("Failed to clear invoice items")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert invoice")
	}

	for i := range invoice.Items {
		item := &invoice.Items[i]
		item.ID = uuid.New().String()
		item.InvoiceID = invoice.ID

		sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
		sb.InsertInto("invoice_items")
		sb.Cols("id", "invoice_id", "line_number", "vendor_sku", "description", "quantity", "unit_price", "subtotal")
		sb.Values(item.ID, item.InvoiceID, item.LineNumber, item.VendorSKU, item.Description, item.Quantity, item.UnitPrice, item.Subtotal)

		query, args := sb.Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			log.WithError(err).Error("Failed to insert invoice item")
			return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert invoice")
		}
	}

	if err := tx.Commit(); err != nil {
		log.WithError(err).Error("Failed to commit invoice transaction")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert invoice")
	}

	return invoice, nil
}
