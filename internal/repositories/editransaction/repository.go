// Package editransaction persists the per-document transaction ledger.
package editransaction

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

// Repository handles EDI transaction ledger persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new EDI transaction repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create records a new transaction row.
func (r *Repository) Create(ctx context.Context, req models.CreateEDITransactionRequest) (*models.EDITransaction, error) {
	ctx, span := tracing.StartSpan(ctx, "editransaction.Repository.Create")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":        "Create",
		"partner_id":    req.PartnerID,
		"document_type": req.DocumentType,
		"filename":      req.Filename,
	})

	now := time.Now().UTC()
	txn := &models.EDITransaction{
		ID:            uuid.New().String(),
		PartnerID:     req.PartnerID,
		Direction:     req.Direction,
		DocumentType:  req.DocumentType,
		ControlNumber: req.ControlNumber,
		Filename:      req.Filename,
		PONumber:      req.PONumber,
		Status:        req.Status,
		ErrorDetail:   req.ErrorDetail,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("edi_transactions")
	sb.Cols("id", "partner_id", "direction", "document_type", "control_number", "filename", "po_number", "status", "error_detail", "created_at", "updated_at")
	sb.Values(txn.ID, txn.PartnerID, txn.Direction, txn.DocumentType, txn.ControlNumber, txn.Filename, txn.PONumber, txn.Status, txn.ErrorDetail, txn.CreatedAt, txn.UpdatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.WithError(err).Error("Failed to create EDI transaction")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create EDI transaction")
	}

	return txn, nil
}

// IsProcessed reports whether any transaction row exists for the partner and
// filename. This is the inbound dedup check: a filename already recorded is
// never reprocessed, regardless of its eventual per-set outcomes.
func (r *Repository) IsProcessed(ctx context.Context, partnerID, filename string) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "editransaction.Repository.IsProcessed")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("COUNT(*)")
	sb.From("edi_transactions")
	sb.Where(
		sb.Equal("partner_id", partnerID),
		sb.Equal("filename", filename),
		sb.Equal("direction", models.DirectionInbound),
	)

	query, args := sb.Build()
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"method":   "IsProcessed",
			"filename": filename,
		}).Error("Failed to check transaction ledger")
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to check transaction ledger")
	}

	return count > 0, nil
}

// MarkProcessed transitions a transaction to processed.
func (r *Repository) MarkProcessed(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, models.TransactionStatusProcessed, nil)
}

// MarkFailed transitions a transaction to failed, recording the error text.
func (r *Repository) MarkFailed(ctx context.Context, id string, errText string) error {
	return r.setStatus(ctx, id, models.TransactionStatusFailed, &errText)
}

func (r *Repository) setStatus(ctx context.Context, id, status string, errDetail *string) error {
	ctx, span := tracing.StartSpan(ctx, "editransaction.Repository.setStatus")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("edi_transactions")
	assignments := []string{
		sb.Assign("status", status),
		sb.Assign("processed_at", now),
		sb.Assign("updated_at", now),
	}
	if errDetail != nil {
		assignments = append(assignments, sb.Assign("error_detail", *errDetail))
	}
	sb.Set(assignments...)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"method": "setStatus",
			"id":     id,
			"status": status,
		}).Error("Failed to update EDI transaction status")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update EDI transaction status")
	}

	return nil
}

// List returns transactions for a partner, newest first.
func (r *Repository) List(ctx context.Context, partnerID string, limit, offset int) ([]models.EDITransaction, error) {
	ctx, span := tracing.StartSpan(ctx, "editransaction.Repository.List")
	defer span.End()

	if limit <= 0 || limit > 500 {
		limit = 100
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "partner_id", "direction", "document_type", "control_number", "filename", "po_number", "status", "error_detail", "processed_at", "created_at", "updated_at")
	sb.From("edi_transactions")
	sb.Where(sb.Equal("partner_id", partnerID))
	sb.OrderBy("created_at").Desc()
	sb.Limit(limit)
	sb.Offset(offset)

	query, args := sb.Build()
	var txns []models.EDITransaction
	if err := r.db.SelectContext(ctx, &txns, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"method":     "List",
			"partner_id": partnerID,
		}).Error("Failed to list EDI transactions")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list EDI transactions")
	}

	return txns, nil
}
