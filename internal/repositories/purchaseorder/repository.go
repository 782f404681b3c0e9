// Package purchaseorder persists purchase order reconciliation state.
package purchaseorder

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"
	"github.com/shopspring/decimal"

	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/database"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/models"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/tracing"
)

var poColumns = []string{
	"id", "partner_id", "po_number", "status", "account_number", "order_date",
	"ack_type", "ack_date", "carrier_scac", "carrier_name", "bill_of_lading",
	"tracking_numbers", "sent_at", "created_at", "updated_at",
}

var itemColumns = []string{
	"id", "purchase_order_id", "line_number", "vendor_sku", "description",
	"category", "sell_by_unit", "quantity", "unit_price", "status",
	"quantity_shipped", "dye_lot",
}

// Repository handles purchase order persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new purchase order repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// GetByNumber loads a purchase order and its line items in original line
// order. Returns a 404-class error when no order matches.
func (r *Repository) GetByNumber(ctx context.Context, partnerID, poNumber string) (*models.PurchaseOrder, error) {
	ctx, span := tracing.StartSpan(ctx, "purchaseorder.Repository.GetByNumber")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(poColumns...)
	sb.From("purchase_orders")
	sb.Where(
		sb.Equal("partner_id", partnerID),
		sb.Equal("po_number", poNumber),
	)

	query, args := sb.Build()
	var po models.PurchaseOrder
	if err := r.db.GetContext(ctx, &po, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "purchase order %s does not exist", poNumber)
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"method":    "GetByNumber",
			"po_number": poNumber,
		}).Error("Failed to get purchase order")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get purchase order")
	}

	items, err := r.getItems(ctx, po.ID)
	if err != nil {
		return nil, err
	}
	po.Items = items

	return &po, nil
}

func (r *Repository) getItems(ctx context.Context, purchaseOrderID string) ([]models.PurchaseOrderItem, error) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(itemColumns...)
	sb.From("purchase_order_items")
	sb.Where(sb.Equal("purchase_order_id", purchaseOrderID))
	sb.OrderBy("line_number").Asc()

	query, args := sb.Build()
	var items []models.PurchaseOrderItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"method":            "getItems",
			"purchase_order_id": purchaseOrderID,
		}).Error("Failed to get purchase order items")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get purchase order items")
	}
	return items, nil
}

// UpdateStatus sets the purchase order status.
func (r *Repository) UpdateStatus(ctx context.Context, purchaseOrderID, status string) error {
	return r.update(ctx, purchaseOrderID, map[string]any{"status": status})
}

// SetAcknowledgment records the 855 header fields and the rolled-up status.
func (r *Repository) SetAcknowledgment(ctx context.Context, purchaseOrderID, ackType, ackDate, status string) error {
	return r.update(ctx, purchaseOrderID, map[string]any{
		"ack_type": ackType,
		"ack_date": ackDate,
		"status":   status,
	})
}

// SetShipmentInfo records carrier details from an 856.
func (r *Repository) SetShipmentInfo(ctx context.Context, purchaseOrderID, carrierSCAC, carrierName, billOfLading string) error {
	fields := map[string]any{}
	if carrierSCAC != "" {
		fields["carrier_scac"] = carrierSCAC
	}
	if carrierName != "" {
		fields["carrier_name"] = carrierName
	}
	if billOfLading != "" {
		fields["bill_of_lading"] = billOfLading
	}
	if len(fields) == 0 {
		return nil
	}
	return r.update(ctx, purchaseOrderID, fields)
}

// MarkSent stamps the sent timestamp and moves the order to sent.
func (r *Repository) MarkSent(ctx context.Context, purchaseOrderID string, sentAt time.Time) error {
	return r.update(ctx, purchaseOrderID, map[string]any{
		"status":  models.POStatusSent,
		"sent_at": sentAt,
	})
}

func (r *Repository) update(ctx context.Context, purchaseOrderID string, fields map[string]any) error {
	ctx, span := tracing.StartSpan(ctx, "purchaseorder.Repository.update")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("purchase_orders")
	assignments := []string{sb.Assign("updated_at", time.Now().UTC())}
	for col, val := range fields {
		assignments = append(assignments, sb.Assign(col, val))
	}
	sb.Set(assignments...)
	sb.Where(sb.Equal("id", purchaseOrderID))

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"method":            "update",
			"purchase_order_id": purchaseOrderID,
		}).Error("Failed to update purchase order")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update purchase order")
	}

	return nil
}

// UpdateItemStatus sets one line item's status.
func (r *Repository) UpdateItemStatus(ctx context.Context, itemID, status string) error {
	ctx, span := tracing.StartSpan(ctx, "purchaseorder.Repository.UpdateItemStatus")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("purchase_order_items")
	sb.Set(sb.Assign("status", status))
	sb.Where(sb.Equal("id", itemID))

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"method":  "UpdateItemStatus",
			"item_id": itemID,
		}).Error("Failed to update purchase order item status")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update purchase order item status")
	}

	return nil
}

// SetItemShipped accumulates shipped quantity on a line item and records the
// dye lot when the partner supplied one.
func (r *Repository) SetItemShipped(ctx context.Context, itemID string, quantity decimal.Decimal, dyeLot string) error {
	ctx, span := tracing.StartSpan(ctx, "purchaseorder.Repository.SetItemShipped")
	defer span.End()

	query := `
		UPDATE purchase_order_items
		SET quantity_shipped = quantity_shipped + $2,
			dye_lot = COALESCE(NULLIF($3, ''), dye_lot)
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, itemID, quantity, dyeLot); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"method":  "SetItemShipped",
			"item_id": itemID,
		}).Error("Failed to record shipped quantity")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to record shipped quantity")
	}

	return nil
}

// AddTrackingNumbers merges tracking numbers into the order's set. The merge
// deduplicates in the database so repeated 856 segments never double up.
func (r *Repository) AddTrackingNumbers(ctx context.Context, purchaseOrderID string, trackingNumbers []string) error {
	ctx, span := tracing.StartSpan(ctx, "purchaseorder.Repository.AddTrackingNumbers")
	defer span.End()

	if len(trackingNumbers) == 0 {
		return nil
	}

	query := `
		UPDATE purchase_orders
		SET tracking_numbers = (
			SELECT COALESCE(jsonb_agg(DISTINCT value), '[]'::jsonb)
			FROM jsonb_array_elements_text(COALESCE(tracking_numbers, '[]'::jsonb) || $2::jsonb) AS value
		),
		updated_at = NOW()
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, purchaseOrderID, models.TrackingNumbers(trackingNumbers)); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"method":            "AddTrackingNumbers",
			"purchase_order_id": purchaseOrderID,
		}).Error("Failed to add tracking numbers")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to add tracking numbers")
	}

	return nil
}

// AppendActivity writes one append-only activity log row.
func (r *Repository) AppendActivity(ctx context.Context, purchaseOrderID, event string, detail []byte) error {
	ctx, span := tracing.StartSpan(ctx, "purchaseorder.Repository.AppendActivity")
	defer span.End()

	if len(detail) == 0 {
		detail = []byte("{}")
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("purchase_order_activity")
	sb.Cols("id", "purchase_order_id", "event", "detail", "created_at")
	sb.Values(uuid.New().String(), purchaseOrderID, event, detail, time.Now().UTC())

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"method":            "AppendActivity",
			"purchase_order_id": purchaseOrderID,
			"event":             event,
		}).Error("Failed to append purchase order activity")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to append purchase order activity")
	}

	return nil
}
