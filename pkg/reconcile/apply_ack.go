package reconcile

import (
	"context"
	"encoding/json"

	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/documents"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/models"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/tracing"
)

// How an ack line was matched to a PO item. Positional matches are recorded
// distinctly: a partner that reorders lines between PO and ack can silently
// mis-associate them, so auditors need to see which matches were SKU-backed.
const (
	matchBySKU      = "sku"
	matchPositional = "positional"
)

type appliedAckLine struct {
	LineNumber int    `json:"line_number"`
	VendorSKU  string `json:"vendor_sku,omitempty"`
	Status     string `json:"status"`
	Match      string `json:"match,omitempty"`
	Skipped    string `json:"skipped,omitempty"`
}

// applyAcknowledgment rolls an 855 into the purchase order: per-line statuses
// on matched items, header ack fields, and the overall status rollup.
func (e *Engine) applyAcknowledgment(ctx context.Context, ack *documents.Acknowledgment) error {
	ctx, span := tracing.StartSpan(ctx, "reconcile.Engine.applyAcknowledgment")
	defer span.End()

	po, err := e.resolveOrder(ctx, documents.TypeAcknowledgment, ack.PONumber)
	if err != nil {
		return err
	}

	applied := make([]appliedAckLine, 0, len(ack.Lines))
	for _, line := range ack.Lines {
		item, match := matchItem(po.Items, line.VendorSKU, line.LineNumber)
		if item == nil {
			applied = append(applied, appliedAckLine{
				LineNumber: line.LineNumber,
				VendorSKU:  line.VendorSKU,
				Status:     line.Status,
				Skipped:    "no matching purchase order item",
			})
			continue
		}

		if err := e.orders.UpdateItemStatus(ctx, item.ID, line.Status); err != nil {
			return err
		}
		applied = append(applied, appliedAckLine{
			LineNumber: line.LineNumber,
			VendorSKU:  line.VendorSKU,
			Status:     line.Status,
			Match:      match,
		})
	}

	overall := poStatusFromAck(ack.OverallStatus())
	if err := e.orders.SetAcknowledgment(ctx, po.ID, ack.AckType, ack.AckDate, overall); err != nil {
		return err
	}

	detail, _ := json.Marshal(map[string]any{
		"ack_type": ack.AckType,
		"status":   overall,
		"lines":    applied,
	})
	return e.orders.AppendActivity(ctx, po.ID, "acknowledgment_applied", detail)
}

// matchItem finds the PO item for an ack line: vendor SKU first, then
// positional by ordinal line number against the original item order.
func matchItem(items []models.PurchaseOrderItem, vendorSKU string, lineNumber int) (*models.PurchaseOrderItem, string) {
	if vendorSKU != "" {
		for i := range items {
			if items[i].VendorSKU == vendorSKU {
				return &items[i], matchBySKU
			}
		}
	}
	if lineNumber >= 1 && lineNumber <= len(items) {
		return &items[lineNumber-1], matchPositional
	}
	return nil, ""
}

// poStatusFromAck maps the rollup result onto purchase order statuses.
func poStatusFromAck(status string) string {
	switch status {
	case documents.StatusRejected:
		return models.POStatusRejected
	case documents.StatusPartial:
		return models.POStatusPartial
	default:
		return models.POStatusAccepted
	}
}
