package reconcile

import (
	"context"
	"encoding/json"

	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/documents"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/models"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/tracing"
)

// applyInvoice persists an 810. An invoice without a PO reference is a
// MissingReferenceError; one referencing an unknown PO is still stored, just
// unlinked, since billing reconciliation happens whether or not we placed
// the order in this system.
func (e *Engine) applyInvoice(ctx context.Context, inv *documents.Invoice) error {
	ctx, span := tracing.StartSpan(ctx, "reconcile.Engine.applyInvoice")
	defer span.End()

	if inv.PONumber == "" {
		return &MissingReferenceError{DocumentType: documents.TypeInvoice}
	}

	record := &models.Invoice{
		PartnerID:     e.cfg.PartnerID,
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceDate:   inv.InvoiceDate,
		TotalAmount:   inv.TotalAmount,
	}
	poNumber := inv.PONumber
	record.PONumber = &poNumber

	var po *models.PurchaseOrder
	if found, err := e.orders.GetByNumber(ctx, e.cfg.PartnerID, inv.PONumber); err == nil {
		po = found
		record.PurchaseOrderID = &po.ID
	} else if !isNotFound(err) {
		return err
	}

	for _, line := range inv.Lines {
		record.Items = append(record.Items, models.InvoiceItem{
			LineNumber:  line.LineNumber,
			VendorSKU:   line.VendorSKU,
			Description: optional(line.Description),
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    line.Subtotal,
		})
	}

	if _, err := e.invoices.Upsert(ctx, record); err != nil {
		return err
	}

	if po != nil {
		detail, _ := json.Marshal(map[string]any{
			"invoice_number": inv.InvoiceNumber,
			"invoice_date":   inv.InvoiceDate,
			"total_amount":   inv.TotalAmount.StringFixed(2),
			"lines":          len(inv.Lines),
		})
		return e.orders.AppendActivity(ctx, po.ID, "invoice_applied", detail)
	}

	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
