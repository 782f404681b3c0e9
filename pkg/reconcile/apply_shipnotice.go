package reconcile

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/documents"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/models"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/tracing"
)

// Item status once a ship notice covers it.
const itemStatusShipped = "shipped"

type appliedShipLine struct {
	VendorSKU string `json:"vendor_sku"`
	Quantity  string `json:"quantity"`
	DyeLot    string `json:"dye_lot,omitempty"`
	Skipped   string `json:"skipped,omitempty"`
}

// applyShipNotice applies an 856 to the purchase order: carrier details,
// deduplicated tracking numbers, per-line shipped quantities, and a single
// fulfillment check once every line has been applied.
func (e *Engine) applyShipNotice(ctx context.Context, notice *documents.ShipNotice) error {
	ctx, span := tracing.StartSpan(ctx, "reconcile.Engine.applyShipNotice")
	defer span.End()

	po, err := e.resolveOrder(ctx, documents.TypeShipNotice, notice.PONumber)
	if err != nil {
		return err
	}

	if err := e.orders.SetShipmentInfo(ctx, po.ID, notice.CarrierSCAC, notice.CarrierName, notice.BillOfLading); err != nil {
		return err
	}
	if err := e.orders.AddTrackingNumbers(ctx, po.ID, notice.TrackingNumbers); err != nil {
		return err
	}

	// Accumulate applied quantities locally so the fulfilled transition is
	// decided once, over the order's complete post-notice state, rather than
	// re-evaluated per line.
	shipped := make(map[string]decimal.Decimal, len(po.Items))
	applied := make([]appliedShipLine, 0, len(notice.Lines))
	for _, line := range notice.Lines {
		qty := decimal.NewFromFloat(line.Quantity)
		item := findItemBySKU(po.Items, line.VendorSKU)
		if item == nil {
			applied = append(applied, appliedShipLine{
				VendorSKU: line.VendorSKU,
				Quantity:  qty.String(),
				Skipped:   "no matching purchase order item",
			})
			continue
		}

		if err := e.orders.SetItemShipped(ctx, item.ID, qty, line.DyeLot); err != nil {
			return err
		}
		if err := e.orders.UpdateItemStatus(ctx, item.ID, itemStatusShipped); err != nil {
			return err
		}
		shipped[item.ID] = shipped[item.ID].Add(qty)
		applied = append(applied, appliedShipLine{
			VendorSKU: line.VendorSKU,
			Quantity:  qty.String(),
			DyeLot:    line.DyeLot,
		})
	}

	fulfilled := orderFulfilled(po.Items, shipped)
	if fulfilled {
		if err := e.orders.UpdateStatus(ctx, po.ID, models.POStatusFulfilled); err != nil {
			return err
		}
	}

	detail, _ := json.Marshal(map[string]any{
		"shipment_id":      notice.ShipmentID,
		"ship_date":        notice.ShipDate,
		"carrier_scac":     notice.CarrierSCAC,
		"tracking_numbers": notice.TrackingNumbers,
		"fulfilled":        fulfilled,
		"lines":            applied,
	})
	return e.orders.AppendActivity(ctx, po.ID, "ship_notice_applied", detail)
}

func findItemBySKU(items []models.PurchaseOrderItem, vendorSKU string) *models.PurchaseOrderItem {
	if vendorSKU == "" {
		return nil
	}
	for i := range items {
		if items[i].VendorSKU == vendorSKU {
			return &items[i]
		}
	}
	return nil
}

// orderFulfilled reports whether every item's prior shipped quantity plus
// this notice's contribution covers its ordered quantity.
func orderFulfilled(items []models.PurchaseOrderItem, shipped map[string]decimal.Decimal) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		total := item.QuantityShipped.Add(shipped[item.ID])
		if total.LessThan(item.Quantity) {
			return false
		}
	}
	return true
}
