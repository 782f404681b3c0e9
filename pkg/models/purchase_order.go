package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Purchase order lifecycle statuses.
const (
	POStatusOpen      = "open"
	POStatusSent      = "sent"
	POStatusAccepted  = "accepted"
	POStatusPartial   = "partial"
	POStatusRejected  = "rejected"
	POStatusFulfilled = "fulfilled"
)

// PurchaseOrder is the engine's view of a purchase order. The engine reads
// and updates status/acknowledgment/shipping fields; ordering itself is owned
// elsewhere.
type PurchaseOrder struct {
	ID            string          `json:"id" db:"id"`
	PartnerID     string          `json:"partner_id" db:"partner_id"`
	PONumber      string          `json:"po_number" db:"po_number"`
	Status        string          `json:"status" db:"status"`
	AccountNumber string          `json:"account_number" db:"account_number"`
	OrderDate     time.Time       `json:"order_date" db:"order_date"`
	AckType       *string         `json:"ack_type,omitempty" db:"ack_type"`
	AckDate       *string         `json:"ack_date,omitempty" db:"ack_date"`
	CarrierSCAC   *string         `json:"carrier_scac,omitempty" db:"carrier_scac"`
	CarrierName   *string         `json:"carrier_name,omitempty" db:"carrier_name"`
	BillOfLading  *string         `json:"bill_of_lading,omitempty" db:"bill_of_lading"`
	SentAt        *time.Time      `json:"sent_at,omitempty" db:"sent_at"`
	Tracking      TrackingNumbers `json:"tracking_numbers" db:"tracking_numbers"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`

	// Items in original insertion order; positional acknowledgment matching
	// depends on this ordering.
	Items []PurchaseOrderItem `json:"items,omitempty" db:"-"`
}

// PurchaseOrderItem is one orderable line on a purchase order.
type PurchaseOrderItem struct {
	ID              string          `json:"id" db:"id"`
	PurchaseOrderID string          `json:"purchase_order_id" db:"purchase_order_id"`
	LineNumber      int             `json:"line_number" db:"line_number"`
	VendorSKU       string          `json:"vendor_sku" db:"vendor_sku"`
	Description     string          `json:"description" db:"description"`
	Category        string          `json:"category" db:"category"`
	SellByUnit      string          `json:"sell_by_unit" db:"sell_by_unit"`
	Quantity        decimal.Decimal `json:"quantity" db:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price" db:"unit_price"`
	Status          string          `json:"status" db:"status"`
	QuantityShipped decimal.Decimal `json:"quantity_shipped" db:"quantity_shipped"`
	DyeLot          *string         `json:"dye_lot,omitempty" db:"dye_lot"`
}

// TrackingNumbers is the deduplicated set of tracking numbers attached to a
// purchase order, stored jsonb.
type TrackingNumbers []string

func (t TrackingNumbers) Value() (driver.Value, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t)
}

func (t *TrackingNumbers) Scan(src any) error {
	if src == nil {
		*t = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("cannot scan %T into TrackingNumbers", src)
	}
}

// PurchaseOrderActivity is one append-only activity log row.
type PurchaseOrderActivity struct {
	ID              string    `json:"id" db:"id"`
	PurchaseOrderID string    `json:"purchase_order_id" db:"purchase_order_id"`
	Event           string    `json:"event" db:"event"`
	Detail          []byte    `json:"detail" db:"detail"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
