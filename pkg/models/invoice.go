package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a persisted vendor invoice keyed by partner and invoice number.
// PurchaseOrderID is nil when the invoice referenced no known purchase order.
type Invoice struct {
	ID              string          `json:"id" db:"id"`
	PartnerID       string          `json:"partner_id" db:"partner_id"`
	InvoiceNumber   string          `json:"invoice_number" db:"invoice_number"`
	InvoiceDate     string          `json:"invoice_date" db:"invoice_date"`
	PONumber        *string         `json:"po_number,omitempty" db:"po_number"`
	PurchaseOrderID *string         `json:"purchase_order_id,omitempty" db:"purchase_order_id"`
	TotalAmount     decimal.Decimal `json:"total_amount" db:"total_amount"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`

	Items []InvoiceItem `json:"items,omitempty" db:"-"`
}

// InvoiceItem is one billed line on an invoice.
type InvoiceItem struct {
	ID          string          `json:"id" db:"id"`
	InvoiceID   string          `json:"invoice_id" db:"invoice_id"`
	LineNumber  int             `json:"line_number" db:"line_number"`
	VendorSKU   string          `json:"vendor_sku" db:"vendor_sku"`
	Description *string         `json:"description,omitempty" db:"description"`
	Quantity    decimal.Decimal `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal" db:"subtotal"`
}
