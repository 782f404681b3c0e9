package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogProduct is the persisted form of a price catalog line, keyed by
// partner and vendor SKU. Later catalogs overwrite earlier ones.
type CatalogProduct struct {
	ID              string           `json:"id" db:"id"`
	PartnerID       string           `json:"partner_id" db:"partner_id"`
	VendorSKU       string           `json:"vendor_sku" db:"vendor_sku"`
	UPC             *string          `json:"upc,omitempty" db:"upc"`
	Name            string           `json:"name" db:"name"`
	Color           *string          `json:"color,omitempty" db:"color"`
	Collection      *string          `json:"collection,omitempty" db:"collection"`
	Category        string           `json:"category" db:"category"`
	SellByUnit      string           `json:"sell_by_unit" db:"sell_by_unit"`
	UnitsPerPackage *decimal.Decimal `json:"units_per_package,omitempty" db:"units_per_package"`
	WeightPerBox    *decimal.Decimal `json:"weight_per_box,omitempty" db:"weight_per_box"`
	NetPrice        *decimal.Decimal `json:"net_price,omitempty" db:"net_price"`
	RetailPrice     *decimal.Decimal `json:"retail_price,omitempty" db:"retail_price"`
	ContractPrice   *decimal.Decimal `json:"contract_price,omitempty" db:"contract_price"`
	CutPrice        *decimal.Decimal `json:"cut_price,omitempty" db:"cut_price"`
	RollPrice       *decimal.Decimal `json:"roll_price,omitempty" db:"roll_price"`
	CutCost         *decimal.Decimal `json:"cut_cost,omitempty" db:"cut_cost"`
	RollCost        *decimal.Decimal `json:"roll_cost,omitempty" db:"roll_cost"`
	RollWidthFeet   *decimal.Decimal `json:"roll_width_feet,omitempty" db:"roll_width_feet"`
	RollMinYardage  *decimal.Decimal `json:"roll_min_yardage,omitempty" db:"roll_min_yardage"`
	CatalogDate     *string          `json:"catalog_date,omitempty" db:"catalog_date"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" db:"updated_at"`
}
