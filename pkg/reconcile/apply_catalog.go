package reconcile

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/documents"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/models"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/tracing"
)

// applyCatalog upserts every decoded 832 line. Items without a vendor SKU
// are skipped with a reason; there is nothing to key them on.
func (e *Engine) applyCatalog(ctx context.Context, catalog *documents.Catalog) error {
	ctx, span := tracing.StartSpan(ctx, "reconcile.Engine.applyCatalog")
	defer span.End()

	log := e.logger.WithContext(ctx).WithFields(map[string]any{
		"partner_id":     e.cfg.PartnerID,
		"catalog_number": catalog.CatalogNumber,
		"items":          len(catalog.Items),
	})

	upserted := 0
	for i := range catalog.Items {
		item := &catalog.Items[i]
		if item.VendorSKU == "" {
			log.WithFields(map[string]any{"line_number": item.LineNumber}).Warn("Skipping catalog item without vendor SKU")
			continue
		}

		if _, err := e.catalog.Upsert(ctx, catalogProductFromItem(e.cfg.PartnerID, item)); err != nil {
			return err
		}
		upserted++
	}

	log.WithFields(map[string]any{"upserted": upserted}).Info("Applied catalog")
	return nil
}

func catalogProductFromItem(partnerID string, item *documents.CatalogItem) *models.CatalogProduct {
	product := &models.CatalogProduct{
		PartnerID:  partnerID,
		VendorSKU:  item.VendorSKU,
		UPC:        optional(item.UPC),
		Name:       item.ProductName,
		Color:      optional(item.Color),
		Collection: optional(item.Collection),
		Category:   item.Category,
		SellByUnit: item.SellByUnit,
	}

	if item.SqFtPerBox > 0 {
		product.UnitsPerPackage = decimalPtr(decimal.NewFromFloat(item.SqFtPerBox))
	} else if item.PiecesPerBox > 0 {
		product.UnitsPerPackage = decimalPtr(decimal.NewFromInt(int64(item.PiecesPerBox)))
	}
	if item.WeightPerBox > 0 {
		product.WeightPerBox = decimalPtr(decimal.NewFromFloat(item.WeightPerBox))
	}
	if !item.Cost.IsZero() {
		product.NetPrice = decimalPtr(item.Cost)
	}
	if !item.RetailPrice.IsZero() {
		product.RetailPrice = decimalPtr(item.RetailPrice)
	}

	if item.IsCarpet() {
		if !item.CutPrice.IsZero() {
			product.CutPrice = decimalPtr(item.CutPrice)
		}
		if !item.RollPrice.IsZero() {
			product.RollPrice = decimalPtr(item.RollPrice)
			product.ContractPrice = decimalPtr(item.RollPrice)
		}
		if !item.CutCost.IsZero() {
			product.CutCost = decimalPtr(item.CutCost)
		}
		if !item.RollCost.IsZero() {
			product.RollCost = decimalPtr(item.RollCost)
		}
		if item.RollWidth > 0 {
			product.RollWidthFeet = decimalPtr(decimal.NewFromFloat(item.RollWidth))
		}
		if item.RollMinYardage > 0 {
			product.RollMinYardage = decimalPtr(decimal.NewFromFloat(item.RollMinYardage))
		}
	}

	return product
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
