// Package catalogproduct persists decoded price catalog lines.
package catalogproduct

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/database"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/models"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/tracing"
)

// Repository handles catalog product persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new catalog product repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Upsert writes one catalog line keyed by (partner_id, vendor_sku). Later
// catalogs replace earlier values wholesale; the vendor's latest published
// price list is authoritative.
func (r *Repository) Upsert(ctx context.Context, product *models.CatalogProduct) (*models.CatalogProduct, error) {
	ctx, span := tracing.StartSpan(ctx, "catalogproduct.Repository.Upsert")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":     "Upsert",
		"partner_id": product.PartnerID,
		"vendor_sku": product.VendorSKU,
	})

	now := time.Now().UTC()
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.CreatedAt = now
	product.UpdatedAt = now

	query := `
		INSERT INTO catalog_products (
			id, partner_id, vendor_sku, upc, name, color, collection, category,
			sell_by_unit, units_per_package, weight_per_box,
			net_price, retail_price, contract_price,
			cut_price, roll_price, cut_cost, roll_cost,
			roll_width_feet, roll_min_yardage, catalog_date,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		ON CONFLICT (partner_id, vendor_sku)
		DO UPDATE SET
			upc = EXCLUDED.upc,
			name = EXCLUDED.name,
			color = EXCLUDED.color,
			collection = EXCLUDED.collection,
			category = EXCLUDED.category,
			sell_by_unit = EXCLUDED.sell_by_unit,
			units_per_package = EXCLUDED.units_per_package,
			weight_per_box = EXCLUDED.weight_per_box,
			net_price = EXCLUDED.net_price,
			retail_price = EXCLUDED.retail_price,
			contract_price = EXCLUDED.contract_price,
			cut_price = EXCLUDED.cut_price,
			roll_price = EXCLUDED.roll_price,
			cut_cost = EXCLUDED.cut_cost,
			roll_cost = EXCLUDED.roll_cost,
			roll_width_feet = EXCLUDED.roll_width_feet,
			roll_min_yardage = EXCLUDED.roll_min_yardage,
			catalog_date = EXCLUDED.catalog_date,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`

	if err := r.db.GetContext(ctx, product, query,
		product.ID, product.PartnerID, product.VendorSKU, product.UPC, product.Name,
		product.Color, product.Collection, product.Category, product.SellByUnit,
		product.UnitsPerPackage, product.WeightPerBox,
		product.NetPrice, product.RetailPrice, product.ContractPrice,
		product.CutPrice, product.RollPrice, product.CutCost, product.RollCost,
		product.RollWidthFeet, product.RollMinYardage, product.CatalogDate,
		product.CreatedAt, product.UpdatedAt,
	); err != nil {
		log.WithError(err).Error("Failed to upsert catalog product")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert catalog product")
	}

	return product, nil
}
