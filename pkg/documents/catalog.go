package documents

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/x12"
)

// LIN identifier qualifiers, normalized to stable keys.
var linQualifierKeys = map[string]string{
	"VP": "vendor_item_number",
	"VN": "vendor_item_number",
	"VA": "vendor_item_number",
	"UP": "upc",
	"UA": "upc",
	"UK": "upc",
	"BP": "buyer_part_number",
}

// PID product characteristic codes used by the configured partners.
const (
	pidCodeProductName = "08"
	pidCodeColor       = "35"
	pidCodeCollection  = "91"
	pidCodeCategory    = "33"
)

// CTP class-of-trade and price identifier codes.
const (
	tradeClassWholesale   = "WH"
	tradeClassDistributor = "DI"
	tradeClassRetail      = "RT"
	tradeClassVolume      = "VO"

	priceCodeNet      = "NET"
	priceCodeMSRP     = "MSR"
	priceCodeCatalog  = "CAT"
	priceCodeContract = "CON"
)

// MEA measurement qualifiers.
const (
	meaQualifierRollWidth     = "WD"
	meaQualifierLinearFootage = "LN"
)

// Sell-by units derived from the packaging unit of measure.
const (
	SellBySquareFoot = "sqft"
	SellByEach       = "each"
)

var areaUnits = map[string]bool{"SF": true, "SY": true, "FT2": true}
var eachUnits = map[string]bool{"EA": true, "PC": true, "LF": true}

// Packaging is the zero-or-one PO4 record for a catalog line.
type Packaging struct {
	Pack          int
	Size          float64
	UnitOfMeasure string
}

// PriceRecord is one CTP pricing record.
type PriceRecord struct {
	ClassOfTrade string
	PriceIDCode  string
	Price        decimal.Decimal
}

// DescriptionRecord is one PID record.
type DescriptionRecord struct {
	Code string
	Text string
}

// MeasurementRecord is one MEA record.
type MeasurementRecord struct {
	Qualifier string
	Value     float64
}

// CatalogItem is a single decoded 832 line with its derived fields. An item
// opens on LIN and is closed (derivation run) on the next LIN, CTT or SE.
type CatalogItem struct {
	LineNumber   string
	Identifiers  map[string]string
	Packaging    *Packaging
	Prices       []PriceRecord
	Descriptions []DescriptionRecord
	Measurements []MeasurementRecord

	// Derived once all of the item's segments are seen.
	VendorSKU    string
	UPC          string
	ProductName  string
	Color        string
	Collection   string
	Category     string
	SellByUnit   string
	SqFtPerBox   float64
	PiecesPerBox int
	WeightPerBox float64
	Cost         decimal.Decimal
	RetailPrice  decimal.Decimal

	// Carpet-category items only.
	CutPrice       decimal.Decimal
	RollPrice      decimal.Decimal
	CutCost        decimal.Decimal
	RollCost       decimal.Decimal
	RollWidth      float64
	RollMinYardage float64
}

// IsCarpet reports whether the item's derived category is a carpet category.
func (c *CatalogItem) IsCarpet() bool {
	return strings.Contains(strings.ToLower(c.Category), "carpet")
}

// Catalog is a decoded 832 price/sales catalog transaction set.
type Catalog struct {
	CatalogNumber string
	Items         []CatalogItem
}

func (c *Catalog) DocumentType() string { return TypeCatalog }

// DecodeCatalog folds one 832 transaction set into a Catalog. Items are
// accumulated per LIN..next-LIN span and derivation runs exactly once at span
// close, so no partially derived item ever escapes.
func DecodeCatalog(ts x12.TransactionSet) (*Catalog, error) {
	catalog := &Catalog{}

	var current *CatalogItem
	closeItem := func() {
		if current == nil {
			return
		}
		current.derive()
		catalog.Items = append(catalog.Items, *current)
		current = nil
	}

	for _, seg := range ts.Segments {
		switch seg.ID() {
		case "BCT":
			catalog.CatalogNumber = seg.TrimmedElement(2)
		case "LIN":
			closeItem()
			current = &CatalogItem{
				LineNumber:  seg.TrimmedElement(1),
				Identifiers: make(map[string]string),
			}
			for qualifier, value := range identifierPairs(seg, 2) {
				key, ok := linQualifierKeys[qualifier]
				if !ok {
					key = strings.ToLower(qualifier)
				}
				current.Identifiers[key] = value
			}
		case "PO4":
			if current == nil {
				continue
			}
			pack, _ := strconv.Atoi(seg.TrimmedElement(1))
			size, _ := strconv.ParseFloat(seg.TrimmedElement(2), 64)
			current.Packaging = &Packaging{
				Pack:          pack,
				Size:          size,
				UnitOfMeasure: strings.ToUpper(seg.TrimmedElement(3)),
			}
		case "CTP":
			if current == nil {
				continue
			}
			price, err := decimal.NewFromString(seg.TrimmedElement(3))
			if err != nil {
				// Unpriced or malformed CTP records are normal partner data;
				// skip the record, keep the item.
				continue
			}
			current.Prices = append(current.Prices, PriceRecord{
				ClassOfTrade: strings.ToUpper(seg.TrimmedElement(1)),
				PriceIDCode:  strings.ToUpper(seg.TrimmedElement(2)),
				Price:        price,
			})
		case "PID":
			if current == nil {
				continue
			}
			text := seg.TrimmedElement(5)
			if text == "" {
				continue
			}
			current.Descriptions = append(current.Descriptions, DescriptionRecord{
				Code: seg.TrimmedElement(2),
				Text: text,
			})
		case "MEA":
			if current == nil {
				continue
			}
			value, err := strconv.ParseFloat(seg.TrimmedElement(3), 64)
			if err != nil {
				continue
			}
			current.Measurements = append(current.Measurements, MeasurementRecord{
				Qualifier: strings.ToUpper(seg.TrimmedElement(2)),
				Value:     value,
			})
		case "G39":
			if current == nil {
				continue
			}
			if weight, err := strconv.ParseFloat(seg.TrimmedElement(9), 64); err == nil {
				current.WeightPerBox = weight
			}
		case "CTT", "SE":
			closeItem()
		}
	}
	closeItem()

	return catalog, nil
}

// derive computes the item's business fields from its collected records.
func (c *CatalogItem) derive() {
	c.VendorSKU = c.Identifiers["vendor_item_number"]
	c.UPC = c.Identifiers["upc"]

	for _, d := range c.Descriptions {
		switch d.Code {
		case pidCodeProductName:
			if c.ProductName == "" {
				c.ProductName = d.Text
			}
		case pidCodeColor:
			if c.Color == "" {
				c.Color = d.Text
			}
		case pidCodeCollection:
			if c.Collection == "" {
				c.Collection = d.Text
			}
		case pidCodeCategory:
			if c.Category == "" {
				c.Category = d.Text
			}
		default:
			// Free-form descriptions double as the product name when the
			// partner sends no coded one.
			if d.Code == "" && c.ProductName == "" {
				c.ProductName = d.Text
			}
		}
	}

	if c.Packaging != nil {
		unit := c.Packaging.UnitOfMeasure
		switch {
		case areaUnits[unit]:
			c.SellByUnit = SellBySquareFoot
			c.SqFtPerBox = c.Packaging.Size
		case eachUnits[unit]:
			c.SellByUnit = SellByEach
		}
		c.PiecesPerBox = c.Packaging.Pack
	}

	c.Cost = c.resolveNetPrice()
	c.RetailPrice = c.resolveRetailPrice()

	if c.IsCarpet() {
		c.deriveCarpet()
	}
}

// resolveNetPrice picks the cost record by priority: NET price-type, then
// wholesale/distributor class-of-trade, then the first record.
func (c *CatalogItem) resolveNetPrice() decimal.Decimal {
	for _, p := range c.Prices {
		if p.PriceIDCode == priceCodeNet {
			return p.Price
		}
	}
	for _, p := range c.Prices {
		if p.ClassOfTrade == tradeClassWholesale || p.ClassOfTrade == tradeClassDistributor {
			return p.Price
		}
	}
	if len(c.Prices) > 0 {
		return c.Prices[0].Price
	}
	return decimal.Zero
}

// resolveRetailPrice picks the retail record by priority: MSRP price-type,
// then retail class-of-trade, then catalog price-type.
func (c *CatalogItem) resolveRetailPrice() decimal.Decimal {
	for _, p := range c.Prices {
		if p.PriceIDCode == priceCodeMSRP {
			return p.Price
		}
	}
	for _, p := range c.Prices {
		if p.ClassOfTrade == tradeClassRetail {
			return p.Price
		}
	}
	for _, p := range c.Prices {
		if p.PriceIDCode == priceCodeCatalog {
			return p.Price
		}
	}
	return decimal.Zero
}

// resolveContractPrice picks the roll-side record: contract price-type or
// volume class-of-trade.
func (c *CatalogItem) resolveContractPrice() decimal.Decimal {
	for _, p := range c.Prices {
		if p.PriceIDCode == priceCodeContract || p.ClassOfTrade == tradeClassVolume {
			return p.Price
		}
	}
	return decimal.Zero
}

// deriveCarpet resolves the cut (retail, per-unit) and roll (contract,
// volume) price/cost pairs, each falling back to the other when only one
// side is present, plus roll width and minimum yardage.
func (c *CatalogItem) deriveCarpet() {
	c.CutPrice = c.resolveRetailPrice()
	c.RollPrice = c.resolveContractPrice()
	if c.CutPrice.IsZero() {
		c.CutPrice = c.RollPrice
	}
	if c.RollPrice.IsZero() {
		c.RollPrice = c.CutPrice
	}

	c.CutCost = c.resolveNetPrice()
	c.RollCost = c.resolveContractPrice()
	if c.RollCost.IsZero() {
		c.RollCost = c.CutCost
	}
	if c.CutCost.IsZero() {
		c.CutCost = c.RollCost
	}

	var linearFootage float64
	for _, m := range c.Measurements {
		switch m.Qualifier {
		case meaQualifierRollWidth:
			width := m.Value
			if width > 24 {
				// Partners report wide rolls in inches.
				width = width / 12
			}
			c.RollWidth = width
		case meaQualifierLinearFootage:
			linearFootage = m.Value
		}
	}

	if c.Packaging != nil && c.Packaging.UnitOfMeasure == "LF" && c.RollWidth > 0 && linearFootage > 0 {
		c.RollMinYardage = c.RollWidth * linearFootage
	}
}
