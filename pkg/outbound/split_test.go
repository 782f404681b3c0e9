package outbound

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/models"
)

var testHardKeywords = []string{"tile", "vinyl", "laminate", "hardwood", "wood", "stone", "lvp", "lvt"}

func TestSplitByCategory(t *testing.T) {
	carpet := models.PurchaseOrderItem{VendorSKU: "C1", Category: "Carpet"}
	rug := models.PurchaseOrderItem{VendorSKU: "R1", Category: "Area Rug"}
	tile := models.PurchaseOrderItem{VendorSKU: "T1", Category: "Porcelain Tile"}
	plank := models.PurchaseOrderItem{VendorSKU: "P1", Category: "LVP Flooring"}

	tests := []struct {
		name      string
		items     []models.PurchaseOrderItem
		wantHard  int
		wantSoft  int
		wantMixed bool
	}{
		{"all soft", []models.PurchaseOrderItem{carpet, rug}, 0, 2, false},
		{"all hard", []models.PurchaseOrderItem{tile, plank}, 2, 0, false},
		{"mixed", []models.PurchaseOrderItem{carpet, tile, rug, plank}, 2, 2, true},
		{"empty", nil, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			split := SplitByCategory(tt.items, testHardKeywords)
			assert.Len(t, split.Hard, tt.wantHard)
			assert.Len(t, split.Soft, tt.wantSoft)
			assert.Equal(t, tt.wantMixed, split.Mixed())
			assert.Equal(t, len(tt.items), len(split.Hard)+len(split.Soft))
		})
	}
}

func TestSplitMatchingIsCaseInsensitiveSubstring(t *testing.T) {
	items := []models.PurchaseOrderItem{
		{VendorSKU: "A", Category: "ENGINEERED HARDWOOD"},
		{VendorSKU: "B", Category: "Sheet vinyl"},
		{VendorSKU: "C", Category: "Carpet Tile"}, // contains "tile", classified hard
	}
	split := SplitByCategory(items, testHardKeywords)
	assert.Len(t, split.Hard, 3)
	assert.Empty(t, split.Soft)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "850_PO-1001_000000042.edi", Filename("PO-1001", 42, ""))
	assert.Equal(t, "850_PO-1001_000000043H.edi", Filename("PO-1001", 43, SuffixHardSurface))
	assert.Equal(t, "850_PO-1001_000000044S.edi", Filename("PO-1001", 44, SuffixSoftSurface))
}
