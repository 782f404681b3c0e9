package outbound

import (
	"fmt"
	"strings"

	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/models"
)

// Split suffixes stamped into filenames when a purchase order is divided.
const (
	SuffixHardSurface = "H"
	SuffixSoftSurface = "S"
)

// ItemSplit is the outcome of classifying a purchase order's lines by
// surface category.
type ItemSplit struct {
	Hard []models.PurchaseOrderItem
	Soft []models.PurchaseOrderItem
}

// Mixed reports whether the order carries both hard and soft surface lines
// and therefore must ship as two separate interchanges.
func (s ItemSplit) Mixed() bool {
	return len(s.Hard) > 0 && len(s.Soft) > 0
}

// SplitByCategory classifies each line item as hard surface when its
// category contains any of the configured keywords, soft surface otherwise.
// Matching is case-insensitive substring matching; the keyword list comes
// from partner configuration, not code.
func SplitByCategory(items []models.PurchaseOrderItem, hardKeywords []string) ItemSplit {
	var split ItemSplit
	for _, item := range items {
		if isHardSurface(item.Category, hardKeywords) {
			split.Hard = append(split.Hard, item)
		} else {
			split.Soft = append(split.Soft, item)
		}
	}
	return split
}

func isHardSurface(category string, keywords []string) bool {
	c := strings.ToLower(category)
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(c, kw) {
			return true
		}
	}
	return false
}

// Filename names an outbound 850 file. The split suffix is empty for
// unsplit orders.
func Filename(poNumber string, interchangeControl int64, suffix string) string {
	return fmt.Sprintf("850_%s_%09d%s.edi", poNumber, interchangeControl, suffix)
}
