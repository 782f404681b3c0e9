package documents

import (
	"strconv"
	"strings"

	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/x12"
)

// REF qualifiers on 856 ship notices.
const (
	refQualifierBillOfLading = "BM"
	refQualifierTrackingCN   = "CN"
	refQualifierTracking2I   = "2I"
	refQualifierDyeLot       = "LT"
)

// ShipNoticeLine is one shipped line item.
type ShipNoticeLine struct {
	VendorSKU string
	Quantity  float64
	DyeLot    string
}

// ShipNotice is a decoded 856 advance ship notice.
type ShipNotice struct {
	ShipmentID      string
	ShipDate        string
	CarrierSCAC     string
	CarrierName     string
	BillOfLading    string
	PONumber        string
	TrackingNumbers []string
	Lines           []ShipNoticeLine

	seenTracking map[string]bool
}

func (s *ShipNotice) DocumentType() string { return TypeShipNotice }

// AddTrackingNumber records a tracking number, deduplicating on insert.
func (s *ShipNotice) AddTrackingNumber(number string) {
	number = strings.TrimSpace(number)
	if number == "" {
		return
	}
	if s.seenTracking == nil {
		s.seenTracking = make(map[string]bool)
	}
	if s.seenTracking[number] {
		return
	}
	s.seenTracking[number] = true
	s.TrackingNumbers = append(s.TrackingNumbers, number)
}

// DecodeShipNotice folds one 856 transaction set into a ShipNotice. The HL
// hierarchy is deliberately flattened: REF dye lots apply to the line opened
// by the most recent LIN, shipment-level REFs arrive before the first LIN.
func DecodeShipNotice(ts x12.TransactionSet) (*ShipNotice, error) {
	notice := &ShipNotice{}

	var current *ShipNoticeLine
	closeLine := func() {
		if current != nil {
			notice.Lines = append(notice.Lines, *current)
			current = nil
		}
	}

	for _, seg := range ts.Segments {
		switch seg.ID() {
		case "BSN":
			notice.ShipmentID = seg.TrimmedElement(2)
			notice.ShipDate = seg.TrimmedElement(3)
		case "TD5":
			if seg.TrimmedElement(2) == "2" {
				notice.CarrierSCAC = seg.TrimmedElement(3)
			}
			if name := seg.TrimmedElement(5); name != "" {
				notice.CarrierName = name
			}
		case "REF":
			qualifier := strings.ToUpper(seg.TrimmedElement(1))
			value := seg.TrimmedElement(2)
			switch qualifier {
			case refQualifierBillOfLading:
				notice.BillOfLading = value
			case refQualifierTrackingCN, refQualifierTracking2I:
				notice.AddTrackingNumber(value)
			case refQualifierDyeLot:
				if current != nil {
					current.DyeLot = value
				}
			}
		case "PRF":
			notice.PONumber = seg.TrimmedElement(1)
		case "LIN":
			closeLine()
			pairs := identifierPairs(seg, 2)
			sku := pairs["VP"]
			if sku == "" {
				sku = pairs["VN"]
			}
			current = &ShipNoticeLine{VendorSKU: sku}
		case "SN1":
			if current == nil {
				continue
			}
			if qty, err := strconv.ParseFloat(seg.TrimmedElement(2), 64); err == nil {
				current.Quantity = qty
			}
		case "SE":
			closeLine()
		}
	}
	closeLine()

	return notice, nil
}
