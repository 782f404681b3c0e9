package documents

import (
	"strconv"
	"strings"

	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/x12"
)

// BAK acknowledgment type codes.
const (
	AckTypeAccepted           = "AC"
	AckTypeAcknowledgedDetail = "AD"
	AckTypeRejectedWithDetail = "RD"
)

// Normalized line and purchase-order statuses.
const (
	StatusAccepted            = "accepted"
	StatusAcceptedWithChanges = "accepted_with_changes"
	StatusBackordered         = "backordered"
	StatusRejected            = "rejected"
	StatusPartial             = "partial"
)

// ackStatusCodes normalizes the ACK01 line item status codes the configured
// partners send. Unlisted codes default by their leading letter: I* accepted,
// R* rejected.
var ackStatusCodes = map[string]string{
	"IA": StatusAccepted,
	"AC": StatusAccepted,
	"IC": StatusAcceptedWithChanges,
	"IB": StatusBackordered,
	"BP": StatusBackordered,
	"IR": StatusRejected,
	"ID": StatusRejected,
	"R1": StatusRejected,
	"R2": StatusRejected,
}

// AckLine is one acknowledged purchase-order line.
type AckLine struct {
	LineNumber int
	VendorSKU  string
	StatusCode string
	Status     string
}

// Acknowledgment is a decoded 855 purchase order acknowledgment.
type Acknowledgment struct {
	AckType  string
	PONumber string
	AckDate  string
	Lines    []AckLine
}

func (a *Acknowledgment) DocumentType() string { return TypeAcknowledgment }

// DecodeAcknowledgment folds one 855 transaction set into an Acknowledgment.
func DecodeAcknowledgment(ts x12.TransactionSet) (*Acknowledgment, error) {
	ack := &Acknowledgment{}

	var current *AckLine
	closeLine := func() {
		if current != nil {
			ack.Lines = append(ack.Lines, *current)
			current = nil
		}
	}

	for _, seg := range ts.Segments {
		switch seg.ID() {
		case "BAK":
			ack.AckType = strings.ToUpper(seg.TrimmedElement(2))
			ack.PONumber = seg.TrimmedElement(3)
			ack.AckDate = seg.TrimmedElement(4)
		case "PO1":
			closeLine()
			lineNumber, _ := strconv.Atoi(seg.TrimmedElement(1))
			current = &AckLine{
				LineNumber: lineNumber,
				VendorSKU:  identifierPairs(seg, 6)["VP"],
			}
		case "ACK":
			if current == nil {
				continue
			}
			current.StatusCode = strings.ToUpper(seg.TrimmedElement(1))
			current.Status = normalizeAckStatus(current.StatusCode)
		case "CTT", "SE":
			closeLine()
		}
	}
	closeLine()

	return ack, nil
}

func normalizeAckStatus(code string) string {
	if status, ok := ackStatusCodes[code]; ok {
		return status
	}
	switch {
	case strings.HasPrefix(code, "R"):
		return StatusRejected
	case strings.HasPrefix(code, "I"):
		return StatusAccepted
	default:
		return StatusAccepted
	}
}

// OverallStatus rolls the acknowledgment up to a purchase-order status. A
// rejected ack type wins outright, an acknowledged-with-detail type is always
// partial, and otherwise the rollup is derived from the line statuses.
func (a *Acknowledgment) OverallStatus() string {
	switch a.AckType {
	case AckTypeRejectedWithDetail:
		return StatusRejected
	case AckTypeAcknowledgedDetail:
		return StatusPartial
	}

	var anyAccepted, anyRejected, anyBackordered bool
	for _, line := range a.Lines {
		switch line.Status {
		case StatusRejected:
			anyRejected = true
		case StatusBackordered:
			anyBackordered = true
		default:
			anyAccepted = true
		}
	}

	switch {
	case anyRejected && anyAccepted:
		return StatusPartial
	case anyRejected:
		return StatusRejected
	case anyBackordered:
		return StatusPartial
	default:
		return StatusAccepted
	}
}
