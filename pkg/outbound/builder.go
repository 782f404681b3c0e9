package outbound

import (
	"fmt"
	"strings"
	"time"

	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/documents"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/models"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/x12"
)

// Control number scopes issued by the ledger.
const (
	NumberTypeInterchange = "interchange"
	NumberTypeGroup       = "group"
	NumberTypeTransaction = "transaction"
)

// ControlNumbers is the triple drawn from the ledger for one interchange.
// The triple is issued once per document and reused verbatim on retry.
type ControlNumbers struct {
	Interchange int64
	Group       int64
	Transaction int64
}

// Profile carries the partner-specific values stamped into every outbound
// interchange.
type Profile struct {
	SenderID       string
	ReceiverID     string
	AccountNumber  string
	UsageIndicator string // P or T
	ShipTo         ShipTo
	Delimiters     x12.Delimiters
}

// ShipTo is the static destination emitted in the N1 loop.
type ShipTo struct {
	Name       string
	Code       string
	Address    string
	City       string
	State      string
	PostalCode string
}

// Builder serializes purchase orders into X12 850 interchanges.
type Builder struct {
	profile Profile
}

func NewBuilder(profile Profile) *Builder {
	if profile.Delimiters == (x12.Delimiters{}) {
		profile.Delimiters = x12.DefaultDelimiters()
	}
	if profile.UsageIndicator == "" {
		profile.UsageIndicator = "P"
	}
	return &Builder{profile: profile}
}

// Build produces one complete interchange for the given purchase order lines.
// The caller supplies the control number triple; Build never issues numbers
// itself so a failed upload can be retried with identical output.
func (b *Builder) Build(po *models.PurchaseOrder, items []models.PurchaseOrderItem, numbers ControlNumbers, now time.Time) []byte {
	d := b.profile.Delimiters

	var sb strings.Builder
	write := func(elements ...string) {
		sb.WriteString(x12.NewSegment(elements...).String(d))
		sb.WriteString(d.Segment)
		sb.WriteByte('\n')
	}

	sb.WriteString(b.isaHeader(numbers.Interchange, now))
	sb.WriteByte('\n')

	write("GS", "PO", b.profile.SenderID, b.profile.ReceiverID,
		now.Format("20060102"), now.Format("1504"),
		fmt.Sprintf("%d", numbers.Group), "X", "004010")

	// Transaction set segments are counted for SE, which includes both ST
	// and SE itself.
	segments := 0
	writeTS := func(elements ...string) {
		write(elements...)
		segments++
	}

	stControl := fmt.Sprintf("%09d", numbers.Transaction)
	writeTS("ST", "850", stControl)
	writeTS("BEG", "00", "SA", po.PONumber, "", po.OrderDate.Format("20060102"))
	if b.profile.AccountNumber != "" {
		writeTS("REF", "IA", b.profile.AccountNumber)
	}

	st := b.profile.ShipTo
	writeTS("N1", "ST", st.Name, "92", st.Code)
	if st.Address != "" {
		writeTS("N3", st.Address)
	}
	writeTS("N4", st.City, st.State, st.PostalCode)

	for i, item := range items {
		unit := "EA"
		if item.SellByUnit == documents.SellBySquareFoot {
			unit = "SF"
		}
		line := []string{
			"PO1",
			fmt.Sprintf("%d", i+1),
			item.Quantity.String(),
			unit,
			item.UnitPrice.StringFixed(2),
			"",
		}
		if item.VendorSKU != "" {
			line = append(line, "VP", item.VendorSKU)
		}
		writeTS(line...)
		if item.Description != "" {
			writeTS("PID", "F", "", "", "", item.Description)
		}
	}

	writeTS("CTT", fmt.Sprintf("%d", len(items)))

	segments++ // SE counts itself
	write("SE", fmt.Sprintf("%d", segments), stControl)

	write("GE", "1", fmt.Sprintf("%d", numbers.Group))
	write("IEA", "1", fmt.Sprintf("%09d", numbers.Interchange))

	return []byte(sb.String())
}

// isaHeader renders the fixed-width interchange header. Field widths are
// mandated by the standard; the header must come out at exactly 106 bytes so
// inbound-style delimiter detection works on our own output.
func (b *Builder) isaHeader(controlNumber int64, now time.Time) string {
	d := b.profile.Delimiters
	elements := []string{
		"ISA",
		"00", fmt.Sprintf("%-10s", ""),
		"00", fmt.Sprintf("%-10s", ""),
		"ZZ", fmt.Sprintf("%-15s", b.profile.SenderID),
		"ZZ", fmt.Sprintf("%-15s", b.profile.ReceiverID),
		now.Format("060102"), now.Format("1504"),
		"U", "00401",
		fmt.Sprintf("%09d", controlNumber),
		"0", b.profile.UsageIndicator,
		d.SubElement,
	}
	return x12.NewSegment(elements...).String(d) + d.Segment
}
