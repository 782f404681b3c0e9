package documents

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/x12"
)

// InvoiceLine is one billed line item. Subtotal is always recomputed as
// qty × unit price rather than trusted from the wire, since some partners
// omit it.
type InvoiceLine struct {
	LineNumber    int
	VendorSKU     string
	Description   string
	Quantity      decimal.Decimal
	UnitOfMeasure string
	UnitPrice     decimal.Decimal
	Subtotal      decimal.Decimal
}

// Invoice is a decoded 810 invoice. TotalAmount is exact: the wire carries
// an integer cents value.
type Invoice struct {
	InvoiceNumber string
	InvoiceDate   string
	PONumber      string
	TotalAmount   decimal.Decimal
	Lines         []InvoiceLine
}

func (i *Invoice) DocumentType() string { return TypeInvoice }

// DecodeInvoice folds one 810 transaction set into an Invoice.
func DecodeInvoice(ts x12.TransactionSet) (*Invoice, error) {
	invoice := &Invoice{}

	var current *InvoiceLine
	closeLine := func() {
		if current != nil {
			current.Subtotal = current.Quantity.Mul(current.UnitPrice).Round(2)
			invoice.Lines = append(invoice.Lines, *current)
			current = nil
		}
	}

	for _, seg := range ts.Segments {
		switch seg.ID() {
		case "BIG":
			invoice.InvoiceDate = seg.TrimmedElement(1)
			invoice.InvoiceNumber = seg.TrimmedElement(2)
			invoice.PONumber = seg.TrimmedElement(4)
		case "IT1":
			closeLine()
			lineNumber, _ := strconv.Atoi(seg.TrimmedElement(1))
			qty, _ := decimal.NewFromString(seg.TrimmedElement(2))
			price, _ := decimal.NewFromString(seg.TrimmedElement(4))
			current = &InvoiceLine{
				LineNumber:    lineNumber,
				Quantity:      qty,
				UnitOfMeasure: seg.TrimmedElement(3),
				UnitPrice:     price,
				VendorSKU:     identifierPairs(seg, 6)["VP"],
			}
		case "PID":
			if current != nil && current.Description == "" {
				current.Description = seg.TrimmedElement(5)
			}
		case "TDS":
			if cents, err := strconv.ParseInt(seg.TrimmedElement(1), 10, 64); err == nil {
				invoice.TotalAmount = decimal.New(cents, -2)
			}
		case "SE":
			closeLine()
		}
	}
	closeLine()

	return invoice, nil
}
