package documents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/x12"
)

func invoiceSet(segments ...x12.Segment) x12.TransactionSet {
	all := []x12.Segment{x12.NewSegment("ST", "810", "0001")}
	all = append(all, segments...)
	all = append(all, x12.NewSegment("SE", "0", "0001"))
	return x12.TransactionSet{DocumentType: "810", ControlNumber: "0001", Segments: all}
}

func TestDecodeInvoice(t *testing.T) {
	invoice, err := DecodeInvoice(invoiceSet(
		x12.NewSegment("BIG", "20240104", "INV-5001", "", "PO-1001"),
		x12.NewSegment("IT1", "1", "40", "SF", "2.25", "", "VP", "SKU-1"),
		x12.NewSegment("PID", "F", "", "", "", "Heritage Oak Plank"),
		x12.NewSegment("IT1", "2", "3", "EA", "18.00", "", "VP", "SKU-2"),
		x12.NewSegment("TDS", "14400"),
	))
	require.NoError(t, err)

	assert.Equal(t, "INV-5001", invoice.InvoiceNumber)
	assert.Equal(t, "20240104", invoice.InvoiceDate)
	assert.Equal(t, "PO-1001", invoice.PONumber)
	assert.Equal(t, "144", invoice.TotalAmount.String(), "integer cents become a two-decimal amount")

	require.Len(t, invoice.Lines, 2)
	line := invoice.Lines[0]
	assert.Equal(t, 1, line.LineNumber)
	assert.Equal(t, "SKU-1", line.VendorSKU)
	assert.Equal(t, "Heritage Oak Plank", line.Description)
	assert.Equal(t, "90", line.Subtotal.String(), "subtotal is recomputed as qty x price")
	assert.Equal(t, "54", invoice.Lines[1].Subtotal.String())
}

func TestDecodeInvoice_CentsConversion(t *testing.T) {
	invoice, err := DecodeInvoice(invoiceSet(
		x12.NewSegment("BIG", "20240104", "INV-5002", "", "PO-1002"),
		x12.NewSegment("TDS", "123456789"),
	))
	require.NoError(t, err)
	assert.Equal(t, "1234567.89", invoice.TotalAmount.String())
}

func TestDecode_Dispatch(t *testing.T) {
	t.Run("routes by document type", func(t *testing.T) {
		doc, err := Decode(invoiceSet(x12.NewSegment("BIG", "20240104", "INV-1", "", "PO-1")))
		require.NoError(t, err)
		assert.Equal(t, TypeInvoice, doc.DocumentType())
	})

	t.Run("unknown type surfaces the sentinel", func(t *testing.T) {
		_, err := Decode(x12.TransactionSet{DocumentType: "997"})
		assert.ErrorIs(t, err, x12.ErrUnknownDocumentType)
	})
}
