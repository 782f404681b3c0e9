// Package documents maps tokenized X12 transaction sets into typed business
// documents. Each decoder is a stateless fold over one transaction set's
// segments, dispatching on segment id; unknown segment ids are ignored since
// trading partners use optional and extension segments freely.
package documents

import (
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/x12"
)

// Known transaction set type codes.
const (
	TypeCatalog        = "832"
	TypePurchaseOrder  = "850"
	TypeAcknowledgment = "855"
	TypeShipNotice     = "856"
	TypeInvoice        = "810"
)

// Document is the closed set of decoded inbound documents.
type Document interface {
	DocumentType() string
}

// decoders is the dispatch table over known document types. Adding a type is
// a closed, enumerable change here plus a new decoder file.
var decoders = map[string]func(x12.TransactionSet) (Document, error){
	TypeCatalog:        func(ts x12.TransactionSet) (Document, error) { return DecodeCatalog(ts) },
	TypeAcknowledgment: func(ts x12.TransactionSet) (Document, error) { return DecodeAcknowledgment(ts) },
	TypeShipNotice:     func(ts x12.TransactionSet) (Document, error) { return DecodeShipNotice(ts) },
	TypeInvoice:        func(ts x12.TransactionSet) (Document, error) { return DecodeInvoice(ts) },
}

// Decode dispatches a transaction set to the decoder for its document type.
// Returns x12.ErrUnknownDocumentType for types with no registered decoder.
func Decode(ts x12.TransactionSet) (Document, error) {
	decode, ok := decoders[ts.DocumentType]
	if !ok {
		return nil, x12.ErrUnknownDocumentType
	}
	return decode(ts)
}

// KnownDocumentType reports whether a decoder exists for the given type code.
func KnownDocumentType(docType string) bool {
	_, ok := decoders[docType]
	return ok
}

// identifierPairs walks the trailing qualifier/value element pairs that LIN,
// PO1, IT1 and friends carry, starting at the given element position.
func identifierPairs(seg x12.Segment, start int) map[string]string {
	pairs := make(map[string]string)
	for pos := start; pos+1 < seg.Len(); pos += 2 {
		qualifier := seg.TrimmedElement(pos)
		value := seg.TrimmedElement(pos + 1)
		if qualifier == "" || value == "" {
			continue
		}
		pairs[qualifier] = value
	}
	return pairs
}
