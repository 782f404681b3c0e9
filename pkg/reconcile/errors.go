package reconcile

import "fmt"

// MissingReferenceError marks a decoded document whose PO or invoice
// reference cannot be resolved. The transaction is recorded failed and no
// downstream state is touched; partner files with dangling references are
// routine and must not abort the cycle.
type MissingReferenceError struct {
	DocumentType string
	Reference    string
}

func (e *MissingReferenceError) Error() string {
	if e.Reference == "" {
		return fmt.Sprintf("missing reference: %s document carries no purchase order number", e.DocumentType)
	}
	return fmt.Sprintf("missing reference: %s document references unknown purchase order %s", e.DocumentType, e.Reference)
}
