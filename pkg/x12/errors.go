package x12

import "errors"

// ErrMalformedEnvelope is returned when a document is too short to carry the
// fixed-width ISA header. It aborts that file only, never the whole cycle.
var ErrMalformedEnvelope = errors.New("malformed interchange envelope: input shorter than ISA header")

// ErrUnknownDocumentType is returned when a transaction set carries a type
// code no decoder is registered for. Callers log it and move on.
var ErrUnknownDocumentType = errors.New("unknown transaction set document type")
