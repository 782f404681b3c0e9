package x12

// TransactionSet is one ST..SE span: a single business document of a given
// type inside an interchange.
type TransactionSet struct {
	DocumentType  string
	ControlNumber string
	Segments      []Segment
}

// Envelope is the outermost interchange wrapper plus the complete transaction
// sets it carries. One Envelope per raw document.
type Envelope struct {
	SenderID            string
	ReceiverID          string
	ControlNumber       string
	FunctionalGroupCode string
	Delimiters          Delimiters
	TransactionSets     []TransactionSet
}

// ReadEnvelope tokenizes a raw inbound document and groups its segments into
// an interchange envelope with ST..SE transaction sets. Sets with no closing
// SE are dropped rather than reported: upstream files are sometimes truncated
// and the complete sets should still be extracted.
func ReadEnvelope(raw []byte) (*Envelope, error) {
	segments, delims, err := Tokenize(raw)
	if err != nil {
		return nil, err
	}
	return buildEnvelope(segments, delims), nil
}

// ReadEnvelopeWith is ReadEnvelope with explicitly configured delimiters.
func ReadEnvelopeWith(raw []byte, delims Delimiters) *Envelope {
	return buildEnvelope(TokenizeWith(raw, delims), delims)
}

func buildEnvelope(segments []Segment, delims Delimiters) *Envelope {
	env := &Envelope{Delimiters: delims}

	var current *TransactionSet
	for _, seg := range segments {
		switch seg.ID() {
		case isaSegmentID:
			env.SenderID = seg.TrimmedElement(isaIndexSenderID)
			env.ReceiverID = seg.TrimmedElement(isaIndexReceiverID)
			env.ControlNumber = seg.TrimmedElement(isaIndexControlNumber)
		case gsSegmentID:
			env.FunctionalGroupCode = seg.TrimmedElement(gsIndexFunctionalIdentifierCode)
		case stSegmentID:
			// A new ST while a set is open means the previous set never
			// terminated; it is dropped.
			current = &TransactionSet{
				DocumentType:  seg.TrimmedElement(stIndexTransactionSetCode),
				ControlNumber: seg.TrimmedElement(stIndexControlNumber),
				Segments:      []Segment{seg},
			}
		case seSegmentID:
			if current != nil {
				current.Segments = append(current.Segments, seg)
				env.TransactionSets = append(env.TransactionSets, *current)
				current = nil
			}
		case ieaSegmentID, geSegmentID:
			// Envelope trailers carry nothing the engine needs.
		default:
			if current != nil {
				current.Segments = append(current.Segments, seg)
			}
		}
	}

	return env
}
