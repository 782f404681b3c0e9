// Package x12 implements the wire-level grammar for ANSI X12 interchanges:
// tokenizing raw documents into segments and grouping segments into an
// interchange envelope with its transaction sets.
package x12

import "strings"

const (
	isaSegmentID = "ISA"
	ieaSegmentID = "IEA"
	gsSegmentID  = "GS"
	geSegmentID  = "GE"
	stSegmentID  = "ST"
	seSegmentID  = "SE"
)

// isaByteCount is the fixed width of the ISA header. The element separator
// sits at offset 3, the sub-element separator at 104 and the segment
// terminator at 105.
const (
	isaByteCount                = 106
	isaElementSeparatorIndex    = 3
	isaSubElementSeparatorIndex = 104
	isaSegmentTerminatorIndex   = 105
)

// ISA element positions.
const (
	isaIndexSenderIDQualifier = 5
	isaIndexSenderID          = 6
	isaIndexReceiverID        = 8
	isaIndexControlNumber     = 13
	isaIndexUsageIndicator    = 15
)

// GS element positions.
const (
	gsIndexFunctionalIdentifierCode = 1
	gsIndexControlNumber            = 6
)

// ST element positions.
const (
	stIndexTransactionSetCode = 1
	stIndexControlNumber      = 2
)

// Delimiters are the three separators that frame an X12 document.
type Delimiters struct {
	Element    string
	SubElement string
	Segment    string
}

// DefaultDelimiters returns the separators used for outbound builds when the
// partner has no overrides configured.
func DefaultDelimiters() Delimiters {
	return Delimiters{Element: "*", SubElement: ":", Segment: "~"}
}

// Segment is one X12 record: an ordered list of element strings whose first
// element is the segment identifier. Immutable once tokenized.
type Segment struct {
	elements []string
}

// NewSegment builds a segment from its elements. The first element is the id.
func NewSegment(elements ...string) Segment {
	return Segment{elements: elements}
}

// ID returns the segment identifier (LIN, PO1, ...).
func (s Segment) ID() string {
	if len(s.elements) == 0 {
		return ""
	}
	return s.elements[0]
}

// Len returns the number of elements, including the identifier.
func (s Segment) Len() int {
	return len(s.elements)
}

// Element returns the element at pos, or "" when the segment is shorter.
// Vendors routinely omit trailing elements, so out-of-range reads are normal.
func (s Segment) Element(pos int) string {
	if pos < 0 || pos >= len(s.elements) {
		return ""
	}
	return s.elements[pos]
}

// TrimmedElement returns the element at pos with surrounding padding removed.
func (s Segment) TrimmedElement(pos int) string {
	return strings.TrimSpace(s.Element(pos))
}

// String renders the segment using the given delimiters, without terminator.
func (s Segment) String(d Delimiters) string {
	return strings.Join(s.elements, d.Element)
}
