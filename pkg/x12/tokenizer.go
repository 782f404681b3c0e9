package x12

import "strings"

// Tokenize splits a raw inbound document into segments, auto-detecting the
// delimiters from the fixed-width ISA header. The element separator is read
// at offset 3, the sub-element separator at offset 104 and the segment
// terminator at offset 105.
//
// Whitespace-only and empty segments are dropped silently: vendors pad files
// inconsistently and this is normal operation, not a parse error.
func Tokenize(raw []byte) ([]Segment, Delimiters, error) {
	text := string(raw)
	if len(text) < isaByteCount {
		return nil, Delimiters{}, ErrMalformedEnvelope
	}

	delims := Delimiters{
		Element:    string(text[isaElementSeparatorIndex]),
		SubElement: string(text[isaSubElementSeparatorIndex]),
		Segment:    string(text[isaSegmentTerminatorIndex]),
	}

	return splitSegments(text, delims), delims, nil
}

// TokenizeWith splits text using explicitly configured delimiters. Used for
// round-tripping outbound builds, where there is no header to detect from.
func TokenizeWith(raw []byte, delims Delimiters) []Segment {
	return splitSegments(string(raw), delims)
}

func splitSegments(text string, delims Delimiters) []Segment {
	parts := strings.Split(text, delims.Segment)
	segments := make([]Segment, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		segments = append(segments, Segment{elements: strings.Split(part, delims.Element)})
	}
	return segments
}
