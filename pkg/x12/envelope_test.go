package x12

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testISA renders a spec-width ISA header (106 bytes including terminator).
func testISA(sender, receiver, controlNumber string) string {
	return fmt.Sprintf("ISA*00*%-10s*00*%-10s*ZZ*%-15s*ZZ*%-15s*240105*1430*U*00401*%09s*0*P*:~",
		"", "", sender, receiver, controlNumber)
}

func testDocument(sets ...string) []byte {
	var b strings.Builder
	b.WriteString(testISA("ACMEFLOORS", "SHAWIND", "000000321"))
	b.WriteString("GS*PR*ACMEFLOORS*SHAWIND*20240105*1430*321*X*004010~")
	for _, set := range sets {
		b.WriteString(set)
	}
	b.WriteString("GE*1*321~IEA*1*000000321~")
	return []byte(b.String())
}

func TestTokenize(t *testing.T) {
	t.Run("detects delimiters from the fixed header", func(t *testing.T) {
		segments, delims, err := Tokenize(testDocument())
		require.NoError(t, err)

		assert.Equal(t, "*", delims.Element)
		assert.Equal(t, ":", delims.SubElement)
		assert.Equal(t, "~", delims.Segment)
		require.NotEmpty(t, segments)
		assert.Equal(t, "ISA", segments[0].ID())
	})

	t.Run("rejects input shorter than the header", func(t *testing.T) {
		_, _, err := Tokenize([]byte("ISA*00*TOO SHORT~"))
		assert.ErrorIs(t, err, ErrMalformedEnvelope)
	})

	t.Run("drops whitespace-only segments", func(t *testing.T) {
		raw := append(testDocument(), []byte("   ~\n~  \r\n")...)
		segments, _, err := Tokenize(raw)
		require.NoError(t, err)
		for _, seg := range segments {
			assert.NotEmpty(t, seg.ID())
		}
	})
}

func TestTokenizeWith(t *testing.T) {
	segments := TokenizeWith([]byte("ST|855|0001!PO1|1|12|EA!SE|3|0001!"), Delimiters{Element: "|", SubElement: ">", Segment: "!"})
	require.Len(t, segments, 3)
	assert.Equal(t, "PO1", segments[1].ID())
	assert.Equal(t, "12", segments[1].Element(2))
}

func TestReadEnvelopeWith(t *testing.T) {
	delims := Delimiters{Element: "|", SubElement: ">", Segment: "!"}
	env := ReadEnvelopeWith([]byte("ST|855|0001!BAK|00|AC|PO-1001|20240104!SE|3|0001!"), delims)

	require.Len(t, env.TransactionSets, 1)
	set := env.TransactionSets[0]
	assert.Equal(t, "855", set.DocumentType)
	assert.Equal(t, "0001", set.ControlNumber)
	assert.Equal(t, delims, env.Delimiters)
	assert.Equal(t, "BAK|00|AC|PO-1001|20240104", set.Segments[1].String(delims))
}

func TestReadEnvelope(t *testing.T) {
	t.Run("populates interchange metadata", func(t *testing.T) {
		env, err := ReadEnvelope(testDocument("ST*855*0001~BAK*00*AC*PO-1001*20240104~SE*3*0001~"))
		require.NoError(t, err)

		assert.Equal(t, "ACMEFLOORS", env.SenderID)
		assert.Equal(t, "SHAWIND", env.ReceiverID)
		assert.Equal(t, "000000321", env.ControlNumber)
		assert.Equal(t, "PR", env.FunctionalGroupCode)
	})

	t.Run("extracts each ST..SE span", func(t *testing.T) {
		env, err := ReadEnvelope(testDocument(
			"ST*855*0001~BAK*00*AC*PO-1001*20240104~SE*3*0001~",
			"ST*856*0002~BSN*00*SHIP77*20240104*1200~SE*3*0002~",
		))
		require.NoError(t, err)
		require.Len(t, env.TransactionSets, 2)

		assert.Equal(t, "855", env.TransactionSets[0].DocumentType)
		assert.Equal(t, "0001", env.TransactionSets[0].ControlNumber)
		assert.Len(t, env.TransactionSets[0].Segments, 3)
		assert.Equal(t, "856", env.TransactionSets[1].DocumentType)
	})

	t.Run("drops unterminated transaction sets", func(t *testing.T) {
		env, err := ReadEnvelope(testDocument(
			"ST*855*0001~BAK*00*AC*PO-1001*20240104~SE*3*0001~",
			"ST*810*0002~BIG*20240104*INV-5~", // truncated upstream, no SE
		))
		require.NoError(t, err)
		require.Len(t, env.TransactionSets, 1)
		assert.Equal(t, "855", env.TransactionSets[0].DocumentType)
	})

	t.Run("segments outside any set are ignored", func(t *testing.T) {
		env, err := ReadEnvelope(testDocument("REF*XX*stray~ST*855*0001~SE*2*0001~"))
		require.NoError(t, err)
		require.Len(t, env.TransactionSets, 1)
		assert.Len(t, env.TransactionSets[0].Segments, 2)
	})
}

func TestSegmentElement(t *testing.T) {
	seg := NewSegment("PO1", "1", "10", "EA", "4.25")

	assert.Equal(t, "PO1", seg.ID())
	assert.Equal(t, "4.25", seg.Element(4))
	assert.Equal(t, "", seg.Element(9), "reads past the end are empty, not panics")
	assert.Equal(t, "", NewSegment().ID())
}
