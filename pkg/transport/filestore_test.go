package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesExtension(t *testing.T) {
	exts := []string{".edi", ".txt", ".x12"}

	tests := []struct {
		name string
		file string
		want bool
	}{
		{"edi", "850_PO-1_000000001.edi", true},
		{"uppercase", "ORDER.EDI", true},
		{"txt", "notes.txt", true},
		{"x12", "inbound.X12", true},
		{"csv rejected", "report.csv", false},
		{"no extension", "README", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesExtension(tt.file, exts))
		})
	}

	assert.True(t, matchesExtension("anything.bin", nil), "empty filter matches everything")
	assert.True(t, matchesExtension("file.edi", []string{" .EDI "}), "filter entries are trimmed")
}
