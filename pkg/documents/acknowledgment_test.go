package documents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/x12"
)

func ackSet(segments ...x12.Segment) x12.TransactionSet {
	all := []x12.Segment{x12.NewSegment("ST", "855", "0001")}
	all = append(all, segments...)
	all = append(all, x12.NewSegment("SE", "0", "0001"))
	return x12.TransactionSet{DocumentType: "855", ControlNumber: "0001", Segments: all}
}

func TestDecodeAcknowledgment(t *testing.T) {
	ack, err := DecodeAcknowledgment(ackSet(
		x12.NewSegment("BAK", "00", "AC", "PO-1001", "20240104"),
		x12.NewSegment("PO1", "1", "10", "EA", "4.25", "", "VP", "SKU-1"),
		x12.NewSegment("ACK", "IA", "10", "EA"),
		x12.NewSegment("PO1", "2", "5", "EA", "9.00", "", "VP", "SKU-2"),
		x12.NewSegment("ACK", "IR", "0", "EA"),
	))
	require.NoError(t, err)

	assert.Equal(t, "AC", ack.AckType)
	assert.Equal(t, "PO-1001", ack.PONumber)
	require.Len(t, ack.Lines, 2)

	assert.Equal(t, 1, ack.Lines[0].LineNumber)
	assert.Equal(t, "SKU-1", ack.Lines[0].VendorSKU)
	assert.Equal(t, StatusAccepted, ack.Lines[0].Status)
	assert.Equal(t, StatusRejected, ack.Lines[1].Status)
}

func TestAcknowledgment_OverallStatus(t *testing.T) {
	tests := []struct {
		name     string
		ackType  string
		statuses []string
		expected string
	}{
		{name: "rejected ack type wins", ackType: "RD", statuses: []string{StatusAccepted}, expected: StatusRejected},
		{name: "acknowledged with detail is partial", ackType: "AD", statuses: []string{StatusAccepted}, expected: StatusPartial},
		{name: "mixed lines are partial", ackType: "AC", statuses: []string{StatusAccepted, StatusRejected}, expected: StatusPartial},
		{name: "all rejected lines reject the order", ackType: "AC", statuses: []string{StatusRejected, StatusRejected}, expected: StatusRejected},
		{name: "a backordered line is partial", ackType: "AC", statuses: []string{StatusAccepted, StatusBackordered}, expected: StatusPartial},
		{name: "all accepted", ackType: "AC", statuses: []string{StatusAccepted, StatusAcceptedWithChanges}, expected: StatusAccepted},
		{name: "no lines defaults to accepted", ackType: "AC", expected: StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &Acknowledgment{AckType: tt.ackType}
			for i, status := range tt.statuses {
				ack.Lines = append(ack.Lines, AckLine{LineNumber: i + 1, Status: status})
			}
			assert.Equal(t, tt.expected, ack.OverallStatus())
		})
	}
}

func TestNormalizeAckStatus(t *testing.T) {
	assert.Equal(t, StatusBackordered, normalizeAckStatus("IB"))
	assert.Equal(t, StatusRejected, normalizeAckStatus("R9"), "unlisted R-codes reject")
	assert.Equal(t, StatusAccepted, normalizeAckStatus("IQ"), "unlisted I-codes accept")
}
