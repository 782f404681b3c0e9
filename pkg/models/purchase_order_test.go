package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackingNumbersValue(t *testing.T) {
	var empty TrackingNumbers
	v, err := empty.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)

	v, err = TrackingNumbers{"TRACK-1", "TRACK-2"}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `["TRACK-1","TRACK-2"]`, string(v.([]byte)))
}

func TestTrackingNumbersScan(t *testing.T) {
	var tn TrackingNumbers
	require.NoError(t, tn.Scan([]byte(`["TRACK-1"]`)))
	assert.Equal(t, TrackingNumbers{"TRACK-1"}, tn)

	require.NoError(t, tn.Scan(`["TRACK-2","TRACK-3"]`))
	assert.Equal(t, TrackingNumbers{"TRACK-2", "TRACK-3"}, tn)

	require.NoError(t, tn.Scan(nil))
	assert.Nil(t, tn)

	assert.Error(t, tn.Scan(42))
}
