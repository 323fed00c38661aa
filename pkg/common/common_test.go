package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDint64Unique(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		id := UUIDint64()
		require.False(t, seen[id], "duplicate id %d", id)
		require.Greater(t, id, int64(0))
		seen[id] = true
	}
}

func TestHexIDRoundTrip(t *testing.T) {
	id := UUIDint64()
	parsed, err := ParseHexID(HexID(id))
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestParseHexIDRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "zzz", "0x12", "12 34"} {
		_, err := ParseHexID(in)
		assert.Error(t, err, "input %q", in)
	}
}
