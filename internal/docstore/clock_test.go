package docstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClock_StrictlyIncreasing(t *testing.T) {
	frozen := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	c := NewClock(func() time.Time { return frozen })

	a := c.Now()
	b := c.Now()
	assert.True(t, b.After(a))
	assert.Equal(t, time.Microsecond, b.Sub(a))
}

func TestStamp_SortsLexically(t *testing.T) {
	c := NewClock(nil)
	prev := c.Stamp()
	for i := 0; i < 100; i++ {
		next := c.Stamp()
		require.Less(t, prev, next)
		prev = next
	}
}

func TestParseStamp_AcceptsLegacyISO(t *testing.T) {
	got, err := ParseStamp("2023-11-02T08:30:00.123Z")
	require.NoError(t, err)
	assert.Equal(t, 2023, got.Year())

	round, err := ParseStamp(FormatStamp(got))
	require.NoError(t, err)
	assert.True(t, got.Equal(round))
}
