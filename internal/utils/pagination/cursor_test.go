package pagination

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 123e6, time.UTC)
	in := At(ts, 42)
	token := in.Encode()
	assert.NotContains(t, token, "=")
	assert.LessOrEqual(t, len(token), MaxTokenLen)

	out, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.True(t, out.Time().Equal(ts))
}

func TestDecodeEmptyAndGarbage(t *testing.T) {
	c, err := Decode("")
	require.NoError(t, err)
	assert.True(t, c.IsZero())

	for _, bad := range []string{
		"%%%",
		"bm90LWpzb24", // "not-json"
		Cursor{}.Encode(),
		strings.Repeat("A", MaxTokenLen+1),
	} {
		_, err = Decode(bad)
		assert.ErrorIs(t, err, ErrInvalidToken, bad)
	}
}

func TestTrim(t *testing.T) {
	ids := func(n int) []uint64 {
		out := make([]uint64, n)
		for i := range out {
			out[i] = uint64(100 - i)
		}
		return out
	}
	at := func(id uint64) Cursor { return Cursor{Millis: 1, ID: id} }

	page, next := Trim(ids(3), 3, at)
	assert.Len(t, page, 3)
	assert.Empty(t, next)

	page, next = Trim(ids(4), 3, at)
	assert.Equal(t, []uint64{100, 99, 98}, page)
	c, err := Decode(next)
	require.NoError(t, err)
	assert.Equal(t, uint64(98), c.ID)
}
