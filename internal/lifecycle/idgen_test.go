package lifecycle

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDv7Generator_ProducesValidSortableIDs(t *testing.T) {
	gen := UUIDv7Generator{}

	prev := ""
	for i := 0; i < 100; i++ {
		id := gen.Generate()
		parsed, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), parsed.Version())

		// UUIDv7 embeds the timestamp in the high bits, so ids generated in
		// sequence sort lexicographically.
		if prev != "" {
			assert.LessOrEqual(t, prev, id)
		}
		prev = id
	}
}

func TestFixedGenerator_ReturnsIDsInOrder(t *testing.T) {
	gen := NewFixedGenerator("bid-1", "bid-2", "bid-3")

	assert.Equal(t, "bid-1", gen.Generate())
	assert.Equal(t, "bid-2", gen.Generate())
	assert.Equal(t, "bid-3", gen.Generate())
}

func TestFixedGenerator_PanicsWhenExhausted(t *testing.T) {
	gen := NewFixedGenerator("only-one")
	gen.Generate()

	assert.Panics(t, func() { gen.Generate() })
}
