package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trollwire/internal/protocol"
)

func TestBoard_ApplyGrowsAndReplaces(t *testing.T) {
	b := NewBoard()

	b.Apply(protocol.MapLine{Index: 2, Cells: []*protocol.Cell{{Count: 3, Owner: 'A'}}})
	require.Len(t, b.Rows, 3)
	assert.Nil(t, b.Rows[0])
	assert.Nil(t, b.Rows[1])

	cell, ok := b.At(2, 0)
	require.True(t, ok)
	assert.Equal(t, &protocol.Cell{Count: 3, Owner: 'A'}, cell)

	// Rows arrive in any order and replace wholesale.
	b.Apply(protocol.MapLine{Index: 0, Cells: []*protocol.Cell{nil, {}}})
	b.Apply(protocol.MapLine{Index: 2, Cells: []*protocol.Cell{{}}})
	require.Len(t, b.Rows, 3)

	cell, ok = b.At(2, 0)
	require.True(t, ok)
	assert.Equal(t, &protocol.Cell{}, cell)
}

func TestBoard_At(t *testing.T) {
	b := NewBoard()
	b.Apply(protocol.MapLine{Index: 0, Cells: []*protocol.Cell{nil, {Count: 1, Owner: 'B'}}})

	_, ok := b.At(-1, 0)
	assert.False(t, ok)
	_, ok = b.At(1, 0)
	assert.False(t, ok)
	_, ok = b.At(0, 2)
	assert.False(t, ok)

	// Absent position inside the row bounds.
	_, ok = b.At(0, 0)
	assert.False(t, ok)

	cell, ok := b.At(0, 1)
	require.True(t, ok)
	assert.Equal(t, byte('B'), cell.Owner)
}

func TestBoard_Completeness(t *testing.T) {
	b := NewBoard()
	assert.False(t, b.Complete)

	b.Apply(protocol.MapLine{Index: 0, Cells: []*protocol.Cell{{}}})
	b.MarkComplete()
	assert.True(t, b.Complete)

	// A new snapshot starts streaming: the board is partial again.
	b.Apply(protocol.MapLine{Index: 0, Cells: []*protocol.Cell{{Count: 1, Owner: 'A'}}})
	assert.False(t, b.Complete)
}
