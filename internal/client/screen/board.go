package screen

import "trollwire/internal/protocol"

// Board is the client's view of the map: ordered rows of cells, nil marking a
// position that is not part of the board. Rows arrive one line at a time, in
// any order and with independent lengths, so the board stays usable while a
// snapshot is still streaming in.
type Board struct {
	// Rows holds the board wholesale; index = row.
	Rows [][]*protocol.Cell
	// Complete is true once a full snapshot has been received.
	Complete bool
}

// NewBoard returns an empty, incomplete board.
func NewBoard() *Board {
	return &Board{}
}

// Apply replaces one row from a map line, growing the board as needed.
// Receiving a row resets Complete: the engine is streaming a fresh snapshot.
func (b *Board) Apply(line protocol.MapLine) {
	for line.Index >= len(b.Rows) {
		b.Rows = append(b.Rows, nil)
	}
	b.Rows[line.Index] = line.Cells
	b.Complete = false
}

// MarkComplete records the end-of-map marker.
func (b *Board) MarkComplete() {
	b.Complete = true
}

// At returns the cell at the given position. The second result is false when
// the position lies outside the board or is not part of it.
func (b *Board) At(row, col int) (*protocol.Cell, bool) {
	if row < 0 || row >= len(b.Rows) {
		return nil, false
	}
	if col < 0 || col >= len(b.Rows[row]) {
		return nil, false
	}
	cell := b.Rows[row][col]
	if cell == nil {
		return nil, false
	}
	return cell, true
}
