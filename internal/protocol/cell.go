package protocol

import (
	"fmt"
	"strconv"
)

// Cell is one hex of the game board. Count is the number of trolls standing
// on it and Owner is the color code ('A'-'F') of the player they belong to.
// A Cell with Count 0 is empty ground.
type Cell struct {
	Count int
	Owner byte
}

// CellRef addresses a board position by zero-based row and column.
type CellRef struct {
	Row int
	Col int
}

// Cell tokens inside a mapLine payload.
const (
	emptyCellToken  = "##"
	absentCellToken = "__"
)

// ParseCell decodes a single cell token from a mapLine payload.
// "##" is empty ground, "__" means the position is not part of the board
// (returns nil), and anything else is <count><owner>, e.g. "3A".
//
// Postcondition: Returns a nil *Cell only for the absent token; errors wrap
// ErrUnparseable.
func ParseCell(token string) (*Cell, error) {
	switch token {
	case emptyCellToken:
		return &Cell{}, nil
	case absentCellToken:
		return nil, nil
	}
	if len(token) < 2 {
		return nil, fmt.Errorf("%w: cell token %q too short", ErrUnparseable, token)
	}
	owner := token[len(token)-1]
	if owner < 'A' || owner > 'F' {
		return nil, fmt.Errorf("%w: cell token %q has invalid owner %q", ErrUnparseable, token, owner)
	}
	count, err := strconv.Atoi(token[:len(token)-1])
	if err != nil {
		return nil, fmt.Errorf("%w: cell token %q has invalid count", ErrUnparseable, token)
	}
	return &Cell{Count: count, Owner: owner}, nil
}

// FormatCell is the inverse of ParseCell.
func FormatCell(c *Cell) string {
	switch {
	case c == nil:
		return absentCellToken
	case c.Count == 0:
		return emptyCellToken
	default:
		return fmt.Sprintf("%d%c", c.Count, c.Owner)
	}
}
