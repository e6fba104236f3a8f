package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trollwire/internal/protocol"
)

func newTestGame(h *testHarness) *Game {
	return newGame(h.core("alice"), nil)
}

func TestGame_BoardMessages(t *testing.T) {
	h := newHarness()
	g := newTestGame(h)

	g.Handle(Msg{Message: protocol.MapLine{Index: 1, Cells: []*protocol.Cell{nil, {Count: 2, Owner: 'A'}}}})
	g.Handle(Msg{Message: protocol.EndMap{}})

	assert.True(t, g.Board().Complete)
	cell, ok := g.Board().At(1, 1)
	require.True(t, ok)
	assert.Equal(t, 2, cell.Count)
}

func TestGame_TurnAndEnergy(t *testing.T) {
	h := newHarness()
	g := newTestGame(h)

	g.Handle(Msg{Message: protocol.EnergyLeft{Count: 3}})
	energy, ok := g.Energy()
	require.True(t, ok)
	assert.Equal(t, 3, energy)

	// A turn announcement resets to the attack phase.
	g.Handle(Msg{Message: protocol.Turn{Name: "bob"}})
	assert.Equal(t, "bob", g.Turn())
	_, ok = g.Energy()
	assert.False(t, ok)
}

func TestGame_Selection(t *testing.T) {
	h := newHarness()
	g := newTestGame(h)

	g.Handle(Msg{Message: protocol.SelectCell{Row: 1, Col: 2}})
	sel, ok := g.Selected()
	require.True(t, ok)
	assert.Equal(t, protocol.CellRef{Row: 1, Col: 2}, sel)

	g.Handle(Msg{Message: protocol.DeselectCell{}})
	_, ok = g.Selected()
	assert.False(t, ok)

	// Entering the upgrade phase drops any selection.
	g.Handle(Msg{Message: protocol.SelectCell{Row: 0, Col: 0}})
	g.Handle(Msg{Message: protocol.UpgradePhase{}})
	_, ok = g.Selected()
	assert.False(t, ok)
}

func TestGame_Hovers(t *testing.T) {
	h := newHarness()
	g := newTestGame(h)

	g.Handle(Msg{Message: protocol.HoverCell{Name: "bob", Row: 1, Col: 2}})
	assert.Equal(t, map[string]protocol.CellRef{"bob": {Row: 1, Col: 2}}, g.Hovers())

	// The relay echoes this client's own hovers back; they are not "others".
	g.Handle(Msg{Message: protocol.HoverCell{Name: "alice", Row: 0, Col: 0}})
	assert.NotContains(t, g.Hovers(), "alice")

	g.Handle(Msg{Message: protocol.HoverNone{Name: "bob"}})
	assert.Empty(t, g.Hovers())
}

func TestGame_CanMove(t *testing.T) {
	h := newHarness()
	g := newTestGame(h)

	g.Handle(Msg{Message: protocol.CanMove{Cells: []protocol.CellRef{{Row: 0, Col: 1}}}})
	assert.Equal(t, []protocol.CellRef{{Row: 0, Col: 1}}, g.CanMove())
}

func TestGame_CellInputs(t *testing.T) {
	h := newHarness()
	g := newTestGame(h)

	g.Handle(ClickCell{Row: 1, Col: 2})
	g.Handle(RightClickCell{Row: 3, Col: 4})
	g.Handle(NextPhase{})
	g.Handle(Leave{})

	assert.Equal(t, []string{"1 2", "fullUp 3 4", "next phase", "leaveGame"}, h.sender.take())
}

func TestGame_HoverEchoSuppression(t *testing.T) {
	h := newHarness()
	g := newTestGame(h)

	// Off the board with nothing hovered: nothing to report.
	g.Handle(HoverNone{})
	assert.Empty(t, h.sender.take())

	g.Handle(HoverCell{Row: 1, Col: 2})
	g.Handle(HoverCell{Row: 1, Col: 2})
	assert.Equal(t, []string{"hover 1 2"}, h.sender.take())

	g.Handle(HoverCell{Row: 1, Col: 3})
	g.Handle(HoverNone{})
	g.Handle(HoverNone{})
	assert.Equal(t, []string{"hover 1 3", "hover none"}, h.sender.take())
}

func TestGame_FinishYieldsWinnerWithColor(t *testing.T) {
	h := newHarness()
	g := newTestGame(h)
	g.Handle(Msg{Message: protocol.PlayerColor{Name: "bob", Color: 'B'}})

	next := g.Handle(Msg{Message: protocol.GameFinish{Winner: "bob"}})

	require.IsType(t, &Winner{}, next)
	w := next.(*Winner)
	assert.Equal(t, "bob", w.WinnerName())
	assert.Equal(t, byte('B'), w.WinnerColor())
}

func TestGame_GameLeft(t *testing.T) {
	h := newHarness()
	g := newTestGame(h)

	assert.Nil(t, g.Handle(Msg{Message: protocol.GameLeft{Name: "bob"}}))

	next := g.Handle(Msg{Message: protocol.GameLeft{Name: "alice"}})
	require.IsType(t, &Lobby{}, next)
}

func TestWinner_LeaveReturnsToLobby(t *testing.T) {
	h := newHarness()
	w := newWinner(h.core("alice"), "bob", 'B')

	next := w.Handle(Leave{})

	require.IsType(t, &Lobby{}, next)
	assert.Equal(t, []string{"leaveGame"}, h.sender.take())
}
