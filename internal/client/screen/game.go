package screen

import "trollwire/internal/protocol"

// Game is the in-match screen. It mirrors the engine's view of the board,
// whose turn it is, the turn phase, and the other participants' cursors; its
// inputs translate straight into engine commands.
type Game struct {
	core
	board    *Board
	turn     string
	energy   *int
	selected *protocol.CellRef
	hovered  *protocol.CellRef
	hovers   map[string]protocol.CellRef
	colors   map[string]byte
	canMove  []protocol.CellRef
}

// newGame returns the in-match screen, seeded with the colors picked in the
// game lobby. The engine resends colors during play, so starting empty also
// works.
func newGame(c core, colors map[string]byte) *Game {
	g := &Game{
		core:   c,
		board:  NewBoard(),
		hovers: make(map[string]protocol.CellRef),
		colors: make(map[string]byte),
	}
	for name, color := range colors {
		g.colors[name] = color
	}
	return g
}

// Board returns the current board snapshot.
func (g *Game) Board() *Board { return g.board }

// Turn returns the name of the participant whose turn it is, or "" before the
// first turn announcement.
func (g *Game) Turn() string { return g.turn }

// Energy returns the remaining upgrade energy. The second result is false
// during the attack phase.
func (g *Game) Energy() (int, bool) {
	if g.energy == nil {
		return 0, false
	}
	return *g.energy, true
}

// Selected returns the engine-confirmed selected cell, if any.
func (g *Game) Selected() (protocol.CellRef, bool) {
	if g.selected == nil {
		return protocol.CellRef{}, false
	}
	return *g.selected, true
}

// Hovers returns the other participants' cursor positions by name.
func (g *Game) Hovers() map[string]protocol.CellRef {
	hovers := make(map[string]protocol.CellRef, len(g.hovers))
	for name, ref := range g.hovers {
		hovers[name] = ref
	}
	return hovers
}

// Color returns the color assigned to the named participant.
func (g *Game) Color(name string) (byte, bool) {
	color, ok := g.colors[name]
	return color, ok
}

// CanMove returns the engine-announced legal move targets.
func (g *Game) CanMove() []protocol.CellRef { return g.canMove }

// Handle applies engine messages to the mirrored state and turns inputs into
// commands. Cursor reports are deduplicated: a hover line only goes out when
// the hovered cell actually changed.
func (g *Game) Handle(event Event) Screen {
	switch ev := event.(type) {
	case Msg:
		return g.handleMessage(ev.Message)
	case ClickCell:
		g.session.Sender.Send(protocol.Attack(ev.Row, ev.Col))
	case RightClickCell:
		g.session.Sender.Send(protocol.FullUpgrade(ev.Row, ev.Col))
	case HoverCell:
		ref := protocol.CellRef{Row: ev.Row, Col: ev.Col}
		if g.hovered == nil || *g.hovered != ref {
			g.session.Sender.Send(protocol.Hover(ev.Row, ev.Col))
			g.hovered = &ref
		}
	case HoverNone:
		if g.hovered != nil {
			g.session.Sender.Send(protocol.HoverOff())
			g.hovered = nil
		}
	case NextPhase:
		g.session.Sender.Send(protocol.NextPhase())
	case Leave:
		g.session.Sender.Send(protocol.LeaveGame())
	}
	return nil
}

func (g *Game) handleMessage(message protocol.Message) Screen {
	switch msg := message.(type) {
	case protocol.MapLine:
		g.board.Apply(msg)
	case protocol.EndMap:
		g.board.MarkComplete()
	case protocol.SelectCell:
		g.selected = &protocol.CellRef{Row: msg.Row, Col: msg.Col}
	case protocol.DeselectCell:
		g.selected = nil
	case protocol.UpgradePhase:
		g.selected = nil
	case protocol.Turn:
		g.turn = msg.Name
		g.energy = nil
	case protocol.EnergyLeft:
		count := msg.Count
		g.energy = &count
	case protocol.PlayerColor:
		g.colors[msg.Name] = msg.Color
	case protocol.HoverCell:
		if msg.Name != g.nick {
			g.hovers[msg.Name] = protocol.CellRef{Row: msg.Row, Col: msg.Col}
		}
	case protocol.HoverNone:
		delete(g.hovers, msg.Name)
	case protocol.CanMove:
		g.canMove = msg.Cells
	case protocol.GameFinish:
		color := g.colors[msg.Winner]
		return newWinner(g.core, msg.Winner, color)
	case protocol.GameLeft:
		if msg.Name == g.nick {
			return newLobby(g.core)
		}
	}
	return nil
}
