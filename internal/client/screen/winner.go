package screen

import "trollwire/internal/protocol"

// Winner announces the match result.
type Winner struct {
	core
	winner string
	color  byte
}

// newWinner returns the result screen. color is 0 when the winner's color
// never arrived.
func newWinner(c core, winner string, color byte) *Winner {
	return &Winner{core: c, winner: winner, color: color}
}

// WinnerName returns the name of the winning participant.
func (w *Winner) WinnerName() string { return w.winner }

// WinnerColor returns the winner's color, or 0 if unknown.
func (w *Winner) WinnerColor() byte { return w.color }

// Handle waits for Leave, then exits the finished game back to the lobby.
func (w *Winner) Handle(event Event) Screen {
	if _, ok := event.(Leave); ok {
		w.session.Sender.Send(protocol.LeaveGame())
		return newLobby(w.core)
	}
	return nil
}
