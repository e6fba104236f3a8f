package protocol

import "fmt"

// Client-to-relay command lines. These are the outbound vocabulary a client
// session writes; the relay forwards them to the logic engine with the
// sender's name prefixed, so they carry no name of their own.

// Register is the mandatory first line on a fresh connection.
func Register(name string) string { return "+" + name }

// Disconnect tells the relay the client is leaving the session.
func Disconnect() string { return "-" }

// ListGames requests the current game list.
func ListGames() string { return "listGames" }

// CreateGame asks the engine to open a new game with the given name.
func CreateGame(name string) string { return "createGame " + name }

// JoinGame asks to enter the named game as a player or spectator.
func JoinGame(name string, typ PlayType) string {
	return fmt.Sprintf("joinGame %s %s", name, typ)
}

// LeaveGame leaves the current game back to the lobby.
func LeaveGame() string { return "leaveGame" }

// Ready toggles the sender's readiness in the game lobby.
func Ready(ready bool) string {
	if ready {
		return "ready"
	}
	return "unready"
}

// SelectColor picks the sender's color ('A'-'F') in the game lobby.
func SelectColor(color byte) string { return fmt.Sprintf("selectColor %c", color) }

// NextPhase advances the sender's turn to its next phase.
func NextPhase() string { return "next phase" }

// Attack acts on the given cell during the attack phase. The engine reads the
// bare coordinate pair as a move.
func Attack(row, col int) string { return fmt.Sprintf("%d %d", row, col) }

// FullUpgrade spends all remaining energy upgrading the given cell.
func FullUpgrade(row, col int) string { return fmt.Sprintf("fullUp %d %d", row, col) }

// Hover reports the sender's cursor position on the board.
func Hover(row, col int) string { return fmt.Sprintf("hover %d %d", row, col) }

// HoverOff reports that the sender's cursor left the board.
func HoverOff() string { return "hover none" }
