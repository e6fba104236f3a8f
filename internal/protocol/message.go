// Package protocol implements the textual line protocol spoken between game
// clients, the relay, and the logic engine. Every protocol message is one
// UTF-8 text line: a command token followed by whitespace-separated positional
// arguments. The wire carries untrusted peer input, so decoding never panics;
// malformed lines surface as errors wrapping ErrUnparseable.
package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnparseable is wrapped by every decode failure: unknown commands, wrong
// arity, and unparsable argument values.
var ErrUnparseable = errors.New("unparseable message")

// Message is one decoded protocol event. The set of implementations is closed:
// Decode only ever produces the variants defined in this package, and
// Decode(m.Encode()) == m holds for each of them.
type Message interface {
	// Encode renders the message as a single wire line without a trailing
	// newline.
	Encode() string
}

// PlayType distinguishes participants that play from those that watch.
type PlayType string

const (
	Player    PlayType = "player"
	Spectator PlayType = "spectator"
)

// ParsePlayType decodes a play-type token. Unknown tokens fail.
func ParsePlayType(token string) (PlayType, error) {
	switch PlayType(token) {
	case Player, Spectator:
		return PlayType(token), nil
	}
	return "", fmt.Errorf("%w: unknown play type %q", ErrUnparseable, token)
}

// ReadyStatus reports a player's readiness in a game lobby.
type ReadyStatus struct {
	Name  string
	Ready bool
}

// MapLine replaces one row of the board. Rows arrive independently and may
// arrive out of order; a nil cell means the position is not part of the board.
type MapLine struct {
	Index int
	Cells []*Cell
}

// EndMap marks the end of a board snapshot.
type EndMap struct{}

// GameStart signals that all players are ready and the game begins.
type GameStart struct{}

// PlayerColor announces the color code assigned to a player.
type PlayerColor struct {
	Name  string
	Color byte
}

// Turn announces whose turn it is now.
type Turn struct {
	Name string
}

// SelectCell highlights a board cell as the current selection.
type SelectCell struct {
	Row int
	Col int
}

// DeselectCell clears the current selection.
type DeselectCell struct{}

// GameFinish ends the game and names the winner.
type GameFinish struct {
	Winner string
}

// UpgradePhase switches the current turn into its upgrade phase.
type UpgradePhase struct{}

// EnergyLeft reports the energy remaining in the current upgrade phase.
type EnergyLeft struct {
	Count int
}

// GameList advertises one joinable game and its player count.
type GameList struct {
	Name        string
	PlayerCount int
}

// GameEntered confirms that the recipient joined the named game.
type GameEntered struct {
	Name string
	Type PlayType
}

// GameLeft announces that the named player left the game.
type GameLeft struct {
	Name string
}

// HoverCell reports another player's cursor position on the board.
type HoverCell struct {
	Name string
	Row  int
	Col  int
}

// HoverNone reports that a player's cursor left the board.
type HoverNone struct {
	Name string
}

// SpectatorJoin announces a spectator joining the game.
type SpectatorJoin struct {
	Name string
}

// CanMove lists the cells the recipient may legally act on this turn.
type CanMove struct {
	Cells []CellRef
}

func (m ReadyStatus) Encode() string {
	return fmt.Sprintf("readyStatus %s %t", m.Name, m.Ready)
}

func (m MapLine) Encode() string {
	tokens := make([]string, len(m.Cells))
	for i, c := range m.Cells {
		tokens[i] = FormatCell(c)
	}
	return fmt.Sprintf("mapLine %d %s", m.Index, strings.Join(tokens, "|"))
}

func (EndMap) Encode() string    { return "endMap" }
func (GameStart) Encode() string { return "gameStart" }

func (m PlayerColor) Encode() string {
	return fmt.Sprintf("playerColor %s %c", m.Name, m.Color)
}

func (m Turn) Encode() string { return "turn " + m.Name }

func (m SelectCell) Encode() string {
	return fmt.Sprintf("selectCell %d %d", m.Row, m.Col)
}

func (DeselectCell) Encode() string { return "deselectCell" }

func (m GameFinish) Encode() string { return "gameFinish " + m.Winner }

func (UpgradePhase) Encode() string { return "upgradePhase" }

func (m EnergyLeft) Encode() string {
	return fmt.Sprintf("energyLeft %d", m.Count)
}

func (m GameList) Encode() string {
	return fmt.Sprintf("gameList %s %d", m.Name, m.PlayerCount)
}

func (m GameEntered) Encode() string {
	return fmt.Sprintf("gameEntered %s %s", m.Name, m.Type)
}

func (m GameLeft) Encode() string { return "gameLeft " + m.Name }

func (m HoverCell) Encode() string {
	return fmt.Sprintf("hover %s %d %d", m.Name, m.Row, m.Col)
}

func (m HoverNone) Encode() string { return fmt.Sprintf("hover %s none", m.Name) }

func (m SpectatorJoin) Encode() string { return "spectatorJoin " + m.Name }

func (m CanMove) Encode() string {
	parts := make([]string, 0, 1+2*len(m.Cells))
	parts = append(parts, "canMove")
	for _, c := range m.Cells {
		parts = append(parts, strconv.Itoa(c.Row), strconv.Itoa(c.Col))
	}
	return strings.Join(parts, " ")
}

// Decode parses one wire line into its typed Message. The line is split on
// whitespace into a command token and positional arguments; each command has a
// fixed arity and per-argument type.
//
// Postcondition: Returns a Message, or an error wrapping ErrUnparseable.
// Decode never panics on malformed input.
func Decode(line string) (Message, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty line", ErrUnparseable)
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "readyStatus":
		if err := arity(cmd, args, 2); err != nil {
			return nil, err
		}
		ready, err := strconv.ParseBool(args[1])
		if err != nil {
			return nil, fmt.Errorf("%w: readyStatus flag %q", ErrUnparseable, args[1])
		}
		return ReadyStatus{Name: args[0], Ready: ready}, nil

	case "mapLine":
		if err := arity(cmd, args, 2); err != nil {
			return nil, err
		}
		index, err := parseUint(cmd, args[0])
		if err != nil {
			return nil, err
		}
		tokens := strings.Split(args[1], "|")
		cells := make([]*Cell, len(tokens))
		for i, token := range tokens {
			if cells[i], err = ParseCell(token); err != nil {
				return nil, err
			}
		}
		return MapLine{Index: index, Cells: cells}, nil

	case "endMap":
		if err := arity(cmd, args, 0); err != nil {
			return nil, err
		}
		return EndMap{}, nil

	case "gameStart":
		if err := arity(cmd, args, 0); err != nil {
			return nil, err
		}
		return GameStart{}, nil

	case "playerColor":
		if err := arity(cmd, args, 2); err != nil {
			return nil, err
		}
		color, err := parseColor(args[1])
		if err != nil {
			return nil, err
		}
		return PlayerColor{Name: args[0], Color: color}, nil

	case "turn":
		if err := arity(cmd, args, 1); err != nil {
			return nil, err
		}
		return Turn{Name: args[0]}, nil

	case "selectCell":
		ref, err := parseCellRef(cmd, args)
		if err != nil {
			return nil, err
		}
		return SelectCell{Row: ref.Row, Col: ref.Col}, nil

	case "deselectCell":
		if err := arity(cmd, args, 0); err != nil {
			return nil, err
		}
		return DeselectCell{}, nil

	case "gameFinish":
		if err := arity(cmd, args, 1); err != nil {
			return nil, err
		}
		return GameFinish{Winner: args[0]}, nil

	case "upgradePhase":
		if err := arity(cmd, args, 0); err != nil {
			return nil, err
		}
		return UpgradePhase{}, nil

	case "energyLeft":
		if err := arity(cmd, args, 1); err != nil {
			return nil, err
		}
		count, err := parseUint(cmd, args[0])
		if err != nil {
			return nil, err
		}
		return EnergyLeft{Count: count}, nil

	case "gameList":
		if err := arity(cmd, args, 2); err != nil {
			return nil, err
		}
		count, err := parseUint(cmd, args[1])
		if err != nil {
			return nil, err
		}
		return GameList{Name: args[0], PlayerCount: count}, nil

	case "gameEntered":
		if err := arity(cmd, args, 2); err != nil {
			return nil, err
		}
		typ, err := ParsePlayType(args[1])
		if err != nil {
			return nil, err
		}
		return GameEntered{Name: args[0], Type: typ}, nil

	case "gameLeft":
		if err := arity(cmd, args, 1); err != nil {
			return nil, err
		}
		return GameLeft{Name: args[0]}, nil

	case "hover":
		// hover <name> none | hover <name> <row> <col>
		if len(args) == 2 && args[1] == "none" {
			return HoverNone{Name: args[0]}, nil
		}
		if err := arity(cmd, args, 3); err != nil {
			return nil, err
		}
		ref, err := parseCellRef(cmd, args[1:])
		if err != nil {
			return nil, err
		}
		return HoverCell{Name: args[0], Row: ref.Row, Col: ref.Col}, nil

	case "spectatorJoin":
		if err := arity(cmd, args, 1); err != nil {
			return nil, err
		}
		return SpectatorJoin{Name: args[0]}, nil

	case "canMove":
		if len(args)%2 != 0 {
			return nil, fmt.Errorf("%w: canMove wants row col pairs, got %d args", ErrUnparseable, len(args))
		}
		cells := make([]CellRef, 0, len(args)/2)
		for i := 0; i < len(args); i += 2 {
			ref, err := parseCellRef(cmd, args[i:i+2])
			if err != nil {
				return nil, err
			}
			cells = append(cells, ref)
		}
		return CanMove{Cells: cells}, nil
	}

	return nil, fmt.Errorf("%w: unknown command %q", ErrUnparseable, cmd)
}

func arity(cmd string, args []string, want int) error {
	if len(args) != want {
		return fmt.Errorf("%w: %s wants %d args, got %d", ErrUnparseable, cmd, want, len(args))
	}
	return nil
}

func parseUint(cmd, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s argument %q is not a non-negative integer", ErrUnparseable, cmd, s)
	}
	return n, nil
}

func parseColor(s string) (byte, error) {
	if len(s) != 1 || s[0] < 'A' || s[0] > 'F' {
		return 0, fmt.Errorf("%w: color %q must be a single character A-F", ErrUnparseable, s)
	}
	return s[0], nil
}

func parseCellRef(cmd string, args []string) (CellRef, error) {
	if len(args) != 2 {
		return CellRef{}, fmt.Errorf("%w: %s wants row and col, got %d args", ErrUnparseable, cmd, len(args))
	}
	row, err := parseUint(cmd, args[0])
	if err != nil {
		return CellRef{}, err
	}
	col, err := parseUint(cmd, args[1])
	if err != nil {
		return CellRef{}, err
	}
	return CellRef{Row: row, Col: col}, nil
}
