package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"trollwire/internal/config"
	"trollwire/internal/protocol"
	"trollwire/internal/client/screen"
)

// tickInterval is how often the shell advances the screen machine.
const tickInterval = 100 * time.Millisecond

// RunShell runs the interactive client: the screen state machine driven from
// a line-oriented terminal instead of a renderer. The machine is ticked on a
// fixed interval and every typed command becomes a screen input, so the shell
// exercises exactly the state the UI would.
//
// Postcondition: Returns nil on EOF, "quit", or context cancellation.
func RunShell(ctx context.Context, cfg config.ClientConfig, in io.Reader, out io.Writer, logger *zap.Logger) error {
	connector := func(nick string) (*screen.Session, error) {
		c := cfg
		c.Nick = nick
		sender, receiver := Connect(c, logger)
		return screen.NewSession(sender, receiver, sender.Close), nil
	}

	m := screen.NewMachine(connector, logger)
	defer m.Close()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintln(out, "enter a nickname to play; 'help' lists commands")

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	last := time.Now()
	current := m.Current()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			now := time.Now()
			m.Update(now.Sub(last).Seconds())
			last = now
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}
			if fields[0] == "quit" {
				return nil
			}
			dispatch(m, fields, out)
		}
		if m.Current() != current {
			current = m.Current()
			fmt.Fprintf(out, "[%s]\n", screenName(current))
		}
	}
}

// dispatch maps one typed command onto a screen input. Commands that do not
// apply to the active screen are simply ignored by it.
func dispatch(m *screen.Machine, fields []string, out io.Writer) {
	switch fields[0] {
	case "help":
		printHelp(out)
	case "status":
		printStatus(m.Current(), out)
	case "games":
		if lobby, ok := m.Current().(*screen.Lobby); ok {
			for _, entry := range lobby.Games() {
				fmt.Fprintf(out, "%s (%d)\n", entry.Name, entry.PlayerCount)
			}
		}
	case "create":
		if len(fields) > 1 {
			m.Input(screen.CreateGame{Name: fields[1]})
		}
	case "join":
		if len(fields) > 1 {
			typ := protocol.Player
			if len(fields) > 2 && fields[2] == string(protocol.Spectator) {
				typ = protocol.Spectator
			}
			m.Input(screen.JoinGame{Name: fields[1], Type: typ})
		}
	case "ready":
		m.Input(screen.ToggleReady{})
	case "color":
		if len(fields) > 1 && len(fields[1]) == 1 {
			m.Input(screen.SelectColor{Color: fields[1][0]})
		}
	case "click":
		if row, col, ok := parseCoords(fields); ok {
			m.Input(screen.ClickCell{Row: row, Col: col})
		}
	case "fullup":
		if row, col, ok := parseCoords(fields); ok {
			m.Input(screen.RightClickCell{Row: row, Col: col})
		}
	case "hover":
		if len(fields) > 1 && fields[1] == "off" {
			m.Input(screen.HoverNone{})
		} else if row, col, ok := parseCoords(fields); ok {
			m.Input(screen.HoverCell{Row: row, Col: col})
		}
	case "next":
		m.Input(screen.NextPhase{})
	case "leave":
		m.Input(screen.Leave{})
	case "disconnect":
		m.Input(screen.Disconnect{})
	default:
		// On the nickname screen a bare word is the name itself.
		if _, ok := m.Current().(*screen.Nickname); ok {
			for _, ch := range fields[0] {
				m.Input(screen.TextInput{Ch: ch})
			}
			m.Input(screen.Confirm{})
			return
		}
		fmt.Fprintf(out, "unknown command %q\n", fields[0])
	}
}

func parseCoords(fields []string) (int, int, bool) {
	if len(fields) < 3 {
		return 0, 0, false
	}
	row, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, false
	}
	col, err := strconv.Atoi(fields[2])
	if err != nil {
		return 0, 0, false
	}
	return row, col, true
}

func screenName(s screen.Screen) string {
	switch s.(type) {
	case *screen.Nickname:
		return "nickname"
	case *screen.Lobby:
		return "lobby"
	case *screen.GameLobby:
		return "game lobby"
	case *screen.Game:
		return "game"
	case *screen.Winner:
		return "winner"
	default:
		return "unknown"
	}
}

func printStatus(s screen.Screen, out io.Writer) {
	switch sc := s.(type) {
	case *screen.Nickname:
		fmt.Fprintf(out, "nickname: %q\n", sc.Name())
	case *screen.Lobby:
		fmt.Fprintf(out, "lobby, %d games known\n", len(sc.Games()))
	case *screen.GameLobby:
		fmt.Fprintf(out, "game %q as %s, ready=%v\n", sc.Game(), sc.PlayType(), sc.Ready())
		roster := sc.Players()
		names := make([]string, 0, len(roster))
		for name := range roster {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "  %s ready=%v\n", name, roster[name])
		}
	case *screen.Game:
		fmt.Fprintf(out, "turn: %s", sc.Turn())
		if energy, ok := sc.Energy(); ok {
			fmt.Fprintf(out, ", upgrade phase (%d energy left)", energy)
		} else {
			fmt.Fprint(out, ", attack phase")
		}
		fmt.Fprintln(out)
		printBoard(sc.Board(), out)
	case *screen.Winner:
		fmt.Fprintf(out, "winner: %s\n", sc.WinnerName())
	}
}

func printBoard(b *screen.Board, out io.Writer) {
	for _, row := range b.Rows {
		tokens := make([]string, len(row))
		for i, cell := range row {
			tokens[i] = protocol.FormatCell(cell)
		}
		fmt.Fprintln(out, strings.Join(tokens, " "))
	}
}

func printHelp(out io.Writer) {
	fmt.Fprint(out, `commands:
  <name>              pick a nickname (nickname screen)
  games               list open games
  create <name>       create a game
  join <name> [spectator]
  ready               toggle readiness
  color <A-F>         pick a color
  click <row> <col>   act on a cell
  fullup <row> <col>  full-upgrade a cell
  hover <row> <col> | hover off
  next                next phase / end turn
  leave               leave the game
  disconnect          drop the session
  status              show the current screen state
  quit                exit
`)
}
