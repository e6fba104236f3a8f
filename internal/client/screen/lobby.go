package screen

import (
	"sort"

	"trollwire/internal/protocol"
)

// Game-list polling: the first query goes out shortly after entering the
// lobby, then once a second.
const (
	firstQueryDelay = 2.0
	queryInterval   = 1.0
)

// Lobby shows the open games and lets the user create or join one.
type Lobby struct {
	core
	nextQuery float64
	games     map[string]int
}

// GameEntry is one row of the lobby's game list.
type GameEntry struct {
	Name        string
	PlayerCount int
}

// newLobby returns the lobby for an established session.
func newLobby(c core) *Lobby {
	return &Lobby{
		core:      c,
		nextQuery: firstQueryDelay,
		games:     make(map[string]int),
	}
}

// Games returns the known games sorted by name.
func (l *Lobby) Games() []GameEntry {
	entries := make([]GameEntry, 0, len(l.games))
	for name, count := range l.games {
		entries = append(entries, GameEntry{Name: name, PlayerCount: count})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// Handle polls the game list on a timer, tracks GameList updates, and leaves
// for the game lobby when the engine confirms entry.
func (l *Lobby) Handle(event Event) Screen {
	switch ev := event.(type) {
	case Tick:
		l.nextQuery -= ev.Delta
		if l.nextQuery < 0 {
			l.session.Sender.Send(protocol.ListGames())
			l.nextQuery = queryInterval
		}
	case Msg:
		switch msg := ev.Message.(type) {
		case protocol.GameList:
			l.games[msg.Name] = msg.PlayerCount
		case protocol.GameEntered:
			return newGameLobby(l.core, msg.Name, msg.Type)
		}
	case CreateGame:
		if ev.Name != "" {
			l.session.Sender.Send(protocol.CreateGame(ev.Name))
		}
	case JoinGame:
		l.session.Sender.Send(protocol.JoinGame(ev.Name, ev.Type))
	case Disconnect:
		l.session.Sender.Send(protocol.Disconnect())
		l.session.Close()
		return NewNickname(l.connector, l.logger)
	}
	return nil
}
