package screen

import "trollwire/internal/protocol"

// GameLobby is the waiting room of one game: players declare readiness and
// pick colors until the engine starts the match.
type GameLobby struct {
	core
	game     string
	playType protocol.PlayType
	ready    bool
	players  map[string]bool
	colors   map[string]byte
}

// newGameLobby returns the waiting room for the named game.
func newGameLobby(c core, game string, playType protocol.PlayType) *GameLobby {
	return &GameLobby{
		core:     c,
		game:     game,
		playType: playType,
		players:  make(map[string]bool),
		colors:   make(map[string]byte),
	}
}

// Game returns the game name.
func (g *GameLobby) Game() string { return g.game }

// PlayType reports whether this client entered as a player or spectator.
func (g *GameLobby) PlayType() protocol.PlayType { return g.playType }

// Ready reports this client's own readiness.
func (g *GameLobby) Ready() bool { return g.ready }

// Players returns the readiness roster of the other participants.
func (g *GameLobby) Players() map[string]bool {
	roster := make(map[string]bool, len(g.players))
	for name, ready := range g.players {
		roster[name] = ready
	}
	return roster
}

// Handle tracks readiness and colors, starts the game on GameStart, and
// returns to the lobby when the engine confirms this client left.
func (g *GameLobby) Handle(event Event) Screen {
	switch ev := event.(type) {
	case Msg:
		switch msg := ev.Message.(type) {
		case protocol.ReadyStatus:
			if msg.Name == g.nick {
				g.ready = msg.Ready
			} else {
				g.players[msg.Name] = msg.Ready
			}
		case protocol.PlayerColor:
			g.colors[msg.Name] = msg.Color
		case protocol.GameStart:
			return newGame(g.core, g.colors)
		case protocol.GameLeft:
			if msg.Name == g.nick {
				return newLobby(g.core)
			}
			delete(g.players, msg.Name)
		}
	case ToggleReady:
		// Spectators have no say in readiness.
		if g.playType != protocol.Player {
			return nil
		}
		g.ready = !g.ready
		g.session.Sender.Send(protocol.Ready(g.ready))
	case SelectColor:
		if g.playType != protocol.Player {
			return nil
		}
		g.session.Sender.Send(protocol.SelectColor(ev.Color))
	case Leave:
		g.session.Sender.Send(protocol.LeaveGame())
	}
	return nil
}
