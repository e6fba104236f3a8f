package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trollwire/internal/protocol"
)

func TestLobby_QueryTimer(t *testing.T) {
	h := newHarness()
	l := newLobby(h.core("alice"))

	// First query only after the initial delay elapses.
	l.Handle(Tick{Delta: 1.0})
	assert.Empty(t, h.sender.take())

	l.Handle(Tick{Delta: 1.5})
	assert.Equal(t, []string{"listGames"}, h.sender.take())

	// Then once a second.
	l.Handle(Tick{Delta: 0.5})
	assert.Empty(t, h.sender.take())

	l.Handle(Tick{Delta: 0.6})
	assert.Equal(t, []string{"listGames"}, h.sender.take())
}

func TestLobby_GameListUpserts(t *testing.T) {
	h := newHarness()
	l := newLobby(h.core("alice"))

	l.Handle(Msg{Message: protocol.GameList{Name: "skirmish", PlayerCount: 1}})
	l.Handle(Msg{Message: protocol.GameList{Name: "arena", PlayerCount: 2}})
	l.Handle(Msg{Message: protocol.GameList{Name: "skirmish", PlayerCount: 3}})

	assert.Equal(t, []GameEntry{
		{Name: "arena", PlayerCount: 2},
		{Name: "skirmish", PlayerCount: 3},
	}, l.Games())
}

func TestLobby_CreateAndJoin(t *testing.T) {
	h := newHarness()
	l := newLobby(h.core("alice"))

	l.Handle(CreateGame{Name: "skirmish"})
	l.Handle(JoinGame{Name: "skirmish", Type: protocol.Player})
	l.Handle(JoinGame{Name: "arena", Type: protocol.Spectator})
	assert.Equal(t, []string{
		"createGame skirmish",
		"joinGame skirmish player",
		"joinGame arena spectator",
	}, h.sender.take())

	l.Handle(CreateGame{Name: ""})
	assert.Empty(t, h.sender.take())
}

func TestLobby_GameEnteredYieldsGameLobby(t *testing.T) {
	h := newHarness()
	l := newLobby(h.core("alice"))

	next := l.Handle(Msg{Message: protocol.GameEntered{Name: "skirmish", Type: protocol.Spectator}})

	require.IsType(t, &GameLobby{}, next)
	gl := next.(*GameLobby)
	assert.Equal(t, "skirmish", gl.Game())
	assert.Equal(t, protocol.Spectator, gl.PlayType())
}

func TestLobby_IgnoresUnrelatedMessages(t *testing.T) {
	h := newHarness()
	l := newLobby(h.core("alice"))

	assert.Nil(t, l.Handle(Msg{Message: protocol.GameStart{}}))
	assert.Nil(t, l.Handle(Msg{Message: protocol.Turn{Name: "bob"}}))
	assert.Empty(t, h.sender.take())
}
