// Package screen implements the client's screen state machine. The active
// screen owns all client-side game state; events flow in as ticks, abstract
// UI inputs and decoded relay messages, and a screen hands control to its
// successor by returning it. Rendering is out of scope: screens expose their
// state through accessors and inputs already carry board coordinates.
package screen

import (
	"go.uber.org/zap"

	"trollwire/internal/protocol"
)

// Event is anything a screen reacts to.
type Event interface {
	isEvent()
}

// Tick advances time-driven behavior. Delta is seconds since the last tick.
type Tick struct {
	Delta float64
}

// Msg delivers one decoded relay message.
type Msg struct {
	Message protocol.Message
}

// Input is an abstract UI intent. The renderer translates pointer and key
// events into these before they reach a screen.
type Input interface {
	Event
	isInput()
}

// Text-entry intents, used by the nickname screen.
type (
	// TextInput appends one typed character.
	TextInput struct{ Ch rune }
	// Backspace removes the last typed character.
	Backspace struct{}
	// Confirm submits the current text entry.
	Confirm struct{}
)

// Lobby intents.
type (
	// CreateGame asks the engine to open a game with the given name.
	CreateGame struct{ Name string }
	// JoinGame enters an existing game as a player or spectator.
	JoinGame struct {
		Name string
		Type protocol.PlayType
	}
	// Disconnect ends the session and returns to the nickname screen.
	Disconnect struct{}
)

// Game-lobby intents.
type (
	// ToggleReady flips the player's readiness.
	ToggleReady struct{}
	// SelectColor picks the player's color ('A'-'F').
	SelectColor struct{ Color byte }
)

// In-game intents.
type (
	// ClickCell acts on a board cell (attack-phase move or upgrade target).
	ClickCell struct{ Row, Col int }
	// RightClickCell spends all remaining energy upgrading a cell.
	RightClickCell struct{ Row, Col int }
	// HoverCell reports the cursor entering a board cell.
	HoverCell struct{ Row, Col int }
	// HoverNone reports the cursor leaving the board.
	HoverNone struct{}
	// NextPhase advances the player's turn to its next phase.
	NextPhase struct{}
	// Leave exits the current game.
	Leave struct{}
)

func (Tick) isEvent()           {}
func (Msg) isEvent()            {}
func (TextInput) isEvent()      {}
func (Backspace) isEvent()      {}
func (Confirm) isEvent()        {}
func (CreateGame) isEvent()     {}
func (JoinGame) isEvent()       {}
func (Disconnect) isEvent()     {}
func (ToggleReady) isEvent()    {}
func (SelectColor) isEvent()    {}
func (ClickCell) isEvent()      {}
func (RightClickCell) isEvent() {}
func (HoverCell) isEvent()      {}
func (HoverNone) isEvent()      {}
func (NextPhase) isEvent()      {}
func (Leave) isEvent()          {}

func (TextInput) isInput()      {}
func (Backspace) isInput()      {}
func (Confirm) isInput()        {}
func (CreateGame) isInput()     {}
func (JoinGame) isInput()       {}
func (Disconnect) isInput()     {}
func (ToggleReady) isInput()    {}
func (SelectColor) isInput()    {}
func (ClickCell) isInput()      {}
func (RightClickCell) isInput() {}
func (HoverCell) isInput()      {}
func (HoverNone) isInput()      {}
func (NextPhase) isInput()      {}
func (Leave) isInput()          {}

// Screen handles one event at a time. A nil return means the event was
// consumed in place; a non-nil return replaces the active screen. Handle
// never blocks.
type Screen interface {
	Handle(Event) Screen
}

// Sender is the outbound half of a session as screens see it.
type Sender interface {
	Send(line string)
}

// Receiver is the inbound half of a session as the machine sees it.
type Receiver interface {
	TryRecv() (protocol.Message, bool)
}

// Session bundles the two halves of a live relay connection.
type Session struct {
	Sender   Sender
	Receiver Receiver

	closeFn func()
}

// NewSession wraps an established transport. closeFn may be nil.
func NewSession(sender Sender, receiver Receiver, closeFn func()) *Session {
	return &Session{Sender: sender, Receiver: receiver, closeFn: closeFn}
}

// Close tears the underlying connection down. Idempotent only if closeFn is.
func (s *Session) Close() {
	if s.closeFn != nil {
		s.closeFn()
	}
}

// Connector dials the relay and registers under the given name. The nickname
// screen calls it on confirmation; the machine injects the real transport
// here so screens stay free of connection concerns.
type Connector func(nick string) (*Session, error)

// sessionHolder is implemented by every screen that owns a live session. The
// machine uses it to find the receiver to drain.
type sessionHolder interface {
	Session() *Session
}

// core is the state every connected screen carries.
type core struct {
	nick      string
	session   *Session
	connector Connector
	logger    *zap.Logger
}

func (c core) Session() *Session { return c.session }

// Nick returns the name this client registered under.
func (c core) Nick() string { return c.nick }

// Machine drives the active screen: each Update applies one tick and drains
// the session's receive queue; Input forwards one UI intent. Transitions
// returned by the screen take effect immediately, so messages queued behind a
// transition land on the new screen.
type Machine struct {
	screen Screen
}

// NewMachine starts at the nickname screen.
func NewMachine(connector Connector, logger *zap.Logger) *Machine {
	return &Machine{screen: NewNickname(connector, logger)}
}

// Current returns the active screen.
func (m *Machine) Current() Screen { return m.screen }

// Update applies one frame: a tick with the elapsed seconds, then every
// message currently queued on the active session.
func (m *Machine) Update(delta float64) {
	m.apply(m.screen.Handle(Tick{Delta: delta}))

	for {
		holder, ok := m.screen.(sessionHolder)
		if !ok {
			return
		}
		msg, ok := holder.Session().Receiver.TryRecv()
		if !ok {
			return
		}
		m.apply(m.screen.Handle(Msg{Message: msg}))
	}
}

// Input forwards one UI intent to the active screen.
func (m *Machine) Input(in Input) {
	m.apply(m.screen.Handle(in))
}

// Close ends any live session.
func (m *Machine) Close() {
	if holder, ok := m.screen.(sessionHolder); ok {
		holder.Session().Close()
	}
}

func (m *Machine) apply(next Screen) {
	if next != nil {
		m.screen = next
	}
}
