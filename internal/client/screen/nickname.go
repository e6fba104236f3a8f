package screen

import (
	"strings"
	"unicode"

	"go.uber.org/zap"

	"trollwire/internal/config"
)

// maxNickLen caps typed display names.
const maxNickLen = 15

// Nickname collects a display name and, on confirmation, dials the relay and
// hands off to the lobby.
type Nickname struct {
	connector Connector
	logger    *zap.Logger
	name      []rune
}

// NewNickname returns the entry screen of the client.
func NewNickname(connector Connector, logger *zap.Logger) *Nickname {
	return &Nickname{connector: connector, logger: logger}
}

// Name returns the name typed so far.
func (n *Nickname) Name() string { return string(n.name) }

// Handle accumulates TextInput/Backspace into the name and connects on
// Confirm. Typed characters are lowercased; characters the wire reserves are
// ignored. All other events are no-ops.
func (n *Nickname) Handle(event Event) Screen {
	switch ev := event.(type) {
	case TextInput:
		if len(n.name) >= maxNickLen {
			return nil
		}
		ch := unicode.ToLower(ev.Ch)
		if !unicode.IsPrint(ch) || strings.ContainsRune(":, \t", ch) {
			return nil
		}
		n.name = append(n.name, ch)
	case Backspace:
		if len(n.name) > 0 {
			n.name = n.name[:len(n.name)-1]
		}
	case Confirm:
		nick := string(n.name)
		if err := config.ValidateNick(nick); err != nil {
			return nil
		}
		session, err := n.connector(nick)
		if err != nil {
			n.logger.Error("connecting", zap.String("nick", nick), zap.Error(err))
			return nil
		}
		return newLobby(core{
			nick:      nick,
			session:   session,
			connector: n.connector,
			logger:    n.logger,
		})
	}
	return nil
}
