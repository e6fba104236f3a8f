// Package client implements the client side of the session layer: a
// WebSocket transport that hands the consumer a non-blocking, poll-based view
// of the connection, and a raw console client for probing a live relay.
package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"trollwire/internal/config"
	"trollwire/internal/protocol"
)

const (
	// receiveBufferSize is the decoded-message queue drained by the consumer.
	receiveBufferSize = 64
	// sendTimeout bounds a single outbound write.
	sendTimeout = 10 * time.Second
)

// Sender is the outbound half of a session. Send is best-effort: before the
// handshake completes, or after the connection fails, it is a silent no-op.
// Callers must not assume delivery.
type Sender struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
}

// Receiver is the inbound half of a session: a queue of already-decoded
// messages fed by the transport's background goroutine.
type Receiver struct {
	messages chan protocol.Message
}

// Connect establishes a session with the relay on a background goroutine and
// returns immediately. On successful open the transport first transmits the
// registration line "+<nick>", then decodes every received line into the
// Receiver's queue. Lines that fail to decode are logged and dropped; the
// consumer only ever observes well-formed messages, in arrival order.
//
// There is no reconnect: a failed or dropped connection is terminal for the
// session, and the Sender stays a no-op.
//
// Precondition: cfg.Nick must be a valid display name.
// Postcondition: Returns a usable Sender/Receiver pair; Close the Sender to
// end the session.
func Connect(cfg config.ClientConfig, logger *zap.Logger) (*Sender, *Receiver) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Sender{
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
	r := &Receiver{
		messages: make(chan protocol.Message, receiveBufferSize),
	}

	go s.run(cfg, r)

	return s, r
}

// run owns the connection for the whole session lifetime.
func (s *Sender) run(cfg config.ClientConfig, r *Receiver) {
	url := cfg.URL()
	s.logger.Info("connecting", zap.String("url", url), zap.String("nick", cfg.Nick))

	conn, _, err := websocket.Dial(s.ctx, url, nil)
	if err != nil {
		s.logger.Error("connecting to relay", zap.String("url", url), zap.Error(err))
		return
	}
	defer conn.CloseNow()

	if err := conn.Write(s.ctx, websocket.MessageText, []byte(protocol.Register(cfg.Nick))); err != nil {
		s.logger.Error("registering", zap.String("nick", cfg.Nick), zap.Error(err))
		return
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.conn = nil
		s.mu.Unlock()
	}()

	for {
		_, data, err := conn.Read(s.ctx)
		if err != nil {
			if s.ctx.Err() == nil {
				s.logger.Info("connection ended", zap.Error(err))
			}
			return
		}

		line := strings.TrimSpace(string(data))
		msg, err := protocol.Decode(line)
		if err != nil {
			// Untrusted peer input: drop and keep going.
			s.logger.Debug("dropping undecodable line",
				zap.String("line", line),
				zap.Error(err),
			)
			continue
		}

		select {
		case r.messages <- msg:
		case <-s.ctx.Done():
			return
		}
	}
}

// Send transmits one protocol line, best effort. If the connection is not
// open (the handshake may still be in flight) the call is a silent no-op.
func (s *Sender) Send(line string) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, sendTimeout)
	defer cancel()
	if err := conn.Write(ctx, websocket.MessageText, []byte(line)); err != nil {
		s.logger.Debug("send failed", zap.String("line", line), zap.Error(err))
	}
}

// Close ends the session: the background goroutine stops and the connection,
// open or in flight, is torn down.
func (s *Sender) Close() {
	s.cancel()
}

// TryRecv returns the next buffered message without blocking.
//
// Postcondition: Returns (msg, true) if a message was queued, or (nil, false)
// if the queue is empty. Messages come out in the order the transport
// received them.
func (r *Receiver) TryRecv() (protocol.Message, bool) {
	select {
	case msg := <-r.messages:
		return msg, true
	default:
		return nil, false
	}
}
