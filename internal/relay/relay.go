package relay

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"trollwire/internal/config"
)

const (
	// sessionWriteTimeout bounds a single WebSocket write.
	sessionWriteTimeout = 10 * time.Second
	// outboundBufferSize is the per-client fan-out buffer.
	outboundBufferSize = 64
	// protocolDisconnect is the client's leave line.
	protocolDisconnect = "-"
)

// Relay accepts WebSocket client connections, enforces registration, forwards
// client lines to the engine with the sender's name prefixed, and fans engine
// output out to addressed recipients.
type Relay struct {
	cfg      config.ServerConfig
	engine   EngineSink
	registry *Registry
	logger   *zap.Logger

	httpSrv  *http.Server
	listener net.Listener
	wg       sync.WaitGroup
	quit     chan struct{}
	mu       sync.Mutex
	running  bool
}

// New creates a Relay in front of the given engine sink.
//
// Precondition: engine and logger must be non-nil.
// Postcondition: Returns a Relay ready to be started with ListenAndServe.
func New(cfg config.ServerConfig, engine EngineSink, logger *zap.Logger) *Relay {
	return &Relay{
		cfg:      cfg,
		engine:   engine,
		registry: NewRegistry(),
		logger:   logger,
		quit:     make(chan struct{}),
	}
}

// Registry exposes the name registry, mainly for inspection and tests.
func (r *Relay) Registry() *Registry {
	return r.registry
}

// ListenAndServe starts the WebSocket listener and accepts connections until
// Stop is called. This method blocks until the listener is closed.
//
// Precondition: The relay must not already be running.
// Postcondition: The listener is closed when this method returns.
func (r *Relay) ListenAndServe() error {
	start := time.Now()

	listener, err := net.Listen("tcp", r.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", r.cfg.Addr(), err)
	}

	srv := &http.Server{Handler: r}

	r.mu.Lock()
	r.listener = listener
	r.httpSrv = srv
	r.running = true
	r.mu.Unlock()

	r.logger.Info("relay listening",
		zap.String("addr", listener.Addr().String()),
		zap.Duration("startup", time.Since(start)),
	)

	if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

// Addr returns the actual listening address, or empty string if not yet listening.
func (r *Relay) Addr() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listener != nil {
		return r.listener.Addr().String()
	}
	return ""
}

// Stop gracefully stops the relay: no new connections are accepted, session
// contexts are cancelled, and all session goroutines are waited for.
//
// Postcondition: All connections are closed and goroutines have exited.
func (r *Relay) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	srv := r.httpSrv
	r.mu.Unlock()

	close(r.quit)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)

	r.wg.Wait()
	r.logger.Info("relay stopped")
}

// ServeHTTP upgrades the request to a WebSocket and runs the session loop.
func (r *Relay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := websocket.Accept(w, req, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		r.logger.Error("accepting websocket",
			zap.String("remote_addr", req.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	r.wg.Add(1)
	defer r.wg.Done()

	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()

	// Cancel the session when the relay stops.
	go func() {
		select {
		case <-r.quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	r.session(ctx, conn, req.RemoteAddr)
}

// session runs one connection's lifecycle: registration, inbound forwarding,
// and the outbound writer pump. Every failure here is session-scoped.
func (r *Relay) session(ctx context.Context, conn *websocket.Conn, remote string) {
	start := time.Now()
	id := uuid.NewString()
	client := NewClient(id, outboundBufferSize)

	r.logger.Info("client connected",
		zap.String("conn_id", id),
		zap.String("remote_addr", remote),
	)

	var writers sync.WaitGroup
	writers.Add(1)
	go func() {
		defer writers.Done()
		r.writePump(ctx, conn, client)
	}()

	name := r.readLoop(ctx, conn, client, id)

	if name != "" {
		r.registry.Remove(name)
	}
	client.Close()
	writers.Wait()
	_ = conn.CloseNow()

	r.logger.Info("session ended",
		zap.String("conn_id", id),
		zap.String("name", name),
		zap.Duration("duration", time.Since(start)),
	)
}

// readLoop consumes inbound lines until the connection ends or a protocol
// violation occurs. It returns the registered name, if any.
//
// Policy (documented): traffic before registration and repeated registration
// attempts are rejected by closing the offending connection. The relay itself
// is never affected.
func (r *Relay) readLoop(ctx context.Context, conn *websocket.Conn, client *Client, id string) string {
	name := ""
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() == nil {
				r.logger.Debug("session read ended",
					zap.String("conn_id", id),
					zap.Error(err),
				)
			}
			return name
		}

		line := strings.TrimSpace(string(data))
		if line == "" {
			continue
		}

		if name == "" {
			registered, ok := r.register(conn, client, id, line)
			if !ok {
				return ""
			}
			name = registered
			continue
		}

		if strings.HasPrefix(line, "+") {
			r.logger.Warn("repeated registration attempt, closing session",
				zap.String("conn_id", id),
				zap.String("name", name),
			)
			_ = conn.Close(websocket.StatusPolicyViolation, "already registered")
			return name
		}

		if line == protocolDisconnect {
			// Client-initiated leave. The engine still hears about it so the
			// game can clean up.
			if err := r.engine.Send(name + ":" + line); err != nil {
				r.logger.Error("forwarding disconnect to engine", zap.Error(err))
			}
			_ = conn.Close(websocket.StatusNormalClosure, "bye")
			return name
		}

		if err := r.engine.Send(name + ":" + line); err != nil {
			r.logger.Error("forwarding to engine",
				zap.String("name", name),
				zap.Error(err),
			)
		}
	}
}

// register handles the mandatory first line of a session. Returns the
// registered name and whether the session may continue.
func (r *Relay) register(conn *websocket.Conn, client *Client, id, line string) (string, bool) {
	if !strings.HasPrefix(line, "+") {
		r.logger.Warn("traffic before registration, closing session",
			zap.String("conn_id", id),
			zap.String("line", line),
		)
		_ = conn.Close(websocket.StatusPolicyViolation, "registration required")
		return "", false
	}

	name := line[1:]
	if err := config.ValidateNick(name); err != nil {
		r.logger.Warn("invalid registration name, closing session",
			zap.String("conn_id", id),
			zap.Error(err),
		)
		_ = conn.Close(websocket.StatusPolicyViolation, "invalid name")
		return "", false
	}

	if err := r.registry.Register(name, client); err != nil {
		r.logger.Warn("registration rejected, closing session",
			zap.String("conn_id", id),
			zap.String("name", name),
			zap.Error(err),
		)
		_ = conn.Close(websocket.StatusPolicyViolation, "name already taken")
		return "", false
	}

	r.logger.Info("client registered",
		zap.String("conn_id", id),
		zap.String("name", name),
		zap.Int("clients", r.registry.Count()),
	)
	return name, true
}

// writePump drains the client's outbound channel onto the WebSocket.
func (r *Relay) writePump(ctx context.Context, conn *websocket.Conn, client *Client) {
	for line := range client.Lines() {
		wctx, cancel := context.WithTimeout(ctx, sessionWriteTimeout)
		err := conn.Write(wctx, websocket.MessageText, []byte(line))
		cancel()
		if err != nil {
			if ctx.Err() == nil {
				r.logger.Debug("session write failed",
					zap.String("conn_id", client.ID()),
					zap.Error(err),
				)
			}
			return
		}
	}
}

// FanOut reads engine output lines until EOF and dispatches each one. A clean
// EOF means the engine is gone; the loop stops but already-registered clients
// stay connected.
//
// Postcondition: Returns nil on EOF, or an error if reading failed.
func (r *Relay) FanOut(out io.Reader) error {
	scanner := bufio.NewScanner(out)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-r.quit:
			return nil
		default:
		}
		r.Dispatch(strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading engine output: %w", err)
	}

	r.logger.Info("engine output ended, fan-out loop stopping")
	return nil
}

// Dispatch fans one engine output line out to its recipients. The line has
// the form "<name>,<name>,...:<payload>"; the payload is sent verbatim to
// every currently-registered recipient, and names that are not registered are
// skipped silently; nothing is queued for later delivery.
func (r *Relay) Dispatch(line string) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		r.logger.Warn("engine line without recipient prefix", zap.String("line", line))
		return
	}
	payload := line[idx+1:]

	for _, name := range strings.Split(line[:idx], ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		client, ok := r.registry.Get(name)
		if !ok {
			r.logger.Debug("skipping unregistered recipient", zap.String("name", name))
			continue
		}
		if err := client.Push(payload); err != nil {
			r.logger.Warn("dropping line for client",
				zap.String("name", name),
				zap.Error(err),
			)
		}
	}
}
