package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"trollwire/internal/config"
	"trollwire/internal/protocol"
)

// RunConsole runs the raw line client: it registers with the relay under the
// configured nick, prints every received line to out, and forwards every line
// read from in verbatim. Useful for poking a live relay without the UI.
//
// If cfg.Nick is empty the user is prompted for one on out before connecting.
//
// Precondition: ctx governs the whole session; cancelling it ends the run.
// Postcondition: Returns nil when in reaches EOF, or the first fatal
// connection error otherwise.
func RunConsole(ctx context.Context, cfg config.ClientConfig, in io.Reader, out io.Writer, logger *zap.Logger) error {
	stdin := bufio.NewScanner(in)

	if cfg.Nick == "" {
		fmt.Fprint(out, "Enter your name: ")
		if !stdin.Scan() {
			return stdin.Err()
		}
		cfg.Nick = strings.TrimSpace(stdin.Text())
	}
	if err := config.ValidateNick(cfg.Nick); err != nil {
		return err
	}

	conn, _, err := websocket.Dial(ctx, cfg.URL(), nil)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", cfg.URL(), err)
	}
	defer conn.CloseNow()

	if err := conn.Write(ctx, websocket.MessageText, []byte(protocol.Register(cfg.Nick))); err != nil {
		return fmt.Errorf("registering as %q: %w", cfg.Nick, err)
	}
	logger.Info("registered", zap.String("nick", cfg.Nick))

	go func() {
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				if ctx.Err() == nil {
					logger.Info("connection ended", zap.Error(err))
				}
				return
			}
			fmt.Fprintln(out, strings.TrimSpace(string(data)))
		}
	}()

	for stdin.Scan() {
		line := strings.TrimSpace(stdin.Text())
		if line == "" {
			continue
		}
		if err := conn.Write(ctx, websocket.MessageText, []byte(line)); err != nil {
			return fmt.Errorf("sending %q: %w", line, err)
		}
		if line == protocol.Disconnect() {
			return nil
		}
	}
	return stdin.Err()
}
