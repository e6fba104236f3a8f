// Package relay bridges many WebSocket client connections to the single
// authoritative logic-engine subprocess. Clients register a display name,
// inbound lines are forwarded to the engine prefixed with the sender's name,
// and engine output lines are fanned out to the named recipients they address.
package relay

import (
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"go.uber.org/zap"

	"trollwire/internal/config"
)

// EngineSink receives forwarded client lines. The relay only needs the write
// half of the engine; tests substitute an in-memory sink.
type EngineSink interface {
	Send(line string) error
}

// Process is the logic-engine subprocess with its standard input and output
// redirected to pipes. It is spawned once at relay startup; the relay owns its
// lifetime.
type Process struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser

	mu     sync.Mutex
	logger *zap.Logger
}

// Spawn starts the configured engine command with piped stdin/stdout.
//
// Precondition: cfg.Command must be non-empty.
// Postcondition: Returns a running Process or a non-nil error; the caller must
// eventually call Stop.
func Spawn(cfg config.EngineConfig, logger *zap.Logger) (*Process, error) {
	start := time.Now()

	cmd := exec.Command(cfg.Command, cfg.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("opening engine stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("opening engine stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting engine %q: %w", cfg.Command, err)
	}

	logger.Info("logic engine started",
		zap.String("command", cfg.Command),
		zap.Strings("args", cfg.Args),
		zap.Int("pid", cmd.Process.Pid),
		zap.Duration("startup", time.Since(start)),
	)

	return &Process{
		cmd:    cmd,
		stdin:  stdin,
		stdout: stdout,
		logger: logger,
	}, nil
}

// Send writes one line to the engine's stdin. The line is written as a single
// atomic unit under a mutex, so concurrent session handlers never interleave
// bytes within a line.
//
// Precondition: line must not contain a newline.
// Postcondition: line + "\n" is written to the engine, or an error is returned.
func (p *Process) Send(line string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := io.WriteString(p.stdin, line+"\n"); err != nil {
		return fmt.Errorf("writing to engine: %w", err)
	}
	return nil
}

// Stdout returns the engine's output stream. The fan-out loop reads lines
// from it until EOF.
func (p *Process) Stdout() io.Reader {
	return p.stdout
}

// Stop closes the engine's stdin and waits for the process to exit. Engines
// are expected to exit on end of input.
//
// Postcondition: The subprocess has exited when Stop returns.
func (p *Process) Stop() {
	p.mu.Lock()
	_ = p.stdin.Close()
	p.mu.Unlock()

	if err := p.cmd.Wait(); err != nil {
		p.logger.Warn("logic engine exited with error", zap.Error(err))
	} else {
		p.logger.Info("logic engine exited")
	}
}
