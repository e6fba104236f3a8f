package relay

import (
	"fmt"
	"sync"
)

// Client is the relay-side handle for one connected session. Fan-out pushes
// lines into a buffered channel; a dedicated writer goroutine owned by the
// session drains it onto the WebSocket. This keeps fan-out sends to distinct
// clients concurrent, and means a slow client only ever starves itself.
type Client struct {
	id     string
	lines  chan string
	mu     sync.Mutex
	closed bool
}

// NewClient creates a handle identified by id (a connection UUID, used for
// logging before a name is registered).
//
// Precondition: id must be non-empty.
// Postcondition: Returns a Client with an open outbound channel.
func NewClient(id string, bufferSize int) *Client {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &Client{
		id:    id,
		lines: make(chan string, bufferSize),
	}
}

// ID returns the connection identifier.
func (c *Client) ID() string {
	return c.id
}

// Push enqueues one outbound line without blocking.
//
// Postcondition: The line is enqueued, or an error is returned if the client
// is closed or its buffer is full. Either way the caller's loop continues.
func (c *Client) Push(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("client %s is closed", c.id)
	}
	select {
	case c.lines <- line:
		return nil
	default:
		return fmt.Errorf("client %s outbound buffer full", c.id)
	}
}

// Lines returns the read-only outbound channel. The session's writer
// goroutine reads from it until it is closed.
func (c *Client) Lines() <-chan string {
	return c.lines
}

// Close marks the client closed and closes the outbound channel.
//
// Postcondition: Further Push calls return an error; the writer goroutine's
// range loop terminates.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.lines)
	}
}

// IsClosed reports whether the client has been closed.
func (c *Client) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
