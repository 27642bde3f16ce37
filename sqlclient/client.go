package sqlclient

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tuannm99/squirrel/server/squirrelwire"
)

// Client is a simple synchronous client for the parse server.
// Requests on one client are serialised.
type Client struct {
	conn net.Conn
	mu   sync.Mutex
	id   atomic.Uint64

	// Optional per-request timeout (0 = no timeout).
	rwTimeout time.Duration
}

func Dial(addr string, timeout time.Duration) (*Client, error) {
	return DialContext(context.Background(), addr, timeout)
}

func DialContext(ctx context.Context, addr string, timeout time.Duration) (*Client, error) {
	d := net.Dialer{Timeout: timeout}
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewClient(c), nil
}

// NewClient wraps an established connection.
func NewClient(conn net.Conn) *Client {
	return &Client{conn: conn}
}

// SetRWTimeout sets a per-request read/write deadline.
func (c *Client) SetRWTimeout(d time.Duration) {
	if c == nil {
		return
	}
	c.rwTimeout = d
}

func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *Client) Parse(sql string) ([]squirrelwire.Statement, error) {
	return c.ParseContext(context.Background(), sql)
}

// ParseContext sends sql and returns the parsed statements. A parse failure
// is returned as *squirrelwire.ParseError.
func (c *Client) ParseContext(ctx context.Context, sql string) ([]squirrelwire.Statement, error) {
	if c == nil || c.conn == nil {
		return nil, fmt.Errorf("sqlclient: nil client")
	}

	reqID := c.id.Add(1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.applyDeadline(ctx); err != nil {
		return nil, err
	}
	defer func() {
		// idle connections must not expire
		_ = c.conn.SetDeadline(time.Time{})
	}()

	req := squirrelwire.ParseRequest{ID: reqID, SQL: sql}
	if err := squirrelwire.WriteFrame(c.conn, req); err != nil {
		return nil, err
	}

	var resp squirrelwire.ParseResponse
	if err := squirrelwire.ReadFrame(c.conn, &resp); err != nil {
		return nil, err
	}
	if resp.ID != reqID {
		return nil, fmt.Errorf("sqlclient: response id mismatch: got=%d want=%d", resp.ID, reqID)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Statements, nil
}

func (c *Client) applyDeadline(ctx context.Context) error {
	// context deadline wins over rwTimeout
	if dl, ok := ctx.Deadline(); ok {
		return c.conn.SetDeadline(dl)
	}
	if c.rwTimeout > 0 {
		return c.conn.SetDeadline(time.Now().Add(c.rwTimeout))
	}
	return nil
}
