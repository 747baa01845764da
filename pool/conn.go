package pool

import (
	"net"
	"time"
)

// Conn is a connection checked out from a TargetPool.
//
// A Conn is owned by exactly one caller until it calls Release
// (exchange completed, connection reusable) or Discard (anything went wrong).
// Every Read and Write is bounded by the network timeout of the pool.
type Conn struct {
	net.Conn
	pool    *TargetPool
	timeout time.Duration
	done    bool
}

func (c *Conn) Read(b []byte) (int, error) {
	if c.timeout > 0 {
		if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Read(b)
}

func (c *Conn) Write(b []byte) (int, error) {
	if c.timeout > 0 {
		if err := c.Conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Write(b)
}

// Target returns the address this connection belongs to.
func (c *Conn) Target() string {
	return c.pool.target
}

// Release returns a healthy connection to its pool.
func (c *Conn) Release() {
	if c.done {
		return
	}
	c.done = true
	c.pool.put(c)
}

// Discard closes the connection and frees its slot in the pool.
func (c *Conn) Discard() {
	if c.done {
		return
	}
	c.done = true
	c.pool.discard(c, "discarded")
}

// Close is the same as Discard.
func (c *Conn) Close() error {
	c.Discard()
	return nil
}
