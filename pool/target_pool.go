package pool

import (
	"context"
	"github.com/hetianyi/fdfs/common"
	"github.com/hetianyi/fdfs/proto"
	"github.com/hetianyi/gox/logger"
	"github.com/pkg/errors"
	"net"
	"sync"
	"time"
)

// DialFunc opens a transport connection, ctx carries the connect timeout.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Config configures every TargetPool of a Registry.
type Config struct {
	ConnectTimeout time.Duration
	NetworkTimeout time.Duration
	MaxPerTarget   int
	MaxIdleTime    time.Duration // 0 means never evict
	MaxWaitTime    time.Duration
	// Disabled makes every released connection to be closed instead of reused.
	Disabled bool
	// Dial replaces net.Dialer, used by tests.
	Dial DialFunc
}

type idleConn struct {
	conn  net.Conn
	since time.Time
}

// TargetPool holds the connections of one host:port.
//
// slots holds one token for every open connection, idle or checked out,
// so its capacity is the max connections of the target.
type TargetPool struct {
	target string
	config *Config
	slots  chan struct{}
	idle   chan *idleConn
	// lock orders releases against Close.
	lock   sync.Mutex
	closed bool
}

func newTargetPool(target string, config *Config) *TargetPool {
	max := config.MaxPerTarget
	if max <= 0 {
		max = common.DEFAULT_MAX_COUNT_PER_ENTRY
	}
	return &TargetPool{
		target: target,
		config: config,
		slots:  make(chan struct{}, max),
		idle:   make(chan *idleConn, max),
	}
}

// Get checks out a connection.
//
// Idle connections are probed before they are handed out, a connection that
// fails the probe is dropped and the next idle one is tried. New connections
// are created while the pool is not full, otherwise Get waits up to
// MaxWaitTime for a connection to be released or discarded.
func (p *TargetPool) Get(ctx context.Context) (*Conn, error) {
	var wait <-chan time.Time
	for {
		select {
		case ic := <-p.idle:
			if p.recycle(ic) {
				return p.checkout(ic.conn), nil
			}
			continue
		default:
		}
		select {
		case p.slots <- struct{}{}:
			return p.create(ctx)
		default:
		}
		if wait == nil {
			timer := time.NewTimer(p.config.MaxWaitTime)
			defer timer.Stop()
			wait = timer.C
		}
		select {
		case ic := <-p.idle:
			if p.recycle(ic) {
				return p.checkout(ic.conn), nil
			}
		case p.slots <- struct{}{}:
			return p.create(ctx)
		case <-wait:
			waitTimeouts.WithLabelValues(p.target).Inc()
			return nil, errors.Wrapf(common.ErrPoolExhausted, "no connection of %s available within %s",
				p.target, p.config.MaxWaitTime)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// create dials a new connection, the caller must hold a slot.
func (p *TargetPool) create(ctx context.Context) (*Conn, error) {
	logger.Debug("connecting to server ", p.target, "...")
	dialCtx := ctx
	if p.config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, p.config.ConnectTimeout)
		defer cancel()
	}
	dial := p.config.Dial
	if dial == nil {
		dialer := &net.Dialer{}
		dial = dialer.DialContext
	}
	conn, err := dial(dialCtx, "tcp", p.target)
	if err != nil {
		<-p.slots
		logger.Debug("error connect to server ", p.target, ": ", err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if ne, ok := err.(net.Error); (ok && ne.Timeout()) || dialCtx.Err() == context.DeadlineExceeded {
			return nil, errors.Wrapf(common.ErrConnectTimeout, "connect to %s: %v", p.target, err)
		}
		return nil, errors.Wrapf(common.ErrConnectRefused, "connect to %s: %v", p.target, err)
	}
	connCreated.WithLabelValues(p.target).Inc()
	openConns.WithLabelValues(p.target).Inc()
	return p.checkout(conn), nil
}

func (p *TargetPool) checkout(conn net.Conn) *Conn {
	return &Conn{
		Conn:    conn,
		pool:    p,
		timeout: p.config.NetworkTimeout,
	}
}

// recycle decides whether an idle connection can be reused,
// rejected connections are closed.
func (p *TargetPool) recycle(ic *idleConn) bool {
	if p.config.MaxIdleTime > 0 && time.Since(ic.since) > p.config.MaxIdleTime {
		evictions.WithLabelValues(p.target).Inc()
		p.closeConn(ic.conn, "idle timeout")
		return false
	}
	if err := activeTest(ic.conn, p.config.NetworkTimeout); err != nil {
		probes.WithLabelValues(p.target, "failed").Inc()
		p.closeConn(ic.conn, "active test failed: "+err.Error())
		return false
	}
	probes.WithLabelValues(p.target, "ok").Inc()
	return true
}

// activeTest sends an active test package and waits for an empty response.
func activeTest(conn net.Conn, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = common.RecycleTimeout
	}
	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	if _, err := conn.Write(proto.PackHeader(common.FDFS_PROTO_CMD_ACTIVE_TEST, 0, 0)); err != nil {
		return err
	}
	header, err := proto.RecvHeader(conn, common.TRACKER_PROTO_CMD_RESP, 0)
	if err != nil {
		return err
	}
	if header.Status != 0 {
		return &common.StatusError{Status: header.Status}
	}
	return conn.SetDeadline(time.Time{})
}

func (p *TargetPool) put(c *Conn) {
	p.lock.Lock()
	if p.config.Disabled || p.closed {
		p.lock.Unlock()
		p.closeConn(c.Conn, "released")
		return
	}
	// idle has the same capacity as slots, this never blocks.
	p.idle <- &idleConn{conn: c.Conn, since: time.Now()}
	p.lock.Unlock()
}

func (p *TargetPool) discard(c *Conn, reason string) {
	discards.WithLabelValues(p.target).Inc()
	p.closeConn(c.Conn, reason)
}

// closeConn closes a connection and frees its slot.
func (p *TargetPool) closeConn(conn net.Conn, reason string) {
	logger.Debug("close connection of ", p.target, ": ", reason)
	conn.Close()
	openConns.WithLabelValues(p.target).Dec()
	<-p.slots
}

// Close closes all idle connections, connections checked out at this time
// are closed when they come back.
func (p *TargetPool) Close() {
	p.lock.Lock()
	p.closed = true
	p.lock.Unlock()
	for {
		select {
		case ic := <-p.idle:
			p.closeConn(ic.conn, "pool closed")
		default:
			return
		}
	}
}

// Stat is a snapshot of a TargetPool.
type Stat struct {
	Target string `json:"target"`
	Open   int    `json:"open"`
	Idle   int    `json:"idle"`
	Max    int    `json:"max"`
}

func (p *TargetPool) Stat() Stat {
	return Stat{
		Target: p.target,
		Open:   len(p.slots),
		Idle:   len(p.idle),
		Max:    cap(p.slots),
	}
}
