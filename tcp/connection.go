package tcp

import (
	"bytes"
	"context"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/stellarisjay/respconn/config"
	dlist "github.com/stellarisjay/respconn/datastruct/list"
	ifredis "github.com/stellarisjay/respconn/interface/redis"
	respredis "github.com/stellarisjay/respconn/redis"
	"github.com/stellarisjay/respconn/redis/parser"
	"github.com/stellarisjay/respconn/redis/protocol"
	callpkg "github.com/stellarisjay/respconn/util/conn"
	"github.com/stellarisjay/respconn/util/log"
)

// pendingEntry is one slot in the FIFO: the reply handle plus, when the
// command it belongs to was a SELECT, the DB index to record once the
// server confirms it.
type pendingEntry struct {
	call     *callpkg.Call
	selectDB string
}

// Connection is the client's connection state machine: it owns the
// socket, the pending-calls FIFO, and the parse cursor, and mediates
// between callers and the single read loop goroutine that drives the
// parser. Writes happen synchronously in the calling goroutine, guarded
// by mu; the parse cursor itself (pstate/remaining/buffer) is only ever
// touched by the read loop goroutine and needs no lock.
type Connection struct {
	opts *config.Options

	mu     sync.Mutex
	conn   net.Conn
	ready  Readiness
	framer *respredis.Framer

	pending    *dlist.LinkedList[*pendingEntry]
	pipelining bool
	results    []protocol.Reply
	deferred   *callpkg.DeferredHandle

	dbBytes string
}

// Dial opens a connection per opts and starts its read loop. A nil opts
// falls back to config.DefaultOptions().
func Dial(opts *config.Options) (ifredis.Client, error) {
	if opts == nil {
		opts = config.DefaultOptions()
	}
	c := &Connection{
		opts:    opts,
		pending: dlist.NewLinkedList[*pendingEntry](),
		dbBytes: strconv.Itoa(opts.DB),
	}
	c.mu.Lock()
	err := c.reconnectLocked()
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// reconnectLocked opens a fresh socket, replays SELECT if a non-default
// DB was recorded, and starts a read loop bound to this socket. Callers
// must hold mu.
func (c *Connection) reconnectLocked() error {
	conn, err := net.DialTimeout("tcp", c.opts.Addr(), c.opts.Timeout)
	if err != nil {
		return respredis.CreateSocketError("connect", err)
	}
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(true)
	}

	ready := newReadinessFor(conn)
	framer := respredis.NewFramer(conn, 4096, ready.WaitReadable)

	c.conn = conn
	c.ready = ready
	c.framer = framer

	if c.dbBytes != "0" {
		if err := c.replaySelectLocked(); err != nil {
			_ = conn.Close()
			c.conn = nil
			c.ready = nil
			c.framer = nil
			return err
		}
	}

	go c.readLoop(conn, framer)
	return nil
}

// replaySelectLocked issues SELECT synchronously, ahead of starting the
// read loop, so a reconnect restores the caller's chosen database before
// any other command can race it.
func (c *Connection) replaySelectLocked() error {
	cmd := respredis.Scall("SELECT", c.dbBytes)
	if c.opts.Timeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.Timeout))
	}
	if _, err := c.conn.Write(cmd); err != nil {
		return respredis.CreateSocketError("write", err)
	}
	line, err := c.framer.ReadLine()
	if err != nil {
		return err
	}
	if string(line) != "+OK" {
		return respredis.CreateProtocolError(line)
	}
	return nil
}

// Send implements ifredis.Client.
func (c *Connection) Send(command []byte, timeout time.Duration) (protocol.Reply, error) {
	c.mu.Lock()
	pipelining := c.pipelining
	c.mu.Unlock()

	if pipelining {
		if err := c.SendAsync(command); err != nil {
			return protocol.Reply{}, err
		}
		return protocol.Reply{}, nil
	}

	call := callpkg.NewSyncCall()
	if err := c.enqueue(command, call); err != nil {
		return protocol.Reply{}, err
	}
	reply, ok := call.Wait(timeout)
	if !ok {
		return protocol.Reply{}, respredis.CreateTimeoutError(string(command))
	}
	return reply, nil
}

// SendAsync implements ifredis.Client.
func (c *Connection) SendAsync(command []byte) error {
	return c.enqueue(command, callpkg.NewAsyncCall())
}

// enqueue writes command to the socket and appends call to the FIFO,
// reconnecting first if the socket is currently absent. Both steps
// happen under mu so the FIFO order always matches wire order.
func (c *Connection) enqueue(command []byte, call *callpkg.Call) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		if err := c.reconnectLocked(); err != nil {
			return err
		}
	}

	if c.opts.Timeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.Timeout))
	}
	_, err := c.conn.Write(command)
	if err != nil {
		socketErr := respredis.CreateSocketError("write", err)
		c.failLocked(socketErr)
		return socketErr
	}

	entry := &pendingEntry{call: call}
	if db, ok := selectDBFromCommand(command); ok {
		entry.selectDB = db
	}
	c.pending.AddRight(entry)
	return nil
}

// selectDBFromCommand recognizes "SELECT <n>" on the wire so its target
// DB can be recorded once the server confirms it.
func selectDBFromCommand(command []byte) (string, bool) {
	line := command
	if idx := bytes.Index(line, []byte(respredis.CRLF)); idx >= 0 {
		line = line[:idx]
	}
	fields := bytes.Fields(line)
	if len(fields) != 2 || !strings.EqualFold(string(fields[0]), "SELECT") {
		return "", false
	}
	return string(fields[1]), true
}

// SetPipelining implements ifredis.Client.
func (c *Connection) SetPipelining(enabled bool) {
	c.mu.Lock()
	c.pipelining = enabled
	c.mu.Unlock()
}

// CollectAll implements ifredis.Client.
func (c *Connection) CollectAll(ctx context.Context) ([]protocol.Reply, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.mu.Lock()
	if c.pending.Size() == 0 {
		replies := reverseReplies(c.results)
		c.results = nil
		c.mu.Unlock()
		return replies, nil
	}
	handle := c.deferred
	if handle == nil {
		handle = callpkg.NewDeferredHandle()
		c.deferred = handle
	}
	c.mu.Unlock()

	done := make(chan []protocol.Reply, 1)
	go func() { done <- handle.Wait() }()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case replies := <-done:
		return replies, nil
	}
}

// Info implements ifredis.Client.
func (c *Connection) Info(ctx context.Context, timeout time.Duration) (respredis.Info, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	type outcome struct {
		reply protocol.Reply
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		reply, err := c.Send(respredis.Scall("INFO"), timeout)
		done <- outcome{reply, err}
	}()

	select {
	case <-ctx.Done():
		return respredis.Info{}, ctx.Err()
	case o := <-done:
		if o.err != nil {
			return respredis.Info{}, o.err
		}
		if o.reply.IsError() {
			return respredis.Info{}, o.reply.Err()
		}
		return respredis.ParseInfo(o.reply.Bulk())
	}
}

// Disconnect implements ifredis.Client.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return
	}
	c.failLocked(nil)
}

// failLocked tears down the current socket, if any, and replies
// Error("closed") to every caller still in the FIFO. It serves both an
// explicit Disconnect and a fatal I/O or protocol error detected by the
// read loop; the socket is left nil afterward, so the next Send or
// SendAsync transparently reconnects.
func (c *Connection) failLocked(err error) {
	if c.conn != nil {
		_ = c.conn.Close()
	}
	if c.ready != nil {
		_ = c.ready.Close()
	}
	c.conn = nil
	c.ready = nil
	c.framer = nil

	for {
		entry, ok := c.pending.RemoveLeft()
		if !ok {
			break
		}
		if !entry.call.IsAsync() {
			entry.call.Deliver(protocol.NewError(respredis.ErrClosed.Error()))
		}
	}
	if c.deferred != nil {
		reversed := reverseReplies(c.results)
		c.results = nil
		d := c.deferred
		c.deferred = nil
		d.Fire(reversed)
	}
	if err != nil {
		log.Errorf("respconn: connection to %s failed: %v", c.opts.Addr(), err)
	}
}

// handleFatal is the read loop's entry point into failLocked. conn is
// the socket that specific read loop was spawned with: if a reconnect
// has since replaced it, this goroutine's failure is stale and must not
// tear down the new connection.
func (c *Connection) handleFatal(conn net.Conn, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != conn {
		return
	}
	c.failLocked(err)
}

// deliverReply pops the FIFO head and routes value to it. It also fires
// the deferred CollectAll handle once the FIFO drains, and records a
// completed SELECT's target DB for later reconnects.
func (c *Connection) deliverReply(value protocol.Reply) {
	c.mu.Lock()
	entry, ok := c.pending.RemoveLeft()
	if !ok {
		c.mu.Unlock()
		return
	}
	if entry.selectDB != "" && !value.IsError() {
		c.dbBytes = entry.selectDB
	}
	if entry.call.IsAsync() {
		c.results = append([]protocol.Reply{value}, c.results...)
	} else {
		entry.call.Deliver(value)
	}
	if c.pending.Size() == 0 && c.deferred != nil {
		reversed := reverseReplies(c.results)
		c.results = nil
		d := c.deferred
		c.deferred = nil
		c.mu.Unlock()
		d.Fire(reversed)
		return
	}
	c.mu.Unlock()
}

func reverseReplies(in []protocol.Reply) []protocol.Reply {
	out := make([]protocol.Reply, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}

// readLoop is the sole reader of conn/framer: it drives the parser's
// state transitions and hands every completed reply to deliverReply,
// until a read or protocol error ends it.
func (c *Connection) readLoop(conn net.Conn, framer *respredis.Framer) {
	pstate := parser.StateEmpty
	remaining := 0
	var buf []protocol.Reply
	// wasMultiBulk tracks whether the accumulation in progress (if any)
	// was opened by a "*N" header, so a completed reply can be unwrapped
	// to a bare value versus kept as a list. It survives the transient
	// StateError sub-state, unlike pstate itself.
	wasMultiBulk := false

	for {
		line, err := framer.ReadLine()
		if err != nil {
			c.handleFatal(conn, err)
			return
		}
		event, err := parser.Parse(pstate, line)
		if err != nil {
			c.handleFatal(conn, err)
			return
		}

		// remaining counts pending slots, whether that's multi-bulk
		// elements still owed or a single error header's text line
		// still owed. It only decrements once accumulation is already
		// under way (remaining > 0); a fresh top-level reply starts
		// and stays at remaining == 0 until it completes.
		rem := 0
		if remaining > 0 {
			rem = remaining - 1
		}

		switch {
		case event.Kind == parser.EventErrorHeader:
			// Generalizes the single-error-slot case to any rem: the
			// header consumes one slot, but the error text itself is
			// still owed, so the slot count carries forward plus one
			// until the text line clears it.
			remaining = rem + 1
			pstate = parser.StateError

		case event.Kind == parser.EventHold && event.N < 0:
			// "*-1": nil multi-bulk. Always terminal per the table's
			// "(_, hold nil)" row.
			c.deliverReply(finalize([]protocol.Reply{protocol.Nil}, wasMultiBulk))
			pstate, remaining, buf, wasMultiBulk = parser.StateEmpty, 0, nil, false

		case event.Kind == parser.EventHold && event.N == 0 && rem == 0:
			c.deliverReply(protocol.NewMultiBulk([]protocol.Reply{}))
			pstate, remaining, buf, wasMultiBulk = parser.StateEmpty, 0, nil, false

		case event.Kind == parser.EventHold && event.N > 0 && rem == 0:
			remaining = event.N
			pstate = parser.StateRead
			buf = nil
			wasMultiBulk = true

		case event.Kind == parser.EventBulk && event.N < 0:
			// "$-1": nil bulk. Only terminal when it's the last element
			// still owed; inside a multi-bulk it's just one more entry
			// in buf, same as the N == 0 and N > 0 siblings below.
			buf = append([]protocol.Reply{protocol.Nil}, buf...)
			if rem == 0 {
				c.deliverReply(finalize(buf, wasMultiBulk))
				pstate, remaining, buf, wasMultiBulk = parser.StateEmpty, 0, nil, false
			} else {
				remaining = rem
				pstate = parser.StateRead
			}

		case event.Kind == parser.EventBulk && event.N == 0:
			if _, err := framer.ReadCounted(0); err != nil {
				c.handleFatal(conn, err)
				return
			}
			if rem == 0 {
				buf = append([]protocol.Reply{protocol.NewBulk([]byte{})}, buf...)
				c.deliverReply(finalize(buf, wasMultiBulk))
				pstate, remaining, buf, wasMultiBulk = parser.StateEmpty, 0, nil, false
			} else {
				buf = append([]protocol.Reply{protocol.NewBulk([]byte{})}, buf...)
				remaining = rem
				pstate = parser.StateRead
			}

		case event.Kind == parser.EventBulk && event.N > 0:
			body, err := framer.ReadCounted(event.N)
			if err != nil {
				c.handleFatal(conn, err)
				return
			}
			owned := append([]byte(nil), body...)
			buf = append([]protocol.Reply{protocol.NewBulk(owned)}, buf...)
			if rem == 0 {
				c.deliverReply(finalize(buf, wasMultiBulk))
				pstate, remaining, buf, wasMultiBulk = parser.StateEmpty, 0, nil, false
			} else {
				remaining = rem
				pstate = parser.StateRead
			}

		case event.Kind == parser.EventScalar:
			buf = append([]protocol.Reply{event.Value}, buf...)
			if rem == 0 {
				c.deliverReply(finalize(buf, wasMultiBulk))
				pstate, remaining, buf, wasMultiBulk = parser.StateEmpty, 0, nil, false
			} else {
				remaining = rem
				pstate = parser.StateRead
			}

		default:
			c.handleFatal(conn, respredis.CreateProtocolError(line))
			return
		}
	}
}

// finalize applies the unwrap rule: a single-element reply is the bare
// value, except a reply that began as a multi-bulk is always a list,
// even of length one. buf is newest-first and gets
// reversed into submission order here.
func finalize(buf []protocol.Reply, wasMultiBulk bool) protocol.Reply {
	ordered := reverseReplies(buf)
	if !wasMultiBulk && len(ordered) == 1 {
		return ordered[0]
	}
	return protocol.NewMultiBulk(ordered)
}
