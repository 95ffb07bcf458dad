// Package conn holds the reply-handle machinery the pending-calls FIFO
// is built from. A Call is either a synchronous caller's reply handle or
// an async sentinel; a DeferredHandle is the one-shot completion signal
// CollectAll waits on when it's invoked before every submitted reply has
// arrived.
package conn

import (
	"fmt"
	"sync"
	"time"

	"github.com/stellarisjay/respconn/redis/protocol"
	"github.com/stellarisjay/respconn/util/timewheel"
)

// Call is one entry in the actor's pending-calls FIFO. It is created by
// the caller before the command is written to the socket and delivered
// to exactly once, by the actor, in FIFO order.
type Call struct {
	async bool
	reply chan protocol.Reply
}

// NewSyncCall creates a Call whose caller is blocked in Wait.
func NewSyncCall() *Call {
	return &Call{reply: make(chan protocol.Reply, 1)}
}

// NewAsyncCall creates a fire-and-forget Call: Deliver still happens,
// keeping FIFO order intact, but nothing is waiting to receive it.
func NewAsyncCall() *Call {
	return &Call{async: true}
}

func (c *Call) IsAsync() bool { return c.async }

// Deliver hands the reply to the waiting caller. It must be called
// exactly once per Call, from the actor goroutine only.
func (c *Call) Deliver(reply protocol.Reply) {
	if c.async {
		return
	}
	c.reply <- reply
}

// Wait blocks for the reply or the timeout, whichever comes first. A
// timeout of zero waits forever. Timing out here does not remove this
// Call from the actor's FIFO: the slot is still consumed by whatever
// reply arrives next, and that reply is discarded because Wait has
// already returned.
//
// The timeout is scheduled on the shared timing wheel rather than a
// per-call time.Timer, so a client juggling many outstanding
// synchronous calls doesn't spin up one OS-backed timer per call.
func (c *Call) Wait(timeout time.Duration) (protocol.Reply, bool) {
	if c.async {
		return protocol.Reply{}, false
	}
	if timeout <= 0 {
		return <-c.reply, true
	}
	key := fmt.Sprintf("call-wait-%p", c)
	expired := make(chan struct{})
	timewheel.ScheduleDelayed(timeout, key, func() { close(expired) })
	select {
	case r := <-c.reply:
		timewheel.Cancel(key)
		return r, true
	case <-expired:
		return protocol.Reply{}, false
	}
}

// DeferredHandle is the one-shot completion value CollectAll waits on
// when it's called before the FIFO has fully drained. The actor fires
// it exactly once, with the accumulated replies in submission order,
// when the last pending Call is delivered.
type DeferredHandle struct {
	done chan []protocol.Reply
	once sync.Once
}

func NewDeferredHandle() *DeferredHandle {
	return &DeferredHandle{done: make(chan []protocol.Reply, 1)}
}

// Fire signals completion with replies. Safe to call more than once;
// only the first call has an effect.
func (d *DeferredHandle) Fire(replies []protocol.Reply) {
	d.once.Do(func() { d.done <- replies })
}

func (d *DeferredHandle) Wait() []protocol.Reply {
	return <-d.done
}
