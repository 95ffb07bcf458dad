// Package redis (interface) declares the client's public surface,
// separately from its implementation in package tcp, so callers depend
// on behavior rather than the concrete connection type.
package redis

import (
	"context"
	"time"

	respredis "github.com/stellarisjay/respconn/redis"
	"github.com/stellarisjay/respconn/redis/protocol"
)

// Client is a single connection to a Redis-speaking server.
// Implementations only guarantee FIFO reply ordering among
// Send/SendAsync calls themselves; racing one of those against a
// concurrent SetPipelining or Disconnect call is not ordered against it.
type Client interface {
	// Send writes command and blocks for its reply, or until timeout
	// elapses (0 means wait forever). If pipelining is enabled, Send
	// degrades to fire-and-forget and returns a zero reply immediately.
	Send(command []byte, timeout time.Duration) (protocol.Reply, error)

	// SendAsync enqueues command without waiting for a reply. Only
	// meaningful once pipelining is enabled.
	SendAsync(command []byte) error

	// SetPipelining toggles fire-and-forget mode. Turning it off while
	// results are queued is legal; the queued results remain
	// collectible with CollectAll.
	SetPipelining(enabled bool)

	// CollectAll returns every reply accumulated since the last
	// CollectAll call, in submission order, and drains the internal
	// results buffer. Pipelined mode only.
	CollectAll(ctx context.Context) ([]protocol.Reply, error)

	// Info issues INFO and parses the well-known fields out of the
	// reply.
	Info(ctx context.Context, timeout time.Duration) (respredis.Info, error)

	// Disconnect closes the socket after replying Error("closed") to
	// every still-pending caller.
	Disconnect()
}
