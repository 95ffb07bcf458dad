package tcp

import (
	"net"
	"syscall"
)

// Readiness waits for a single socket to become readable before the
// caller performs a blocking Read on it: a one-shot readiness
// notification for the connection actor's read loop.
//
// This is deliberately a single-fd, one-connection-at-a-time interface:
// this client never multiplexes more than one socket per connection.
type Readiness interface {
	// WaitReadable blocks until the underlying fd is readable, or
	// returns an error if the wait itself failed. It re-arms itself on
	// every call.
	WaitReadable() error
	Close() error
}

// noopReadiness is the fallback used whenever a platform-specific
// readiness poller can't be built for the connection: a net.Conn that
// isn't backed by a raw fd (such as one end of a net.Pipe), or a
// non-Linux build. It makes the following Read call the readiness step: still
// correct, just without the explicit notification.
type noopReadiness struct{}

func (noopReadiness) WaitReadable() error { return nil }
func (noopReadiness) Close() error        { return nil }

// newReadinessFor builds the best Readiness available for conn: an
// epoll-backed one on Linux when conn exposes a raw fd, or noopReadiness
// otherwise.
func newReadinessFor(c net.Conn) Readiness {
	sc, ok := c.(syscall.Conn)
	if !ok {
		return noopReadiness{}
	}
	rc, err := sc.SyscallConn()
	if err != nil {
		return noopReadiness{}
	}
	r, err := NewReadiness(rc)
	if err != nil {
		return noopReadiness{}
	}
	return r
}
