//go:build !linux

package tcp

import "syscall"

// NewReadiness has no epoll-equivalent backing on non-Linux platforms;
// the framer falls back to a plain blocking net.Conn.Read (still
// correct, just without the explicit one-shot notification step).
func NewReadiness(rc syscall.RawConn) (Readiness, error) {
	return noopReadiness{}, nil
}
