//go:build linux

package tcp

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// epollReadiness arms exactly one fd with EPOLLONESHOT: each WaitReadable
// call blocks until the fd fires, then re-arms it for the next call. A
// single connection never needs more than one fd registered, since this
// client never multiplexes more than one logical connection per socket.
type epollReadiness struct {
	epfd int
	fd   int
}

// NewReadiness registers rc's fd with a fresh epoll instance. Callers on
// non-Linux platforms get the noopReadiness fallback instead; see
// netpoll_others.go.
func NewReadiness(rc syscall.RawConn) (Readiness, error) {
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, err
	}
	r := &epollReadiness{epfd: epfd}
	var ctrlErr error
	err = rc.Control(func(fdPtr uintptr) {
		r.fd = int(fdPtr)
		ctrlErr = unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, r.fd, &unix.EpollEvent{
			Events: unix.EPOLLIN | unix.EPOLLONESHOT,
			Fd:     int32(r.fd),
		})
	})
	if err != nil {
		_ = unix.Close(epfd)
		return nil, err
	}
	if ctrlErr != nil {
		_ = unix.Close(epfd)
		return nil, ctrlErr
	}
	return r, nil
}

func (r *epollReadiness) WaitReadable() error {
	events := make([]unix.EpollEvent, 1)
	for {
		n, err := unix.EpollWait(r.epfd, events, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}
		if n > 0 {
			break
		}
	}
	return unix.EpollCtl(r.epfd, unix.EPOLL_CTL_MOD, r.fd, &unix.EpollEvent{
		Events: unix.EPOLLIN | unix.EPOLLONESHOT,
		Fd:     int32(r.fd),
	})
}

func (r *epollReadiness) Close() error {
	return unix.Close(r.epfd)
}
