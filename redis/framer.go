package redis

import (
	"io"
	"net"

	"github.com/stellarisjay/respconn/util/buffer"
)

// Framer reads a socket in two modes: line mode delivers one
// CRLF-terminated line with the terminator stripped, and
// counted mode delivers exactly N+2 raw bytes and returns the first N.
// It buffers in user space and searches for CRLF instead of depending on
// any OS-level line discipline, so a RESP line may arrive split across
// an arbitrary number of socket reads without losing data (see
// buffer.RingBuffer.ReadBytes).
type Framer struct {
	conn         net.Conn
	buf          *buffer.RingBuffer
	scratch      []byte
	waitReadable func() error
}

// NewFramer wraps conn. readChunk is the size of each raw Read call made
// against the socket when the ring buffer doesn't already hold enough to
// satisfy the current request. waitReadable, if non-nil, is invoked
// before each raw socket Read; on Linux this arms a one-shot epoll
// registration so the blocking Read that follows is known to have data
// waiting. Pass nil to read straight off the socket.
func NewFramer(conn net.Conn, readChunk int, waitReadable func() error) *Framer {
	if readChunk <= 0 {
		readChunk = 4096
	}
	return &Framer{
		conn:         conn,
		buf:          buffer.NewRingBuffer(1024),
		scratch:      make([]byte, readChunk),
		waitReadable: waitReadable,
	}
}

// ReadLine returns the next CRLF-terminated line with the CRLF stripped.
func (f *Framer) ReadLine() ([]byte, error) {
	for {
		line, err := f.buf.ReadBytes('\n')
		if err == nil {
			if len(line) < 2 || line[len(line)-2] != '\r' {
				return nil, CreateProtocolError(line)
			}
			return line[:len(line)-2], nil
		}
		if err := f.fill(); err != nil {
			return nil, err
		}
	}
}

// ReadCounted reads exactly n+2 bytes (a bulk body plus its trailing
// CRLF) and returns the first n, discarding the CRLF.
func (f *Framer) ReadCounted(n int) ([]byte, error) {
	total := n + 2
	for f.buf.Len() < total {
		if err := f.fill(); err != nil {
			return nil, err
		}
	}
	body, err := f.buf.Next(total)
	if err != nil {
		return nil, CreateSocketError("read", err)
	}
	return body[:n], nil
}

// fill performs exactly one raw Read against the socket and appends
// whatever arrived to the ring buffer. Any read error, including io.EOF,
// is fatal to the connection.
func (f *Framer) fill() error {
	if f.waitReadable != nil {
		if err := f.waitReadable(); err != nil {
			return CreateSocketError("readiness", err)
		}
	}
	n, err := f.conn.Read(f.scratch)
	if n > 0 {
		if _, werr := f.buf.Write(f.scratch[:n]); werr != nil {
			return CreateSocketError("buffer", werr)
		}
	}
	if err != nil {
		if err == io.EOF {
			return CreateSocketError("read", io.ErrUnexpectedEOF)
		}
		return CreateSocketError("read", err)
	}
	return nil
}
