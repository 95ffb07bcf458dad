package redis

import "time"

// RESP sigils. The first byte of a line the server sends back tells the
// parser how to interpret the rest of the line.
const (
	StatusPrefix    = '+'
	ErrorPrefix     = '-'
	IntegerPrefix   = ':'
	BulkPrefix      = '$'
	MultiBulkPrefix = '*'
)

const CRLF = "\r\n"

// DefaultTimeout is the floor for a caller-side timeout on a blocking
// command (bcall). The server-side timeout always gets this much slack
// added on top so the client never gives up before the server would have.
const DefaultTimeout = 5000 * time.Millisecond
