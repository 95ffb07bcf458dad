// Package parser implements the stateless reply classifier:
// parse(state, line) -> event. It never touches the socket; the Framer
// hands it one line at a time.
package parser

import (
	"strconv"

	"github.com/stellarisjay/respconn/redis"
	"github.com/stellarisjay/respconn/redis/protocol"
)

// State carries the one bit of memory the parser needs across calls: was
// the previous line a "-" error header, meaning this line is the error
// text rather than a fresh reply header. The multi-bulk read/remaining
// bookkeeping lives in the connection state machine, not here.
type State byte

const (
	StateEmpty State = iota
	StateRead
	StateError
)

// EventKind tags the shape of what Parse produced.
type EventKind byte

const (
	// EventScalar carries a complete, ready-to-deliver reply value:
	// a status line, an integer, or (when the previous line was an
	// error header) the error text.
	EventScalar EventKind = iota
	// EventErrorHeader means this line was "-...": the *next* line is
	// the error message text, not a new header.
	EventErrorHeader
	// EventBulk is a "$N" header. N == -1 means nil, N == 0 means an
	// empty bulk ready immediately, N > 0 means "ask the framer for N
	// bytes".
	EventBulk
	// EventHold is a "*N" header starting (or completing, for N<=0) a
	// multi-bulk reply.
	EventHold
)

// Event is the parser's single output type. Only the fields relevant to
// Kind are populated.
type Event struct {
	Kind  EventKind
	Value protocol.Reply // EventScalar
	N     int            // EventBulk, EventHold
}

// Parse classifies one line. When state is StateError the line is not
// re-dispatched by sigil at all: it is consumed whole as the error text
// belonging to the header seen on the previous line.
func Parse(state State, line []byte) (Event, error) {
	if state == StateError {
		return Event{Kind: EventScalar, Value: protocol.NewError(string(line))}, nil
	}
	if len(line) == 0 {
		return Event{}, redis.CreateProtocolError(line)
	}
	switch line[0] {
	case redis.StatusPrefix:
		return Event{Kind: EventScalar, Value: protocol.NewStatus(string(line[1:]))}, nil
	case redis.ErrorPrefix:
		return Event{Kind: EventErrorHeader}, nil
	case redis.IntegerPrefix:
		n, err := strconv.ParseInt(string(line[1:]), 10, 64)
		if err != nil {
			return Event{}, redis.CreateProtocolError(line)
		}
		return Event{Kind: EventScalar, Value: protocol.NewInteger(n)}, nil
	case redis.BulkPrefix:
		n, err := strconv.Atoi(string(line[1:]))
		if err != nil {
			return Event{}, redis.CreateProtocolError(line)
		}
		return Event{Kind: EventBulk, N: n}, nil
	case redis.MultiBulkPrefix:
		n, err := strconv.Atoi(string(line[1:]))
		if err != nil {
			return Event{}, redis.CreateProtocolError(line)
		}
		return Event{Kind: EventHold, N: n}, nil
	default:
		return Event{}, redis.CreateProtocolError(line)
	}
}
