package redis

import (
	"strconv"
	"strings"
	"time"
)

// Scall (single call) encodes cmd followed by one space-joined inline
// args row, e.g. Scall("GET", "key") -> "GET key\r\n".
func Scall(cmd string, args ...string) []byte {
	return Call(cmd, args)
}

// Call encodes cmd, then one CRLF-separated row per element of rows,
// each row itself space-joined, the whole thing terminated by CRLF.
// Most commands pass a single row; multi-row callers are things like
// pipelined variadic commands where each row is one logical sub-command
// sharing the same leading keyword.
func Call(cmd string, rows ...[]string) []byte {
	var b strings.Builder
	b.WriteString(cmd)
	for i, row := range rows {
		if i > 0 {
			b.WriteString(CRLF)
		}
		for j, arg := range row {
			if i == 0 || j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(arg)
		}
	}
	b.WriteString(CRLF)
	return []byte(b.String())
}

// SetCall encodes a command carrying a single binary payload:
// "cmd key <size>\r\n<value>\r\n".
func SetCall(cmd, key string, value []byte) []byte {
	var b strings.Builder
	b.WriteString(cmd)
	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(len(value)))
	b.WriteString(CRLF)
	out := make([]byte, 0, b.Len()+len(value)+len(CRLF))
	out = append(out, []byte(b.String())...)
	out = append(out, value...)
	out = append(out, []byte(CRLF)...)
	return out
}

// Bcall appends the server-side timeout, in seconds, as the last inline
// argument (0 means "wait forever" on the server) and returns the bytes
// to write plus the caller-side timeout the caller should wait with.
// The caller timeout always exceeds the server timeout by at least
// DefaultTimeout, so the server has a chance to answer "no data" before
// the caller gives up on its own.
func Bcall(cmd string, args []string, serverTimeout time.Duration) ([]byte, time.Duration) {
	seconds := serverTimeout.Seconds()
	row := append(append([]string{}, args...), strconv.FormatFloat(seconds, 'f', -1, 64))
	callerTimeout := serverTimeout + DefaultTimeout
	if serverTimeout == 0 {
		callerTimeout = 0
	}
	return Call(cmd, row), callerTimeout
}
