package buffer

import (
	"io"
	"testing"
)

type testCase struct {
	name    string
	write   []byte
	read    []byte
	e       expect
	initCap int
}

type expect struct {
	cap  int
	err  error
	read int
}

func TestRingBuffer_Write(t *testing.T) {
	testCases := []testCase{
		{name: "grow-buffer", write: []byte("helloword"), initCap: 8, e: expect{cap: 16, err: nil}},
		{name: "grow-from-zero", write: []byte("hello"), initCap: 0, e: expect{cap: 8, err: nil}},
		{name: "buffer-too-large", write: make([]byte, MaxBufferSize+10), initCap: 2, e: expect{err: ErrBufferOverflow, cap: 2}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := NewRingBuffer(tc.initCap)
			n, err := buf.Write(tc.write)
			if err != tc.e.err {
				t.Fatalf("expect error: %v, got: %v", tc.e.err, err)
			}
			if err == nil && n != len(tc.write) {
				t.Fatalf("expect written: %v, got: %v", len(tc.write), n)
			}
			if buf.Cap() != tc.e.cap {
				t.Fatalf("expect cap: %v, got: %v", tc.e.cap, buf.Cap())
			}
		})
	}
}

func TestRingBuffer_Read(t *testing.T) {
	testCases := []testCase{
		{name: "empty", write: []byte{}, initCap: 8, e: expect{read: 0, err: nil}},
		{name: "enough-to-read", write: []byte("12345678"), read: make([]byte, 6), initCap: 8, e: expect{read: 6, err: nil}},
		{name: "not-enough-to-read", write: []byte("12345678"), read: make([]byte, 10), initCap: 16, e: expect{read: 8, err: nil}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := NewRingBuffer(tc.initCap)
			_, _ = buf.Write(tc.write)
			n, err := buf.Read(tc.read)
			if err != tc.e.err {
				t.Fatalf("expect error: %v, got: %v", tc.e.err, err)
			}
			if n != tc.e.read {
				t.Fatalf("expect read len: %d, got: %d", tc.e.read, n)
			}
		})
	}
}

// TestRingBuffer_WrapAround exercises the read/write index wraparound
// path: fill the buffer, drain part of it, then write again so the
// write cursor crosses the end of the backing array.
func TestRingBuffer_WrapAround(t *testing.T) {
	buf := NewRingBuffer(8)
	_, _ = buf.Write([]byte("123456"))
	drained := make([]byte, 4)
	_, _ = buf.Read(drained)
	_, _ = buf.Write([]byte("abcdef"))

	out := make([]byte, buf.Len())
	n, err := buf.Read(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(out[:n]) != "56abcdef" {
		t.Fatalf("expected %q, got %q", "56abcdef", string(out[:n]))
	}
}

func TestRingBuffer_ReadBytes(t *testing.T) {
	buf := NewRingBuffer(16)
	_, _ = buf.Write([]byte("hello\nworld\n"))
	line, err := buf.ReadBytes('\n')
	if err != nil {
		t.Fatal(err)
	}
	if string(line) != "hello\n" {
		t.Fatalf("expect %q, got %q", "hello\n", string(line))
	}
	if buf.Len() != len("world\n") {
		t.Fatalf("expected remaining %d bytes, got %d", len("world\n"), buf.Len())
	}
}

// TestRingBuffer_ReadBytesMissLeavesDataIntact is the regression test for
// the bug this framer's line search relies on being fixed: a delimiter
// miss must not silently consume bytes, since a RESP line commonly
// arrives split across two or more socket reads.
func TestRingBuffer_ReadBytesMissLeavesDataIntact(t *testing.T) {
	buf := NewRingBuffer(16)
	_, _ = buf.Write([]byte("partial line no newline yet"))
	if _, err := buf.ReadBytes('\n'); err != io.EOF {
		t.Fatalf("expected io.EOF on miss, got %v", err)
	}
	if buf.Len() != len("partial line no newline yet") {
		t.Fatalf("miss must not consume buffered bytes, len is now %d", buf.Len())
	}
	_, _ = buf.Write([]byte("\n"))
	line, err := buf.ReadBytes('\n')
	if err != nil {
		t.Fatal(err)
	}
	if string(line) != "partial line no newline yet\n" {
		t.Fatalf("unexpected line: %q", string(line))
	}
}

func TestRingBuffer_IndexByte(t *testing.T) {
	buf := NewRingBuffer(16)
	_, _ = buf.Write([]byte("abc"))
	if idx := buf.IndexByte('c'); idx != 2 {
		t.Fatalf("expected index 2, got %d", idx)
	}
	if idx := buf.IndexByte('z'); idx != -1 {
		t.Fatalf("expected -1, got %d", idx)
	}
}
