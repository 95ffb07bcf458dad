package redis

import (
	"strings"
	"testing"
	"time"
)

func TestScall(t *testing.T) {
	got := string(Scall("GET", "foo"))
	want := "GET foo\r\n"
	if got != want {
		t.Fatalf("expect %q, got %q", want, got)
	}
}

func TestCall_SingleRow(t *testing.T) {
	got := string(Call("MSET", []string{"a", "1", "b", "2"}))
	want := "MSET a 1 b 2\r\n"
	if got != want {
		t.Fatalf("expect %q, got %q", want, got)
	}
}

func TestCall_MultiRow(t *testing.T) {
	got := string(Call("MULTI", []string{"a", "1"}, []string{"b", "2"}))
	want := "MULTI a 1\r\nb 2\r\n"
	if got != want {
		t.Fatalf("expect %q, got %q", want, got)
	}
}

func TestSetCall(t *testing.T) {
	got := string(SetCall("SET", "foo", []byte("bar")))
	want := "SET foo 3\r\nbar\r\n"
	if got != want {
		t.Fatalf("expect %q, got %q", want, got)
	}
}

func TestSetCall_EmptyValue(t *testing.T) {
	got := string(SetCall("SET", "foo", []byte{}))
	want := "SET foo 0\r\n\r\n"
	if got != want {
		t.Fatalf("expect %q, got %q", want, got)
	}
}

func TestBcall_AppendsSecondsAndSlacksTimeout(t *testing.T) {
	b, callerTimeout := Bcall("BLPOP", []string{"queue"}, 2*time.Second)
	line := string(b)
	if !strings.HasPrefix(line, "BLPOP queue 2") {
		t.Fatalf("expected server timeout appended, got %q", line)
	}
	if callerTimeout <= 2*time.Second {
		t.Fatalf("expected caller timeout to exceed server timeout, got %v", callerTimeout)
	}
	if callerTimeout < 2*time.Second+DefaultTimeout {
		t.Fatalf("expected at least DefaultTimeout of slack, got %v", callerTimeout)
	}
}

func TestBcall_ZeroMeansWaitForever(t *testing.T) {
	b, callerTimeout := Bcall("BLPOP", []string{"queue"}, 0)
	if !strings.Contains(string(b), " 0\r\n") {
		t.Fatalf("expected literal 0 timeout on the wire, got %q", string(b))
	}
	if callerTimeout != 0 {
		t.Fatalf("expected caller timeout 0 (wait forever), got %v", callerTimeout)
	}
}
