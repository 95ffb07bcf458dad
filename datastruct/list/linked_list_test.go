package list

import "testing"

func TestLinkedList_AddLeft(t *testing.T) {
	l := NewLinkedList[string]()
	l.AddLeft("hello")
	l.AddLeft("world")
	l.AddLeft("!")

	if right, _ := l.Right(); right != "hello" {
		t.Fail()
	}
	if left, _ := l.Left(); left != "!" {
		t.Fail()
	}
}

func TestLinkedList_AddRight(t *testing.T) {
	l := NewLinkedList[string]()
	l.AddRight("hello")
	l.AddRight("world")
	l.AddRight("!")

	if right, _ := l.Right(); right != "!" {
		t.Fail()
	}
	if left, _ := l.Left(); left != "hello" {
		t.Fail()
	}
}

func TestLinkedList_Get(t *testing.T) {
	l := NewLinkedList[string]()
	l.AddRight("v1")
	l.AddRight("v2")
	l.AddRight("v3")
	l.AddRight("v4")

	for i := 0; i < 4; i++ {
		a, _ := l.Get(i)
		b, _ := l.Get(i - 4)
		if a != b {
			t.Fail()
		}
	}
	if _, ok := l.Get(10); ok {
		t.Fatal("expected out-of-range Get to report false")
	}
}

func TestLinkedList_RemoveLeft(t *testing.T) {
	l := NewLinkedList[string]()
	l.AddRight("v1")
	l.AddRight("v2")
	l.AddRight("v3")

	v1, _ := l.RemoveLeft()
	v2, _ := l.RemoveLeft()
	v3, _ := l.RemoveLeft()
	if v1 != "v1" || v2 != "v2" || v3 != "v3" {
		t.Fail()
	}
	if _, ok := l.Left(); ok {
		t.Fail()
	}
	if _, ok := l.Right(); ok {
		t.Fail()
	}
	if l.Size() != 0 {
		t.Fail()
	}
}

func TestLinkedList_RemoveRight(t *testing.T) {
	l := NewLinkedList[string]()
	l.AddLeft("v1")
	l.AddLeft("v2")
	l.AddLeft("v3")

	v1, _ := l.RemoveRight()
	v2, _ := l.RemoveRight()
	v3, _ := l.RemoveRight()
	if v1 != "v1" || v2 != "v2" || v3 != "v3" {
		t.Fail()
	}
	if _, ok := l.Left(); ok {
		t.Fail()
	}
	if _, ok := l.Right(); ok {
		t.Fail()
	}
	if l.Size() != 0 {
		t.Fail()
	}
}

func TestLinkedList_FIFOOrder(t *testing.T) {
	l := NewLinkedList[int]()
	for i := 0; i < 5; i++ {
		l.AddRight(i)
	}
	for i := 0; i < 5; i++ {
		v, ok := l.RemoveLeft()
		if !ok || v != i {
			t.Fatalf("expected %d, got %d (ok=%v)", i, v, ok)
		}
	}
}
