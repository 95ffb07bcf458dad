package buffer

import (
	"fmt"
	"io"
)

type RingBuffer struct {
	buf    []byte
	cap    int // cap 是ring buffer底层数组的大小
	length int // length 是元素个数
	rIdx   int
	wIdx   int
}

func NewRingBuffer(cap int) *RingBuffer {
	cap = ceilPowerOfTwo(cap)
	return &RingBuffer{
		buf:    make([]byte, cap),
		cap:    cap,
		length: 0,
		rIdx:   0,
		wIdx:   0,
	}
}

func (r *RingBuffer) Read(bytes []byte) (int, error) {
	n := len(bytes)
	if n == 0 {
		return 0, nil
	}
	if r.length < n {
		n = r.length
	}
	if r.wIdx > r.rIdx {
		copy(bytes, r.buf[r.rIdx:r.rIdx+n])
		r.rIdx += n
	} else {
		r1 := r.cap - r.rIdx
		if n <= r1 {
			copy(bytes, r.buf[r.rIdx:])
			r.rIdx += n
		} else {
			copy(bytes, r.buf[r.rIdx:])
			remain := n - r1
			copy(bytes[r1:], r.buf[0:remain])
			r.rIdx = remain
		}
	}
	if r.rIdx == r.cap {
		r.rIdx = 0
	}
	r.length -= n
	return n, nil
}

func (r *RingBuffer) Write(bytes []byte) (int, error) {
	n := len(bytes)
	if n == 0 {
		return 0, nil
	}
	freeSpace := r.Available()
	if freeSpace < n {
		if err := r.grow(r.cap + n - freeSpace); err != nil {
			return 0, err
		}
	}
	if r.wIdx >= r.rIdx {
		cap1 := r.cap - r.wIdx
		if cap1 >= n {
			copy(r.buf[r.wIdx:], bytes)
			r.wIdx += n
		} else {
			copy(r.buf[r.wIdx:], bytes[:cap1])
			remain := n - cap1
			copy(r.buf, bytes[cap1:])
			r.wIdx = remain
		}
	} else {
		copy(r.buf[r.wIdx:], bytes)
		r.wIdx += n
	}
	if r.wIdx == r.cap {
		r.wIdx = 0
	}
	r.length += n
	return n, nil
}

// ReadBytes returns everything up to and including delim. Unlike a naive
// byte-at-a-time scan, a miss leaves the buffer untouched: the framer
// calls this speculatively every time more bytes arrive, and a RESP line
// can be split across an arbitrary number of socket reads.
func (r *RingBuffer) ReadBytes(delim byte) ([]byte, error) {
	idx := r.IndexByte(delim)
	if idx < 0 {
		return nil, io.EOF
	}
	return r.Next(idx + 1)
}

// IndexByte returns the offset of the first occurrence of delim in the
// unread portion of the buffer, or -1 if it isn't there yet. It never
// advances the read cursor.
func (r *RingBuffer) IndexByte(delim byte) int {
	for i := 0; i < r.length; i++ {
		if r.buf[(r.rIdx+i)%r.cap] == delim {
			return i
		}
	}
	return -1
}

func (r *RingBuffer) Next(n int) ([]byte, error) {
	bytes := make([]byte, n)
	_, err := r.Read(bytes)
	return bytes, err
}

func (r *RingBuffer) Skip(n int) error {
	if r.length < n {
		n = r.length
	}
	if r.rIdx < r.wIdx {
		r.rIdx += n
	} else {
		r.rIdx = n - (r.cap - r.rIdx)
	}
	r.length -= n
	return nil
}

func (r *RingBuffer) ReadByte() (byte, error) {
	if r.length == 0 {
		return 0, fmt.Errorf("buffer is empty")
	}
	b := r.buf[r.rIdx]
	r.rIdx++
	if r.rIdx == r.cap {
		r.rIdx = 0
	}
	r.length--
	return b, nil
}

func (r *RingBuffer) WriteString(s string) error {
	bytes := []byte(s)
	_, err := r.Write(bytes)
	return err
}

func (r *RingBuffer) WriteByte(b byte) error {
	freeSpace := r.Available()
	if freeSpace == 0 {
		if err := r.grow(r.length + 1); err != nil {
			return err
		}
	}
	r.buf[r.wIdx] = b
	r.wIdx++
	if r.wIdx == r.cap {
		r.wIdx = 0
	}
	r.length++
	return nil
}

func (r *RingBuffer) Len() int {
	return r.length
}

func (r *RingBuffer) Cap() int {
	return r.cap
}

// grow resizes the buffer to at least target bytes, rounded up to a power
// of two. A target beyond MaxBufferSize is refused rather than panicking:
// a bulk header controls target ($N drives target=N+2), and a hostile or
// merely buggy peer sending an enormous N must not be able to bring the
// process down.
func (r *RingBuffer) grow(target int) error {
	if target > MaxBufferSize {
		return ErrBufferOverflow
	}
	newCap := ceilPowerOfTwo(target)
	if newCap > MaxBufferSize {
		newCap = MaxBufferSize
	}
	slice := getSlice(newCap)
	r.transfer(slice, newCap)
	return nil
}

// transfer 数据转移，将原来buffer的数据转移到 newSlice 中
func (r *RingBuffer) transfer(newSlice []byte, newSize int) {
	old, oldSize := r.buf, r.cap
	n := r.length
	r.buf, r.cap = newSlice, newSize

	// 如果原来buffer为空，将r和w都改为0
	if n == 0 {
		r.rIdx = 0
		r.wIdx = 0
		return
	}
	// 没有出现环形，wIdx在rIdx之后，将这个范围内的数据拷贝到新的buffer
	if r.rIdx < r.wIdx {
		copy(r.buf, old[r.rIdx:r.wIdx])
		r.wIdx = r.wIdx - r.rIdx
		r.rIdx = 0
	} else {
		// 出现环形，先拷贝rIdx到oldSize，再拷贝0到wIdx
		t := oldSize - r.rIdx
		copy(r.buf, old[r.rIdx:])
		copy(r.buf[t:], old[0:r.wIdx])
		r.wIdx = n
		r.rIdx = 0
	}
}

// ceilPowerOfTwo 将给定的size规范化到2的幂次
func ceilPowerOfTwo(target int) int {
	ceil := 2
	for ceil < target {
		ceil = ceil << 1
	}
	return ceil
}

// Available reports free capacity. It must be derived from length, not
// from comparing rIdx/wIdx: those collide both when the buffer is empty
// and when it's completely full, and the index-based version of this
// method used to report 0 free space on an empty buffer, forcing a grow
// on every single Write to a freshly drained connection buffer.
func (r *RingBuffer) Available() int {
	return r.cap - r.length
}

func getSlice(n int) []byte {
	return make([]byte, n)
}
