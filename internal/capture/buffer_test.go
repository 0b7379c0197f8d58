package capture

import (
	"bytes"
	"strings"
	"testing"
)

func TestRingBuffer_UnderCapacity(t *testing.T) {
	b := NewRingBuffer(16)

	n, err := b.Write([]byte("hello"))
	if err != nil || n != 5 {
		t.Fatalf("Write = (%d, %v), want (5, nil)", n, err)
	}
	if got := b.String(); got != "hello" {
		t.Errorf("String() = %q, want %q", got, "hello")
	}
	if b.Len() != 5 {
		t.Errorf("Len() = %d, want 5", b.Len())
	}
}

func TestRingBuffer_OverwritesOldest(t *testing.T) {
	b := NewRingBuffer(8)

	b.Write([]byte("abcdefgh"))
	b.Write([]byte("XY"))

	if got := b.String(); got != "cdefghXY" {
		t.Errorf("String() = %q, want %q", got, "cdefghXY")
	}
	if b.Len() != 8 {
		t.Errorf("Len() = %d, want 8", b.Len())
	}
}

func TestRingBuffer_WriteLargerThanCapacity(t *testing.T) {
	b := NewRingBuffer(4)

	b.Write([]byte("0123456789"))

	if got := b.String(); got != "6789" {
		t.Errorf("String() = %q, want %q", got, "6789")
	}
}

func TestRingBuffer_MultipleWrapArounds(t *testing.T) {
	b := NewRingBuffer(5)
	for i := 0; i < 7; i++ {
		b.Write([]byte("ab"))
	}

	want := strings.Repeat("ab", 7)
	want = want[len(want)-5:]
	if got := b.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestRingBuffer_BytesReturnsCopy(t *testing.T) {
	b := NewRingBuffer(8)
	b.Write([]byte("data"))

	got := b.Bytes()
	got[0] = 'X'

	if !bytes.Equal(b.Bytes(), []byte("data")) {
		t.Error("mutating the returned slice corrupted the buffer")
	}
}

func TestRingBuffer_Reset(t *testing.T) {
	b := NewRingBuffer(8)
	b.Write([]byte("abcdefghij")) // wrapped
	b.Reset()

	if b.Len() != 0 || b.String() != "" {
		t.Errorf("after Reset: Len=%d String=%q, want empty", b.Len(), b.String())
	}

	b.Write([]byte("fresh"))
	if got := b.String(); got != "fresh" {
		t.Errorf("post-reset String() = %q, want %q", got, "fresh")
	}
}

func TestRingBuffer_Empty(t *testing.T) {
	b := NewRingBuffer(8)

	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}
	if got := b.Bytes(); len(got) != 0 {
		t.Errorf("Bytes() = %v, want empty", got)
	}
}
