package textbuf

import (
	"bytes"
	"testing"
)

func TestLeadingCharLenClassification(t *testing.T) {
	cases := []struct {
		name    string
		input   []byte
		want    int
		rewrite byte
	}{
		{name: "ascii", input: []byte{0x41}, want: 1},
		{name: "two byte", input: []byte{0xc2, 0xa9}, want: 2},
		{name: "three byte", input: []byte{0xed, 0x95, 0x9c}, want: 3},
		{name: "four byte", input: []byte{0xf0, 0x9f, 0x8e, 0xb9}, want: 4},
		{name: "lone continuation", input: []byte{0x80}, want: 1, rewrite: '?'},
		{name: "invalid lead", input: []byte{0xf8, 0x41}, want: 1, rewrite: '?'},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := New(16, PolicyDrop, nil)
			if err := buf.Append(tc.input); err != nil {
				t.Fatalf("append: %v", err)
			}
			if got := buf.LeadingCharLen(); got != tc.want {
				t.Fatalf("expected length %d, got %d", tc.want, got)
			}
			if tc.rewrite != 0 && buf.Peek()[0] != tc.rewrite {
				t.Fatalf("expected lead byte rewritten to %q, got %q", tc.rewrite, buf.Peek()[0])
			}
		})
	}
}

func TestLeadingCharLenEmpty(t *testing.T) {
	buf := New(16, PolicyDrop, nil)
	if got := buf.LeadingCharLen(); got != 0 {
		t.Fatalf("expected 0 for empty buffer, got %d", got)
	}
}

func TestLeadingCharLenClampsToUsed(t *testing.T) {
	buf := New(16, PolicyDrop, nil)
	// First byte of a three-byte sequence with the rest not yet arrived.
	if err := buf.Append([]byte{0xed, 0x95}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if got := buf.LeadingCharLen(); got != 2 {
		t.Fatalf("expected clamp to 2, got %d", got)
	}
}

func TestConsumeShiftsAndZeroes(t *testing.T) {
	buf := New(8, PolicyDrop, nil)
	if err := buf.Append([]byte("abcd")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if n := buf.Consume(2); n != 2 {
		t.Fatalf("expected consume 2, got %d", n)
	}
	if got := buf.Peek(); !bytes.Equal(got, []byte("cd")) {
		t.Fatalf("expected remainder cd, got %q", got)
	}
	// The vacated region behind the remainder must be cleared.
	tail := buf.Tail()
	for i, b := range tail {
		if b != 0 {
			t.Fatalf("expected zeroed tail, found %#x at %d", b, i)
		}
	}
}

func TestConsumeClampsToUsed(t *testing.T) {
	buf := New(8, PolicyDrop, nil)
	if err := buf.Append([]byte("xy")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if n := buf.Consume(10); n != 2 {
		t.Fatalf("expected clamp to 2, got %d", n)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected empty buffer, got %d", buf.Len())
	}
}

func TestOverflowDropKeepsBufferedBytes(t *testing.T) {
	buf := New(4, PolicyDrop, nil)
	if err := buf.Append([]byte("ab")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := buf.Append([]byte("cde")); err != ErrOverflow {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
	if got := buf.Peek(); !bytes.Equal(got, []byte("ab")) {
		t.Fatalf("expected retained prefix ab, got %q", got)
	}
	if buf.Dropped() != 3 {
		t.Fatalf("expected 3 dropped bytes, got %d", buf.Dropped())
	}
	// The retained prefix must still behave normally.
	if got := buf.LeadingCharLen(); got != 1 {
		t.Fatalf("expected length 1 on retained prefix, got %d", got)
	}
	if n := buf.Consume(1); n != 1 {
		t.Fatalf("expected consume 1, got %d", n)
	}
	if got := buf.Peek(); !bytes.Equal(got, []byte("b")) {
		t.Fatalf("expected remainder b, got %q", got)
	}
}

func TestOverflowGrowPreservesBytes(t *testing.T) {
	buf := New(4, PolicyGrow, nil)
	if err := buf.Append([]byte("ab")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := buf.Append([]byte("cdefg")); err != nil {
		t.Fatalf("expected grow to absorb append, got %v", err)
	}
	if got := buf.Peek(); !bytes.Equal(got, []byte("abcdefg")) {
		t.Fatalf("expected abcdefg, got %q", got)
	}
	if buf.Cap() < 7 {
		t.Fatalf("expected capacity >= 7, got %d", buf.Cap())
	}
}

func TestTailCommit(t *testing.T) {
	buf := New(8, PolicyDrop, nil)
	tail := buf.Tail()
	if len(tail) != 8 {
		t.Fatalf("expected full tail, got %d", len(tail))
	}
	copy(tail, "hi")
	buf.Commit(2)
	if got := buf.Peek(); !bytes.Equal(got, []byte("hi")) {
		t.Fatalf("expected hi, got %q", got)
	}
	// Commit past the free region clamps.
	buf.Commit(100)
	if buf.Len() != 8 {
		t.Fatalf("expected clamp to capacity, got %d", buf.Len())
	}
}

func TestParsePolicy(t *testing.T) {
	if p, ok := ParsePolicy(""); !ok || p != PolicyDrop {
		t.Fatalf("expected default drop, got %v %v", p, ok)
	}
	if p, ok := ParsePolicy("grow"); !ok || p != PolicyGrow {
		t.Fatalf("expected grow, got %v %v", p, ok)
	}
	if _, ok := ParsePolicy("block"); ok {
		t.Fatalf("expected unknown policy to be rejected")
	}
}
