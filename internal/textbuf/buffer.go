// Package textbuf holds decoded lookup output that has not yet been delivered
// to the consumer, one character at a time.
package textbuf

import (
	"errors"
	"log/slog"
)

// DefaultCapacity is plenty for any realistic composition commit.
const DefaultCapacity = 4096

// ErrOverflow is reported when an append does not fit and the policy is
// PolicyDrop. Already-buffered bytes are never touched.
var ErrOverflow = errors.New("textbuf: buffer overflow, incoming bytes dropped")

// Policy decides what happens when an append would exceed capacity.
type Policy int

const (
	// PolicyDrop rejects the incoming bytes and keeps the buffer intact.
	PolicyDrop Policy = iota
	// PolicyGrow reallocates, preserving buffered bytes.
	PolicyGrow
)

func (p Policy) String() string {
	switch p {
	case PolicyDrop:
		return "drop"
	case PolicyGrow:
		return "grow"
	default:
		return "unknown"
	}
}

func ParsePolicy(name string) (Policy, bool) {
	switch name {
	case "", "drop":
		return PolicyDrop, true
	case "grow":
		return PolicyGrow, true
	default:
		return PolicyDrop, false
	}
}

type Buffer struct {
	data    []byte
	used    int
	policy  Policy
	dropped uint64
	log     *slog.Logger
}

func New(capacity int, policy Policy, log *slog.Logger) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if log == nil {
		log = slog.Default()
	}
	return &Buffer{data: make([]byte, capacity), policy: policy, log: log}
}

func (b *Buffer) Len() int { return b.used }

func (b *Buffer) Cap() int { return len(b.data) }

// Dropped reports how many bytes have been discarded by overflow so far.
func (b *Buffer) Dropped() uint64 { return b.dropped }

// Tail exposes the unused region so a wrapped lookup call can decode straight
// into it. Claim written bytes with Commit.
func (b *Buffer) Tail() []byte {
	return b.data[b.used:]
}

// Commit claims n bytes previously written into Tail.
func (b *Buffer) Commit(n int) {
	if n < 0 {
		return
	}
	if n > len(b.data)-b.used {
		n = len(b.data) - b.used
	}
	b.used += n
}

// Append copies p behind the buffered bytes. On overflow it follows the
// configured policy; with PolicyDrop the incoming bytes are discarded whole
// and ErrOverflow returned.
func (b *Buffer) Append(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if b.used+len(p) > len(b.data) {
		if b.policy == PolicyDrop {
			b.dropped += uint64(len(p))
			b.log.Warn("lookup buffer overflow, dropping input",
				"used", b.used, "incoming", len(p), "capacity", len(b.data))
			return ErrOverflow
		}
		b.grow(b.used + len(p))
	}
	copy(b.data[b.used:], p)
	b.used += len(p)
	return nil
}

func (b *Buffer) grow(need int) {
	capacity := len(b.data)
	for capacity < need {
		capacity *= 2
	}
	grown := make([]byte, capacity)
	copy(grown, b.data[:b.used])
	b.data = grown
}

// LeadingCharLen classifies the first buffered byte by its UTF-8 lead range
// and returns the byte length of the leading character, clamped to the
// buffered length. A continuation byte or an invalid lead form is replaced in
// place with '?' and treated as a one-byte character so delivery always makes
// progress. Returns 0 only when the buffer is empty.
func (b *Buffer) LeadingCharLen() int {
	if b.used == 0 {
		return 0
	}
	var n int
	switch lead := b.data[0]; {
	case lead <= 0x7f:
		n = 1
	case lead <= 0xbf:
		// Continuation byte in lead position: corrupt fragment.
		b.data[0] = '?'
		n = 1
	case lead <= 0xdf:
		n = 2
	case lead <= 0xef:
		n = 3
	case lead <= 0xf7:
		n = 4
	default:
		b.data[0] = '?'
		n = 1
	}
	if n > b.used {
		n = b.used
	}
	return n
}

// Consume removes the first n bytes, shifts the remainder to the front and
// zeroes the vacated tail so stale bytes can never be reinterpreted. Returns
// the number of bytes actually removed.
func (b *Buffer) Consume(n int) int {
	if n <= 0 {
		return 0
	}
	if n > b.used {
		n = b.used
	}
	remaining := b.used - n
	copy(b.data, b.data[n:b.used])
	for i := remaining; i < b.used; i++ {
		b.data[i] = 0
	}
	b.used = remaining
	return n
}

// Peek returns the buffered bytes without consuming them. The slice aliases
// the buffer and is only valid until the next mutation.
func (b *Buffer) Peek() []byte {
	return b.data[:b.used]
}
