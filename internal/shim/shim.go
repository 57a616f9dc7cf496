// Package shim reconciles two views of input-method text delivery: the
// wrapped implementation hands back whole composition commits, while the
// consumer only honors one character per lookup and ignores the rest. The
// shim absorbs a multi-character lookup into a buffer, replays it one
// character per polling cycle, and keeps every pending/queued/filter query
// consistent with the replay.
package shim

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"imeshim/internal/textbuf"
	"imeshim/internal/xlib"
)

// MinLookupDest is the smallest caller destination the lookup contract
// supports: one full UTF-8 character.
const MinLookupDest = 4

// Backend is the real implementation underneath the five intercepted entry
// points. Satisfied by realx.Funcs in production and by lightweight fakes in
// tests and the demo binary.
type Backend interface {
	LookupString(ic xlib.IC, event *xlib.XEvent, dst []byte, keysym *xlib.KeySym, status *xlib.Status) int
	Pending(display xlib.Display) bool
	EventsQueued(display xlib.Display, mode int32) int32
	FilterEvent(event *xlib.XEvent, window xlib.Window) bool
	NextEvent(display xlib.Display, event *xlib.XEvent) int32
}

// Shim owns all replay state. Every intercepted entry point runs on one
// goroutine in strict call/return order; entries assert that instead of
// locking.
type Shim struct {
	backend Backend
	buf     *textbuf.Buffer
	log     *slog.Logger

	lastKey   xlib.XEvent
	haveKey   bool
	entered   atomic.Bool
	synthetic uint64
}

func New(backend Backend, buf *textbuf.Buffer, log *slog.Logger) *Shim {
	if buf == nil {
		buf = textbuf.New(textbuf.DefaultCapacity, textbuf.PolicyDrop, log)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Shim{backend: backend, buf: buf, log: log}
}

// Buffered reports how many delivered-pending bytes remain.
func (s *Shim) Buffered() int { return s.buf.Len() }

// SyntheticEvents reports how many key presses have been fabricated so far.
func (s *Shim) SyntheticEvents() uint64 { return s.synthetic }

// LookupString wraps the composed-text fetch. When the buffer is empty it
// refills from the backend, decoding straight into the buffer tail and
// passing the caller's keysym/status pointers through untouched. It then
// delivers exactly the leading character into dst and reports the bytes
// copied; 0 only when nothing is buffered and the backend produced nothing.
func (s *Shim) LookupString(ic xlib.IC, event *xlib.XEvent, dst []byte, keysym *xlib.KeySym, status *xlib.Status) int {
	s.enter()
	defer s.leave()

	if len(dst) < MinLookupDest {
		panic(fmt.Sprintf("shim: lookup destination of %d bytes, need at least %d", len(dst), MinLookupDest))
	}

	if s.buf.Len() == 0 {
		tail := s.buf.Tail()
		added := s.backend.LookupString(ic, event, tail, keysym, status)
		if added > len(tail) {
			// A backend claiming more than the capacity it was handed
			// has already trampled memory; trust nothing past the tail.
			s.log.Error("backend lookup overran destination", "added", added, "capacity", len(tail))
			added = len(tail)
		}
		s.buf.Commit(added)
	}

	if s.buf.Len() == 0 {
		return 0
	}

	n := s.buf.LeadingCharLen()
	copy(dst, s.buf.Peek()[:n])
	s.buf.Consume(n)
	return n
}

// Pending claims waiting input whenever buffered characters remain,
// otherwise it asks the backend.
func (s *Shim) Pending(display xlib.Display) bool {
	s.enter()
	defer s.leave()

	if s.buf.Len() > 0 {
		return true
	}
	return s.backend.Pending(display)
}

// EventsQueued reports the genuine queue depth plus one for the synthetic
// key press NextEvent will fabricate while draining.
func (s *Shim) EventsQueued(display xlib.Display, mode int32) int32 {
	s.enter()
	defer s.leave()

	count := s.backend.EventsQueued(display, mode)
	if s.buf.Len() > 0 {
		count++
	}
	return count
}

// FilterEvent refuses to filter the shim's own fabricated key presses while
// draining so the consumer processes them; everything else is the backend's
// decision.
func (s *Shim) FilterEvent(event *xlib.XEvent, window xlib.Window) bool {
	s.enter()
	defer s.leave()

	if s.buf.Len() > 0 && isSynthetic(event) {
		return false
	}
	return s.backend.FilterEvent(event, window)
}

// NextEvent fabricates a key press from the last genuine one while buffered
// characters remain, and otherwise forwards to the backend, snapshotting any
// genuine key press as the template for future fabrication. Synthetic events
// report status 0.
func (s *Shim) NextEvent(display xlib.Display, event *xlib.XEvent) int32 {
	s.enter()
	defer s.leave()

	if s.buf.Len() > 0 {
		if !s.haveKey {
			// Text buffered before any real key press was seen. The
			// zero template still drains correctly, but the consumer
			// gets an event with no display/window context.
			s.log.Error("fabricating key event with no observed template")
		}
		*event = s.lastKey
		key := event.Key()
		key.Type = xlib.KeyPress
		key.Keycode = xlib.None
		s.synthetic++
		return 0
	}

	result := s.backend.NextEvent(display, event)
	if event.Type() == xlib.KeyPress {
		s.lastKey = *event
		s.haveKey = true
	}
	return result
}

func isSynthetic(event *xlib.XEvent) bool {
	return event != nil && event.Type() == xlib.KeyPress && event.Key().Keycode == xlib.None
}

// enter asserts the single-threaded call/return discipline the replay
// protocol depends on.
func (s *Shim) enter() {
	if !s.entered.CompareAndSwap(false, true) {
		panic("shim: concurrent or re-entrant call into interception layer")
	}
}

func (s *Shim) leave() {
	s.entered.Store(false)
}
