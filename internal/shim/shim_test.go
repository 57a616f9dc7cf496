package shim

import (
	"testing"

	"imeshim/internal/textbuf"
	"imeshim/internal/xlib"
)

// fakeBackend plays the role of the real input-method client library: lookup
// hands back a whole composition commit at once, and the event queue serves
// scripted events.
type fakeBackend struct {
	commits [][]byte
	events  []xlib.XEvent
	status  xlib.Status
	keysym  xlib.KeySym

	lookupCalls int
	nextCalls   int
	filterCalls int
}

func (f *fakeBackend) LookupString(ic xlib.IC, event *xlib.XEvent, dst []byte, keysym *xlib.KeySym, status *xlib.Status) int {
	f.lookupCalls++
	if len(f.commits) == 0 {
		return 0
	}
	commit := f.commits[0]
	f.commits = f.commits[1:]
	n := copy(dst, commit)
	if keysym != nil {
		*keysym = f.keysym
	}
	if status != nil {
		*status = f.status
	}
	return n
}

func (f *fakeBackend) Pending(display xlib.Display) bool {
	return len(f.events) > 0
}

func (f *fakeBackend) EventsQueued(display xlib.Display, mode int32) int32 {
	return int32(len(f.events))
}

func (f *fakeBackend) FilterEvent(event *xlib.XEvent, window xlib.Window) bool {
	f.filterCalls++
	return false
}

func (f *fakeBackend) NextEvent(display xlib.Display, event *xlib.XEvent) int32 {
	f.nextCalls++
	if len(f.events) == 0 {
		return 0
	}
	*event = f.events[0]
	f.events = f.events[1:]
	return 0
}

func keyPressEvent(keycode uint32) xlib.XEvent {
	var ev xlib.XEvent
	key := ev.Key()
	key.Type = xlib.KeyPress
	key.Keycode = keycode
	key.Window = 7
	key.Serial = 42
	return ev
}

func newTestShim(t *testing.T, backend *fakeBackend) *Shim {
	t.Helper()
	return New(backend, textbuf.New(64, textbuf.PolicyDrop, nil), nil)
}

func TestLookupDeliversOneCharacterPerCall(t *testing.T) {
	backend := &fakeBackend{
		commits: [][]byte{[]byte("héllo")},
		keysym:  0x68,
		status:  xlib.XLookupBoth,
	}
	s := newTestShim(t, backend)

	trigger := keyPressEvent(38)
	dst := make([]byte, 64)

	want := []string{"h", "é", "l", "l", "o"}
	for i, expected := range want {
		var keysym xlib.KeySym
		var status xlib.Status
		n := s.LookupString(1, &trigger, dst, &keysym, &status)
		if got := string(dst[:n]); got != expected {
			t.Fatalf("call %d: expected %q, got %q", i+1, expected, got)
		}
		if i == 0 {
			if keysym != 0x68 || status != xlib.XLookupBoth {
				t.Fatalf("expected out-params propagated on refill, got keysym %#x status %d", keysym, status)
			}
		} else if keysym != 0 || status != 0 {
			t.Fatalf("call %d: expected out-params untouched while draining, got keysym %#x status %d", i+1, keysym, status)
		}
	}
	if backend.lookupCalls != 1 {
		t.Fatalf("expected a single backend lookup, got %d", backend.lookupCalls)
	}
	if s.Buffered() != 0 {
		t.Fatalf("expected drained buffer, got %d bytes", s.Buffered())
	}

	// Buffer empty again: the next call goes back through.
	if n := s.LookupString(1, &trigger, dst, nil, nil); n != 0 {
		t.Fatalf("expected 0 from empty backend, got %d", n)
	}
	if backend.lookupCalls != 2 {
		t.Fatalf("expected second backend lookup, got %d", backend.lookupCalls)
	}
}

func TestLookupPanicsOnTinyDestination(t *testing.T) {
	s := newTestShim(t, &fakeBackend{})
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for destination under 4 bytes")
		}
	}()
	trigger := keyPressEvent(38)
	s.LookupString(1, &trigger, make([]byte, 3), nil, nil)
}

func TestOracleConsistencyWhileDraining(t *testing.T) {
	backend := &fakeBackend{commits: [][]byte{[]byte("ab")}}
	s := newTestShim(t, backend)

	if s.Pending(1) {
		t.Fatalf("expected no pending input before lookup")
	}
	if got := s.EventsQueued(1, xlib.QueuedAfterFlush); got != 0 {
		t.Fatalf("expected 0 queued, got %d", got)
	}

	trigger := keyPressEvent(30)
	dst := make([]byte, 8)
	if n := s.LookupString(1, &trigger, dst, nil, nil); n != 1 {
		t.Fatalf("expected 1 byte, got %d", n)
	}

	// One character left behind: every oracle must agree.
	if !s.Pending(1) {
		t.Fatalf("expected pending input while buffered")
	}
	if got := s.EventsQueued(1, xlib.QueuedAfterFlush); got != 1 {
		t.Fatalf("expected queue inflated by one, got %d", got)
	}
	synthetic := keyPressEvent(xlib.None)
	if s.FilterEvent(&synthetic, 7) {
		t.Fatalf("expected synthetic event to pass the filter while draining")
	}

	if n := s.LookupString(1, &trigger, dst, nil, nil); n != 1 {
		t.Fatalf("expected final byte, got %d", n)
	}
	if s.Pending(1) {
		t.Fatalf("expected no pending input after drain")
	}
	if got := s.EventsQueued(1, xlib.QueuedAfterFlush); got != 0 {
		t.Fatalf("expected genuine queue depth after drain, got %d", got)
	}
	// With the buffer empty the synthetic marker no longer bypasses the
	// backend's filter decision.
	s.FilterEvent(&synthetic, 7)
	if backend.filterCalls == 0 {
		t.Fatalf("expected filter delegation once drained")
	}
}

func TestFilterDelegatesForGenuineEventsWhileDraining(t *testing.T) {
	backend := &fakeBackend{commits: [][]byte{[]byte("xy")}}
	s := newTestShim(t, backend)

	trigger := keyPressEvent(30)
	dst := make([]byte, 8)
	s.LookupString(1, &trigger, dst, nil, nil)

	genuine := keyPressEvent(30)
	s.FilterEvent(&genuine, 7)
	if backend.filterCalls != 1 {
		t.Fatalf("expected genuine key press delegated, got %d calls", backend.filterCalls)
	}
}

func TestNextEventFabricatesFromSnapshot(t *testing.T) {
	real := keyPressEvent(54)
	backend := &fakeBackend{
		commits: [][]byte{[]byte("한글")},
		events:  []xlib.XEvent{real},
	}
	s := newTestShim(t, backend)

	var ev xlib.XEvent
	if status := s.NextEvent(1, &ev); status != 0 {
		t.Fatalf("expected status 0, got %d", status)
	}
	if ev.Key().Keycode != 54 {
		t.Fatalf("expected genuine event forwarded, got keycode %d", ev.Key().Keycode)
	}

	dst := make([]byte, 8)
	if n := s.LookupString(1, &ev, dst, nil, nil); n != 3 {
		t.Fatalf("expected 3-byte syllable, got %d", n)
	}

	// One syllable still buffered: the next event must be synthetic,
	// cloned from the snapshot with the no-key marker.
	var synth xlib.XEvent
	if status := s.NextEvent(1, &synth); status != 0 {
		t.Fatalf("expected synthetic status 0, got %d", status)
	}
	if synth.Type() != xlib.KeyPress {
		t.Fatalf("expected KeyPress, got %d", synth.Type())
	}
	if synth.Key().Keycode != xlib.None {
		t.Fatalf("expected keycode None, got %d", synth.Key().Keycode)
	}
	if synth.Key().Window != 7 || synth.Key().Serial != 42 {
		t.Fatalf("expected snapshot metadata reused, got window %d serial %d", synth.Key().Window, synth.Key().Serial)
	}
	if backend.nextCalls != 1 {
		t.Fatalf("expected backend untouched while draining, got %d calls", backend.nextCalls)
	}
	if s.SyntheticEvents() != 1 {
		t.Fatalf("expected 1 synthetic event, got %d", s.SyntheticEvents())
	}

	if n := s.LookupString(1, &synth, dst, nil, nil); n != 3 {
		t.Fatalf("expected final syllable, got %d", n)
	}
	// Drained: back to the live queue.
	var after xlib.XEvent
	s.NextEvent(1, &after)
	if backend.nextCalls != 2 {
		t.Fatalf("expected delegation after drain, got %d calls", backend.nextCalls)
	}
}

// The scenario from the design notes: a five-character commit produces five
// single-character lookups, four synthetic key presses in between, and a
// pending flag that drops exactly when the last character leaves.
func TestEndToEndHello(t *testing.T) {
	real := keyPressEvent(43)
	backend := &fakeBackend{
		commits: [][]byte{[]byte("héllo")},
		events:  []xlib.XEvent{real},
	}
	s := newTestShim(t, backend)

	var ev xlib.XEvent
	s.NextEvent(1, &ev)

	dst := make([]byte, 16)
	var delivered []string
	for i := 0; i < 5; i++ {
		n := s.LookupString(1, &ev, dst, nil, nil)
		delivered = append(delivered, string(dst[:n]))

		pending := s.Pending(1)
		if i < 4 {
			if !pending {
				t.Fatalf("call %d: expected pending while characters remain", i+1)
			}
			s.NextEvent(1, &ev)
			if ev.Key().Keycode != xlib.None {
				t.Fatalf("call %d: expected synthetic event", i+1)
			}
		} else if pending {
			t.Fatalf("expected pending to clear after final character")
		}
	}

	want := []string{"h", "é", "l", "l", "o"}
	for i := range want {
		if delivered[i] != want[i] {
			t.Fatalf("delivery %d: expected %q, got %q", i+1, want[i], delivered[i])
		}
	}
	if s.SyntheticEvents() != 4 {
		t.Fatalf("expected 4 synthetic events, got %d", s.SyntheticEvents())
	}
}

func TestNextEventWithoutTemplateStillDrains(t *testing.T) {
	backend := &fakeBackend{commits: [][]byte{[]byte("ab")}}
	s := newTestShim(t, backend)

	trigger := keyPressEvent(30)
	dst := make([]byte, 8)
	s.LookupString(1, &trigger, dst, nil, nil)

	var ev xlib.XEvent
	if status := s.NextEvent(1, &ev); status != 0 {
		t.Fatalf("expected status 0, got %d", status)
	}
	if ev.Type() != xlib.KeyPress || ev.Key().Keycode != xlib.None {
		t.Fatalf("expected synthetic key press from zero template")
	}
}

func TestMalformedLeadByteDelivered(t *testing.T) {
	backend := &fakeBackend{commits: [][]byte{{0x80, 'z'}}}
	s := newTestShim(t, backend)

	trigger := keyPressEvent(30)
	dst := make([]byte, 8)
	if n := s.LookupString(1, &trigger, dst, nil, nil); n != 1 || dst[0] != '?' {
		t.Fatalf("expected placeholder for corrupt fragment, got %d %q", n, dst[:n])
	}
	if n := s.LookupString(1, &trigger, dst, nil, nil); n != 1 || dst[0] != 'z' {
		t.Fatalf("expected following byte intact, got %d %q", n, dst[:n])
	}
}
