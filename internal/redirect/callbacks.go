package redirect

import (
	"log/slog"
	"unsafe"

	"github.com/ebitengine/purego"

	"imeshim/internal/shim"
	"imeshim/internal/xim"
	"imeshim/internal/xlib"
)

// maxICArgPairs bounds how many name/value pairs the XCreateIC wrapper can
// see. The callback ABI fixes the argument count, so a caller passing more
// pairs than this has the excess silently ignored; every consumer observed
// so far passes at most four.
const maxICArgPairs = 7

// Initializers is the call-through surface the two initializer wrappers
// need: the locale environment plus the real open/create functions with the
// rewritten, fixed argument list.
type Initializers interface {
	xim.LocaleHost
	OpenIM(display xlib.Display, db, resName, resClass uintptr) xlib.IM
	CreateIC(im xlib.IM, cfg xim.ICConfig) xlib.IC
}

// NewAddresses materializes C-callable entry points for the replacement
// implementations, bridging raw pointer arguments into the core types.
func NewAddresses(s *shim.Shim, init Initializers, log *slog.Logger) Addresses {
	if log == nil {
		log = slog.Default()
	}

	lookup := func(ic, event, buffer, bytesBuffer, keysymReturn, statusReturn uintptr) uintptr {
		var dst []byte
		if buffer != 0 && int32(bytesBuffer) > 0 {
			dst = unsafe.Slice((*byte)(unsafe.Pointer(buffer)), int(int32(bytesBuffer)))
		}
		n := s.LookupString(
			xlib.IC(ic),
			(*xlib.XEvent)(unsafe.Pointer(event)),
			dst,
			(*xlib.KeySym)(unsafe.Pointer(keysymReturn)),
			(*xlib.Status)(unsafe.Pointer(statusReturn)),
		)
		return uintptr(n)
	}

	pending := func(display uintptr) uintptr {
		if s.Pending(xlib.Display(display)) {
			return 1
		}
		return 0
	}

	eventsQueued := func(display, mode uintptr) uintptr {
		return uintptr(s.EventsQueued(xlib.Display(display), int32(mode)))
	}

	filterEvent := func(event, window uintptr) uintptr {
		if s.FilterEvent((*xlib.XEvent)(unsafe.Pointer(event)), xlib.Window(window)) {
			return 1
		}
		return 0
	}

	nextEvent := func(display, eventReturn uintptr) uintptr {
		return uintptr(s.NextEvent(xlib.Display(display), (*xlib.XEvent)(unsafe.Pointer(eventReturn))))
	}

	openIM := func(display, db, resName, resClass uintptr) uintptr {
		xim.PrepareLocale(init, log)
		return uintptr(init.OpenIM(xlib.Display(display), db, resName, resClass))
	}

	// The real XCreateIC is variadic; the callback ABI gives us a fixed
	// window of argument slots to read the name/value pairs out of.
	createIC := func(im, a0, a1, a2, a3, a4, a5, a6, a7, a8, a9, a10, a11, a12, a13 uintptr) uintptr {
		slots := [2 * maxICArgPairs]uintptr{a0, a1, a2, a3, a4, a5, a6, a7, a8, a9, a10, a11, a12, a13}
		var args []xim.ICArg
		for i := 0; i+1 < len(slots); i += 2 {
			if slots[i] == 0 {
				break
			}
			args = append(args, xim.ICArg{Name: goString(slots[i]), Value: slots[i+1]})
		}
		cfg := xim.ParseICArgs(args, log)
		return uintptr(init.CreateIC(xlib.IM(im), cfg))
	}

	return Addresses{
		LookupString: purego.NewCallback(lookup),
		Pending:      purego.NewCallback(pending),
		EventsQueued: purego.NewCallback(eventsQueued),
		FilterEvent:  purego.NewCallback(filterEvent),
		NextEvent:    purego.NewCallback(nextEvent),
		OpenIM:       purego.NewCallback(openIM),
		CreateIC:     purego.NewCallback(createIC),
	}
}

// goString copies a NUL-terminated C string.
func goString(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	var out []byte
	for {
		b := *(*byte)(unsafe.Pointer(ptr))
		if b == 0 {
			return string(out)
		}
		out = append(out, b)
		ptr++
	}
}
