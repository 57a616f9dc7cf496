// Package realx binds the genuine windowing-system client library through
// purego. It is the call-through side of the interception layer: every
// wrapped entry point ends up here, and the probe binary uses the extra
// display calls to stand up a window of its own.
//
// Symbols resolve lazily and a symbol that cannot be resolved is fatal at
// first use; an interception layer that cannot call through has no degraded
// mode worth running.
package realx

import (
	"fmt"
	"log/slog"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"

	"imeshim/internal/shim"
	"imeshim/internal/xim"
	"imeshim/internal/xlib"
)

const DefaultLibrary = "libX11.so.6"

const libcLibrary = "libc.so.6"

type Funcs struct {
	x11  uintptr
	libc uintptr
	syms map[string]uintptr
	log  *slog.Logger
}

var (
	_ shim.Backend   = (*Funcs)(nil)
	_ xim.LocaleHost = (*Funcs)(nil)
)

// Open loads the real library (and the C runtime for setlocale). library ""
// means the default soname.
func Open(library string, log *slog.Logger) (*Funcs, error) {
	if library == "" {
		library = DefaultLibrary
	}
	if log == nil {
		log = slog.Default()
	}
	x11, err := purego.Dlopen(library, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("realx: load %s: %w", library, err)
	}
	libc, err := purego.Dlopen(libcLibrary, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("realx: load %s: %w", libcLibrary, err)
	}
	return &Funcs{x11: x11, libc: libc, syms: make(map[string]uintptr), log: log}, nil
}

// Handle exposes the loaded library for use as a fallback resolution scope.
func (f *Funcs) Handle() uintptr { return f.x11 }

// Resolve looks a name up in the real library, for use as the redirect
// table's fallback resolver. Returns 0 when the name is unknown.
func (f *Funcs) Resolve(handle uintptr, name string) uintptr {
	if handle == 0 {
		handle = f.x11
	}
	addr, err := purego.Dlsym(handle, name)
	if err != nil {
		return 0
	}
	return addr
}

func (f *Funcs) addr(name string) uintptr {
	if addr, ok := f.syms[name]; ok {
		return addr
	}
	addr, err := purego.Dlsym(f.x11, name)
	if err != nil || addr == 0 {
		addr, err = purego.Dlsym(f.libc, name)
	}
	if err != nil || addr == 0 {
		f.log.Error("real symbol unresolvable", "symbol", name, "error", err)
		panic(fmt.Sprintf("realx: cannot resolve %s", name))
	}
	f.syms[name] = addr
	return addr
}

func cbytes(s string) []byte {
	return append([]byte(s), 0)
}

// LookupString calls the real Xutf8LookupString with the destination slice
// standing in for the buffer/capacity pair.
func (f *Funcs) LookupString(ic xlib.IC, event *xlib.XEvent, dst []byte, keysym *xlib.KeySym, status *xlib.Status) int {
	var buf uintptr
	if len(dst) > 0 {
		buf = uintptr(unsafe.Pointer(&dst[0]))
	}
	r1, _, _ := purego.SyscallN(f.addr("Xutf8LookupString"),
		uintptr(ic),
		uintptr(unsafe.Pointer(event)),
		buf,
		uintptr(len(dst)),
		uintptr(unsafe.Pointer(keysym)),
		uintptr(unsafe.Pointer(status)),
	)
	runtime.KeepAlive(dst)
	return int(int32(r1))
}

func (f *Funcs) Pending(display xlib.Display) bool {
	r1, _, _ := purego.SyscallN(f.addr("XPending"), uintptr(display))
	return int32(r1) > 0
}

func (f *Funcs) EventsQueued(display xlib.Display, mode int32) int32 {
	r1, _, _ := purego.SyscallN(f.addr("XEventsQueued"), uintptr(display), uintptr(mode))
	return int32(r1)
}

func (f *Funcs) FilterEvent(event *xlib.XEvent, window xlib.Window) bool {
	r1, _, _ := purego.SyscallN(f.addr("XFilterEvent"),
		uintptr(unsafe.Pointer(event)), uintptr(window))
	return int32(r1) != 0
}

func (f *Funcs) NextEvent(display xlib.Display, event *xlib.XEvent) int32 {
	r1, _, _ := purego.SyscallN(f.addr("XNextEvent"),
		uintptr(display), uintptr(unsafe.Pointer(event)))
	return int32(r1)
}

func (f *Funcs) OpenIM(display xlib.Display, db, resName, resClass uintptr) xlib.IM {
	r1, _, _ := purego.SyscallN(f.addr("XOpenIM"), uintptr(display), db, resName, resClass)
	return xlib.IM(r1)
}

// CreateIC calls the real variadic XCreateIC with the fixed, rewritten
// argument list.
func (f *Funcs) CreateIC(im xlib.IM, cfg xim.ICConfig) xlib.IC {
	call := []uintptr{uintptr(im)}
	var pinned [][]byte
	for _, arg := range cfg.Args() {
		name := cbytes(arg.Name)
		pinned = append(pinned, name)
		call = append(call, uintptr(unsafe.Pointer(&name[0])), arg.Value)
	}
	call = append(call, 0)
	r1, _, _ := purego.SyscallN(f.addr("XCreateIC"), call...)
	runtime.KeepAlive(pinned)
	return xlib.IC(r1)
}

// SetLocale wraps libc setlocale.
func (f *Funcs) SetLocale(category int, locale string) bool {
	loc := cbytes(locale)
	r1, _, _ := purego.SyscallN(f.addr("setlocale"),
		uintptr(category), uintptr(unsafe.Pointer(&loc[0])))
	runtime.KeepAlive(loc)
	return r1 != 0
}

func (f *Funcs) SupportsLocale() bool {
	r1, _, _ := purego.SyscallN(f.addr("XSupportsLocale"))
	return int32(r1) != 0
}

func (f *Funcs) SetLocaleModifiers(modifiers string) bool {
	mod := cbytes(modifiers)
	r1, _, _ := purego.SyscallN(f.addr("XSetLocaleModifiers"),
		uintptr(unsafe.Pointer(&mod[0])))
	runtime.KeepAlive(mod)
	return r1 != 0
}

// Display plumbing for the probe binary.

func (f *Funcs) OpenDisplay(name string) xlib.Display {
	var ptr uintptr
	if name != "" {
		b := cbytes(name)
		ptr = uintptr(unsafe.Pointer(&b[0]))
		defer runtime.KeepAlive(b)
	}
	r1, _, _ := purego.SyscallN(f.addr("XOpenDisplay"), ptr)
	return xlib.Display(r1)
}

func (f *Funcs) CloseDisplay(display xlib.Display) {
	purego.SyscallN(f.addr("XCloseDisplay"), uintptr(display))
}

func (f *Funcs) DefaultRootWindow(display xlib.Display) xlib.Window {
	r1, _, _ := purego.SyscallN(f.addr("XDefaultRootWindow"), uintptr(display))
	return xlib.Window(r1)
}

func (f *Funcs) CreateSimpleWindow(display xlib.Display, parent xlib.Window, x, y, width, height int) xlib.Window {
	r1, _, _ := purego.SyscallN(f.addr("XCreateSimpleWindow"),
		uintptr(display), uintptr(parent),
		uintptr(x), uintptr(y), uintptr(width), uintptr(height),
		0, 0, 0)
	return xlib.Window(r1)
}

func (f *Funcs) SelectInput(display xlib.Display, window xlib.Window, mask int64) {
	purego.SyscallN(f.addr("XSelectInput"), uintptr(display), uintptr(window), uintptr(mask))
}

func (f *Funcs) MapWindow(display xlib.Display, window xlib.Window) {
	purego.SyscallN(f.addr("XMapWindow"), uintptr(display), uintptr(window))
}

func (f *Funcs) Flush(display xlib.Display) {
	purego.SyscallN(f.addr("XFlush"), uintptr(display))
}

func (f *Funcs) SetICFocus(ic xlib.IC) {
	purego.SyscallN(f.addr("XSetICFocus"), uintptr(ic))
}
