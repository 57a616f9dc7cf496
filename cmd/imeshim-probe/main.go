package main

import (
	"fmt"
	"os"
	"runtime"
	"time"
	"unsafe"

	"github.com/ebitengine/purego"

	"imeshim/internal/cli"
	"imeshim/internal/config"
	"imeshim/internal/inject"
	"imeshim/internal/logging"
	"imeshim/internal/realx"
	"imeshim/internal/redirect"
	"imeshim/internal/shim"
	"imeshim/internal/textbuf"
	"imeshim/internal/xlib"
)

const keysymEscape = 0xff1b

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "imeshim-probe: %v\n", err)
		os.Exit(1)
	}
}

func cstr(s string) []byte {
	return append([]byte(s), 0)
}

func ptr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(&b[0]))
}

func run() error {
	opts, err := cli.Parse(os.Args)
	if err != nil {
		return err
	}
	if opts.ShowHelp {
		fmt.Println(cli.ProbeUsage())
		return nil
	}

	cfg, err := config.Resolve(opts.ConfigPath)
	if err != nil {
		return err
	}
	level := logging.ParseLevel(cfg.LogLevel)
	if opts.Verbose {
		level = logging.ParseLevel("debug")
	}
	log := logging.New(level, os.Stderr)

	rx, err := realx.Open(cfg.Library, logging.Component(log, "realx"))
	if err != nil {
		return err
	}

	display := rx.OpenDisplay(opts.Display)
	if display == 0 {
		return fmt.Errorf("cannot open display %q", opts.Display)
	}
	defer rx.CloseDisplay(display)

	root := rx.DefaultRootWindow(display)
	win := rx.CreateSimpleWindow(display, root, 0, 0, 320, 120)
	rx.SelectInput(display, win,
		xlib.KeyPressMask|xlib.KeyReleaseMask|xlib.ExposureMask|xlib.FocusChangeMask|xlib.StructureNotifyMask)
	rx.MapWindow(display, win)
	rx.Flush(display)

	buf := textbuf.New(cfg.BufferCapacity, cfg.OverflowPolicy, logging.Component(log, "textbuf"))
	s := shim.New(rx, buf, logging.Component(log, "shim"))
	addrs := redirect.NewAddresses(s, rx, logging.Component(log, "redirect"))
	table := redirect.NewTable(addrs, rx.Resolve)

	// From here on the probe behaves like an intercepted consumer: every
	// call goes through the table, and an unknown name like XSetICFocus
	// falls through to the genuine symbol.
	call := func(name string, args ...uintptr) uintptr {
		addr := table.Resolve(rx.Handle(), name)
		if addr == 0 {
			panic(fmt.Sprintf("imeshim-probe: no address for %s", name))
		}
		r1, _, _ := purego.SyscallN(addr, args...)
		return r1
	}

	im := call("XOpenIM", uintptr(display), 0, 0, 0)
	if im == 0 {
		return fmt.Errorf("no input method available")
	}

	// Ask for the style a broken consumer would ask for; the rewrite
	// replaces it with the one that keeps the input method alive.
	styleName := cstr(xlib.XNInputStyle)
	clientName := cstr(xlib.XNClientWindow)
	focusName := cstr(xlib.XNFocusWindow)
	ic := call("XCreateIC", im,
		ptr(styleName), xlib.XIMPreeditNone|xlib.XIMStatusNone,
		ptr(clientName), uintptr(win),
		ptr(focusName), uintptr(win),
		0)
	runtime.KeepAlive(styleName)
	runtime.KeepAlive(clientName)
	runtime.KeepAlive(focusName)
	if ic == 0 {
		return fmt.Errorf("cannot create input context")
	}
	call("XSetICFocus", ic)

	if opts.InjectText != "" {
		inj, err := inject.New(opts.Display)
		if err != nil {
			return err
		}
		defer inj.Close()
		// Give the window manager a moment to map and focus the window.
		time.Sleep(300 * time.Millisecond)
		if err := inj.TypeText(opts.InjectText); err != nil {
			return err
		}
	}

	fmt.Println("imeshim-probe: focus the window and type; Escape quits")
	dst := make([]byte, 64)
	for {
		if call("XPending", uintptr(display)) == 0 {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		var ev xlib.XEvent
		call("XNextEvent", uintptr(display), uintptr(unsafe.Pointer(&ev)))
		if call("XFilterEvent", uintptr(unsafe.Pointer(&ev)), uintptr(win)) != 0 {
			continue
		}
		switch ev.Type() {
		case xlib.KeyPress:
			var keysym xlib.KeySym
			var status xlib.Status
			n := int(int32(call("Xutf8LookupString", ic,
				uintptr(unsafe.Pointer(&ev)),
				ptr(dst), uintptr(len(dst)),
				uintptr(unsafe.Pointer(&keysym)),
				uintptr(unsafe.Pointer(&status)))))
			kind := "genuine"
			if ev.Key().Keycode == xlib.None {
				kind = "synthetic"
			}
			queued := int32(call("XEventsQueued", uintptr(display), xlib.QueuedAfterFlush))
			fmt.Printf("%-9s key press: lookup %q (%d bytes), keysym %#x, status %d, queued %d\n",
				kind, string(dst[:n]), n, uint64(keysym), status, queued)
			if keysym == keysymEscape {
				return nil
			}
		case xlib.DestroyNotify:
			return nil
		}
	}
}
