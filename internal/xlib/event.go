// Package xlib models the slice of the Xlib ABI the interception layer
// traffics in. The struct layouts match LP64 Linux, the only environment the
// intercepted binaries run in; they are views over memory owned by the
// windowing system and must never be reordered or resized.
package xlib

import "unsafe"

type (
	Display uintptr
	IM      uintptr
	IC      uintptr
	Window  uint64
	KeySym  uint64
	Status  int32
	Time    uint64
)

// XEventWords is the size of the XEvent union in longs (24 on LP64).
const XEventWords = 24

// XEvent is the 192-byte event union. Declared as longs so a *XEvent is
// always suitably aligned for the member views below.
type XEvent [XEventWords]uint64

// XKeyEvent mirrors the xkey member of the union.
type XKeyEvent struct {
	Type       int32
	_          int32
	Serial     uint64
	SendEvent  int32
	_          int32
	Display    Display
	Window     Window
	Root       Window
	Subwindow  Window
	Time       Time
	X          int32
	Y          int32
	XRoot      int32
	YRoot      int32
	State      uint32
	Keycode    uint32
	SameScreen int32
	_          int32
}

func (e *XEvent) Type() int32 {
	return *(*int32)(unsafe.Pointer(e))
}

func (e *XEvent) SetType(t int32) {
	*(*int32)(unsafe.Pointer(e)) = t
}

// Key views the event as a key event. Only meaningful when Type() is
// KeyPress or KeyRelease.
func (e *XEvent) Key() *XKeyEvent {
	return (*XKeyEvent)(unsafe.Pointer(e))
}

func EventSize() int {
	return int(unsafe.Sizeof(XEvent{}))
}

func (e *XEvent) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(e)), EventSize())
}
