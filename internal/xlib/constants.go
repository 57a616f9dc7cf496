package xlib

// Event types from X.h. The shim only fabricates KeyPress events but the
// probe loop needs to classify everything else it forwards.
const (
	KeyPress        = 2
	KeyRelease      = 3
	ButtonPress     = 4
	ButtonRelease   = 5
	MotionNotify    = 6
	EnterNotify     = 7
	LeaveNotify     = 8
	FocusIn         = 9
	FocusOut        = 10
	Expose          = 12
	DestroyNotify   = 17
	UnmapNotify     = 18
	MapNotify       = 19
	ConfigureNotify = 22
	ClientMessage   = 33
	MappingNotify   = 34
)

// None is the universal "no resource" value. A KeyPress carrying keycode None
// marks an event fabricated by this layer.
const None = 0

// Modes accepted by XEventsQueued.
const (
	QueuedAlready      = 0
	QueuedAfterReading = 1
	QueuedAfterFlush   = 2
)

// Input style bits from Xlib.h. PreeditNothing|StatusNothing is the style the
// interception layer forces; PreeditNone|StatusNone is the one that disables
// the input method entirely.
const (
	XIMPreeditArea      = 0x0001
	XIMPreeditCallbacks = 0x0002
	XIMPreeditPosition  = 0x0004
	XIMPreeditNothing   = 0x0008
	XIMPreeditNone      = 0x0010
	XIMStatusArea       = 0x0100
	XIMStatusCallbacks  = 0x0200
	XIMStatusNothing    = 0x0400
	XIMStatusNone       = 0x0800
)

// Input context attribute names (the XN* string constants).
const (
	XNInputStyle        = "inputStyle"
	XNClientWindow      = "clientWindow"
	XNFocusWindow       = "focusWindow"
	XNPreeditAttributes = "preeditAttributes"
)

// Status values reported by Xutf8LookupString.
const (
	XBufferOverflow = -1
	XLookupNone     = 1
	XLookupChars    = 2
	XLookupKeySym   = 3
	XLookupBoth     = 4
)

// Event masks for XSelectInput.
const (
	KeyPressMask        = 1 << 0
	KeyReleaseMask      = 1 << 1
	ExposureMask        = 1 << 15
	StructureNotifyMask = 1 << 17
	FocusChangeMask     = 1 << 21
)

// LCAll is glibc's LC_ALL category for setlocale.
const LCAll = 6
