// Package xim rewrites the input-method initializers: the locale environment
// that must be in place before the input method is opened, and the one-shot
// translation of an input-context argument list into the fixed configuration
// the input method actually works with.
package xim

import (
	"log/slog"

	"imeshim/internal/xlib"
)

// ForcedStyle is the input style substituted into every created context.
// PreeditNothing|StatusNothing keeps the input method usable; the None forms
// that consumers often ask for shut it off.
const ForcedStyle = xlib.XIMPreeditNothing | xlib.XIMStatusNothing

// ICArg is one name/value pair from a context-creation argument list. Value
// carries whatever the caller passed: a style word, a window id, or a
// pointer to a nested list.
type ICArg struct {
	Name  string
	Value uintptr
}

// ICConfig is the fixed configuration handed to the real initializer.
type ICConfig struct {
	InputStyle     uintptr
	ClientWindow   xlib.Window
	FocusWindow    xlib.Window
	RequestedStyle uintptr
}

// ParseICArgs reads the heterogeneous argument list once, capturing the
// client and focus windows and discarding everything else. The requested
// input style is retained only for diagnostics; the forced style replaces
// it. Preedit attributes are ignored: the consumer this layer exists for
// cannot handle preedit anyway.
func ParseICArgs(args []ICArg, log *slog.Logger) ICConfig {
	if log == nil {
		log = slog.Default()
	}
	cfg := ICConfig{InputStyle: ForcedStyle}
	for _, arg := range args {
		switch arg.Name {
		case xlib.XNInputStyle:
			cfg.RequestedStyle = arg.Value
			log.Debug("replacing requested input style", "requested", arg.Value, "forced", uintptr(ForcedStyle))
		case xlib.XNClientWindow:
			cfg.ClientWindow = xlib.Window(arg.Value)
		case xlib.XNFocusWindow:
			cfg.FocusWindow = xlib.Window(arg.Value)
		case xlib.XNPreeditAttributes:
			log.Debug("dropping preedit attributes", "value", arg.Value)
		default:
			log.Debug("dropping context argument", "name", arg.Name, "value", arg.Value)
		}
	}
	return cfg
}

// Args renders the fixed configuration back into the list shape the real
// initializer takes. Focus window is only included when the caller supplied
// one.
func (c ICConfig) Args() []ICArg {
	args := []ICArg{
		{Name: xlib.XNInputStyle, Value: c.InputStyle},
		{Name: xlib.XNClientWindow, Value: uintptr(c.ClientWindow)},
	}
	if c.FocusWindow != 0 {
		args = append(args, ICArg{Name: xlib.XNFocusWindow, Value: uintptr(c.FocusWindow)})
	}
	return args
}

// LocaleHost is the slice of the C runtime the locale preparation touches.
type LocaleHost interface {
	SetLocale(category int, locale string) bool
	SupportsLocale() bool
	SetLocaleModifiers(modifiers string) bool
}

// PrepareLocale performs the environment setup the input method needs before
// it is opened: adopt the user's locale, and when the windowing system
// supports it, reset the locale modifiers so the input method advertised in
// the environment gets picked up. Reports whether modifiers were applied.
func PrepareLocale(host LocaleHost, log *slog.Logger) bool {
	if log == nil {
		log = slog.Default()
	}
	if !host.SetLocale(xlib.LCAll, "") {
		log.Warn("setlocale failed, input method may stay unavailable")
		return false
	}
	if !host.SupportsLocale() {
		log.Warn("locale not supported by windowing system")
		return false
	}
	host.SetLocaleModifiers("")
	return true
}
