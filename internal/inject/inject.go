// Package inject fakes keyboard input on an X server so the probe binary
// can exercise the interception layer end to end without a human at the
// keyboard. It borrows an unused keycode, temporarily maps the wanted
// keysym onto it, and taps it through the XTEST extension.
package inject

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
)

const (
	keysymReturn = 0xff0d
	keysymTab    = 0xff09
)

type Injector struct {
	conn  *xgb.Conn
	spare xproto.Keycode
	width int
	saved []xproto.Keysym
}

func New(display string) (*Injector, error) {
	if display == "" {
		display = os.Getenv("DISPLAY")
	}
	if display == "" {
		return nil, fmt.Errorf("inject: DISPLAY not set")
	}
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("inject: connect: %w", err)
	}
	if err := xtest.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("inject: xtest unavailable: %w", err)
	}

	inj := &Injector{conn: conn}
	if err := inj.claimSpareKeycode(); err != nil {
		conn.Close()
		return nil, err
	}
	return inj, nil
}

// claimSpareKeycode finds a keycode with no keysyms bound, falling back to
// the highest one, and remembers its original mapping for Close.
func (inj *Injector) claimSpareKeycode() error {
	setup := xproto.Setup(inj.conn)
	min := setup.MinKeycode
	max := setup.MaxKeycode
	count := byte(max - min + 1)

	reply, err := xproto.GetKeyboardMapping(inj.conn, min, count).Reply()
	if err != nil {
		return fmt.Errorf("inject: keyboard mapping: %w", err)
	}
	width := int(reply.KeysymsPerKeycode)
	if width <= 0 {
		return fmt.Errorf("inject: keyboard mapping reports zero width")
	}

	chosen := max
	for i := 0; i < int(count); i++ {
		bound := false
		for _, sym := range reply.Keysyms[i*width : (i+1)*width] {
			if sym != 0 {
				bound = true
				break
			}
		}
		if !bound {
			chosen = min + xproto.Keycode(i)
			break
		}
	}

	offset := int(chosen-min) * width
	inj.spare = chosen
	inj.width = width
	inj.saved = append([]xproto.Keysym(nil), reply.Keysyms[offset:offset+width]...)
	return nil
}

func (inj *Injector) bind(sym xproto.Keysym) error {
	keysyms := make([]xproto.Keysym, inj.width)
	keysyms[0] = sym
	return xproto.ChangeKeyboardMappingChecked(inj.conn, byte(inj.width), inj.spare, 1, keysyms).Check()
}

// Tap presses and releases the given keycode as if a real key moved.
func (inj *Injector) Tap(keycode xproto.Keycode) error {
	if err := xtest.FakeInputChecked(inj.conn, xproto.KeyPress, byte(keycode), 0, xproto.Window(0), 0, 0, 0).Check(); err != nil {
		return err
	}
	if err := xtest.FakeInputChecked(inj.conn, xproto.KeyRelease, byte(keycode), 0, xproto.Window(0), 0, 0, 0).Check(); err != nil {
		return err
	}
	inj.conn.Sync()
	return nil
}

// TypeRune maps r onto the spare keycode and taps it.
func (inj *Injector) TypeRune(r rune) error {
	var sym xproto.Keysym
	switch r {
	case '\n':
		sym = keysymReturn
	case '\t':
		sym = keysymTab
	case '\r':
		return nil
	default:
		// Direct Unicode keysym encoding.
		sym = xproto.Keysym(0x01000000 | uint32(r))
	}
	if err := inj.bind(sym); err != nil {
		return err
	}
	return inj.Tap(inj.spare)
}

func (inj *Injector) TypeText(text string) error {
	for len(text) > 0 {
		r, size := utf8.DecodeRuneInString(text)
		if r == utf8.RuneError && size == 1 {
			return fmt.Errorf("inject: invalid utf-8 in %q", text)
		}
		if err := inj.TypeRune(r); err != nil {
			return err
		}
		text = text[size:]
	}
	return nil
}

// Close restores the borrowed keycode's original mapping.
func (inj *Injector) Close() error {
	defer inj.conn.Close()
	err := xproto.ChangeKeyboardMappingChecked(inj.conn, byte(inj.width), inj.spare, 1, inj.saved).Check()
	inj.conn.Sync()
	return err
}
