package main

import (
	"fmt"
	"os"

	"github.com/eiannone/keyboard"

	"imeshim/internal/cli"
	"imeshim/internal/compose"
	"imeshim/internal/config"
	"imeshim/internal/logging"
	"imeshim/internal/shim"
	"imeshim/internal/textbuf"
	"imeshim/internal/xlib"
)

// The demo has no real display; any non-zero handles satisfy the contracts.
const (
	demoDisplay = xlib.Display(1)
	demoContext = xlib.IC(1)
	demoWindow  = xlib.Window(1)
	demoKeycode = 36
)

// simIME plays the part of the real input-method client library: each
// commit arrives as one multi-character lookup result, triggered by one key
// press event, exactly the behavior that breaks single-character consumers.
type simIME struct {
	events  []xlib.XEvent
	commits [][]byte
}

var _ shim.Backend = (*simIME)(nil)

func (s *simIME) Commit(text string) {
	var ev xlib.XEvent
	key := ev.Key()
	key.Type = xlib.KeyPress
	key.Keycode = demoKeycode
	key.Window = demoWindow
	key.Display = demoDisplay
	s.events = append(s.events, ev)
	s.commits = append(s.commits, []byte(text))
}

func (s *simIME) LookupString(ic xlib.IC, event *xlib.XEvent, dst []byte, keysym *xlib.KeySym, status *xlib.Status) int {
	if len(s.commits) == 0 {
		return 0
	}
	commit := s.commits[0]
	s.commits = s.commits[1:]
	n := copy(dst, commit)
	if keysym != nil {
		*keysym = 0
	}
	if status != nil {
		*status = xlib.XLookupChars
	}
	return n
}

func (s *simIME) Pending(display xlib.Display) bool {
	return len(s.events) > 0
}

func (s *simIME) EventsQueued(display xlib.Display, mode int32) int32 {
	return int32(len(s.events))
}

func (s *simIME) FilterEvent(event *xlib.XEvent, window xlib.Window) bool {
	return false
}

func (s *simIME) NextEvent(display xlib.Display, event *xlib.XEvent) int32 {
	if len(s.events) == 0 {
		return 0
	}
	*event = s.events[0]
	s.events = s.events[1:]
	return 0
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "imeshim-demo: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts, err := cli.Parse(os.Args)
	if err != nil {
		return err
	}
	if opts.ShowHelp {
		fmt.Println(cli.DemoUsage())
		return nil
	}

	cfg, err := config.Resolve(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Capacity > 0 {
		cfg.BufferCapacity = opts.Capacity
	}
	if opts.Policy != "" {
		policy, ok := textbuf.ParsePolicy(opts.Policy)
		if !ok {
			return fmt.Errorf("invalid overflow policy %q", opts.Policy)
		}
		cfg.OverflowPolicy = policy
	}
	level := logging.ParseLevel(cfg.LogLevel)
	if opts.Verbose {
		level = logging.ParseLevel("debug")
	}
	log := logging.New(level, os.Stderr)

	composer, err := compose.New(opts.LayoutName)
	if err != nil {
		return err
	}

	ime := &simIME{}
	buf := textbuf.New(cfg.BufferCapacity, cfg.OverflowPolicy, logging.Component(log, "textbuf"))
	s := shim.New(ime, buf, logging.Component(log, "shim"))

	if err := keyboard.Open(); err != nil {
		return fmt.Errorf("open keyboard: %w", err)
	}
	defer keyboard.Close()

	fmt.Println("imeshim-demo: type to compose, Enter commits, Esc quits")
	for {
		r, key, err := keyboard.GetSingleKey()
		if err != nil {
			return err
		}
		switch key {
		case keyboard.KeyEsc, keyboard.KeyCtrlC:
			fmt.Println()
			return nil
		case keyboard.KeyEnter:
			text := composer.Commit()
			if text == "" {
				continue
			}
			ime.Commit(text)
			drain(s)
		case keyboard.KeyBackspace:
			composer.Backspace()
			fmt.Printf("\rpreedit: %-40s", composer.Preedit())
		case keyboard.KeySpace:
			composer.Literal(' ')
			fmt.Printf("\rpreedit: %-40s", composer.Preedit())
		case keyboard.KeyRune:
			if !composer.Key(r) {
				composer.Literal(r)
			}
			fmt.Printf("\rpreedit: %-40s", composer.Preedit())
		}
	}
}

// drain runs the consumer side of the protocol: poll, fetch one event,
// filter it, and look up composed text, one character per cycle, until the
// shim stops claiming pending input.
func drain(s *shim.Shim) {
	fmt.Println()
	dst := make([]byte, 64)
	cycle := 0
	for {
		var ev xlib.XEvent
		s.NextEvent(demoDisplay, &ev)
		if s.FilterEvent(&ev, demoWindow) {
			continue
		}
		if ev.Type() != xlib.KeyPress {
			continue
		}
		cycle++
		var keysym xlib.KeySym
		var status xlib.Status
		n := s.LookupString(demoContext, &ev, dst, &keysym, &status)
		kind := "genuine"
		if ev.Key().Keycode == xlib.None {
			kind = "synthetic"
		}
		fmt.Printf("cycle %d: %-9s event, lookup %q (%d bytes), pending=%v queued=%d\n",
			cycle, kind, string(dst[:n]), n, s.Pending(demoDisplay), s.EventsQueued(demoDisplay, xlib.QueuedAfterFlush))
		if !s.Pending(demoDisplay) {
			break
		}
	}
	fmt.Printf("drained in %d cycles, %d synthetic events so far\n", cycle, s.SyntheticEvents())
}
