package cli

import (
	"fmt"
	"strconv"
	"strings"
)

type Options struct {
	ShowHelp   bool
	ConfigPath string
	LayoutName string
	Capacity   int
	Policy     string
	Display    string
	InjectText string
	Verbose    bool
}

func Parse(args []string) (Options, error) {
	opts := Options{}
	for i := 1; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--help" || arg == "-h":
			opts.ShowHelp = true
		case arg == "--verbose" || arg == "-v":
			opts.Verbose = true
		case strings.HasPrefix(arg, "--config"):
			value, next, err := extractValue(arg, i, args)
			if err != nil {
				return Options{}, err
			}
			opts.ConfigPath = value
			i = next
		case strings.HasPrefix(arg, "--layout"):
			value, next, err := extractValue(arg, i, args)
			if err != nil {
				return Options{}, err
			}
			opts.LayoutName = value
			i = next
		case strings.HasPrefix(arg, "--capacity"):
			value, next, err := extractValue(arg, i, args)
			if err != nil {
				return Options{}, err
			}
			parsed, err := strconv.Atoi(value)
			if err != nil || parsed <= 0 {
				return Options{}, fmt.Errorf("invalid capacity %q", value)
			}
			opts.Capacity = parsed
			i = next
		case strings.HasPrefix(arg, "--policy"):
			value, next, err := extractValue(arg, i, args)
			if err != nil {
				return Options{}, err
			}
			opts.Policy = value
			i = next
		case strings.HasPrefix(arg, "--display"):
			value, next, err := extractValue(arg, i, args)
			if err != nil {
				return Options{}, err
			}
			opts.Display = value
			i = next
		case strings.HasPrefix(arg, "--inject"):
			value, next, err := extractValue(arg, i, args)
			if err != nil {
				return Options{}, err
			}
			opts.InjectText = value
			i = next
		default:
			return Options{}, fmt.Errorf("unknown option: %s", arg)
		}
	}
	return opts, nil
}

func extractValue(current string, index int, args []string) (string, int, error) {
	if eq := strings.IndexRune(current, '='); eq >= 0 {
		return current[eq+1:], index, nil
	}
	if index+1 >= len(args) {
		return "", index, fmt.Errorf("option %s requires a value", current)
	}
	return args[index+1], index + 1, nil
}

func DemoUsage() string {
	return `imeshim-demo - interactive replay of multi-character lookups
Usage: imeshim-demo [options]

Type latin keys to compose Hangul; Enter commits the composition through a
simulated input method, and a consumer-style polling loop drains it one
character per cycle. Esc or Ctrl-C quits.

Options:
  --config PATH     Path to imeshim.ini (default: $IMESHIM_CONFIG, ./imeshim.ini)
  --layout NAME     Composition layout (default: dubeolsik)
  --capacity N      Override the character buffer capacity in bytes
  --policy NAME     Overflow policy: drop or grow
  -v, --verbose     Debug logging
  -h, --help        Show this help message`
}

func ProbeUsage() string {
	return `imeshim-probe - exercise the interception layer against a live X server
Usage: imeshim-probe [options]

Opens a window and an input context with the rewritten configuration, then
pumps events through the shim. With --inject, fakes the given text as key
input via XTEST first.

Options:
  --config PATH     Path to imeshim.ini (default: $IMESHIM_CONFIG, ./imeshim.ini)
  --display NAME    X display (default: $DISPLAY)
  --inject TEXT     Fake TEXT as keyboard input once the window is up
  -v, --verbose     Debug logging
  -h, --help        Show this help message`
}
