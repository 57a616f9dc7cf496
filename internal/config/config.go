package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	ini "github.com/go-ini/ini"

	"imeshim/internal/textbuf"
)

const (
	// EnvConfig points the layer at a config file; there is no command
	// line inside an intercepted process.
	EnvConfig = "IMESHIM_CONFIG"

	defaultFileName = "imeshim.ini"
	defaultLibrary  = "libX11.so.6"
)

type Config struct {
	// BufferCapacity is the character buffer size in bytes.
	BufferCapacity int
	// OverflowPolicy is textbuf's reaction to a commit that does not fit.
	OverflowPolicy textbuf.Policy
	// Library is the shared object the real implementations come from.
	Library string
	// LogLevel names the minimum level emitted ("debug".."error").
	LogLevel string
}

func Default() Config {
	return Config{
		BufferCapacity: textbuf.DefaultCapacity,
		OverflowPolicy: textbuf.PolicyDrop,
		Library:        defaultLibrary,
		LogLevel:       "info",
	}
}

// Load reads an ini file, filling in defaults for anything absent. A missing
// file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: %w", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config: %s is a directory", path)
	}

	file, err := ini.Load(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}

	capacity := file.Section("buffer").Key("capacity").MustString("")
	if capacity != "" {
		parsed, err := strconv.Atoi(capacity)
		if err != nil || parsed <= 0 {
			return cfg, fmt.Errorf("config: invalid buffer capacity %q", capacity)
		}
		cfg.BufferCapacity = parsed
	}

	overflow := file.Section("buffer").Key("overflow").MustString("")
	policy, ok := textbuf.ParsePolicy(overflow)
	if !ok {
		return cfg, fmt.Errorf("config: invalid overflow policy %q (drop, grow)", overflow)
	}
	cfg.OverflowPolicy = policy

	cfg.Library = file.Section("x11").Key("library").MustString(cfg.Library)
	cfg.LogLevel = file.Section("log").Key("level").MustString(cfg.LogLevel)
	return cfg, nil
}

// Resolve finds the effective configuration: an explicit path wins, then the
// environment, then imeshim.ini beside the working directory, then defaults.
func Resolve(explicit string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return Load(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return Default(), nil
	}
	candidate := filepath.Join(cwd, defaultFileName)
	if _, statErr := os.Stat(candidate); statErr == nil {
		return Load(candidate)
	}
	return Default(), nil
}
