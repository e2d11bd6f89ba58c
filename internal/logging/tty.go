package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether w is a terminal. Any writer exposing Fd() is checked,
// which covers *os.File and most wrappers around it.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// IsInteractive reports whether r is a terminal, so prompts can choose
// between a TUI and a plain line reader.
func IsInteractive(r io.Reader) bool {
	if f, ok := r.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// NoColor reports whether the user opted out of ANSI colors
// (https://no-color.org) or runs a dumb terminal.
func NoColor() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	return os.Getenv("TERM") == "dumb"
}

// SupportsColor reports whether w is a terminal that should get colors.
func SupportsColor(w io.Writer) bool {
	return supportsColor(w, IsTTY(w))
}

func supportsColor(_ io.Writer, isTTY bool) bool {
	if NoColor() {
		return false
	}
	return isTTY
}
