package output

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// ColorMode determines when to use colored output.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // Auto-detect based on TTY
	ColorAlways                  // Always use colors
	ColorNever                   // Never use colors
)

// ParseColorMode converts a string to a ColorMode, defaulting to auto.
func ParseColorMode(s string) ColorMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "always":
		return ColorAlways
	case "never":
		return ColorNever
	default:
		return ColorAuto
	}
}

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// shouldColorize determines if output should be colorized based on mode and TTY detection.
func shouldColorize(mode ColorMode, w interface{}) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	case ColorAuto:
		if f, ok := w.(*os.File); ok {
			return isTerminal(f)
		}
		return false
	}
	return false
}

func label(text string, color bool) string {
	if !color {
		return text
	}
	return colorGray + text + colorReset
}

func emphasize(text string, color bool) string {
	if !color {
		return text
	}
	return colorBold + colorGreen + text + colorReset
}

func warn(text string, color bool) string {
	if !color {
		return text
	}
	return colorYellow + text + colorReset
}

// colorizeEntry colors a config line: red for a missing required key,
// gray for an optional unset key.
func colorizeEntry(e ConfigEntry, line string, color bool) string {
	if !color {
		return line
	}
	switch {
	case !e.Set && e.Required:
		return colorRed + line + colorReset
	case !e.Set:
		return colorGray + line + colorReset
	default:
		return line
	}
}
