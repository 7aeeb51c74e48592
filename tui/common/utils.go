package common

import (
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
)

// SanitizeForTerminal strips escape sequences and control characters from
// store-provided text. Newlines and tabs survive.
func SanitizeForTerminal(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r < 0x20 || r == 0x7f:
			return -1
		case r >= 0x80 && r < 0xa0:
			return -1
		}
		return r
	}, s)
}

// FormatTimestamp renders a post time in the local zone.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format("Jan 02, 2006 15:04")
}
