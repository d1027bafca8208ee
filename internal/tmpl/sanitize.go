package tmpl

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// Sanitize prepares caller text for the sink: invalid UTF-8 and control
// characters (except tab) become U+FFFD, the result is NFC-normalized, and
// when maxWidth > 0 it is cut to that many terminal cells.
func Sanitize(s string, maxWidth int) string {
	s = strings.ToValidUTF8(s, "�")
	s = strings.Map(func(r rune) rune {
		if r != '\t' && unicode.IsControl(r) {
			return unicode.ReplacementChar
		}
		return r
	}, s)
	s = norm.NFC.String(s)
	return Truncate(s, maxWidth)
}

// Truncate shortens s to maxWidth display cells, ending with Ellipsis.
// maxWidth <= 0 disables truncation.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 || runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, Ellipsis)
}

// Collapse turns a multi-line source expression into one diagnostic line:
// each line break together with the indentation around it becomes a single
// space and blank lines are dropped. Whitespace within a line, string
// literals included, is kept as written.
func Collapse(s string) string {
	lines := strings.Split(s, "\n")
	parts := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}
