package text

import (
	"strings"
	"unicode"
)

// Ellipsis is the default truncation marker.
const Ellipsis = "…"

// Formatter shortens labels to a pixel budget. A nil Measurer measures with
// [Default]; an empty Ellipsis truncates without a marker.
type Formatter struct {
	Measurer Measurer
	Family   string
	Ellipsis string
}

// NewFormatter returns a formatter that measures with m in family, using [Ellipsis].
func NewFormatter(m Measurer, family string) Formatter {
	return Formatter{Measurer: m, Family: family, Ellipsis: Ellipsis}
}

// Format returns text unchanged if it fits within maxWidth at fontSize.
// Otherwise it returns the longest prefix that fits with the ellipsis appended.
// When not even one character plus the ellipsis fits, the bare ellipsis is
// returned if it fits on its own, else the empty string.
func (f Formatter) Format(text string, maxWidth, fontSize float64) string {
	if text == "" {
		return ""
	}
	if f.width(text, fontSize) <= maxWidth {
		return text
	}

	marker := f.Ellipsis
	runes := []rune(text)

	// Binary search for the longest fitting prefix. Widths are monotonic in
	// prefix length up to kerning noise, so the winner is re-measured below.
	lo, hi := 0, len(runes)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if f.width(prefix(runes, mid)+marker, fontSize) <= maxWidth {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	for lo > 0 && f.width(prefix(runes, lo)+marker, fontSize) > maxWidth {
		lo--
	}

	if lo == 0 {
		if marker != "" && f.width(marker, fontSize) <= maxWidth {
			return marker
		}
		return ""
	}
	return prefix(runes, lo) + marker
}

// Fits reports whether text fits within maxWidth at fontSize without truncation.
func (f Formatter) Fits(text string, maxWidth, fontSize float64) bool {
	return f.width(text, fontSize) <= maxWidth
}

func (f Formatter) width(s string, fontSize float64) float64 {
	if f.Measurer == nil {
		return Default().Measure(s, fontSize, f.Family)
	}
	return f.Measurer.Measure(s, fontSize, f.Family)
}

func prefix(runes []rune, n int) string {
	return strings.TrimRightFunc(string(runes[:n]), unicode.IsSpace)
}

// Truncated reports whether Format changed the label, which callers use to
// decide whether a hover affordance is needed.
func Truncated(text, display string) bool { return text != display }
