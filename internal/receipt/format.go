package receipt

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"
)

// cond measures display columns with East Asian ambiguous runes (Cyrillic
// among them) counted as narrow, independent of the process locale.
var cond = &runewidth.Condition{EastAsianWidth: false}

const ellipsis = "…"

// FormatMoney renders d with two fractional digits and "," thousands separators.
func FormatMoney(d decimal.Decimal) string {
	return groupThousands(d.StringFixed(2))
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return sign + intPart + frac
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + frac
}

func width(s string) int {
	return cond.StringWidth(s)
}

// printable replaces control runes with spaces so a value cannot break a line.
func printable(s string) string {
	if strings.IndexFunc(s, unicode.IsControl) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}

// fit truncates s so it occupies at most w columns.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	s = printable(s)
	if width(s) <= w {
		return s
	}
	return cond.Truncate(s, w, ellipsis)
}

func padLeft(s string, w int) string {
	s = fit(s, w)
	return strings.Repeat(" ", w-width(s)) + s
}

func center(s string, w int) string {
	s = fit(s, w)
	gap := w - width(s)
	left := gap / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
}

// spread places left and right at the edges of a w-column line. The right
// side wins; the left side is truncated to keep at least one space between.
func spread(left, right string, w int) string {
	right = fit(right, w)
	room := w - width(right) - 1
	if room <= 0 {
		return padLeft(right, w)
	}
	left = fit(left, room)
	return left + strings.Repeat(" ", w-width(left)-width(right)) + right
}

func rule(ch string, w int) string {
	return strings.Repeat(ch, w)
}
