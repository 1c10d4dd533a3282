package compose

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// sourceSeparator precedes the trailing "- Publisher" suffix of feed titles.
const sourceSeparator = " - "

// hypeTokens are removed wherever they occur, colon forms first so that
// "BREAKING:" does not leave a stray colon behind.
var hypeTokens = []string{
	"BREAKING:", "Watch:", "WATCH:", "Report:", "REPORT:",
	"Explained:", "EXPLAINED:", "Live:", "LIVE:",
	"BREAKING", "Watch", "WATCH", "Report", "REPORT",
	"Explained", "EXPLAINED", "Live", "LIVE",
}

var linkSchemes = []string{"https://", "http://"}

// Normalize strips noise from a raw feed title: whitespace runs, the trailing
// source suffix, hype tokens and link schemes. The first rune is upper-cased;
// the rest of the sentence keeps its case. An empty result means the title has
// no usable content.
func Normalize(raw string) string {
	s := collapseSpace(raw)

	if i := strings.Index(s, sourceSeparator); i >= 0 {
		s = s[:i]
	}
	for _, tok := range hypeTokens {
		s = strings.ReplaceAll(s, tok, "")
	}
	for _, scheme := range linkSchemes {
		s = strings.ReplaceAll(s, scheme, "")
	}

	s = collapseSpace(s)
	return upperFirst(s)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	u := unicode.ToUpper(r)
	if u == r {
		return s
	}
	return string(u) + s[size:]
}
