// Package symbols turns the catalogue's symbol descriptions ("Green",
// "Black or Red", "Tap") into brace tokens such as {G}, {B/R} and {T}.
package symbols

import (
	"strings"

	"github.com/guarzo/cardrip/internal/diag"
)

// Unknown replaces any description part missing from the table.
const Unknown = "UNKNOWN"

var codes = map[string]string{
	"white": "W",
	"black": "B",
	"red":   "R",
	"blue":  "U",
	"green": "G",

	"zero":      "0",
	"one":       "1",
	"two":       "2",
	"three":     "3",
	"four":      "4",
	"five":      "5",
	"six":       "6",
	"seven":     "7",
	"eight":     "8",
	"nine":      "9",
	"ten":       "10",
	"eleven":    "11",
	"twelve":    "12",
	"thirteen":  "13",
	"fourteen":  "14",
	"fifteen":   "15",
	"sixteen":   "16",
	"0":         "0",
	"1":         "1",
	"2":         "2",
	"3":         "3",
	"4":         "4",
	"5":         "5",
	"6":         "6",
	"7":         "7",
	"8":         "8",
	"9":         "9",
	"10":        "10",
	"11":        "11",
	"12":        "12",
	"13":        "13",
	"14":        "14",
	"15":        "15",
	"16":        "16",

	"tap":   "T",
	"untap": "Q",
	"snow":  "S",

	"phyrexian white": "PW",
	"phyrexian black": "PB",
	"phyrexian red":   "PR",
	"phyrexian blue":  "PU",
	"phyrexian green": "PG",

	"variable colorless": "X",
}

// Lookup returns the short code for a single lower-case, trimmed description.
func Lookup(part string) (string, bool) {
	code, ok := codes[part]
	return code, ok
}

// Encode converts a description into its brace token. Hybrid descriptions
// joined by " or " become {A/B}. Unknown parts render as UNKNOWN and are
// reported to sink.
func Encode(description string, sink diag.Sink) string {
	parts := strings.Split(strings.ToLower(description), " or ")
	out := make([]string, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		code, ok := Lookup(part)
		if !ok {
			diag.Warnf(sink, diag.UnknownSymbol, "invalid symbol part %q in %q", part, description)
			code = Unknown
		}
		out[i] = code
	}
	return "{" + strings.Join(out, "/") + "}"
}
