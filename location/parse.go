// Public domain.

package location

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/soniakeys/altaz/astroerr"
	"github.com/soniakeys/unit"
)

// Axis selects the valid range and the direction letters for parsed text.
type Axis int

const (
	Latitude       Axis = iota // [-90,90], N or S
	Longitude                  // [-180,360), E or W, hours allowed
	RightAscension             // [0,360), hours allowed
	Declination                // [-90,90], sign only
)

var axes = [...]struct {
	op       string
	letters  string // positive letter then negative letter
	hours    bool   // h marks allowed
	min, max float64
	openMax  bool
}{
	Latitude:       {"ParseLatitude", "NS", false, -90, 90, false},
	Longitude:      {"ParseLongitude", "EW", true, -180, 360, true},
	RightAscension: {"ParseRA", "", true, 0, 360, true},
	Declination:    {"ParseDeclination", "", false, -90, 90, false},
}

// ParseAngle parses text as an angle on axis ax and returns decimal degrees.
//
// Dir optionally qualifies the text with a hemisphere letter (N, S, E, W)
// or a sign ("+", "-") supplied separately, as from a second form field.
// It must agree with any letter or sign in text.  If text is blank, def is
// returned.
//
// Accepted forms are
//
//	40.7128  -40.7128  40.7128N  40.7128 S  N40.7128
//	40 42 46  40:42:46  40° 42' 46" N  40°42′46″N  40d42m46s
//	4h 56m 27s  04 56 27.0 (right ascension)
//
// A sign and a direction letter may both be given if they agree, as in
// +40.7128 N.  Components are degrees, minutes, seconds.  Only the last
// component may have a fractional part.  Marks h or H make the first
// component hours, which are multiplied by 15; this is allowed for
// longitude and right ascension.  For right ascension, unmarked
// sexagesimal text with more than one component is read as hours and a
// single number as degrees.
//
// A comma is rejected, since it may be a decimal comma.
//
// The result is range checked but not normalized.  A negative longitude,
// for example, is returned as is.
func ParseAngle(ax Axis, text, dir string, def float64) (float64, error) {
	if strings.TrimSpace(text) == "" {
		return def, nil
	}
	return ax.parse(text, dir)
}

// ParseLatitude parses latitude text, north positive.
func ParseLatitude(text string) (float64, error) { return Latitude.parse(text, "") }

// ParseLongitude parses longitude text, east positive.
func ParseLongitude(text string) (float64, error) { return Longitude.parse(text, "") }

// ParseRA parses right ascension text and returns degrees.
func ParseRA(text string) (float64, error) { return RightAscension.parse(text, "") }

// ParseDeclination parses declination text.
func ParseDeclination(text string) (float64, error) { return Declination.parse(text, "") }

func (ax Axis) parse(text, dir string) (float64, error) {
	in := axes[ax]
	bad := func(tok, msg string) (float64, error) {
		return 0, astroerr.New(astroerr.InvalidFormat, in.op, tok, msg)
	}
	s := strings.TrimSpace(text)
	if s == "" {
		return bad(text, "empty")
	}
	var sign byte
	if s[0] == '-' || s[0] == '+' {
		sign = s[0]
		s = strings.TrimSpace(s[1:])
	}
	letter, s := hemisphere(s, strings.ContainsAny(s, "dDhHmM"))

	switch d := strings.TrimSpace(dir); {
	case d == "":
	case d == "-" || d == "+":
		if sign != 0 && sign != d[0] {
			return bad(dir, "sign conflicts with text")
		}
		sign = d[0]
	case len(d) == 1 && isDirection(rune(d[0])):
		l := unicode.ToUpper(rune(d[0]))
		if letter != 0 && letter != l {
			return bad(dir, "direction conflicts with text")
		}
		letter = l
	default:
		return bad(dir, "direction must be a letter N, S, E, W or a sign")
	}

	neg := sign == '-'
	if letter != 0 {
		i := strings.IndexRune(in.letters, letter)
		if i < 0 {
			return bad(string(letter), "direction letter not valid here")
		}
		if sign != 0 && neg != (i == 1) {
			return bad(text, "sign conflicts with direction letter")
		}
		neg = i == 1
	}

	var sx sexa
	if tok, msg := sx.scan(s); msg != "" {
		return bad(tok, msg)
	}
	if sx.hours && !in.hours {
		return bad("h", "hours not valid here")
	}
	v, err := sx.value(in.op)
	if err != nil {
		return 0, err
	}
	if sx.hours || ax == RightAscension && sx.n > 1 && !sx.degMark {
		v *= 15
	}
	if neg {
		v = -v
	}
	if v < in.min || v > in.max || in.openMax && v == in.max {
		return 0, astroerr.Range(in.op, v, strings.TrimSpace(text))
	}
	return v, nil
}

func isDirection(r rune) bool { return strings.ContainsRune("NSEWnsew", r) }

// hemisphere splits off a leading or trailing direction letter.
//
// A trailing s directly after a digit is a seconds mark rather than South
// when other unit marks are present, as in 4h56m27s.
func hemisphere(s string, units bool) (rune, string) {
	if s == "" {
		return 0, s
	}
	r, n := utf8.DecodeLastRuneInString(s)
	if isDirection(r) {
		rest := s[:len(s)-n]
		p, _ := utf8.DecodeLastRuneInString(rest)
		if !(units && (r == 's' || r == 'S') && (unicode.IsDigit(p) || p == '.')) {
			return unicode.ToUpper(r), strings.TrimSpace(rest)
		}
	}
	r, n = utf8.DecodeRuneInString(s)
	if isDirection(r) {
		rest := s[n:]
		p, _ := utf8.DecodeRuneInString(rest)
		if rest == "" || unicode.IsDigit(p) || unicode.IsSpace(p) || p == '.' {
			return unicode.ToUpper(r), strings.TrimSpace(rest)
		}
	}
	return 0, s
}

// sexa holds up to three scanned components, degrees (or hours), minutes,
// seconds.
type sexa struct {
	part    [3]string
	have    [3]bool
	n       int
	hours   bool
	degMark bool
}

// scan tokenizes s.  It returns the offending token and a message on
// failure, an empty message on success.
func (sx *sexa) scan(s string) (tok, msg string) {
	var num strings.Builder
	next := 0
	commit := func(pos int) (string, string) {
		if num.Len() == 0 {
			return "", ""
		}
		if pos < next || pos > 2 {
			return num.String(), "components out of order or more than three"
		}
		sx.part[pos] = num.String()
		sx.have[pos] = true
		sx.n++
		next = pos + 1
		num.Reset()
		return "", ""
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9' || r == '.':
			num.WriteRune(r)
			continue
		case unicode.IsSpace(r) || r == ':':
			if t, m := commit(next); m != "" {
				return t, m
			}
			continue
		}
		pos := -1
		switch r {
		case '°', 'd', 'D':
			pos = 0
			sx.degMark = true
		case 'h', 'H':
			pos = 0
			sx.hours = true
		case '\'', '′', '’', 'm', 'M':
			pos = 1
		case '"', '″', '”', 's', 'S':
			pos = 2
		case ',':
			return string(r), "comma is neither a decimal point nor a separator"
		default:
			return string(r), "unexpected character"
		}
		if num.Len() == 0 {
			return string(r), "mark without a number"
		}
		if t, m := commit(pos); m != "" {
			return t, m
		}
	}
	if t, m := commit(next); m != "" {
		return t, m
	}
	if sx.n == 0 {
		return s, "no numeric component"
	}
	if sx.hours && sx.degMark {
		return s, "both hour and degree marks"
	}
	return "", ""
}

// value combines scanned components into a single number in the units of
// the first component.
func (sx *sexa) value(op string) (float64, error) {
	last := 0
	for i := range sx.have {
		if sx.have[i] {
			last = i
		}
	}
	var c [3]float64
	for i, p := range sx.part {
		if !sx.have[i] {
			continue
		}
		if i < last && strings.Contains(p, ".") {
			return 0, astroerr.New(astroerr.InvalidFormat, op, p,
				"only the last component may have a fraction")
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, astroerr.New(astroerr.InvalidFormat, op, p, "not a number")
		}
		if i > 0 && v >= 60 {
			return 0, astroerr.Range(op, v, "minutes and seconds must be under 60")
		}
		c[i] = v
	}
	if last == 0 {
		return c[0], nil
	}
	return unit.FromSexa(0, int(math.Trunc(c[0])), 0, c[1]*60+c[2]), nil
}
