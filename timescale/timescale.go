// Public domain.

// Package timescale represents instants as Julian dates tagged with a time
// scale, and converts between UTC and TT through an explicit leap second
// table.
//
// There is no package level table.  Callers construct one, with
// DefaultLeapTable or NewLeapTable, and pass it where it is needed.
package timescale

import (
	"fmt"
	"sort"
	"time"

	"github.com/soniakeys/altaz/astroerr"
	"github.com/soniakeys/meeus/v3/julian"
)

// Scale identifies the time scale of a Julian date.
type Scale int

const (
	UTC Scale = iota // civil time, also used as an approximation of UT1
	TT               // terrestrial time
)

func (s Scale) String() string {
	switch s {
	case UTC:
		return "UTC"
	case TT:
		return "TT"
	}
	return fmt.Sprintf("Scale(%d)", int(s))
}

// Instant is a Julian date on a known time scale.
type Instant struct {
	JD    float64
	Scale Scale
}

// FromTime returns the UTC instant of a civil time.
func FromTime(t time.Time) Instant {
	return Instant{JD: julian.TimeToJD(t.UTC()), Scale: UTC}
}

// Time returns the instant as a civil time.  A TT instant is returned
// unconverted, so it reads as TT.
func (i Instant) Time() time.Time { return julian.JDToTime(i.JD) }

// Check returns an InvalidInput error for a NaN or infinite JD.
func (i Instant) Check(op string) error { return astroerr.Finite(op, i.JD) }

func (i Instant) String() string { return fmt.Sprintf("JD %.6f %s", i.JD, i.Scale) }

// TTMinusTAI is the constant offset TT - TAI in seconds.
const TTMinusTAI = 32.184

// Leap is one entry of a leap second table: from JD (UTC) onward,
// TAI - UTC is TAIMinusUTC seconds.
type Leap struct {
	JD          float64
	TAIMinusUTC float64
}

// LeapTable is an immutable, versioned table of TAI - UTC.
type LeapTable struct {
	version string
	leaps   []Leap
}

// NewLeapTable validates leaps and returns a table holding a copy of them.
//
// Entries must be in increasing JD order with finite values.
func NewLeapTable(version string, leaps []Leap) (*LeapTable, error) {
	const op = "timescale.NewLeapTable"
	if len(leaps) == 0 {
		return nil, astroerr.New(astroerr.InvalidInput, op, version, "empty table")
	}
	for i, l := range leaps {
		if err := astroerr.Finite(op, l.JD, l.TAIMinusUTC); err != nil {
			return nil, err
		}
		if i > 0 && l.JD <= leaps[i-1].JD {
			return nil, astroerr.Range(op, l.JD, "entries not in increasing order")
		}
	}
	return &LeapTable{version: version, leaps: append([]Leap{}, leaps...)}, nil
}

// leapDates are the UTC dates at which TAI - UTC changed since 1972,
// starting at 10 s and incrementing by one second at each date.
var leapDates = [...]struct{ y, m int }{
	{1972, 1}, {1972, 7}, {1973, 1}, {1974, 1}, {1975, 1}, {1976, 1},
	{1977, 1}, {1978, 1}, {1979, 1}, {1980, 1}, {1981, 7}, {1982, 7},
	{1983, 7}, {1985, 7}, {1988, 1}, {1990, 1}, {1991, 1}, {1992, 7},
	{1993, 7}, {1994, 7}, {1996, 1}, {1997, 7}, {1999, 1}, {2006, 1},
	{2009, 1}, {2012, 7}, {2015, 7}, {2017, 1},
}

// DefaultVersion identifies the table returned by DefaultLeapTable.
const DefaultVersion = "IERS Bulletin C 70"

// DefaultLeapTable returns a new table of leap seconds through 2017,
// TAI - UTC = 37 s.
func DefaultLeapTable() *LeapTable {
	leaps := make([]Leap, len(leapDates))
	for i, d := range leapDates {
		leaps[i] = Leap{
			JD:          julian.CalendarGregorianToJD(d.y, d.m, 1),
			TAIMinusUTC: float64(10 + i),
		}
	}
	return &LeapTable{version: DefaultVersion, leaps: leaps}
}

// Version returns the version string the table was constructed with.
func (lt *LeapTable) Version() string { return lt.version }

// Leaps returns a copy of the table entries.
func (lt *LeapTable) Leaps() []Leap { return append([]Leap{}, lt.leaps...) }

// TAIMinusUTC returns TAI - UTC in seconds at UTC Julian date jd.
//
// Before the first entry the first entry's value is returned.  UTC before
// 1972 was not kept in whole seconds, so this is an approximation there.
func (lt *LeapTable) TAIMinusUTC(jd float64) float64 {
	i := sort.Search(len(lt.leaps), func(i int) bool { return lt.leaps[i].JD > jd })
	if i == 0 {
		return lt.leaps[0].TAIMinusUTC
	}
	return lt.leaps[i-1].TAIMinusUTC
}

// TT returns the Julian ephemeris day of i.
func (lt *LeapTable) TT(i Instant) float64 {
	if i.Scale == TT {
		return i.JD
	}
	return i.JD + (TTMinusTAI+lt.TAIMinusUTC(i.JD))/86400
}

// UTC returns the UTC Julian date of i.
func (lt *LeapTable) UTC(i Instant) float64 {
	if i.Scale == UTC {
		return i.JD
	}
	jd := i.JD - (TTMinusTAI+lt.TAIMinusUTC(i.JD))/86400
	// second pass settles instants within a minute after a leap
	return i.JD - (TTMinusTAI+lt.TAIMinusUTC(jd))/86400
}
