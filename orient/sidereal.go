// Public domain.

// Package orient computes the orientation of the Earth: sidereal time,
// precession, nutation and obliquity of the ecliptic.
//
// Sidereal functions take a UT Julian date; UTC is used as UT1.  Precession
// and nutation take a Julian ephemeris day (TT).
package orient

import (
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/unit"
)

// GMST returns Greenwich mean sidereal time in hours, [0,24).
//
// IAU 1982 expression.
func GMST(jd float64) float64 {
	return wrap24(sidereal.Mean(jd).Mod1().Hour())
}

// LMST returns local mean sidereal time in hours, [0,24), for east positive
// longitude lon.
func LMST(jd float64, lon unit.Angle) float64 {
	return wrap24(GMST(jd) + lon.Deg()/15)
}

// LAST returns local apparent sidereal time in hours, [0,24).
//
// Nutation is evaluated at jd taken as TT.  The minute or so of difference
// between UT and TT changes the equation of the equinoxes by far less than
// a microsecond.
func LAST(jd float64, lon unit.Angle) float64 {
	n := Nutate(jd)
	ε := MeanObliquity(jd) + n.Obl
	return ApparentSidereal(jd, lon, n.EquationOfEquinoxes(ε))
}

// GAST returns Greenwich apparent sidereal time in hours, [0,24).
func GAST(jd float64) float64 { return LAST(jd, 0) }

// ApparentSidereal returns local apparent sidereal time in hours given a
// precomputed equation of the equinoxes.
func ApparentSidereal(jd float64, lon unit.Angle, eqeq unit.HourAngle) float64 {
	return wrap24(LMST(jd, lon) + eqeq.Hour())
}

func wrap24(h float64) float64 {
	h = unit.PMod(h, 24)
	if h >= 24 {
		// PMod of a tiny negative number rounds up to 24
		return 0
	}
	return h
}
