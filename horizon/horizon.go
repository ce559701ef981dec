// Public domain.

// Package horizon converts between equatorial and horizontal coordinates
// and models the atmosphere: refraction and airmass.
//
// Azimuth is measured from north, clockwise through east.
package horizon

import (
	"math"

	"github.com/soniakeys/unit"
)

// Horizontal coordinates of a direction.
type Horizontal struct {
	Alt unit.Angle // altitude above the horizon
	Az  unit.Angle // azimuth [0,2π), 0 = north, π/2 = east
}

// FromEquatorial returns the horizontal coordinates of a direction at local
// hour angle ha and declination dec, for an observer at latitude lat.
func FromEquatorial(ha unit.HourAngle, dec, lat unit.Angle) Horizontal {
	sH, cH := ha.Sincos()
	sδ, cδ := dec.Sincos()
	sφ, cφ := lat.Sincos()
	// topocentric unit vector, x north, y east, z zenith
	n := sδ*cφ - cδ*cH*sφ
	e := -cδ * sH
	z := sφ*sδ + cφ*cδ*cH
	az := unit.PMod(math.Atan2(e, n), 2*math.Pi)
	if az >= 2*math.Pi {
		az = 0
	}
	return Horizontal{
		Alt: unit.Angle(math.Atan2(z, math.Hypot(n, e))),
		Az:  unit.Angle(az),
	}
}

// ToEquatorial is the inverse of FromEquatorial.  It returns hour angle and
// declination for an observer at latitude lat.
func ToEquatorial(h Horizontal, lat unit.Angle) (ha unit.HourAngle, dec unit.Angle) {
	sA, cA := h.Az.Sincos()
	sa, ca := h.Alt.Sincos()
	sφ, cφ := lat.Sincos()
	n := ca * cA
	e := ca * sA
	// rotate back from the horizon to the equator
	x := cφ*sa - sφ*n
	y := -e
	z := sφ*sa + cφ*n
	return unit.HourAngle(math.Atan2(y, x)),
		unit.Angle(math.Atan2(z, math.Hypot(x, y)))
}
