// Public domain.

package place

import (
	"github.com/soniakeys/altaz/astroerr"
	"github.com/soniakeys/altaz/orient"
	"github.com/soniakeys/coord"
	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/unit"
)

// ProperMotion is annual proper motion.  RA is the great circle rate
// μα* = μα cos δ, as Hipparcos and Gaia catalogs give it.
type ProperMotion struct {
	RA, Dec unit.Angle
}

// ProperMotionFromCoordinateRate converts a rate of change of right
// ascension μα, as older catalogs give it, to a ProperMotion at
// declination dec.
func ProperMotionFromCoordinateRate(μα unit.HourAngle, μδ, dec unit.Angle) ProperMotion {
	return ProperMotion{RA: μα.Angle().Mul(dec.Cos()), Dec: μδ}
}

// Advance moves eq from epoch fromJDE to epoch toJDE.
//
// Motion is taken as linear in the tangent plane at eq, then projected back
// to the sphere.  Near the poles this stays well defined where a change in
// right ascension does not.
func Advance(eq coord.Equa, pm ProperMotion, fromJDE, toJDE float64) (coord.Equa, error) {
	const op = "place.Advance"
	if err := astroerr.Finite(op, pm.RA.Rad(), pm.Dec.Rad(), fromJDE, toJDE); err != nil {
		return coord.Equa{}, err
	}
	if err := orient.CheckEqua(op, eq); err != nil {
		return coord.Equa{}, err
	}
	if pm == (ProperMotion{}) || fromJDE == toJDE {
		return eq, nil
	}
	t := (toJDE - fromJDE) / base.JulianYear
	sα, cα := eq.RA.Sincos()
	sδ, cδ := eq.Dec.Sincos()
	a := pm.RA.Rad() * t
	d := pm.Dec.Rad() * t
	return orient.Equa(coord.Cart{
		X: cδ*cα - a*sα - d*sδ*cα,
		Y: cδ*sα + a*cα - d*sδ*sα,
		Z: sδ + d*cδ,
	}), nil
}
