// Public domain.

// Package place moves catalog positions to apparent places: proper motion
// and aberration.
package place

import (
	"math"

	"github.com/soniakeys/altaz/astroerr"
	"github.com/soniakeys/altaz/orient"
	"github.com/soniakeys/coord"
	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"
)

// κ is the constant of aberration.
var κ = unit.AngleFromSec(20.49552)

// diurnal is the constant of diurnal aberration for ρ cos φ′ = 1.
var diurnal = unit.AngleFromSec(.3200)

// Aberration is the observer's velocity in units of the speed of light,
// in true equatorial axes of date.
type Aberration struct {
	V coord.Cart
}

// NewAberration returns the annual aberration velocity at jde.  ε is the
// obliquity used to rotate the velocity from ecliptic to equatorial axes,
// normally the true obliquity of date.
//
// Terms in the eccentricity of the Earth's orbit are included.
func NewAberration(jde float64, ε unit.Angle) Aberration {
	T := orient.Centuries(jde)
	s, _ := solar.True(T)
	e := base.Horner(T, .016708634, -.000042037, -.0000001267)
	ϖ := unit.AngleFromDeg(base.Horner(T, 102.93735, 1.71946, .00046))
	sS, cS := s.Sincos()
	sϖ, cϖ := ϖ.Sincos()
	k := κ.Rad()
	x := k * (sS - e*sϖ)
	y := -k * (cS - e*cϖ)
	sε, cε := ε.Sincos()
	return Aberration{coord.Cart{X: x, Y: y * cε, Z: y * sε}}
}

// WithDiurnal returns a with the velocity of Earth's rotation added for an
// observer with geocentric parallax constant ρcφ (ρ cos φ′) and local
// apparent sidereal time last.
func (a Aberration) WithDiurnal(ρcφ float64, last unit.HourAngle) Aberration {
	s, c := last.Sincos()
	k := diurnal.Rad() * ρcφ
	a.V.X -= k * s
	a.V.Y += k * c
	return a
}

// Apply returns the direction of eq displaced toward the apex of motion.
func (a Aberration) Apply(eq coord.Equa) (coord.Equa, error) {
	if err := orient.CheckEqua("place.Aberration.Apply", eq); err != nil {
		return coord.Equa{}, err
	}
	p := orient.Cart(eq)
	return orient.Equa(a.apply(p)), nil
}

func (a Aberration) apply(p coord.Cart) coord.Cart {
	var q coord.Cart
	q.Add(&p, &a.V)
	return q
}

// Remove is the inverse of Apply.
//
// It solves |λp′ - V| = 1 for the catalog direction, exact for any
// velocity below the speed of light.
func (a Aberration) Remove(eq coord.Equa) (coord.Equa, error) {
	if err := orient.CheckEqua("place.Aberration.Remove", eq); err != nil {
		return coord.Equa{}, err
	}
	p := orient.Cart(eq)
	pv := p.Dot(&a.V)
	λ := pv + math.Sqrt(pv*pv-a.V.Square()+1)
	var q coord.Cart
	q.MulScalar(&p, λ)
	q.Sub(&q, &a.V)
	return orient.Equa(q), nil
}

// Magnitude returns the angle by which Apply displaces eq.
func (a Aberration) Magnitude(eq coord.Equa) (unit.Angle, error) {
	if err := orient.CheckEqua("place.Aberration.Magnitude", eq); err != nil {
		return 0, err
	}
	p := orient.Cart(eq)
	var x coord.Cart
	x.Cross(&p, &a.V)
	return unit.Angle(math.Atan2(math.Sqrt(x.Square()), 1+p.Dot(&a.V))), nil
}

// ApplyAberration applies annual aberration at jde to mean or true
// coordinates of date.
func ApplyAberration(eq coord.Equa, jde float64) (coord.Equa, error) {
	a, err := annual("place.ApplyAberration", jde)
	if err != nil {
		return coord.Equa{}, err
	}
	return a.Apply(eq)
}

// RemoveAberration is the inverse of ApplyAberration.
func RemoveAberration(eq coord.Equa, jde float64) (coord.Equa, error) {
	a, err := annual("place.RemoveAberration", jde)
	if err != nil {
		return coord.Equa{}, err
	}
	return a.Remove(eq)
}

// AberrationMagnitude returns the displacement of annual aberration at jde
// in arc seconds.
func AberrationMagnitude(eq coord.Equa, jde float64) (float64, error) {
	a, err := annual("place.AberrationMagnitude", jde)
	if err != nil {
		return 0, err
	}
	m, err := a.Magnitude(eq)
	return m.Sec(), err
}

func annual(op string, jde float64) (Aberration, error) {
	if err := astroerr.Finite(op, jde); err != nil {
		return Aberration{}, err
	}
	return NewAberration(jde, orient.TrueObliquity(jde)), nil
}
