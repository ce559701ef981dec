// Public domain.

// Package pipeline runs the chain of corrections from a catalog place to
// an observed altitude and azimuth:
//
//	proper motion, precession, nutation, aberration, horizontal, refraction
//
// Quantities depending only on the instant and observer are computed once
// in a Terms value, which can then serve any number of objects,
// concurrently if desired.
package pipeline

import (
	"github.com/soniakeys/altaz/astroerr"
	"github.com/soniakeys/altaz/horizon"
	"github.com/soniakeys/altaz/location"
	"github.com/soniakeys/altaz/orient"
	"github.com/soniakeys/altaz/place"
	"github.com/soniakeys/altaz/timescale"
	"github.com/soniakeys/coord"
	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/unit"
)

// Options adjust the chain.  The zero value gives J2000.0 catalog places
// without proper motion, no refraction and the default leap second table.
type Options struct {
	// Epoch is the JDE at which catalog places are given, and from which
	// proper motion is applied.  Zero means J2000.0.
	Epoch float64
	// ProperMotion applies to the single object of RaDecToAltAz.
	ProperMotion place.ProperMotion
	// Weather at the observer.  Nil means no refraction, altitudes are
	// geometric.
	Weather *horizon.Atmosphere
	// Leaps converts between UTC and TT.  Nil means
	// timescale.DefaultLeapTable.
	Leaps *timescale.LeapTable
}

// Terms are quantities of the chain shared by all objects at one instant
// and location.  Terms are read only once constructed.
type Terms struct {
	JD  float64 // UTC, taken as UT1
	JDE float64 // TT

	Epoch         float64
	MeanObliquity unit.Angle
	TrueObliquity unit.Angle
	Nutation      orient.Nutation
	// NPB rotates mean J2000.0 axes to true equator and equinox of date,
	// precession then nutation.
	NPB        coord.M3
	Aberration place.Aberration
	LAST       unit.HourAngle
	Lat        unit.Angle
	Weather    *horizon.Atmosphere
	LeapTable  string // version of the leap table used
}

// NewTerms computes shared terms for an instant and location.
func NewTerms(inst timescale.Instant, loc location.Location, opts Options) (*Terms, error) {
	const op = "pipeline.NewTerms"
	if err := inst.Check(op); err != nil {
		return nil, err
	}
	if err := astroerr.Finite(op, opts.Epoch); err != nil {
		return nil, err
	}
	lt := opts.Leaps
	if lt == nil {
		lt = timescale.DefaultLeapTable()
	}
	t := &Terms{Epoch: opts.Epoch, Lat: loc.Lat(), LeapTable: lt.Version()}
	switch inst.Scale {
	case timescale.UTC:
		t.JD = inst.JD
		t.JDE = lt.TT(inst)
	case timescale.TT:
		t.JDE = inst.JD
		t.JD = lt.UTC(inst)
	default:
		return nil, astroerr.New(astroerr.InvalidInput, op, inst.Scale.String(), "unknown time scale")
	}
	if t.Epoch == 0 {
		t.Epoch = base.J2000
	}
	if w := opts.Weather; w != nil {
		if err := w.Check(op); err != nil {
			return nil, err
		}
		c := *w
		t.Weather = &c
	}
	t.Nutation = orient.Nutate(t.JDE)
	t.MeanObliquity = orient.MeanObliquity(t.JDE)
	t.TrueObliquity = t.MeanObliquity + t.Nutation.Obl
	p := orient.PrecessionMatrix(t.JDE)
	n := t.Nutation.Matrix(t.MeanObliquity)
	t.NPB = orient.Mul(&n, &p)
	eqeq := t.Nutation.EquationOfEquinoxes(t.TrueObliquity)
	t.LAST = unit.HourAngleFromHour(orient.ApparentSidereal(t.JD, loc.Lon(), eqeq))
	_, ρcφ := loc.ParallaxConstants()
	t.Aberration = place.NewAberration(t.JDE, t.TrueObliquity).WithDiurnal(ρcφ, t.LAST)
	return t, nil
}

// Apparent returns the apparent place of date of a catalog place eq with
// proper motion pm: proper motion, precession, nutation and aberration
// applied.
func (t *Terms) Apparent(eq coord.Equa, pm place.ProperMotion) (coord.Equa, error) {
	eq, err := place.Advance(eq, pm, t.Epoch, t.JDE)
	if err != nil {
		return coord.Equa{}, err
	}
	v := orient.Cart(eq)
	v = orient.Rotate(&t.NPB, &v)
	return t.Aberration.Apply(orient.Equa(v))
}

// AltAz returns the observed horizontal coordinates of catalog place eq
// with proper motion pm.
//
// With Weather set, altitude is refracted, and objects below
// horizon.Cutoff fail with OutOfRange.
func (t *Terms) AltAz(eq coord.Equa, pm place.ProperMotion) (horizon.Horizontal, error) {
	ap, err := t.Apparent(eq, pm)
	if err != nil {
		return horizon.Horizontal{}, err
	}
	ha := unit.HourAngle(t.LAST.Rad() - ap.RA.Rad())
	h := horizon.FromEquatorial(ha, ap.Dec, t.Lat)
	if t.Weather != nil {
		if h.Alt, err = t.Weather.TrueToApparent(h.Alt); err != nil {
			return horizon.Horizontal{}, err
		}
	}
	return h, nil
}

// RaDecToAltAz returns observed altitude and azimuth of catalog place eq
// seen from loc at inst.
func RaDecToAltAz(eq coord.Equa, inst timescale.Instant, loc location.Location, opts Options) (horizon.Horizontal, error) {
	t, err := NewTerms(inst, loc, opts)
	if err != nil {
		return horizon.Horizontal{}, err
	}
	return t.AltAz(eq, opts.ProperMotion)
}
