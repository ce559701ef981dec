// Public domain.

package orient

import (
	"github.com/soniakeys/altaz/astroerr"
	"github.com/soniakeys/coord"
	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/unit"
)

// PrecessionAngles are the three IAU 1976 equatorial precession angles
// from J2000.0 to some epoch.
type PrecessionAngles struct {
	Zeta, Z, Theta unit.Angle
}

// Angles returns precession angles from J2000.0 to the epoch jde.
//
// Polynomials are Lieske et al. (1977) with the starting epoch fixed at
// J2000.0.
func Angles(jde float64) PrecessionAngles {
	T := Centuries(jde)
	return PrecessionAngles{
		Zeta:  unit.AngleFromSec(base.Horner(T, 0, 2306.2181, 0.30188, 0.017998)),
		Z:     unit.AngleFromSec(base.Horner(T, 0, 2306.2181, 1.09468, 0.018203)),
		Theta: unit.AngleFromSec(base.Horner(T, 0, 2004.3109, -0.42665, -0.041833)),
	}
}

// Matrix returns the rotation from mean J2000.0 to mean of epoch,
// Rz(-z)·Ry(θ)·Rz(-ζ).
func (a PrecessionAngles) Matrix() coord.M3 {
	z, θ, ζ := RotZ(-a.Z), RotY(a.Theta), RotZ(-a.Zeta)
	m := Mul(&z, &θ)
	return Mul(&m, &ζ)
}

// PrecessionMatrix returns the rotation from mean J2000.0 to mean of
// epoch jde.
func PrecessionMatrix(jde float64) coord.M3 {
	return Angles(jde).Matrix()
}

// PrecessFromJ2000 precesses mean J2000.0 coordinates to mean of epoch jde.
func PrecessFromJ2000(eq coord.Equa, jde float64) (coord.Equa, error) {
	const op = "orient.PrecessFromJ2000"
	if err := check(op, eq, jde); err != nil {
		return coord.Equa{}, err
	}
	p := PrecessionMatrix(jde)
	v := Cart(eq)
	return Equa(Rotate(&p, &v)), nil
}

// PrecessToJ2000 precesses mean coordinates of epoch jde back to J2000.0.
//
// It applies the transpose of the matrix used by PrecessFromJ2000, so the
// two are inverses to rounding error.
func PrecessToJ2000(eq coord.Equa, jde float64) (coord.Equa, error) {
	const op = "orient.PrecessToJ2000"
	if err := check(op, eq, jde); err != nil {
		return coord.Equa{}, err
	}
	p := Transposed(PrecessionMatrix(jde))
	v := Cart(eq)
	return Equa(Rotate(&p, &v)), nil
}

// Precess precesses mean coordinates of epoch fromJDE to mean of epoch
// toJDE, passing through J2000.0.
func Precess(eq coord.Equa, fromJDE, toJDE float64) (coord.Equa, error) {
	const op = "orient.Precess"
	if err := check(op, eq, fromJDE); err != nil {
		return coord.Equa{}, err
	}
	if err := astroerr.Finite(op, toJDE); err != nil {
		return coord.Equa{}, err
	}
	from := Transposed(PrecessionMatrix(fromJDE))
	to := PrecessionMatrix(toJDE)
	m := Mul(&to, &from)
	v := Cart(eq)
	return Equa(Rotate(&m, &v)), nil
}

func check(op string, eq coord.Equa, jde float64) error {
	if err := astroerr.Finite(op, jde); err != nil {
		return err
	}
	return CheckEqua(op, eq)
}
