// Public domain.

package orient

import (
	"github.com/soniakeys/coord"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/unit"
)

// Nutation holds nutation in longitude Δψ and in obliquity Δε.
type Nutation struct {
	Lon, Obl unit.Angle
}

// Nutate returns nutation at jde from the IAU 1980 series.
func Nutate(jde float64) Nutation {
	Δψ, Δε := nutation.Nutation(jde)
	return Nutation{Lon: Δψ, Obl: Δε}
}

// MeanObliquity returns the mean obliquity of the ecliptic at jde,
// IAU 1980 polynomial.
func MeanObliquity(jde float64) unit.Angle {
	return nutation.MeanObliquity(jde)
}

// TrueObliquity returns mean obliquity plus nutation in obliquity.
func TrueObliquity(jde float64) unit.Angle {
	return MeanObliquity(jde) + Nutate(jde).Obl
}

// Matrix returns the rotation from mean equator and equinox of date to true
// equator and equinox of date, Rx(-ε)·Rz(-Δψ)·Rx(ε0).
func (n Nutation) Matrix(ε0 unit.Angle) coord.M3 {
	ε, ψ, e0 := RotX(-(ε0 + n.Obl)), RotZ(-n.Lon), RotX(ε0)
	m := Mul(&ε, &ψ)
	return Mul(&m, &e0)
}

// Apply rotates mean coordinates of date to true coordinates of date.
// ε0 is the mean obliquity of date.
func (n Nutation) Apply(eq coord.Equa, ε0 unit.Angle) (coord.Equa, error) {
	if err := CheckEqua("orient.Nutation.Apply", eq); err != nil {
		return coord.Equa{}, err
	}
	m := n.Matrix(ε0)
	v := Cart(eq)
	return Equa(Rotate(&m, &v)), nil
}

// EquationOfEquinoxes returns Δψ cos ε, the difference between apparent and
// mean sidereal time.  ε is the true obliquity.
func (n Nutation) EquationOfEquinoxes(ε unit.Angle) unit.HourAngle {
	return unit.HourAngle(n.Lon.Rad() * ε.Cos())
}

// NutationMatrix returns Rx(-ε)·Rz(-Δψ)·Rx(ε0) for mean obliquity ε0,
// nutation in longitude Δψ and true obliquity ε.
func NutationMatrix(ε0, Δψ, ε unit.Angle) coord.M3 {
	return Nutation{Lon: Δψ, Obl: ε - ε0}.Matrix(ε0)
}
