// Public domain.

package orient

import (
	"math"

	"github.com/soniakeys/altaz/astroerr"
	"github.com/soniakeys/coord"
	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/unit"
)

// Centuries returns Julian centuries of TT from J2000.0.
func Centuries(jde float64) float64 {
	return (jde - base.J2000) / base.JulianCentury
}

// Matrices here are coord.M3 values in row major order.  They rotate the
// coordinate frame, so Rotate(&m, &v) expresses vector v in the new frame.

// RotX returns the frame rotation by angle a about the x axis.
func RotX(a unit.Angle) coord.M3 {
	s, c := a.Sincos()
	return coord.M3{
		1, 0, 0,
		0, c, s,
		0, -s, c,
	}
}

// RotY returns the frame rotation by angle a about the y axis.
func RotY(a unit.Angle) coord.M3 {
	s, c := a.Sincos()
	return coord.M3{
		c, 0, -s,
		0, 1, 0,
		s, 0, c,
	}
}

// RotZ returns the frame rotation by angle a about the z axis.
func RotZ(a unit.Angle) coord.M3 {
	s, c := a.Sincos()
	return coord.M3{
		c, s, 0,
		-s, c, 0,
		0, 0, 1,
	}
}

// Mul returns the product a·b.  Applying the result applies b first.
func Mul(a, b *coord.M3) coord.M3 {
	var m coord.M3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m[r*3+c] = a[r*3]*b[c] + a[r*3+1]*b[3+c] + a[r*3+2]*b[6+c]
		}
	}
	return m
}

// Transposed returns the transpose of m, which for a rotation is its
// inverse.
func Transposed(m coord.M3) coord.M3 {
	m.Transpose(&m)
	return m
}

// Rotate returns m·v.
func Rotate(m *coord.M3, v *coord.Cart) coord.Cart {
	return coord.Cart{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		Z: m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

// Cart returns the unit vector toward eq.
func Cart(eq coord.Equa) coord.Cart {
	var c coord.Cart
	c.FromSphr(&coord.Sphr{Lon: eq.RA.Angle(), Lat: eq.Dec})
	return c
}

// Equa returns the direction of v, which need not be a unit vector.
//
// RA is normalized to [0,24h).
func Equa(v coord.Cart) coord.Equa {
	r := math.Sqrt(v.Square())
	v.MulScalar(&v, 1/r)
	var e coord.Equa
	e.FromCart(&v)
	e.RA = unit.RAFromRad(e.RA.Rad())
	return e
}

// CheckEqua returns an InvalidInput error for NaN or infinite components
// and an OutOfRange error for a declination beyond a pole.
func CheckEqua(op string, eq coord.Equa) error {
	if err := astroerr.Finite(op, eq.RA.Rad(), eq.Dec.Rad()); err != nil {
		return err
	}
	if math.Abs(eq.Dec.Rad()) > math.Pi/2 {
		return astroerr.Range(op, eq.Dec.Deg(), "declination beyond a pole")
	}
	return nil
}
