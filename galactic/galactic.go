// Public domain.

// Package galactic converts between J2000.0 equatorial and galactic
// coordinates.
//
// The galactic frame is the IAU 1958 system as realized for the Hipparcos
// catalog in the ICRS.
package galactic

import (
	"math"

	"github.com/soniakeys/altaz/astroerr"
	"github.com/soniakeys/altaz/orient"
	"github.com/soniakeys/coord"
	"github.com/soniakeys/unit"
)

// Coord holds galactic longitude and latitude.
type Coord struct {
	Lon unit.Angle // l, [0,2π)
	Lat unit.Angle // b
}

// Frame orientation in J2000.0 equatorial coordinates.
var (
	NorthPole = coord.Equa{
		RA:  unit.RAFromDeg(192.85948),
		Dec: unit.AngleFromDeg(27.12825),
	}
	// galactic longitude of the north celestial pole
	PoleLon = unit.AngleFromDeg(122.93192)
)

// rotation from equatorial to galactic axes
var toGal = coord.M3{
	-.0548755604162154, -.8734370902348850, -.4838350155487132,
	+.4941094278755837, -.4448296299600112, +.7469822444972189,
	-.8676661490190047, -.1980763734312015, +.4559837761750669,
}

var fromGal = orient.Transposed(toGal)

// FromEquatorial returns galactic coordinates of J2000.0 equatorial
// coordinates eq.
func FromEquatorial(eq coord.Equa) (Coord, error) {
	if err := orient.CheckEqua("galactic.FromEquatorial", eq); err != nil {
		return Coord{}, err
	}
	v := orient.Cart(eq)
	g := orient.Equa(orient.Rotate(&toGal, &v))
	return Coord{Lon: g.RA.Angle(), Lat: g.Dec}, nil
}

// ToEquatorial returns J2000.0 equatorial coordinates of galactic
// coordinates g.
func ToEquatorial(g Coord) (coord.Equa, error) {
	const op = "galactic.ToEquatorial"
	if err := astroerr.Finite(op, g.Lon.Rad(), g.Lat.Rad()); err != nil {
		return coord.Equa{}, err
	}
	if math.Abs(g.Lat.Rad()) > math.Pi/2 {
		return coord.Equa{}, astroerr.Range(op, g.Lat.Deg(), "latitude beyond a pole")
	}
	v := orient.Cart(coord.Equa{RA: unit.RAFromRad(g.Lon.Rad()), Dec: g.Lat})
	return orient.Equa(orient.Rotate(&fromGal, &v)), nil
}
