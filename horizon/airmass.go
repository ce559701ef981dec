// Public domain.

package horizon

import (
	"fmt"
	"math"

	"github.com/soniakeys/altaz/astroerr"
	"github.com/soniakeys/unit"
)

// AirmassModel selects an airmass formula.
type AirmassModel int

const (
	Secant      AirmassModel = iota // plane parallel atmosphere
	Young                           // Young 1994, true altitude
	Pickering                       // Pickering 2002, apparent altitude
	KastenYoung                     // Kasten and Young 1989, true altitude
)

var airmassNames = [...]string{"secant", "young", "pickering", "kasten-young"}

func (m AirmassModel) String() string {
	if m >= 0 && int(m) < len(airmassNames) {
		return airmassNames[m]
	}
	return fmt.Sprintf("AirmassModel(%d)", int(m))
}

// ParseAirmassModel returns the model named by String.
func ParseAirmassModel(s string) (AirmassModel, error) {
	for i, n := range airmassNames {
		if s == n {
			return AirmassModel(i), nil
		}
	}
	return 0, astroerr.New(astroerr.InvalidFormat, "horizon.ParseAirmassModel", s, "unknown airmass model")
}

// Airmass returns the relative air mass toward altitude alt.
//
// All models fail with OutOfRange below the horizon, where they are
// undefined.  Secant also fails at the horizon itself.
func Airmass(alt unit.Angle, m AirmassModel) (float64, error) {
	const op = "horizon.Airmass"
	if err := astroerr.Finite(op, alt.Rad()); err != nil {
		return 0, err
	}
	if alt < 0 || alt.Rad() > math.Pi/2 {
		return 0, astroerr.Range(op, alt.Deg(), "altitude outside [0°, 90°]")
	}
	switch m {
	case Secant:
		if alt == 0 {
			return 0, astroerr.Range(op, 0, "secant airmass infinite at the horizon")
		}
		return 1 / alt.Sin(), nil
	case Young:
		c := alt.Sin() // cos z
		return (1.002432*c*c + .148386*c + .0096467) /
			(c*c*c + .149864*c*c + .0102963*c + .000303978), nil
	case Pickering:
		h := alt.Deg()
		return 1 / unit.AngleFromDeg(h+244/(165+47*math.Pow(h, 1.1))).Sin(), nil
	case KastenYoung:
		z := 90 - alt.Deg()
		return 1 / (alt.Sin() + .50572*math.Pow(96.07995-z, -1.6364)), nil
	}
	return 0, astroerr.New(astroerr.InvalidInput, op, m.String(), "unknown airmass model")
}
