// Public domain.

package horizon

import (
	"fmt"
	"math"

	"github.com/soniakeys/altaz/astroerr"
	"github.com/soniakeys/meeus/v3/refraction"
	"github.com/soniakeys/unit"
)

// Model selects a refraction model.
type Model int

const (
	// OpticalModel uses the Bennett and Saemundsson formulas, scaled for
	// pressure and temperature.
	OpticalModel Model = iota
	// RadioModel uses refractivity from pressure, temperature and
	// humidity, for wavelengths where water vapor matters.
	RadioModel
)

func (m Model) String() string {
	switch m {
	case OpticalModel:
		return "optical"
	case RadioModel:
		return "radio"
	}
	return fmt.Sprintf("Model(%d)", int(m))
}

// Cutoff is the lowest altitude at which refraction is computed.
var Cutoff = unit.AngleFromDeg(-1)

// Limits on weather accepted by the refraction functions.
const (
	MaxPressure    = 1200.0 // hPa
	MinTemperature = -100.0 // °C
	MaxTemperature = 60.0   // °C
)

// Atmosphere describes conditions at the observer.
type Atmosphere struct {
	Pressure    float64 // hPa, (0, 1200]
	Temperature float64 // °C, [-100, 60]
	Humidity    float64 // relative, [0, 1]
	Model       Model
}

// Standard is the atmosphere the Bennett and Saemundsson formulas assume.
var Standard = Atmosphere{Pressure: 1010, Temperature: 10}

// Check validates the atmosphere.
func (a Atmosphere) Check(op string) error {
	if err := astroerr.Finite(op, a.Pressure, a.Temperature, a.Humidity); err != nil {
		return err
	}
	switch {
	case a.Pressure <= 0 || a.Pressure > MaxPressure:
		return astroerr.Range(op, a.Pressure, "pressure outside (0, 1200] hPa")
	case a.Temperature < MinTemperature || a.Temperature > MaxTemperature:
		return astroerr.Range(op, a.Temperature, "temperature outside [-100, 60] °C")
	case a.Humidity < 0 || a.Humidity > 1:
		return astroerr.Range(op, a.Humidity, "humidity outside [0, 1]")
	case a.Model != OpticalModel && a.Model != RadioModel:
		return astroerr.New(astroerr.InvalidInput, op, a.Model.String(), "unknown refraction model")
	}
	return nil
}

// scale is the pressure and temperature factor applied to the standard
// formulas.
func (a Atmosphere) scale() float64 {
	return a.Pressure / 1010 * 283 / (273 + a.Temperature)
}

// refractivity of the standard atmosphere, dry, in units of 1e-6
var n0 = refractivity(Standard)

// refractivity returns (n-1)·1e6 by the Smith-Weintraub formula.
func refractivity(a Atmosphere) float64 {
	T := a.Temperature + 273.15
	// saturation vapor pressure, Buck
	es := 6.1121 * math.Exp(17.502*a.Temperature/(240.97+a.Temperature))
	e := a.Humidity * es
	return 77.6*a.Pressure/T + 3.73e5*e/(T*T)
}

func checkAlt(op string, alt unit.Angle) error {
	if err := astroerr.Finite(op, alt.Rad()); err != nil {
		return err
	}
	if alt < Cutoff || alt.Rad() > math.Pi/2 {
		return astroerr.Range(op, alt.Deg(), "altitude outside [-1°, 90°]")
	}
	return nil
}

func clamp(r unit.Angle) unit.Angle {
	if r < 0 {
		// formulas go slightly negative at the zenith
		return 0
	}
	return r
}

// Bennett returns refraction for apparent altitude h0 under standard
// conditions.  Accuracy is about 0.07′ for altitudes above the cutoff.
func Bennett(h0 unit.Angle) (unit.Angle, error) {
	if err := checkAlt("horizon.Bennett", h0); err != nil {
		return 0, err
	}
	return clamp(refraction.Bennett(h0)), nil
}

// Saemundsson returns refraction for true altitude h at pressure p (hPa)
// and temperature t (°C).
func Saemundsson(h unit.Angle, p, t float64) (unit.Angle, error) {
	const op = "horizon.Saemundsson"
	if err := checkAlt(op, h); err != nil {
		return 0, err
	}
	a := Atmosphere{Pressure: p, Temperature: t}
	if err := a.Check(op); err != nil {
		return 0, err
	}
	return clamp(refraction.Saemundsson(h).Mul(a.scale())), nil
}

// Radio returns refraction for apparent altitude h0 at pressure
// p (hPa), temperature t (°C) and relative humidity h.
//
// The Bennett altitude dependence is scaled by the ratio of refractivity
// to that of the dry standard atmosphere.
func Radio(h0 unit.Angle, p, t, h float64) (unit.Angle, error) {
	const op = "horizon.Radio"
	if err := checkAlt(op, h0); err != nil {
		return 0, err
	}
	a := Atmosphere{Pressure: p, Temperature: t, Humidity: h, Model: RadioModel}
	if err := a.Check(op); err != nil {
		return 0, err
	}
	return a.apparent(h0), nil
}

// apparent returns refraction for apparent altitude h0 without checks.
func (a Atmosphere) apparent(h0 unit.Angle) unit.Angle {
	r := refraction.Bennett(h0)
	if a.Model == RadioModel {
		r = r.Mul(refractivity(a) / n0)
	} else {
		r = r.Mul(a.scale())
	}
	return clamp(r)
}

// ApparentToTrue returns the true altitude for apparent altitude h0.
func (a Atmosphere) ApparentToTrue(h0 unit.Angle) (unit.Angle, error) {
	const op = "horizon.ApparentToTrue"
	if err := checkAlt(op, h0); err != nil {
		return 0, err
	}
	if err := a.Check(op); err != nil {
		return 0, err
	}
	return h0 - a.apparent(h0), nil
}

// Newton iteration limits for TrueToApparent.
const (
	Tolerance     = 1e-10 // degrees
	MaxIterations = 50
)

// TrueToApparent returns the apparent altitude for true altitude h, the
// inverse of ApparentToTrue.
func (a Atmosphere) TrueToApparent(h unit.Angle) (unit.Angle, error) {
	const op = "horizon.TrueToApparent"
	if err := checkAlt(op, h); err != nil {
		return 0, err
	}
	if err := a.Check(op); err != nil {
		return 0, err
	}
	tol := unit.AngleFromDeg(Tolerance)
	// Saemundsson is the forward formula and makes a close first guess.
	h0 := h + clamp(refraction.Saemundsson(h))
	const δ = 1e-7 // radians, for the numerical derivative
	for i := 0; i < MaxIterations; i++ {
		f := h0 - a.apparent(h0) - h
		if math.Abs(f.Rad()) < tol.Rad() {
			return h0, nil
		}
		df := 1 - (a.apparent(h0+δ)-a.apparent(h0-δ)).Rad()/(2*δ)
		h0 -= f.Div(df)
		if h0.Rad() > math.Pi/2 {
			h0 = unit.Angle(math.Pi / 2)
		}
	}
	return 0, astroerr.New(astroerr.ConvergenceFailure, op,
		fmt.Sprintf("%g", h.Deg()), "no convergence")
}

// Refraction returns apparent minus true altitude for true altitude h.
func (a Atmosphere) Refraction(h unit.Angle) (unit.Angle, error) {
	h0, err := a.TrueToApparent(h)
	if err != nil {
		return 0, err
	}
	return h0 - h, nil
}

// ApparentToTrue returns the true altitude for apparent altitude h0 in an
// optical atmosphere at pressure p (hPa) and temperature t (°C).
func ApparentToTrue(h0 unit.Angle, p, t float64) (unit.Angle, error) {
	return Atmosphere{Pressure: p, Temperature: t}.ApparentToTrue(h0)
}

// TrueToApparent returns the apparent altitude for true altitude h in an
// optical atmosphere at pressure p (hPa) and temperature t (°C).
func TrueToApparent(h unit.Angle, p, t float64) (unit.Angle, error) {
	return Atmosphere{Pressure: p, Temperature: t}.TrueToApparent(h)
}
