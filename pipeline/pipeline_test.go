// Public domain.

package pipeline_test

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/soniakeys/altaz/astroerr"
	"github.com/soniakeys/altaz/horizon"
	"github.com/soniakeys/altaz/location"
	"github.com/soniakeys/altaz/pipeline"
	"github.com/soniakeys/altaz/place"
	"github.com/soniakeys/altaz/timescale"
	"github.com/soniakeys/coord"
	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/unit"
)

var (
	vega = coord.Equa{
		RA:  unit.RAFromDeg(279.23473479),
		Dec: unit.AngleFromDeg(38.78368896),
	}
	vegaTime = timescale.FromTime(time.Date(2024, 8, 4, 6, 0, 0, 0, time.UTC))
)

func kittPeak(t *testing.T) location.Location {
	loc, err := location.New(31.9583, -111.6, 2120)
	if err != nil {
		t.Fatal(err)
	}
	return loc
}

func ExampleRaDecToAltAz() {
	loc, err := location.Parse("31°57′30″ N", "111°36′ W", 2120)
	if err != nil {
		fmt.Println(err)
		return
	}
	h, err := pipeline.RaDecToAltAz(vega, vegaTime, loc, pipeline.Options{})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("alt %.2f° az %.2f°\n", h.Alt.Deg(), h.Az.Deg())
	// Output:
	// alt 77.91° az 307.88°
}

// Reference places for Vega are from a separate reduction by the methods
// of Meeus, Astronomical Algorithms, 2nd ed.: Lieske precession (21.3),
// the 0.5″ nutation series of chapter 22, annual aberration (23.3),
// apparent sidereal time (12.4) and horizontal coordinates (13.5, 13.6).
// It omits diurnal aberration and agrees with RaDecToAltAz to 0.0003°.
// Refracted altitudes add Saemundsson's formula (16.4) scaled by pressure
// and temperature.
func TestVega(t *testing.T) {
	loc := kittPeak(t)
	for _, c := range []struct {
		name    string
		weather *horizon.Atmosphere
		alt, az float64
	}{
		{"geometric", nil, 77.9066, 307.8776},
		{"standard atmosphere", &horizon.Standard, 77.9102, 307.8776},
		{"site atmosphere", &horizon.Atmosphere{Pressure: 780, Temperature: 15}, 77.9093, 307.8776},
	} {
		h, err := pipeline.RaDecToAltAz(vega, vegaTime, loc, pipeline.Options{Weather: c.weather})
		if err != nil {
			t.Fatal(c.name, err)
		}
		if math.Abs(h.Alt.Deg()-c.alt) > .01 || math.Abs(h.Az.Deg()-c.az) > .01 {
			t.Errorf("%s: alt %.5f° az %.5f°, want %.4f° %.4f°",
				c.name, h.Alt.Deg(), h.Az.Deg(), c.alt, c.az)
		}
	}
}

func TestApparent(t *testing.T) {
	// θ Persei, 2028 November 13.19 TD, from the pole where diurnal
	// aberration vanishes
	pole, _ := location.New(90, 0, 0)
	eq := coord.Equa{
		RA:  unit.NewRA(2, 44, 11.986),
		Dec: unit.NewAngle(' ', 49, 13, 42.48),
	}
	pm := place.ProperMotionFromCoordinateRate(
		unit.HourAngleFromSec(.03425), unit.AngleFromSec(-.0895), eq.Dec)
	tm, err := pipeline.NewTerms(timescale.Instant{JD: 2462088.69, Scale: timescale.TT}, pole, pipeline.Options{})
	if err != nil {
		t.Fatal(err)
	}
	ap, err := tm.Apparent(eq, pm)
	if err != nil {
		t.Fatal(err)
	}
	wantRA := unit.NewRA(2, 46, 14.390)
	wantDec := unit.NewAngle(' ', 49, 21, 7.45)
	if d := ap.RA.Sec() - wantRA.Sec(); math.Abs(d) > .02 {
		t.Errorf("α off by %.4fs", d)
	}
	if d := (ap.Dec - wantDec).Sec(); math.Abs(d) > .1 {
		t.Errorf("δ off by %.4f″", d)
	}
}

func TestTerms(t *testing.T) {
	loc := kittPeak(t)
	tm, err := pipeline.NewTerms(vegaTime, loc, pipeline.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if d := (tm.JDE - tm.JD) * 86400; math.Abs(d-69.184) > 1e-3 {
		t.Fatalf("TT - UTC = %vs", d)
	}
	if tm.Epoch != base.J2000 || tm.LeapTable != timescale.DefaultVersion {
		t.Fatal(tm.Epoch, tm.LeapTable)
	}
	if tm.LAST < 0 || tm.LAST.Hour() >= 24 {
		t.Fatalf("LAST %v h", tm.LAST.Hour())
	}
	// the same instant given in TT builds the same terms
	tt := timescale.Instant{JD: tm.JDE, Scale: timescale.TT}
	tm2, err := pipeline.NewTerms(tt, loc, pipeline.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(tm2.JD-tm.JD)*86400 > 1e-3 {
		t.Fatalf("UTC from TT off by %vs", (tm2.JD-tm.JD)*86400)
	}
	h1, _ := tm.AltAz(vega, place.ProperMotion{})
	h2, _ := tm2.AltAz(vega, place.ProperMotion{})
	if math.Abs((h1.Alt - h2.Alt).Deg()) > 1e-7 || math.Abs((h1.Az - h2.Az).Deg()) > 1e-7 {
		t.Fatal(h1, h2)
	}
	// terms are reused without change
	h3, _ := tm.AltAz(vega, place.ProperMotion{})
	if h3 != h1 {
		t.Fatal("AltAz not repeatable")
	}
	single, _ := pipeline.RaDecToAltAz(vega, vegaTime, loc, pipeline.Options{})
	if single != h1 {
		t.Fatal("RaDecToAltAz differs from Terms.AltAz")
	}
}

func TestWeatherCopied(t *testing.T) {
	w := horizon.Standard
	tm, err := pipeline.NewTerms(vegaTime, kittPeak(t), pipeline.Options{Weather: &w})
	if err != nil {
		t.Fatal(err)
	}
	w.Pressure = 0
	if tm.Weather.Pressure != horizon.Standard.Pressure {
		t.Fatal("terms share caller's weather")
	}
}

func TestProperMotionEpoch(t *testing.T) {
	loc := kittPeak(t)
	// Barnard's star, about 10.4″ a year north
	pm := place.ProperMotion{RA: unit.AngleFromSec(-.80), Dec: unit.AngleFromSec(10.36)}
	eq := coord.Equa{RA: unit.RAFromDeg(269.452), Dec: unit.AngleFromDeg(4.693)}
	without, _ := pipeline.RaDecToAltAz(eq, vegaTime, loc, pipeline.Options{})
	with, err := pipeline.RaDecToAltAz(eq, vegaTime, loc, pipeline.Options{ProperMotion: pm})
	if err != nil {
		t.Fatal(err)
	}
	// 24.6 years of motion is about 255″
	if d := sepH(without, with).Sec(); d < 240 || d > 270 {
		t.Fatalf("proper motion moved %v″", d)
	}
	// epoch at the instant means no motion applied
	at, _ := pipeline.RaDecToAltAz(eq, vegaTime, loc, pipeline.Options{
		ProperMotion: pm,
		Epoch:        timescale.DefaultLeapTable().TT(vegaTime),
	})
	if d := sepH(without, at).Sec(); d > 1e-6 {
		t.Fatalf("motion at catalog epoch moved %v″", d)
	}
}

func TestErrors(t *testing.T) {
	loc := kittPeak(t)
	nan := math.NaN()
	for _, c := range []struct {
		name string
		eq   coord.Equa
		inst timescale.Instant
		opts pipeline.Options
		want astroerr.Kind
	}{
		{"NaN instant", vega, timescale.Instant{JD: nan}, pipeline.Options{}, astroerr.InvalidInput},
		{"bad scale", vega, timescale.Instant{JD: 2451545, Scale: 5}, pipeline.Options{}, astroerr.InvalidInput},
		{"NaN epoch", vega, vegaTime, pipeline.Options{Epoch: nan}, astroerr.InvalidInput},
		{"bad weather", vega, vegaTime, pipeline.Options{Weather: &horizon.Atmosphere{Pressure: -1}}, astroerr.OutOfRange},
		{"NaN dec", coord.Equa{Dec: unit.Angle(nan)}, vegaTime, pipeline.Options{}, astroerr.InvalidInput},
		{"dec beyond pole", coord.Equa{Dec: unit.AngleFromDeg(100)}, vegaTime, pipeline.Options{}, astroerr.OutOfRange},
		// below the horizon with refraction requested
		{"below cutoff", coord.Equa{RA: vega.RA + math.Pi, Dec: -vega.Dec}, vegaTime,
			pipeline.Options{Weather: &horizon.Standard}, astroerr.OutOfRange},
	} {
		if _, err := pipeline.RaDecToAltAz(c.eq, c.inst, loc, c.opts); !errors.Is(err, c.want) {
			t.Errorf("%s: got %v, want %v", c.name, err, c.want)
		}
	}
	// without refraction objects below the horizon are fine
	h, err := pipeline.RaDecToAltAz(coord.Equa{RA: vega.RA + math.Pi, Dec: -vega.Dec}, vegaTime, loc, pipeline.Options{})
	if err != nil || h.Alt > 0 {
		t.Fatal(h, err)
	}
}

func sepH(a, b horizon.Horizontal) unit.Angle {
	u, v := cart(a), cart(b)
	var c coord.Cart
	c.Cross(&u, &v)
	return unit.Angle(math.Atan2(math.Sqrt(c.Square()), u.Dot(&v)))
}

func cart(h horizon.Horizontal) coord.Cart {
	sa, ca := h.Alt.Sincos()
	sz, cz := h.Az.Sincos()
	return coord.Cart{X: ca * cz, Y: ca * sz, Z: sa}
}
