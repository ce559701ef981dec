// Public domain.

package place_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/soniakeys/altaz/astroerr"
	"github.com/soniakeys/altaz/orient"
	"github.com/soniakeys/altaz/place"
	"github.com/soniakeys/coord"
	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/unit"
	xrand "golang.org/x/exp/rand"
)

// θ Persei, mean place of 2028 November 13.19 TD
var (
	θPer = coord.Equa{RA: unit.RAFromDeg(41.5472), Dec: unit.AngleFromDeg(49.3485)}
	jde  = 2462088.69
)

func ExampleApplyAberration() {
	ap, err := place.ApplyAberration(θPer, jde)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("Δα = %+.1f″\n", unit.Angle(ap.RA-θPer.RA).Sec())
	fmt.Printf("Δδ = %+.1f″\n", (ap.Dec - θPer.Dec).Sec())
	// Output:
	// Δα = +30.0″
	// Δδ = +6.7″
}

func TestApplyAberration(t *testing.T) {
	ap, err := place.ApplyAberration(θPer, jde)
	if err != nil {
		t.Fatal(err)
	}
	if d := unit.Angle(ap.RA-θPer.RA).Sec() - 30.045; math.Abs(d) > .01 {
		t.Errorf("Δα off by %v″", d)
	}
	if d := (ap.Dec - θPer.Dec).Sec() - 6.697; math.Abs(d) > .01 {
		t.Errorf("Δδ off by %v″", d)
	}
}

func TestRemoveAberration(t *testing.T) {
	r := xrand.New(&xrand.PCGSource{})
	r.Seed(23)
	for i := 0; i < 500; i++ {
		eq := randomEqua(r)
		jd := base.J2000 + r.Float64()*50*base.JulianYear
		ap, err := place.ApplyAberration(eq, jd)
		if err != nil {
			t.Fatal(err)
		}
		back, err := place.RemoveAberration(ap, jd)
		if err != nil {
			t.Fatal(err)
		}
		if d := sep(eq, back).Sec(); d > 1e-6 {
			t.Fatalf("%v: remove after apply off by %v″", eq, d)
		}
	}
}

func TestAberrationMagnitude(t *testing.T) {
	r := xrand.New(&xrand.PCGSource{})
	r.Seed(1729)
	for i := 0; i < 1000; i++ {
		eq := randomEqua(r)
		jd := base.J2000 + (r.Float64()*2-1)*100*base.JulianYear
		m, err := place.AberrationMagnitude(eq, jd)
		if err != nil {
			t.Fatal(err)
		}
		if m < 0 || m >= 21 {
			t.Fatalf("magnitude %v″ outside [0,21)", m)
		}
		ap, _ := place.ApplyAberration(eq, jd)
		if d := sep(eq, ap).Sec(); math.Abs(d-m) > 1e-6 {
			t.Fatalf("magnitude %v″, displacement %v″", m, d)
		}
	}
	// ecliptic pole sees nearly the full constant all year
	pole := coord.Equa{RA: unit.RAFromHour(18), Dec: unit.AngleFromDeg(66.56)}
	m, _ := place.AberrationMagnitude(pole, jde)
	if m < 20 || m > 21 {
		t.Fatalf("ecliptic pole magnitude %v″", m)
	}
}

func TestAberrationPeriod(t *testing.T) {
	// vernal equinox direction near the March equinox of 2024
	eq := coord.Equa{}
	t0 := 2460390.0
	a0, _ := place.ApplyAberration(eq, t0)
	half, _ := place.ApplyAberration(eq, t0+base.JulianYear/2)
	year, _ := place.ApplyAberration(eq, t0+base.JulianYear)
	if d := sep(a0, year).Sec(); d > .05 {
		t.Errorf("one year later displacement differs by %v″", d)
	}
	if d := sep(a0, half).Sec(); d < 40 {
		t.Errorf("half a year later displacement differs by only %v″", d)
	}
}

func TestDiurnal(t *testing.T) {
	a := place.NewAberration(jde, orient.TrueObliquity(jde))
	// star on the meridian at the equator, east point of the horizon
	last := unit.HourAngleFromHour(6)
	d := a.WithDiurnal(1, last)
	east := coord.Equa{RA: unit.RAFromHour(12), Dec: 0}
	m0, _ := a.Magnitude(east)
	m1, _ := d.Magnitude(east)
	if dm := math.Abs(m1.Sec() - m0.Sec()); dm > .33 {
		t.Fatalf("diurnal term changed magnitude by %v″", dm)
	}
	if a.V == d.V {
		t.Fatal("diurnal term had no effect")
	}
}

func TestAberrationErrors(t *testing.T) {
	if _, err := place.ApplyAberration(θPer, math.Inf(-1)); !errors.Is(err, astroerr.InvalidInput) {
		t.Fatal(err)
	}
	bad := coord.Equa{Dec: unit.AngleFromDeg(-90.5)}
	if _, err := place.RemoveAberration(bad, jde); !errors.Is(err, astroerr.OutOfRange) {
		t.Fatal(err)
	}
	if _, err := place.AberrationMagnitude(coord.Equa{RA: unit.RA(math.NaN())}, jde); !errors.Is(err, astroerr.InvalidInput) {
		t.Fatal(err)
	}
}

func ExampleAdvance() {
	// θ Persei, J2000 catalog place and motion
	eq := coord.Equa{
		RA:  unit.NewRA(2, 44, 11.986),
		Dec: unit.NewAngle(' ', 49, 13, 42.48),
	}
	pm := place.ProperMotionFromCoordinateRate(
		unit.HourAngleFromSec(.03425), unit.AngleFromSec(-.0895), eq.Dec)
	p, err := place.Advance(eq, pm, base.J2000, jde)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%.3fs %.3f″\n", p.RA.Sec()-2*3600-44*60, p.Dec.Sec()-(49*3600+13*60))
	// Output:
	// 12.975s 39.896″
}

func TestAdvance(t *testing.T) {
	eq := coord.Equa{RA: unit.RAFromDeg(100), Dec: unit.AngleFromDeg(20)}
	same, err := place.Advance(eq, place.ProperMotion{}, base.J2000, jde)
	if err != nil || same != eq {
		t.Fatal(same, err)
	}
	// 1″ a year north for a century
	pm := place.ProperMotion{Dec: unit.AngleFromSec(1)}
	p, _ := place.Advance(eq, pm, base.J2000, base.J2000+100*base.JulianYear)
	if d := (p.Dec - eq.Dec).Sec(); math.Abs(d-100) > 1e-3 {
		t.Fatalf("moved %v″ in dec", d)
	}
	back, _ := place.Advance(p, pm, base.J2000+100*base.JulianYear, base.J2000)
	if d := sep(eq, back).Sec(); d > 1e-3 {
		t.Fatalf("reverse advance off by %v″", d)
	}
}

func TestAdvancePole(t *testing.T) {
	pole := coord.Equa{Dec: unit.AngleFromDeg(90)}
	pm := place.ProperMotion{RA: unit.AngleFromSec(10)}
	p, err := place.Advance(pole, pm, base.J2000, base.J2000+10*base.JulianYear)
	if err != nil {
		t.Fatal(err)
	}
	if d := sep(pole, p).Sec(); math.Abs(d-100) > 1e-3 {
		t.Fatalf("moved %v″ from the pole", d)
	}
	if math.IsNaN(p.RA.Rad()) || math.IsNaN(p.Dec.Rad()) {
		t.Fatal(p)
	}
}

func TestAdvanceErrors(t *testing.T) {
	eq := coord.Equa{}
	if _, err := place.Advance(eq, place.ProperMotion{RA: unit.Angle(math.NaN())}, base.J2000, jde); !errors.Is(err, astroerr.InvalidInput) {
		t.Fatal(err)
	}
	if _, err := place.Advance(eq, place.ProperMotion{}, math.NaN(), jde); !errors.Is(err, astroerr.InvalidInput) {
		t.Fatal(err)
	}
}

func randomEqua(r *xrand.Rand) coord.Equa {
	return coord.Equa{
		RA:  unit.RAFromRad(r.Float64() * 2 * math.Pi),
		Dec: unit.Angle(math.Asin(r.Float64()*2 - 1)),
	}
}

func sep(a, b coord.Equa) unit.Angle {
	u, v := orient.Cart(a), orient.Cart(b)
	var c coord.Cart
	c.Cross(&u, &v)
	return unit.Angle(math.Atan2(math.Sqrt(c.Square()), u.Dot(&v)))
}
