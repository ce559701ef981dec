// Public domain.

package location_test

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/soniakeys/altaz/astroerr"
	"github.com/soniakeys/altaz/location"
	xrand "golang.org/x/exp/rand"
)

const obscodes = `<pre>
Code  Long.   cos      sin    Name
000   0.0000 0.62411 +0.77873 Greenwich
248   0.0000 0.00000  0.00000 Hipparcos
250                           Hubble Space Telescope
695 248.4001 0.849931+0.526479Kitt Peak
E12 149.0642 0.85563 -0.51621 Siding Spring Survey
</pre>
`

var siteTestCases = []struct {
	code     string
	lat, lon float64
	alt      float64
}{
	{"000", 51.4774, 0, 65.8},
	{"695", 31.9480, -111.5999, 4557.3},
	{"E12", -31.2735, 149.0642, 1183.1},
}

func ExampleReadObscodes() {
	m, err := location.ReadObscodes(strings.NewReader(obscodes))
	if err != nil {
		fmt.Println(err)
		return
	}
	o := m["000"]
	fmt.Printf("%s %s %.4f°\n", o.Code, o.Name, o.Location.Lat().Deg())
	// Output:
	// 000 Greenwich 51.4774°
}

func TestReadObscodes(t *testing.T) {
	m, err := location.ReadObscodes(strings.NewReader(obscodes))
	if err != nil {
		t.Fatal(err)
	}
	// space based sites have no location
	if len(m) != 3 {
		t.Fatal(len(m), m)
	}
	for _, c := range siteTestCases {
		o, ok := m[c.code]
		switch {
		case !ok:
			t.Fatal("missing", c.code)
		case math.Abs(o.Location.Lat().Deg()-c.lat) > 1e-3:
			t.Error("bad latitude, code", c.code, o.Location.Lat().Deg())
		case math.Abs(o.Location.Lon().Deg()-c.lon) > 1e-3:
			t.Error("bad longitude, code", c.code, o.Location.Lon().Deg())
		case math.Abs(o.Location.Alt()-c.alt) > 1:
			t.Error("bad altitude, code", c.code, o.Location.Alt())
		}
	}
	if _, err := location.ReadObscodes(strings.NewReader("<pre>\n</pre>\n")); !errors.Is(err, astroerr.InvalidFormat) {
		t.Fatal(err)
	}
}

func TestFromParallaxConstants(t *testing.T) {
	r := xrand.New(&xrand.PCGSource{})
	r.Seed(695)
	for i := 0; i < 500; i++ {
		lat := r.Float64()*180 - 90
		alt := r.Float64()*5000 - 400
		l, err := location.New(lat, 10, alt)
		if err != nil {
			t.Fatal(err)
		}
		s, c := l.ParallaxConstants()
		back, err := location.FromParallaxConstants(10, s, c)
		if err != nil {
			t.Fatal(lat, alt, err)
		}
		if math.Abs(back.Lat().Deg()-lat) > 1e-9 || math.Abs(back.Alt()-alt) > 1e-3 {
			t.Fatalf("lat %v alt %v: got %v %v", lat, alt, back.Lat().Deg(), back.Alt())
		}
	}
	for _, c := range []struct{ s, c float64 }{
		{0, 0},
		{.5, -.8},
		{0, 2},
		{math.NaN(), 1},
	} {
		if _, err := location.FromParallaxConstants(0, c.s, c.c); err == nil {
			t.Errorf("%v %v accepted", c.s, c.c)
		}
	}
}
