// Public domain.

package location

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/soniakeys/altaz/astroerr"
	"github.com/soniakeys/meeus/v3/globe"
)

// ObscodeURL links to the MPC list of observatory codes, the file known as
// obscode.dat.  It has column headings and enclosing <pre></pre> tags;
// these are safely ignored by ReadObscodes.
var ObscodeURL = "https://minorplanetcenter.net/iau/lists/ObsCodes.html"

// Observatory is a ground based site of the MPC list.
type Observatory struct {
	Code     string
	Name     string
	Location Location
}

// FetchObscodes gets a fresh copy of the data at ObscodeURL and writes it
// to a new file fn.
func FetchObscodes(fn string) error {
	r, err := http.Get(ObscodeURL)
	if err != nil {
		return err
	}
	defer r.Body.Close()
	if r.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: %s", ObscodeURL, r.Status)
	}
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	if _, err = io.Copy(f, r.Body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadObscodes reads observatory codes in the obscode.dat format, keyed by
// the three character code.
//
// Lines that do not parse as data are quietly ignored.  So are sites with
// both parallax constants blank or zero, which have no fixed place on the
// ground.
func ReadObscodes(r io.Reader) (map[string]Observatory, error) {
	m := make(map[string]Observatory)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if len(line) < 30 {
			continue // <pre> and such
		}
		var v [3]float64
		ok := true
		for i, f := range [...]string{line[4:13], line[13:21], line[21:30]} {
			ts := strings.TrimSpace(f)
			if ts == "" {
				continue // blank fields default to 0
			}
			var err error
			if v[i], err = strconv.ParseFloat(ts, 64); err != nil {
				ok = false // column heading line
				break
			}
		}
		if !ok || v[1] == 0 && v[2] == 0 {
			continue
		}
		loc, err := FromParallaxConstants(v[0], v[2], v[1])
		if err != nil {
			continue
		}
		code := line[:3]
		m[code] = Observatory{
			Code:     code,
			Name:     strings.TrimSpace(line[30:]),
			Location: loc,
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(m) == 0 {
		return nil, astroerr.New(astroerr.InvalidFormat, "location.ReadObscodes", "", "no observatory data")
	}
	return m, nil
}

// FromParallaxConstants constructs a Location from east longitude in
// degrees and parallax constants ρ sin φ′ and ρ cos φ′.  It is the inverse
// of Location.ParallaxConstants.
func FromParallaxConstants(lonDeg, ρsφ, ρcφ float64) (Location, error) {
	const op = "location.FromParallaxConstants"
	if err := astroerr.Finite(op, lonDeg, ρsφ, ρcφ); err != nil {
		return Location{}, err
	}
	if ρcφ < 0 || math.Hypot(ρsφ, ρcφ) < .9 || math.Hypot(ρsφ, ρcφ) > 1.1 {
		return Location{}, astroerr.Range(op, math.Hypot(ρsφ, ρcφ), "not a place near the Earth's surface")
	}
	a := globe.Earth76.Er * 1000
	e2 := globe.Earth76.Fl * (2 - globe.Earth76.Fl)
	// meridian plane coordinates in meters
	x := ρcφ * a
	z := ρsφ * a
	φ := math.Atan2(z, x*(1-e2))
	for i := 0; i < 20; i++ {
		s := math.Sin(φ)
		n := a / math.Sqrt(1-e2*s*s)
		next := math.Atan2(z+e2*n*s, x)
		done := math.Abs(next-φ) < 1e-15
		φ = next
		if done {
			break
		}
	}
	s, c := math.Sincos(φ)
	n := a / math.Sqrt(1-e2*s*s)
	var h float64
	if math.Abs(c) > .1 {
		h = x/c - n
	} else {
		h = z/s - n*(1-e2)
	}
	return New(φ*180/math.Pi, lonDeg, h)
}
