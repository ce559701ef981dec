// Public domain.

package batch_test

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/soniakeys/altaz/astroerr"
	"github.com/soniakeys/altaz/batch"
	"github.com/soniakeys/altaz/horizon"
	"github.com/soniakeys/altaz/location"
	"github.com/soniakeys/altaz/pipeline"
	"github.com/soniakeys/altaz/place"
	"github.com/soniakeys/altaz/timescale"
	"github.com/soniakeys/coord"
	"github.com/soniakeys/unit"
	xrand "golang.org/x/exp/rand"
)

var inst = timescale.FromTime(time.Date(2024, 8, 4, 6, 0, 0, 0, time.UTC))

func site(t testing.TB) location.Location {
	loc, err := location.New(31.9583, -111.6, 2120)
	if err != nil {
		t.Fatal(err)
	}
	return loc
}

// sky returns n coordinates spread uniformly over the sphere.
func sky(n int, seed uint64) []coord.Equa {
	r := xrand.New(&xrand.PCGSource{})
	r.Seed(seed)
	c := make([]coord.Equa, n)
	for i := range c {
		c[i] = coord.Equa{
			RA:  unit.RAFromRad(r.Float64() * 2 * math.Pi),
			Dec: unit.Angle(math.Asin(r.Float64()*2 - 1)),
		}
	}
	return c
}

func ExampleRaDecToAltAzBatch() {
	loc, _ := location.New(31.9583, -111.6, 2120)
	coords := []coord.Equa{
		{RA: unit.RAFromDeg(279.23473479), Dec: unit.AngleFromDeg(38.78368896)},
		{Dec: unit.AngleFromDeg(120)},
	}
	res, err := batch.RaDecToAltAzBatch(coords, inst, loc, pipeline.Options{})
	if err != nil {
		fmt.Println(err)
		return
	}
	for i, r := range res {
		if r.Err != nil {
			fmt.Println(i, astroerr.KindOf(r.Err))
			continue
		}
		fmt.Printf("%d alt %.2f° az %.2f°\n", i, r.Alt.Deg(), r.Az.Deg())
	}
	// Output:
	// 0 alt 77.91° az 307.88°
	// 1 out of range
}

func TestMatchesSingle(t *testing.T) {
	loc := site(t)
	coords := sky(1000, 10)
	for _, opts := range []pipeline.Options{
		{},
		{Weather: &horizon.Standard},
		{Weather: &horizon.Atmosphere{Pressure: 790, Temperature: 12, Humidity: .3, Model: horizon.RadioModel}},
	} {
		want := make([]batch.Result, len(coords))
		for i, c := range coords {
			want[i].Horizontal, want[i].Err = pipeline.RaDecToAltAz(c, inst, loc, opts)
		}
		for _, e := range []*batch.Engine{
			batch.New(1, 0, nil),    // sequential
			batch.New(4, 5000, nil), // below threshold
			batch.New(2, 1, nil),    // parallel
			batch.New(3, 1, nil),    // uneven chunks
			batch.New(7, 100, nil),  // uneven chunks
			batch.New(64, 10, nil),  // small chunks
			batch.New(2000, 1, nil), // more workers than objects
			batch.New(0, 0, nil),    // defaults
		} {
			got, err := e.Run(batch.Request{Coords: coords, Instant: inst, Location: loc, Options: opts})
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(want) {
				t.Fatalf("%d results, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i].Horizontal != want[i].Horizontal ||
					astroerr.KindOf(got[i].Err) != astroerr.KindOf(want[i].Err) {
					t.Fatalf("workers %d: index %d got %+v, want %+v",
						e.Workers(), i, got[i], want[i])
				}
			}
		}
	}
}

func TestPartialFailure(t *testing.T) {
	coords := sky(600, 20)
	bad := map[int]astroerr.Kind{
		0:   astroerr.InvalidInput,
		17:  astroerr.OutOfRange,
		300: astroerr.InvalidInput,
		599: astroerr.OutOfRange,
	}
	for i, k := range bad {
		if k == astroerr.InvalidInput {
			coords[i].Dec = unit.Angle(math.NaN())
		} else {
			coords[i].Dec = unit.AngleFromDeg(-95)
		}
	}
	for _, workers := range []int{1, 4} {
		res, err := batch.New(workers, 1, nil).Run(batch.Request{Coords: coords, Instant: inst, Location: site(t)})
		if err != nil {
			t.Fatal(err)
		}
		for i, r := range res {
			want, isBad := bad[i]
			switch {
			case isBad && !errors.Is(r.Err, want):
				t.Errorf("index %d: got %v, want %v", i, r.Err, want)
			case !isBad && r.Err != nil:
				t.Errorf("index %d: unexpected %v", i, r.Err)
			}
		}
	}
}

func TestRefractionFailuresIsolated(t *testing.T) {
	// half the sky is below the horizon, where refraction is undefined
	coords := sky(500, 30)
	res, err := batch.New(4, 1, nil).Run(batch.Request{
		Coords:   coords,
		Instant:  inst,
		Location: site(t),
		Options:  pipeline.Options{Weather: &horizon.Standard},
	})
	if err != nil {
		t.Fatal(err)
	}
	var ok, low int
	for _, r := range res {
		switch {
		case r.Err == nil:
			ok++
		case errors.Is(r.Err, astroerr.OutOfRange):
			low++
		default:
			t.Fatal(r.Err)
		}
	}
	if ok < 150 || low < 150 {
		t.Fatalf("%d ok, %d below cutoff", ok, low)
	}
}

func TestProperMotions(t *testing.T) {
	coords := sky(300, 40)
	pms := make([]place.ProperMotion, len(coords))
	for i := range pms {
		pms[i] = place.ProperMotion{RA: unit.AngleFromSec(float64(i % 7)), Dec: unit.AngleFromSec(-float64(i % 5))}
	}
	loc := site(t)
	res, err := batch.New(3, 1, nil).Run(batch.Request{Coords: coords, ProperMotions: pms, Instant: inst, Location: loc})
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range coords {
		want, _ := pipeline.RaDecToAltAz(c, inst, loc, pipeline.Options{ProperMotion: pms[i]})
		if res[i].Horizontal != want {
			t.Fatalf("index %d: %+v, want %+v", i, res[i].Horizontal, want)
		}
	}
	_, err = batch.New(0, 0, nil).Run(batch.Request{Coords: coords, ProperMotions: pms[1:], Instant: inst, Location: loc})
	if !errors.Is(err, astroerr.InvalidInput) {
		t.Fatal(err)
	}
}

func TestSharedFailure(t *testing.T) {
	var log strings.Builder
	e := batch.New(2, 1, slog.New(slog.NewTextHandler(&log, nil)))
	res, err := e.Run(batch.Request{
		Coords:   sky(10, 50),
		Instant:  timescale.Instant{JD: math.Inf(1)},
		Location: site(t),
	})
	if !errors.Is(err, astroerr.InvalidInput) || res != nil {
		t.Fatal(res, err)
	}
	if !strings.Contains(log.String(), "batch_id=") {
		t.Fatalf("log %q", log.String())
	}
	_, err = e.Run(batch.Request{
		Coords:   sky(10, 50),
		Instant:  inst,
		Location: site(t),
		Options:  pipeline.Options{Weather: &horizon.Atmosphere{Pressure: 2000}},
	})
	if !errors.Is(err, astroerr.OutOfRange) {
		t.Fatal(err)
	}
}

func TestEmpty(t *testing.T) {
	res, err := batch.New(4, 1, nil).Run(batch.Request{Instant: inst, Location: site(t)})
	if err != nil || len(res) != 0 {
		t.Fatal(res, err)
	}
}

func TestDefaults(t *testing.T) {
	e := batch.New(-1, -1, nil)
	if e.Workers() < 1 || e.Threshold() != batch.DefaultThreshold {
		t.Fatal(e.Workers(), e.Threshold())
	}
}

func BenchmarkRun(b *testing.B) {
	coords := sky(10000, 60)
	req := batch.Request{Coords: coords, Instant: inst, Location: site(b)}
	for _, w := range []int{1, 0} {
		e := batch.New(w, 0, nil)
		b.Run(fmt.Sprintf("workers=%d", e.Workers()), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := e.Run(req); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
