// Public domain.

package altazprog

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/naoina/toml"

	"github.com/soniakeys/altaz/horizon"
	"github.com/soniakeys/altaz/location"
	"github.com/soniakeys/altaz/pipeline"
	"github.com/soniakeys/altaz/timescale"
	"github.com/soniakeys/meeus/v3/base"
)

// config is the content of a job file, for example
//
//	[site]
//	latitude = "31°57′30″ N"
//	longitude = "111°36′ W"
//	altitude = 2120
//	obscode = "695"
//	obscodes = "altaz.obscodes"
//
//	[time]
//	instant = 2024-08-04T06:00:00Z
//	scale = "UTC"
//	leapversion = "IERS Bulletin C 70"
//
//	[weather]
//	pressure = 780
//	temperature = 15
//	humidity = 0.2
//	model = "optical"
//
//	[catalog]
//	epoch = 2000.0
//
//	[output]
//	decimal = false
//	airmass = "young"
//	galactic = true
//
//	[engine]
//	workers = 0
//	threshold = 256
//
//	[[leap]]
//	date = 2030-01-01T00:00:00Z
//	taiminusutc = 38
//
// Every table is optional.  An MPC observatory code replaces latitude,
// longitude and altitude with the site from the obscodes file, which is
// downloaded if missing.  Weather with zero pressure means no
// refraction.  Leap entries extend the built in leap second table, and
// leapversion names the extended table.
type config struct {
	Site struct {
		Latitude  string
		Longitude string
		Altitude  number
		Obscode   string
		Obscodes  string // file, default altaz.obscodes
	}
	Time struct {
		Instant     time.Time
		Scale       string
		LeapVersion string
	}
	Weather struct {
		Pressure    number
		Temperature number
		Humidity    number
		Model       string
	}
	Catalog struct {
		Epoch number // Julian year
	}
	Output struct {
		Decimal  bool
		Airmass  string
		Galactic bool
	}
	Engine struct {
		Workers   int
		Threshold int
	}
	Leap []struct {
		Date        time.Time
		TAIMinusUTC number
	}
}

// number is a TOML float that may also be written as an integer, as in
// altitude = 2120.
type number float64

func (n *number) UnmarshalText(b []byte) error {
	f, err := strconv.ParseFloat(strings.ReplaceAll(string(b), "_", ""), 64)
	if err != nil {
		return fmt.Errorf("%q is not a number", b)
	}
	*n = number(f)
	return nil
}

func readConfig(r io.Reader) (*config, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	c := new(config)
	if err := toml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// job is a validated config.
type job struct {
	inst      timescale.Instant
	loc       location.Location
	opts      pipeline.Options
	airmass   *horizon.AirmassModel
	decimal   bool
	galactic  bool
	workers   int
	threshold int
}

func (c *config) job() (*job, error) {
	j := &job{
		decimal:   c.Output.Decimal,
		galactic:  c.Output.Galactic,
		workers:   c.Engine.Workers,
		threshold: c.Engine.Threshold,
	}
	var err error
	if c.Site.Obscode != "" {
		if j.loc, err = obscodeSite(c.Site.Obscode, c.Site.Obscodes); err != nil {
			return nil, fmt.Errorf("site: %w", err)
		}
	} else if j.loc, err = location.Parse(c.Site.Latitude, c.Site.Longitude, float64(c.Site.Altitude)); err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}
	if c.Time.Instant.IsZero() {
		return nil, fmt.Errorf("time: no instant")
	}
	j.inst = timescale.FromTime(c.Time.Instant)
	switch strings.ToUpper(c.Time.Scale) {
	case "", "UTC":
	case "TT":
		// the clock reading is TT, not UTC
		j.inst.Scale = timescale.TT
	default:
		return nil, fmt.Errorf("time: unknown scale %q", c.Time.Scale)
	}
	if len(c.Leap) > 0 {
		leaps := timescale.DefaultLeapTable().Leaps()
		for _, l := range c.Leap {
			leaps = append(leaps, timescale.Leap{
				JD:          timescale.FromTime(l.Date).JD,
				TAIMinusUTC: float64(l.TAIMinusUTC),
			})
		}
		v := c.Time.LeapVersion
		if v == "" {
			v = timescale.DefaultVersion + " extended"
		}
		if j.opts.Leaps, err = timescale.NewLeapTable(v, leaps); err != nil {
			return nil, fmt.Errorf("leap: %w", err)
		}
	}
	if c.Catalog.Epoch != 0 {
		j.opts.Epoch = base.J2000 + (float64(c.Catalog.Epoch)-2000)*base.JulianYear
	}
	if c.Weather.Pressure != 0 {
		w := &horizon.Atmosphere{
			Pressure:    float64(c.Weather.Pressure),
			Temperature: float64(c.Weather.Temperature),
			Humidity:    float64(c.Weather.Humidity),
		}
		switch strings.ToLower(c.Weather.Model) {
		case "", "optical":
		case "radio":
			w.Model = horizon.RadioModel
		default:
			return nil, fmt.Errorf("weather: unknown model %q", c.Weather.Model)
		}
		if err := w.Check("weather"); err != nil {
			return nil, err
		}
		j.opts.Weather = w
	}
	if c.Output.Airmass != "" {
		m, err := horizon.ParseAirmassModel(strings.ToLower(c.Output.Airmass))
		if err != nil {
			return nil, fmt.Errorf("output: %w", err)
		}
		j.airmass = &m
	}
	return j, nil
}

const defaultObscodes = "altaz.obscodes"

// obscodeSite looks up code in obscode file fn.  If the file cannot be
// read, a fresh copy is fetched.
func obscodeSite(code, fn string) (location.Location, error) {
	if fn == "" {
		fn = defaultObscodes
	}
	m, readErr := readObscodes(fn)
	if readErr != nil {
		// that didn't work.  try getting a fresh copy.
		if err := location.FetchObscodes(fn); err != nil {
			log.Println(readErr) // show error from read attempt,
			return location.Location{}, err
		}
		if m, readErr = readObscodes(fn); readErr != nil {
			return location.Location{}, readErr
		}
	}
	o, ok := m[code]
	if !ok {
		return location.Location{}, fmt.Errorf("obscode %q not in %s", code, fn)
	}
	return o.Location, nil
}

func readObscodes(fn string) (map[string]location.Observatory, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return location.ReadObscodes(f)
}
