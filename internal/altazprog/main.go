// Public domain.

// Package altazprog is the altaz command.  It lives under internal so
// that cmd/altaz stays a one line main.
package altazprog

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/altaz/batch"
	"github.com/soniakeys/altaz/galactic"
	"github.com/soniakeys/altaz/horizon"
	"github.com/soniakeys/altaz/location"
	"github.com/soniakeys/altaz/place"
	"github.com/soniakeys/coord"
	"github.com/soniakeys/exit"
	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"
)

const versionString = "altaz version 0.1 Go source."
const copyrightString = "Public domain."

// default job file, read from the working directory if present
const defaultConfig = "altaz.toml"

func Main() {
	defer exit.Handler()

	cl := parseCommandLine()
	j := cl.job()

	var f *os.File
	if cl.fnCat == "-" {
		f = os.Stdin
	} else {
		var err error
		if f, err = os.Open(cl.fnCat); err != nil {
			exit.Log(err)
		}
		defer f.Close()
	}
	if err := j.run(f, os.Stdout); err != nil {
		exit.Log(err)
	}
}

type commandLine struct {
	dc       string // config file
	t        string // instant, RFC 3339
	lat, lon string
	alt      float64
	altSet   bool
	w        bool   // standard atmosphere
	d        bool   // decimal output
	fnCat    string // catalog
}

func parseCommandLine() *commandLine {
	var cl commandLine
	dh := flag.Bool("h", false, "")
	dv := flag.Bool("v", false, "")
	flag.StringVar(&cl.dc, "c", "", "")
	flag.StringVar(&cl.t, "t", "", "")
	flag.StringVar(&cl.lat, "lat", "", "")
	flag.StringVar(&cl.lon, "lon", "", "")
	flag.Func("alt", "", func(s string) (err error) {
		cl.altSet = true
		cl.alt, err = strconv.ParseFloat(s, 64)
		return
	})
	flag.BoolVar(&cl.w, "w", false, "")
	flag.BoolVar(&cl.d, "d", false, "")
	flag.Usage = func() {
		os.Stderr.WriteString(`
Usage: altaz [options] <catalog>    observed places of catalog objects
       altaz [options] -            catalog from stdin
       altaz -h                     display help and quick reference
       altaz -v                     display version and copyright

Options:
       -c <config-file>
       -t <time>        RFC 3339, for example 2024-08-04T06:00:00Z
       -lat <latitude>  for example "31°57′30″ N"
       -lon <longitude> for example "111°36′ W"
       -alt <meters>
       -w               refract for a standard atmosphere
       -d               decimal degrees output

Default:
       -c=` + defaultConfig + "\n")
	}
	flag.Parse()
	switch {
	case *dh:
		printHelp()
		os.Exit(0)
	case *dv:
		fmt.Println(versionString)
		fmt.Println(copyrightString)
		os.Exit(0)
	case flag.NArg() != 1:
		flag.Usage()
		os.Exit(1)
	}
	cl.fnCat = flag.Arg(0)
	return &cl
}

// job reads the config file and applies command line overrides.
func (cl *commandLine) job() *job {
	c := new(config)
	fn := cl.dc
	if fn == "" {
		fn = defaultConfig
	}
	f, err := os.Open(fn)
	switch {
	case err == nil:
		c, err = readConfig(f)
		f.Close()
		if err != nil {
			exit.Log(err)
		}
	case cl.dc != "" || !errors.Is(err, os.ErrNotExist):
		exit.Log(err)
	}
	if cl.t > "" {
		if c.Time.Instant, err = time.Parse(time.RFC3339, cl.t); err != nil {
			exit.Log(err)
		}
	}
	if cl.lat > "" {
		c.Site.Latitude = cl.lat
	}
	if cl.lon > "" {
		c.Site.Longitude = cl.lon
	}
	if cl.altSet {
		c.Site.Altitude = number(cl.alt)
	}
	if cl.w && c.Weather.Pressure == 0 {
		c.Weather.Pressure = number(horizon.Standard.Pressure)
		c.Weather.Temperature = number(horizon.Standard.Temperature)
	}
	if cl.d {
		c.Output.Decimal = true
	}
	j, err := c.job()
	if err != nil {
		exit.Log(err)
	}
	return j
}

// line is one catalog record, either parsed or failed.
type line struct {
	name string
	eq   coord.Equa
	pm   place.ProperMotion
	err  error
}

// readCatalog reads semicolon separated records
//
//	name; ra; dec[; pmra; pmdec]
//
// Ra and dec take any form location.ParseRA and ParseDeclination accept.
// Proper motions are mas/yr, pmra including the cos δ factor.  Lines
// starting with # are comments.  A bad record gives a line with err set;
// only errors reading the stream are returned.
func readCatalog(r io.Reader) ([]line, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true // seconds marks
	var lines []line
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return nil, err
			}
			lines = append(lines, line{name: fmt.Sprint("line ", pe.Line), err: pe.Err})
			continue
		}
		lines = append(lines, parseRecord(rec))
	}
}

func parseRecord(rec []string) (l line) {
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	l.name = rec[0]
	if len(rec) != 3 && len(rec) != 5 {
		l.err = fmt.Errorf("%d fields, want 3 or 5", len(rec))
		return
	}
	ra, err := location.ParseRA(rec[1])
	if err != nil {
		l.err = err
		return
	}
	dec, err := location.ParseDeclination(rec[2])
	if err != nil {
		l.err = err
		return
	}
	l.eq = coord.Equa{RA: unit.RAFromDeg(ra), Dec: unit.AngleFromDeg(dec)}
	if len(rec) == 5 {
		var μ [2]float64
		for i, s := range rec[3:] {
			if μ[i], err = strconv.ParseFloat(s, 64); err != nil {
				l.err = fmt.Errorf("proper motion %q: %w", s, err)
				return
			}
		}
		l.pm = place.ProperMotion{
			RA:  unit.AngleFromSec(μ[0] / 1000),
			Dec: unit.AngleFromSec(μ[1] / 1000),
		}
	}
	return
}

// run transforms the catalog on in and writes one line per record to
// out, in input order.
func (j *job) run(in io.Reader, out io.Writer) error {
	lines, err := readCatalog(in)
	if err != nil {
		return err
	}
	req := batch.Request{
		Instant:  j.inst,
		Location: j.loc,
		Options:  j.opts,
	}
	for _, l := range lines {
		if l.err == nil {
			req.Coords = append(req.Coords, l.eq)
			req.ProperMotions = append(req.ProperMotions, l.pm)
		}
	}
	res, err := batch.New(j.workers, j.threshold, nil).Run(req)
	if err != nil {
		return err
	}
	for _, l := range lines {
		if l.err != nil {
			fmt.Fprintf(out, "%-12s error: %v\n", l.name, l.err)
			continue
		}
		r := res[0]
		res = res[1:]
		if r.Err != nil {
			fmt.Fprintf(out, "%-12s error: %v\n", l.name, r.Err)
			continue
		}
		fmt.Fprintf(out, "%-12s %s", l.name, j.format(r.Horizontal))
		if j.airmass != nil {
			if x, err := horizon.Airmass(r.Alt, *j.airmass); err == nil {
				fmt.Fprintf(out, " %7.3f", x)
			} else {
				fmt.Fprint(out, "       -")
			}
		}
		if j.galactic {
			// catalog place, not the place of date
			if g, err := galactic.FromEquatorial(l.eq); err == nil {
				fmt.Fprintf(out, "  %s", j.formatGal(g))
			}
		}
		fmt.Fprintln(out)
	}
	return nil
}

func (j *job) format(h horizon.Horizontal) string {
	if j.decimal {
		return fmt.Sprintf("%9.4f %9.4f", h.Alt.Deg(), h.Az.Deg())
	}
	return fmt.Sprintf("%.1s %.1s", sexa.FmtAngle(h.Alt), sexa.FmtAngle(h.Az))
}

func (j *job) formatGal(g galactic.Coord) string {
	if j.decimal {
		return fmt.Sprintf("%9.4f %9.4f", g.Lon.Deg(), g.Lat.Deg())
	}
	return fmt.Sprintf("%.0s %.0s", sexa.FmtAngle(g.Lon), sexa.FmtAngle(g.Lat))
}

func printHelp() {
	fmt.Println(`
Altaz computes observed altitude and azimuth of catalog objects for an
observer at a given site and time.  Input is a catalog of semicolon
separated records, one object per line:

   name; ra; dec
   name; ra; dec; pmra; pmdec

Ra and dec are J2000.0 equatorial coordinates, in decimal degrees or
sexagesimal ("18h36m56.3s; +38°47′01″").  Proper motions are mas/yr.
Output is altitude and azimuth, azimuth from north through east.

Config file tables:
   [site]      latitude, longitude, altitude
   [time]      instant, scale
   [weather]   pressure, temperature, humidity, model
   [catalog]   epoch
   [output]    decimal, airmass, galactic
   [engine]    workers, threshold

Airmass models:`)
	for _, m := range []horizon.AirmassModel{horizon.Secant, horizon.Young,
		horizon.Pickering, horizon.KastenYoung} {
		fmt.Println("  ", m)
	}
	fmt.Println(`
For full documentation:
   go doc github.com/soniakeys/altaz`)
}
