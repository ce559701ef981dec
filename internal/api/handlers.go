// Public domain.

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/altaz/astroerr"
	"github.com/soniakeys/altaz/batch"
	"github.com/soniakeys/altaz/galactic"
	"github.com/soniakeys/altaz/horizon"
	"github.com/soniakeys/altaz/location"
	"github.com/soniakeys/altaz/orient"
	"github.com/soniakeys/altaz/pipeline"
	"github.com/soniakeys/altaz/place"
	"github.com/soniakeys/altaz/timescale"
	"github.com/soniakeys/coord"
	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/unit"
)

// maxBody bounds altaz request bodies.
const maxBody = 64 << 20

// angle is an angle in JSON, either a number of degrees or text in any
// form the location parsers accept.
type angle string

func (a *angle) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = angle(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(b), 64); err != nil {
		return fmt.Errorf("angle %s: not a number or string", b)
	}
	*a = angle(b)
	return nil
}

type weatherJSON struct {
	Pressure    float64 `json:"pressure"`    // hPa
	Temperature float64 `json:"temperature"` // °C
	Humidity    float64 `json:"humidity"`    // relative, 0 to 1
	Model       string  `json:"model"`       // optical or radio
}

type objectJSON struct {
	Name  string  `json:"name,omitempty"`
	RA    angle   `json:"ra"`
	Dec   angle   `json:"dec"`
	PMRA  float64 `json:"pm_ra"`  // mas/yr, μα cos δ
	PMDec float64 `json:"pm_dec"` // mas/yr
}

type altazRequest struct {
	Time      string       `json:"time"` // RFC 3339
	JD        float64      `json:"jd"`   // used if time is empty
	Scale     string       `json:"scale"`
	Latitude  angle        `json:"latitude"`
	Longitude angle        `json:"longitude"`
	Altitude  float64      `json:"altitude"` // meters
	Epoch     float64      `json:"epoch"`    // Julian year of catalog places
	Weather   *weatherJSON `json:"weather"`
	Objects   []objectJSON `json:"objects"`
}

type resultJSON struct {
	Name  string   `json:"name,omitempty"`
	Alt   *float64 `json:"alt,omitempty"`
	Az    *float64 `json:"az,omitempty"`
	Error string   `json:"error,omitempty"`
	Kind  string   `json:"kind,omitempty"`
}

type altazResponse struct {
	RequestID string       `json:"request_id"`
	LeapTable string       `json:"leap_table"`
	Results   []resultJSON `json:"results"`
}

func (s *Server) altaz(w http.ResponseWriter, r *http.Request) {
	var req altazRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if len(req.Objects) > s.cfg.MaxObjects {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":       fmt.Sprintf("%d objects requested", len(req.Objects)),
			"max_objects": s.cfg.MaxObjects,
			"request_id":  requestID(r.Context()),
		})
		return
	}
	inst, err := instant(req.Time, req.JD, req.Scale)
	if err != nil {
		writeError(w, r, 0, err)
		return
	}
	loc, err := location.Parse(string(req.Latitude), string(req.Longitude), req.Altitude)
	if err != nil {
		writeError(w, r, 0, err)
		return
	}
	opts := pipeline.Options{Leaps: s.leaps}
	if req.Epoch != 0 {
		opts.Epoch = base.J2000 + (req.Epoch-2000)*base.JulianYear
	}
	if wj := req.Weather; wj != nil {
		if opts.Weather, err = weather(wj); err != nil {
			writeError(w, r, 0, err)
			return
		}
	}

	resp := altazResponse{
		RequestID: requestID(r.Context()),
		LeapTable: s.leaps.Version(),
		Results:   make([]resultJSON, len(req.Objects)),
	}
	breq := batch.Request{Instant: inst, Location: loc, Options: opts}
	var index []int // result index of each batch entry
	for i, o := range req.Objects {
		resp.Results[i].Name = o.Name
		eq, pm, err := o.parse()
		if err != nil {
			resp.Results[i].setError(err)
			continue
		}
		breq.Coords = append(breq.Coords, eq)
		breq.ProperMotions = append(breq.ProperMotions, pm)
		index = append(index, i)
	}
	res, err := s.engine.Run(breq)
	if err != nil {
		writeError(w, r, 0, err)
		return
	}
	for k, x := range res {
		rj := &resp.Results[index[k]]
		if x.Err != nil {
			rj.setError(x.Err)
			continue
		}
		alt, az := x.Alt.Deg(), x.Az.Deg()
		rj.Alt, rj.Az = &alt, &az
	}
	writeJSON(w, http.StatusOK, resp)
}

func (o objectJSON) parse() (coord.Equa, place.ProperMotion, error) {
	ra, err := location.ParseRA(string(o.RA))
	if err != nil {
		return coord.Equa{}, place.ProperMotion{}, err
	}
	dec, err := location.ParseDeclination(string(o.Dec))
	if err != nil {
		return coord.Equa{}, place.ProperMotion{}, err
	}
	if err := astroerr.Finite("api.object", o.PMRA, o.PMDec); err != nil {
		return coord.Equa{}, place.ProperMotion{}, err
	}
	return coord.Equa{RA: unit.RAFromDeg(ra), Dec: unit.AngleFromDeg(dec)},
		place.ProperMotion{
			RA:  unit.AngleFromSec(o.PMRA / 1000),
			Dec: unit.AngleFromSec(o.PMDec / 1000),
		}, nil
}

func (rj *resultJSON) setError(err error) {
	rj.Error = err.Error()
	if k := astroerr.KindOf(err); k != 0 {
		rj.Kind = k.String()
	}
}

func weather(wj *weatherJSON) (*horizon.Atmosphere, error) {
	a := &horizon.Atmosphere{
		Pressure:    wj.Pressure,
		Temperature: wj.Temperature,
		Humidity:    wj.Humidity,
	}
	switch strings.ToLower(wj.Model) {
	case "", "optical":
	case "radio":
		a.Model = horizon.RadioModel
	default:
		return nil, astroerr.New(astroerr.InvalidFormat, "api.weather", wj.Model, "unknown refraction model")
	}
	return a, a.Check("api.weather")
}

// instant resolves an RFC 3339 time, or else a Julian date, on the named
// scale.
func instant(ts string, jd float64, scale string) (timescale.Instant, error) {
	const op = "api.instant"
	var i timescale.Instant
	if ts != "" {
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return i, astroerr.New(astroerr.InvalidFormat, op, ts, "time not RFC 3339")
		}
		i = timescale.FromTime(t)
	} else {
		if jd == 0 {
			return i, astroerr.New(astroerr.InvalidInput, op, "", "no time or jd")
		}
		if err := astroerr.Finite(op, jd); err != nil {
			return i, err
		}
		i.JD = jd
	}
	switch strings.ToUpper(scale) {
	case "", "UTC":
	case "TT":
		i.Scale = timescale.TT
	default:
		return i, astroerr.New(astroerr.InvalidFormat, op, scale, "unknown time scale")
	}
	return i, nil
}

func (s *Server) sidereal(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var jd float64
	if v := q.Get("jd"); v != "" {
		var err error
		if jd, err = strconv.ParseFloat(v, 64); err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
	}
	inst, err := instant(q.Get("time"), jd, q.Get("scale"))
	if err != nil {
		writeError(w, r, 0, err)
		return
	}
	// sidereal time runs on UT
	ut := s.leaps.UTC(inst)
	resp := map[string]any{
		"jd":   ut,
		"gmst": orient.GMST(ut),
		"gast": orient.GAST(ut),
	}
	if v := q.Get("longitude"); v != "" {
		lon, err := location.ParseLongitude(v)
		if err != nil {
			writeError(w, r, 0, err)
			return
		}
		resp["lmst"] = orient.LMST(ut, unit.AngleFromDeg(lon))
		resp["last"] = orient.LAST(ut, unit.AngleFromDeg(lon))
	}
	writeJSON(w, http.StatusOK, resp)
}

// galacticHandler converts ra, dec to l, b, or l, b to ra, dec.  All
// angles are J2000.0 degrees.
func galacticHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("l") || q.Has("b") {
		l, err1 := strconv.ParseFloat(q.Get("l"), 64)
		b, err2 := strconv.ParseFloat(q.Get("b"), 64)
		if err := errors.Join(err1, err2); err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
		eq, err := galactic.ToEquatorial(galactic.Coord{
			Lon: unit.AngleFromDeg(l),
			Lat: unit.AngleFromDeg(b),
		})
		if err != nil {
			writeError(w, r, 0, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]float64{"ra": eq.RA.Deg(), "dec": eq.Dec.Deg()})
		return
	}
	ra, err := location.ParseRA(q.Get("ra"))
	if err != nil {
		writeError(w, r, 0, err)
		return
	}
	dec, err := location.ParseDeclination(q.Get("dec"))
	if err != nil {
		writeError(w, r, 0, err)
		return
	}
	g, err := galactic.FromEquatorial(coord.Equa{RA: unit.RAFromDeg(ra), Dec: unit.AngleFromDeg(dec)})
	if err != nil {
		writeError(w, r, 0, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"l": g.Lon.Deg(), "b": g.Lat.Deg()})
}

func airmassHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	alt, err := strconv.ParseFloat(q.Get("alt"), 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	m := horizon.Young
	if v := q.Get("model"); v != "" {
		if m, err = horizon.ParseAirmassModel(v); err != nil {
			writeError(w, r, 0, err)
			return
		}
	}
	x, err := horizon.Airmass(unit.AngleFromDeg(alt), m)
	if err != nil {
		writeError(w, r, 0, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"airmass": x, "model": m.String()})
}

type leapJSON struct {
	Date        string  `json:"date"`
	JD          float64 `json:"jd"`
	TAIMinusUTC float64 `json:"tai_minus_utc"`
}

func (s *Server) leapSeconds(w http.ResponseWriter, r *http.Request) {
	leaps := s.leaps.Leaps()
	out := make([]leapJSON, len(leaps))
	for i, l := range leaps {
		out[i] = leapJSON{
			Date:        timescale.Instant{JD: l.JD}.Time().Format(time.DateOnly),
			JD:          l.JD,
			TAIMinusUTC: l.TAIMinusUTC,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"version":      s.leaps.Version(),
		"tt_minus_tai": timescale.TTMinusTAI,
		"leap_seconds": out,
	})
}

// statusOf maps error kinds to HTTP status codes.
func statusOf(err error) int {
	switch astroerr.KindOf(err) {
	case astroerr.OutOfRange, astroerr.ConvergenceFailure:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// writeError writes err as JSON.  Status 0 means statusOf(err).
func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status == 0 {
		status = statusOf(err)
	}
	body := map[string]string{
		"error":      err.Error(),
		"request_id": requestID(r.Context()),
	}
	if k := astroerr.KindOf(err); k != 0 {
		body["kind"] = k.String()
	}
	writeJSON(w, status, body)
}
