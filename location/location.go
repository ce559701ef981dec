// Public domain.

// Package location holds the observer location type and a parser for the
// many textual forms latitudes, longitudes and right ascensions come in.
package location

import (
	"fmt"

	"github.com/soniakeys/altaz/astroerr"
	"github.com/soniakeys/meeus/v3/globe"
	"github.com/soniakeys/unit"
)

// MinAltitude is the lowest observer altitude accepted, in meters.
const MinAltitude = -500

// Location is an observer location on the Earth.
//
// The zero value is a valid location, sea level at latitude 0, longitude 0.
// Other values can only be made by New or Parse, which check ranges, so a
// Location in hand is always valid.
type Location struct {
	lat, lon unit.Angle
	alt      float64
}

// New constructs a Location from latitude and longitude in degrees and
// altitude in meters above sea level.
//
// Longitude is east positive and is accepted in either of the conventions
// [-180,180] or [0,360).  It is normalized to (-180,180].
func New(latDeg, lonDeg, altM float64) (Location, error) {
	const op = "location.New"
	if err := astroerr.Finite(op, latDeg, lonDeg, altM); err != nil {
		return Location{}, err
	}
	if latDeg < -90 || latDeg > 90 {
		return Location{}, astroerr.Range(op, latDeg, "latitude outside [-90,90]")
	}
	if lonDeg < -180 || lonDeg >= 360 {
		return Location{}, astroerr.Range(op, lonDeg, "longitude outside [-180,360)")
	}
	if altM < MinAltitude {
		return Location{}, astroerr.Range(op, altM, "altitude below -500 m")
	}
	if lonDeg > 180 {
		lonDeg -= 360
	}
	return Location{
		lat: unit.AngleFromDeg(latDeg),
		lon: unit.AngleFromDeg(lonDeg),
		alt: altM,
	}, nil
}

// Parse constructs a Location from latitude and longitude text.
//
// Text forms are those accepted by ParseLatitude and ParseLongitude.
func Parse(latText, lonText string, altM float64) (Location, error) {
	lat, err := ParseLatitude(latText)
	if err != nil {
		return Location{}, err
	}
	lon, err := ParseLongitude(lonText)
	if err != nil {
		return Location{}, err
	}
	return New(lat, lon, altM)
}

// Lat returns geographic latitude, north positive.
func (l Location) Lat() unit.Angle { return l.lat }

// Lon returns longitude, east positive, in (-180°,180°].
func (l Location) Lon() unit.Angle { return l.lon }

// Alt returns altitude in meters above sea level.
func (l Location) Alt() float64 { return l.alt }

// ParallaxConstants returns ρ sin φ′ and ρ cos φ′, the observer's
// geocentric position in units of the Earth's equatorial radius.
func (l Location) ParallaxConstants() (ρsφ, ρcφ float64) {
	return globe.Earth76.ParallaxConstants(l.lat, l.alt)
}

func (l Location) String() string {
	return fmt.Sprintf("%.6f %.6f %.1fm", l.lat.Deg(), l.lon.Deg(), l.alt)
}
