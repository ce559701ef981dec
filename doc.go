/*
Package altaz is the root of a set of packages converting catalog places
of stars to observed altitude and azimuth.

Packages, roughly in order of the transformation chain:

	location   observer site, and parsing of angle text
	timescale  UTC and TT instants, leap second tables
	orient     precession, nutation, sidereal time
	place      proper motion, annual and diurnal aberration
	horizon    horizontal coordinates, refraction, airmass
	galactic   galactic coordinates
	pipeline   the full chain for one object
	batch      the full chain for many objects, in parallel
	astroerr   error kinds shared by all packages

Commands are cmd/altaz, reading a catalog file, and cmd/altazd, an HTTP
service.

Angles are held in the types of github.com/soniakeys/unit and directions
in those of github.com/soniakeys/coord.  Places are J2000.0 unless noted.
Errors from all packages are *astroerr.Error values; test the kind with
errors.Is.

-------------
Public domain.
*/
package altaz
