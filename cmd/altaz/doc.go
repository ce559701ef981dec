/*
Command altaz computes where catalog objects appear in the sky of an
observer: altitude above the horizon and azimuth from north through east.

Contents

  Program overview
  Command line usage
  Job file
  Catalog format
  Output
  Algorithm outline


Program overview

Input is a catalog of J2000.0 equatorial places, one object per line,
optionally with proper motions.  A job file gives the observer's site, the
time, and optionally the weather.  Output is one line per object with its
observed altitude and azimuth.

All objects of a run share one instant and one site.  Quantities depending
only on those, such as precession, nutation and sidereal time, are computed
once.  Large catalogs are split among processor cores.


Command line usage

Invoking the program without command line arguments (or with invalid
arguments) shows this usage prompt.

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

Options -t, -lat, -lon, -alt, -w and -d override the job file.


Job file

The job file is TOML.  Without -c, altaz.toml in the working directory is
read if it exists.  A job file is required to be present if -c is used.

	[site]
	latitude = "31°57′30″ N"
	longitude = "111°36′ W"
	altitude = 2120

	[time]
	instant = 2024-08-04T06:00:00Z
	scale = "UTC"

	[weather]
	pressure = 780
	temperature = 15
	humidity = 0.2
	model = "optical"

	[catalog]
	epoch = 2000.0

	[output]
	decimal = false
	airmass = "young"
	galactic = true

	[engine]
	workers = 0
	threshold = 256

Latitude and longitude take decimal degrees, sexagesimal with or without
marks, and hemisphere letters.  Longitude is east positive.  Altitude is
meters above the WGS 84 ellipsoid.

Scale is UTC or TT.  UTC is also taken as UT1 for sidereal time.

Weather is optional.  Without it, or with zero pressure, altitudes are
geometric.  Pressure is hPa, temperature °C, humidity relative from 0 to 1.
Model "optical" refracts by the formulas of Bennett and Saemundsson;
"radio" scales Bennett's formula by the refractivity of moist air.  With
weather, objects more than one degree below the horizon are reported as
errors.

Catalog epoch is the Julian year of the catalog places, from which proper
motion is applied.  The default is 2000.0.

Airmass adds a column of relative air mass by the named model, one of
secant, young, pickering or kasten-young.  Galactic adds galactic
longitude and latitude of the catalog place.

Workers and threshold tune the batch engine.  Zero workers means one per
processor.  Catalogs shorter than threshold are computed sequentially.

Entries of the form

	[[leap]]
	date = 2030-01-01T00:00:00Z
	taiminusutc = 38

extend the built in leap second table, which ends with 2017.


Catalog format

Records are semicolon separated fields,

	name; ra; dec
	name; ra; dec; pmra; pmdec

Lines beginning with # are ignored.  Ra is decimal degrees, or sexagesimal
hours such as 18h36m56.3s or 18 36 56.3.  Dec is decimal degrees or
sexagesimal degrees.  Proper motions are mas/yr, with pmra the rate along
the great circle, μα cos δ, as Hipparcos and Gaia give it.


Output

Each output line starts with the object name, followed by altitude and
azimuth, then airmass and galactic coordinates if requested.  Records that
could not be parsed or computed are reported on their own line with the
error, in catalog order.


Algorithm outline

1.  Proper motion moves the catalog place along its great circle from the
catalog epoch to the time of observation.

2.  Precession from J2000.0 to the mean equator and equinox of date uses the
IAU 1976 angles of Lieske.

3.  Nutation of the 1980 IAU theory gives the true equator and equinox.

4.  Annual aberration from the Earth's velocity, including the eccentricity
terms, and diurnal aberration from the observer's rotation give the
apparent place.

5.  Local apparent sidereal time gives the hour angle, and the site latitude
gives altitude and azimuth.

6.  If weather is given, refraction raises the geometric altitude.  The
inverse of the refraction formula is solved by Newton iteration.

-------------
Public domain.
*/
package main
