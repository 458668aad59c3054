// Package geodesy holds the spherical-earth helpers used to place proximity
// violations on the map: great-circle distance between two fixes and the
// forward projection of a camera's line of sight onto the ground.
//
// Both functions use EarthRadiusMeters. The flight-side scripts projected on a
// 6,378,000.1 m sphere while measuring distance on a 6,371 km one; that ~0.1%
// mismatch meant a projected point never sat at the distance it was projected
// to. One radius is used here so Distance(p, Project(pose)) equals the ground
// range exactly (up to float rounding).
package geodesy

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// EarthRadiusMeters is the mean Earth radius used for every spherical formula
// in this package.
const EarthRadiusMeters = 6371000.0

var (
	// ErrBelowGround is returned when the platform altitude is below the
	// ground elevation baseline, which would project the point behind the camera.
	ErrBelowGround = errors.New("platform altitude below ground elevation")

	// ErrTiltOutOfRange is returned for tilts outside the open interval (-90°, 90°).
	ErrTiltOutOfRange = errors.New("camera tilt outside (-90, 90) degrees")
)

// Point is a geographic fix in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// String formats p as "lat,lon" with the shortest decimals that round-trip.
func (p Point) String() string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lon, 'f', -1, 64)
}

// CameraPose is a telemetry snapshot of the platform carrying the camera.
type CameraPose struct {
	TiltDeg         float64 `json:"tilt_deg"`         // from nadir, positive looks forward
	Altitude        float64 `json:"altitude"`         // meters
	GroundElevation float64 `json:"ground_elevation"` // meters, same datum as Altitude
	Bearing         float64 `json:"bearing"`          // degrees, 0 = north, clockwise
	Position        Point   `json:"position"`
}

// GroundRange returns the horizontal distance in meters from the platform to
// the point the camera axis meets the ground.
func (c CameraPose) GroundRange() (float64, error) {
	if c.TiltDeg <= -90 || c.TiltDeg >= 90 || math.IsNaN(c.TiltDeg) {
		return 0, fmt.Errorf("%w: %g", ErrTiltOutOfRange, c.TiltDeg)
	}
	height := c.Altitude - c.GroundElevation
	if height < 0 {
		return 0, fmt.Errorf("%w: altitude %g, ground %g", ErrBelowGround, c.Altitude, c.GroundElevation)
	}
	return math.Tan(radians(c.TiltDeg)) * height, nil
}

// Distance returns the haversine great-circle distance between a and b in meters.
func Distance(a, b Point) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLat := lat2 - lat1
	dLon := radians(b.Lon) - radians(a.Lon)

	sLat := math.Sin(dLat / 2)
	sLon := math.Sin(dLon / 2)
	// cos(lat1)*cos(lat2) is formed first so the result is bitwise symmetric in a and b.
	h := sLat*sLat + (math.Cos(lat1)*math.Cos(lat2))*sLon*sLon
	// Rounding can push h just past 1 near antipodes.
	h = math.Min(math.Max(h, 0), 1)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMeters * c
}

// Destination returns the point reached by travelling distance meters from
// origin along the initial bearing (degrees).
func Destination(origin Point, bearing, distance float64) Point {
	delta := distance / EarthRadiusMeters
	theta := radians(bearing)
	lat1 := radians(origin.Lat)
	lon1 := radians(origin.Lon)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(theta))
	lon2 := lon1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2),
	)

	return Point{Lat: degrees(lat2), Lon: normalizeLon(degrees(lon2))}
}

// Project returns the ground point the camera is looking at: the pose's
// position moved along its bearing by GroundRange.
func Project(pose CameraPose) (Point, error) {
	d, err := pose.GroundRange()
	if err != nil {
		return Point{}, err
	}
	return Destination(pose.Position, pose.Bearing, d), nil
}

func normalizeLon(lon float64) float64 {
	if lon >= -180 && lon <= 180 {
		return lon
	}
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }
