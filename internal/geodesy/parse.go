package geodesy

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrBadCoords is returned by ParsePoint for anything but "lat,lon" in range.
var ErrBadCoords = errors.New("coordinates must be \"lat,lon\" in decimal degrees")

// ParsePoint parses the "lat,lon" form used in flight URLs. It is the inverse
// of Point.String.
func ParsePoint(s string) (Point, error) {
	latStr, lonStr, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return Point{}, fmt.Errorf("%w: %q", ErrBadCoords, s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: %q", ErrBadCoords, s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: %q", ErrBadCoords, s)
	}
	p := Point{Lat: lat, Lon: lon}
	if !p.Valid() {
		return Point{}, fmt.Errorf("%w: %q out of range", ErrBadCoords, s)
	}
	return p, nil
}

// Valid reports whether p is a finite fix within [-90,90]×[-180,180].
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}
