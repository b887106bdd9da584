package domain

import (
	"fmt"
	"math"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// CoordPrecision is the number of decimal places used when two coordinates
// are compared for identity. Six decimal degrees is roughly 0.11 m at the
// equator; the optimizer echoes coordinates at this precision, so anything
// closer is the same physical point.
const CoordPrecision = 6

var coordScale = math.Pow(10, CoordPrecision)

// Position is a typed latitude/longitude value in decimal degrees (WGS84).
// It is the single in-process coordinate representation; the string vs.
// numeric encodings of the external schemas live in the codec package.
type Position struct {
	point orb.Point
}

// NewPosition builds a Position from decimal degrees.
func NewPosition(lat, lon float64) Position {
	return Position{point: orb.Point{lon, lat}}
}

// ParsePosition builds a Position from the string-encoded coordinates used
// by the exploration and grid-result schemas.
func ParsePosition(lat, lon string) (Position, error) {
	latF, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return Position{}, &ValidationError{Field: "latitude", Reason: fmt.Sprintf("not a number: %q", lat)}
	}
	lonF, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return Position{}, &ValidationError{Field: "longitude", Reason: fmt.Sprintf("not a number: %q", lon)}
	}
	return NewPosition(latF, lonF), nil
}

// Lat returns the latitude in decimal degrees.
func (p Position) Lat() float64 { return p.point.Lat() }

// Lon returns the longitude in decimal degrees.
func (p Position) Lon() float64 { return p.point.Lon() }

// Point exposes the underlying orb point.
func (p Position) Point() orb.Point { return p.point }

// DistanceTo returns the haversine distance to other, in meters.
func (p Position) DistanceTo(other Position) float64 {
	return geo.DistanceHaversine(p.point, other.point)
}

// Validate checks the coordinate ranges.
func (p Position) Validate() error {
	if lat := p.Lat(); lat < -90 || lat > 90 || math.IsNaN(lat) {
		return &ValidationError{Field: "latitude", Reason: fmt.Sprintf("out of range: %v", lat)}
	}
	if lon := p.Lon(); lon < -180 || lon > 180 || math.IsNaN(lon) {
		return &ValidationError{Field: "longitude", Reason: fmt.Sprintf("out of range: %v", lon)}
	}
	return nil
}

func (p Position) String() string {
	return fmt.Sprintf("(%s, %s)", EncodeCoord(p.Lat()), EncodeCoord(p.Lon()))
}

// PositionKey is the rounded coordinate identity of a Position. Two
// positions within the CoordPrecision tolerance produce the same key and
// are treated as the same point; anything farther apart is distinct, even
// if very close.
type PositionKey struct {
	Lat float64
	Lon float64
}

// Key returns the tolerance-based identity of the position.
func (p Position) Key() PositionKey {
	return PositionKey{Lat: roundCoord(p.Lat()), Lon: roundCoord(p.Lon())}
}

func roundCoord(v float64) float64 {
	return math.Round(v*coordScale) / coordScale
}

// EncodeCoord renders a coordinate in the shortest exact decimal form, the
// encoding the string-coordinate schemas expect.
func EncodeCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
