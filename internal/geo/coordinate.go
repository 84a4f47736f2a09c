package geo

import (
	"errors"
	"fmt"
)

// ErrInvalidCoordinate is returned when a latitude or longitude is out of range.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Coordinate is a validated point on the earth's surface, in degrees.
type Coordinate struct {
	Lat float64 `json:"latitude"`
	Lng float64 `json:"longitude"`
}

// NewCoordinate validates lat in [-90, 90] and lng in [-180, 180].
func NewCoordinate(lat, lng float64) (Coordinate, error) {
	if lat < -90 || lat > 90 || lat != lat {
		return Coordinate{}, fmt.Errorf("%w: latitude %v must be between -90 and 90", ErrInvalidCoordinate, lat)
	}
	if lng < -180 || lng > 180 || lng != lng {
		return Coordinate{}, fmt.Errorf("%w: longitude %v must be between -180 and 180", ErrInvalidCoordinate, lng)
	}
	return Coordinate{Lat: lat, Lng: lng}, nil
}

// String formats the coordinate as "lat, lng" with four decimals.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lng)
}
