package domain

import (
	"fmt"
	"strconv"
)

// Coordinate is a signed fixed-point geographic coordinate scaled by 1e6
// (micro-degrees). 40.748817°N is stored as 40748817.
type Coordinate int64

// CoordinateScale converts between degrees and stored micro-degrees.
const CoordinateScale = 1_000_000

// Legal inclusive bounds for staked coordinates, in micro-degrees.
const (
	MinLatitude  Coordinate = -90 * CoordinateScale
	MaxLatitude  Coordinate = 90 * CoordinateScale
	MinLongitude Coordinate = -180 * CoordinateScale
	MaxLongitude Coordinate = 180 * CoordinateScale
)

// ParseCoordinate constructs a Coordinate from external input. Range checks
// belong to geo.Validate; parsing only rejects non-numeric values.
func ParseCoordinate(s string) (Coordinate, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("coordinate must be a scaled integer: %w", err)
	}
	return Coordinate(n), nil
}

func (c Coordinate) String() string {
	return strconv.FormatInt(int64(c), 10)
}
