// Package geo holds the pure coordinate checks used by the token lifecycle:
// range validation at stake time and proximity verification at unlock time.
package geo

import (
	id "geostake/pkg/domain"
	dErrors "geostake/pkg/domain-errors"
)

// ProximityTolerance is the per-axis unlock tolerance, in the same scaled
// micro-degree units as coordinates. It is an angular delta, not a metric
// distance, although operator documentation historically called it "meters".
const ProximityTolerance int64 = 100

// Validate checks a coordinate pair against the legal scaled ranges
// (inclusive bounds). Used identically by mint and restake.
//
// Errors: returns CodeInvalidCoordinates when either axis is out of range.
func Validate(lat, lon id.Coordinate) error {
	if lat < id.MinLatitude || lat > id.MaxLatitude {
		return dErrors.Newf(dErrors.CodeInvalidCoordinates, "latitude %d out of range", lat)
	}
	if lon < id.MinLongitude || lon > id.MaxLongitude {
		return dErrors.Newf(dErrors.CodeInvalidCoordinates, "longitude %d out of range", lon)
	}
	return nil
}

// Near reports whether a submitted location matches a staked location within
// tolerance. Both per-axis absolute deltas must be strictly less than the
// tolerance; a delta exactly equal to it fails.
//
// This is a plain integer delta on each axis. There is no great-circle
// correction and no wraparound at the ±180° longitude seam: a stake at
// +179.9999° and a submission at −179.9999° are far apart under this metric
// despite being physically close. Downstream behavior depends on these exact
// threshold semantics, so keep them literal.
func Near(stakedLat, stakedLon, lat, lon id.Coordinate, tolerance int64) bool {
	return absDelta(stakedLat, lat) < tolerance && absDelta(stakedLon, lon) < tolerance
}

func absDelta(a, b id.Coordinate) int64 {
	d := int64(a) - int64(b)
	if d < 0 {
		return -d
	}
	return d
}
