// Package geofence tests whether a reported coordinate lies inside any of a
// set of circular office zones. This is pure domain logic - no I/O, no side
// effects - so the rules stay centralized and testable.
package geofence

import (
	"math"

	id "presensi/pkg/domain"
	dErrors "presensi/pkg/domain-errors"
)

// earthRadiusMeters is the mean Earth radius used by the haversine formula.
const earthRadiusMeters = 6371000.0

// Zone is a circular geofence around a registered office location.
type Zone struct {
	ID           id.LocationID
	Name         string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// Result reports the outcome of a containment test. When no zones are
// configured at all, NearestZone and DistanceMeters are both nil - a
// configuration-error condition callers must report distinctly from
// "outside all zones".
type Result struct {
	Inside         bool
	NearestZone    *Zone
	DistanceMeters *float64
}

// Locate tests the point against every zone and reports whether it is inside
// at least one, along with the nearest zone and the distance to it. Ties
// favor the nearest zone.
func Locate(lat, lng float64, zones []Zone) (Result, error) {
	if err := validateCoordinate(lat, lng); err != nil {
		return Result{}, err
	}

	if len(zones) == 0 {
		return Result{}, nil
	}

	var nearest *Zone
	minDistance := math.Inf(1)
	inside := false

	for i := range zones {
		z := &zones[i]
		d := Distance(lat, lng, z.Latitude, z.Longitude)
		if d < minDistance {
			minDistance = d
			nearest = z
		}
		if d <= z.RadiusMeters {
			inside = true
		}
	}

	return Result{
		Inside:         inside,
		NearestZone:    nearest,
		DistanceMeters: &minDistance,
	}, nil
}

// Distance computes the great-circle distance in meters between two
// coordinates using the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	deltaPhi := (lat2 - lat1) * math.Pi / 180
	deltaLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

func validateCoordinate(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return dErrors.New(dErrors.CodeInvalidInput, "coordinate must be numeric")
	}
	if lat < -90 || lat > 90 {
		return dErrors.New(dErrors.CodeInvalidInput, "latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return dErrors.New(dErrors.CodeInvalidInput, "longitude must be between -180 and 180")
	}
	return nil
}
