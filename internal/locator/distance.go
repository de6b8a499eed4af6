// Package locator resolves the feature closest to a reference point.
package locator

import (
	"errors"
	"math"

	"github.com/marchon-locator/internal/domain"
	"github.com/marchon-locator/internal/pkg/utils"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// ErrInvalidCoordinate is returned by ValidatePoint for out-of-range input.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// HaversineDistanceKm returns the great-circle distance between a and b in kilometers.
// The half-angle term is clamped to [0, 1] so antipodal points stay well-defined.
func HaversineDistanceKm(a, b domain.GeoPoint) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat + math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*sinLon*sinLon
	h = math.Max(0, math.Min(1, h))

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// ValidatePoint fails fast on latitude outside [-90, 90] or longitude outside [-180, 180].
func ValidatePoint(p domain.GeoPoint) error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || !utils.ValidateCoordinates(p.Lat, p.Lon) {
		return ErrInvalidCoordinate
	}
	return nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
