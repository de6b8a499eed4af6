package locator

import (
	"errors"
	"sort"

	"github.com/marchon-locator/internal/domain"
)

// ErrNotFound means there was no candidate to choose from.
var ErrNotFound = errors.New("no candidate features")

// TieToleranceKm is how close two distances must be to count as a tie.
const TieToleranceKm = 1e-9

// closer reports whether a is nearer than b by more than TieToleranceKm.
func closer(a, b float64) bool {
	return a < b-TieToleranceKm
}

// Match is a feature together with its distance from the reference point.
type Match struct {
	Feature    domain.GeoFeature
	DistanceKm float64
	// Index is the position of Feature in the candidate slice.
	Index int
}

// FindNearest returns the feature closest to ref.
//
// Ties, distances within TieToleranceKm of each other, are resolved in favour
// of the feature that comes first in features.
// An empty candidate slice yields ErrNotFound.
func FindNearest(ref domain.GeoPoint, features []domain.GeoFeature) (Match, error) {
	if len(features) == 0 {
		return Match{}, ErrNotFound
	}

	best := Match{
		Feature:    features[0],
		DistanceKm: HaversineDistanceKm(ref, features[0].Point()),
	}
	for i := 1; i < len(features); i++ {
		d := HaversineDistanceKm(ref, features[i].Point())
		if closer(d, best.DistanceKm) {
			best = Match{Feature: features[i], DistanceKm: d, Index: i}
		}
	}

	return best, nil
}

// RankByDistance returns up to limit matches ordered by distance.
// Equidistant features (see TieToleranceKm) keep their input order.
// limit <= 0 means no limit.
func RankByDistance(ref domain.GeoPoint, features []domain.GeoFeature, limit int) []Match {
	matches := make([]Match, len(features))
	for i, f := range features {
		matches[i] = Match{Feature: f, DistanceKm: HaversineDistanceKm(ref, f.Point()), Index: i}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return closer(matches[i].DistanceKm, matches[j].DistanceKm)
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
