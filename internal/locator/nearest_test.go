package locator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marchon-locator/internal/domain"
	"github.com/marchon-locator/internal/locator"
)

func feature(location, source string, lon, lat float64) domain.GeoFeature {
	props := map[string]interface{}{"location": location}
	if source != "" {
		props["source"] = source
	}
	return domain.NewGeoFeature(lon, lat, props)
}

func TestFindNearest(t *testing.T) {
	t.Run("empty candidates", func(t *testing.T) {
		_, err := locator.FindNearest(domain.GeoPoint{Lat: 40, Lon: -95}, nil)
		assert.ErrorIs(t, err, locator.ErrNotFound)

		_, err = locator.FindNearest(domain.GeoPoint{Lat: 40, Lon: -95}, []domain.GeoFeature{})
		assert.ErrorIs(t, err, locator.ErrNotFound)
	})

	t.Run("exact match wins", func(t *testing.T) {
		features := []domain.GeoFeature{
			feature("F1", "events", -95, 40),
			feature("F2", "events", -95, 41),
		}

		m, err := locator.FindNearest(domain.GeoPoint{Lat: 40, Lon: -95}, features)
		require.NoError(t, err)
		assert.Equal(t, "F1", m.Feature.Key)
		assert.Equal(t, 0.0, m.DistanceKm)
		assert.Equal(t, 0, m.Index)
	})

	t.Run("closest is not first", func(t *testing.T) {
		features := []domain.GeoFeature{
			feature("Seattle, WA", "events", -122.33, 47.61),
			feature("Chicago, IL", "events", -87.63, 41.88),
			feature("Denver, CO", "events", -104.99, 39.74),
		}

		m, err := locator.FindNearest(domain.GeoPoint{Lat: 41.6, Lon: -88.1}, features)
		require.NoError(t, err)
		assert.Equal(t, "Chicago, IL", m.Feature.Key)
		assert.Equal(t, 1, m.Index)
	})

	t.Run("ties keep input order", func(t *testing.T) {
		features := []domain.GeoFeature{
			feature("Office A", "events", -73.97, 40.80),
			feature("Office B", "events", -73.97, 40.80),
		}

		for i := 0; i < 10; i++ {
			m, err := locator.FindNearest(domain.GeoPoint{Lat: 40, Lon: -95}, features)
			require.NoError(t, err)
			assert.Equal(t, "Office A", m.Feature.Key)
		}
	})
}

// точки на одном меридиане по разные стороны от опорной равноудалены,
// но haversine может дать расстояния, отличающиеся в последнем бите
func TestFindNearest_MirroredOnMeridian(t *testing.T) {
	refs := []domain.GeoPoint{
		{Lat: 5.38, Lon: -52.97},
		{Lat: 40.7128, Lon: -74.006},
		{Lat: -33.87, Lon: 151.21},
	}
	offsets := []float64{0.01, 0.5, 1.56, 7.3, 20.25}

	for _, ref := range refs {
		for _, d := range offsets {
			features := []domain.GeoFeature{
				feature("North", "", ref.Lon, ref.Lat+d),
				feature("South", "", ref.Lon, ref.Lat-d),
			}

			m, err := locator.FindNearest(ref, features)
			require.NoError(t, err)
			assert.Equal(t, "North", m.Feature.Key, "ref=%v d=%v", ref, d)
			assert.Equal(t, 0, m.Index)

			ranked := locator.RankByDistance(ref, features, 0)
			require.Len(t, ranked, 2)
			assert.Equal(t, "North", ranked[0].Feature.Key, "ref=%v d=%v", ref, d)
			assert.Equal(t, "South", ranked[1].Feature.Key)
		}
	}
}

func TestFindNearest_ToleranceDoesNotHideRealDifference(t *testing.T) {
	ref := domain.GeoPoint{Lat: 40, Lon: -95}
	features := []domain.GeoFeature{
		feature("Far", "", -95, 40.001),
		feature("Near", "", -95, 40.0009),
	}

	m, err := locator.FindNearest(ref, features)
	require.NoError(t, err)
	assert.Equal(t, "Near", m.Feature.Key)
}

func TestRankByDistance(t *testing.T) {
	features := []domain.GeoFeature{
		feature("far", "events", -122.33, 47.61),
		feature("near", "events", -95, 40.1),
		feature("twin", "events", -95, 40.1),
		feature("mid", "events", -87.63, 41.88),
	}

	ranked := locator.RankByDistance(domain.GeoPoint{Lat: 40, Lon: -95}, features, 3)
	require.Len(t, ranked, 3)
	assert.Equal(t, "near", ranked[0].Feature.Key)
	assert.Equal(t, "twin", ranked[1].Feature.Key)
	assert.Equal(t, "mid", ranked[2].Feature.Key)

	assert.Len(t, locator.RankByDistance(domain.GeoPoint{}, features, 0), 4)
	assert.Empty(t, locator.RankByDistance(domain.GeoPoint{}, nil, 5))
}

func TestFilter(t *testing.T) {
	features := []domain.GeoFeature{
		feature("a", "events", 0, 0),
		feature("b", "actionnetwork", 0, 0),
		feature("c", "", 0, 0),
	}

	t.Run("no predicates returns input", func(t *testing.T) {
		assert.Len(t, locator.Filter(features), 3)
	})

	t.Run("exclude source", func(t *testing.T) {
		out := locator.Filter(features, locator.ExcludeSources(domain.SourceActionNetwork))
		require.Len(t, out, 2)
		assert.Equal(t, "a", out[0].Key)
		assert.Equal(t, "c", out[1].Key)
	})

	t.Run("require source and exclude", func(t *testing.T) {
		out := locator.Filter(features, locator.RequireSource(), locator.ExcludeSources(domain.SourceActionNetwork))
		require.Len(t, out, 1)
		assert.Equal(t, "a", out[0].Key)
	})

	t.Run("filtered to nothing yields not found", func(t *testing.T) {
		out := locator.Filter(features, locator.KeyIn(map[string]struct{}{}))
		_, err := locator.FindNearest(domain.GeoPoint{}, out)
		assert.ErrorIs(t, err, locator.ErrNotFound)
	})
}
