package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marchon-locator/internal/domain"
)

const collection = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [-97.74, 30.27]},
     "properties": {"location": "Austin, TX", "source": "events", "affiliate": "Yes"}},
    {"type": "Feature", "id": "19103::Jane Doe", "geometry": {"type": "Point", "coordinates": [-75.16, 39.95]},
     "properties": {"location": "19103", "host": "Jane Doe", "source": "actionnetwork"}},
    {"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]},
     "properties": {"location": "Line"}}
  ]
}`

func TestDecodeFeatureCollection(t *testing.T) {
	features, skipped, err := domain.DecodeFeatureCollection([]byte(collection))
	require.NoError(t, err)

	require.Len(t, features, 2)
	assert.Equal(t, 1, skipped)

	assert.Equal(t, "Austin, TX", features[0].Key)
	assert.Equal(t, -97.74, features[0].Coordinates.Lon)
	assert.Equal(t, 30.27, features[0].Coordinates.Lat)
	assert.True(t, features[0].Properties.Affiliate.Affirmative())

	assert.Equal(t, "19103::Jane Doe", features[1].Key)
	_, hasID := features[1].Properties.Get("id")
	assert.False(t, hasID)
}

func TestDecodeFeatureCollection_Invalid(t *testing.T) {
	_, _, err := domain.DecodeFeatureCollection([]byte(`{"type": `))
	assert.Error(t, err)
}

func TestEncodeFeatureCollection_RoundTrip(t *testing.T) {
	features, _, err := domain.DecodeFeatureCollection([]byte(collection))
	require.NoError(t, err)

	data, err := domain.EncodeFeatureCollection(features)
	require.NoError(t, err)

	decoded, skipped, err := domain.DecodeFeatureCollection(data)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, decoded, len(features))
	for i := range features {
		assert.Equal(t, features[i].Key, decoded[i].Key)
		assert.Equal(t, features[i].Coordinates, decoded[i].Coordinates)
		assert.True(t, features[i].Properties.Equal(decoded[i].Properties))
	}
}

func TestFeatureSet_Len(t *testing.T) {
	var set *domain.FeatureSet
	assert.Zero(t, set.Len())
	assert.Equal(t, 1, (&domain.FeatureSet{Features: []domain.GeoFeature{{}}}).Len())
}
