package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// FeatureSet - полный снимок набора данных, загруженный за один раз
type FeatureSet struct {
	Dataset  string       `json:"dataset"`
	Features []GeoFeature `json:"-"`
	Skipped  int          `json:"skipped"`
	LoadedAt time.Time    `json:"loaded_at"`
}

// Len - количество фич в снимке
func (s *FeatureSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Features)
}

// DecodeFeatureCollection разбирает GeoJSON FeatureCollection.
// Берутся только Point-геометрии, остальные фичи пропускаются и считаются в skipped.
func DecodeFeatureCollection(data []byte) ([]GeoFeature, int, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, 0, fmt.Errorf("decode feature collection: %w", err)
	}

	features := make([]GeoFeature, 0, len(fc.Features))
	skipped := 0
	for _, f := range fc.Features {
		if f == nil {
			skipped++
			continue
		}
		point, ok := f.Geometry.(*geom.Point)
		if !ok || point == nil || len(point.FlatCoords()) < 2 {
			skipped++
			continue
		}

		feature := NewGeoFeature(point.X(), point.Y(), f.Properties)
		if f.ID != "" {
			feature.Key = f.ID
		}
		features = append(features, feature)
	}

	return features, skipped, nil
}

// EncodeFeatureCollection сериализует фичи обратно в GeoJSON
func EncodeFeatureCollection(features []GeoFeature) ([]byte, error) {
	fc := geojson.FeatureCollection{
		Features: make([]*geojson.Feature, 0, len(features)),
	}
	for _, f := range features {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         f.Key,
			Geometry:   geom.NewPointFlat(geom.XY, []float64{f.Coordinates.Lon, f.Coordinates.Lat}),
			Properties: f.Properties.Map(),
		})
	}

	data, err := json.Marshal(&fc)
	if err != nil {
		return nil, fmt.Errorf("encode feature collection: %w", err)
	}
	return data, nil
}
