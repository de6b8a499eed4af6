package usecase

import (
	"sort"

	"github.com/marchon-locator/internal/domain"
)

// MergeResult - набор данных после слияния со строками источника
type MergeResult struct {
	Features   []domain.GeoFeature
	Unchanged  int
	Updated    int
	Inserted   int
	Dropped    int
	// Kept - фичи без строки, которые не принадлежат ни одному из источников
	Kept       int
	OrphanKeys []string
}

// MergeRows накладывает строки источника на сохранённый набор.
// Изменённые properties дописываются поверх старых, геометрия сохраняется.
// Новые строки без геометрии отбрасываются. Фичи, которых нет в rows, уходят в
// OrphanKeys, если owned их признаёт (nil - все фичи), остальные сохраняются как есть.
// Порядок: сначала сохранённые фичи в исходном порядке, затем новые по ключу.
func MergeRows(rows map[string]domain.SourceRow, existing []domain.GeoFeature, owned func(domain.GeoFeature) bool) MergeResult {
	res := MergeResult{
		Features: make([]domain.GeoFeature, 0, len(rows)),
	}

	seen := make(map[string]struct{}, len(existing))
	for _, f := range existing {
		seen[f.Key] = struct{}{}

		row, ok := rows[f.Key]
		if !ok {
			if owned == nil || owned(f) {
				res.OrphanKeys = append(res.OrphanKeys, f.Key)
				continue
			}
			res.Kept++
			res.Features = append(res.Features, f)
			continue
		}

		incoming := domain.NewFeatureProperties(row.Properties)
		if incoming.Equal(f.Properties) {
			res.Unchanged++
			res.Features = append(res.Features, f)
			continue
		}

		props := f.Properties.Map()
		for k, v := range row.Properties {
			props[k] = v
		}
		coords := f.Coordinates
		if row.Geometry != nil {
			coords = *row.Geometry
		}
		res.Updated++
		res.Features = append(res.Features, keyed(f.Key, coords, props))
	}

	fresh := make([]string, 0)
	for key := range rows {
		if _, ok := seen[key]; !ok {
			fresh = append(fresh, key)
		}
	}
	sort.Strings(fresh)

	for _, key := range fresh {
		row := rows[key]
		if row.Geometry == nil {
			res.Dropped++
			continue
		}
		res.Inserted++
		res.Features = append(res.Features, keyed(key, *row.Geometry, row.Properties))
	}

	return res
}

// MissingKeys - ключи строк, которых ещё нет в наборе (их нужно геокодировать)
func MissingKeys(rows map[string]domain.SourceRow, existing []domain.GeoFeature) []string {
	have := make(map[string]struct{}, len(existing))
	for _, f := range existing {
		have[f.Key] = struct{}{}
	}

	out := make([]string, 0)
	for key := range rows {
		if _, ok := have[key]; !ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

func keyed(key string, c domain.Coordinates, props map[string]interface{}) domain.GeoFeature {
	f := domain.NewGeoFeature(c.Lon, c.Lat, props)
	f.Key = key
	return f
}
