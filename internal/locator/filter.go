package locator

import "github.com/marchon-locator/internal/domain"

// Predicate selects candidate features before resolution.
type Predicate func(domain.GeoFeature) bool

// Filter keeps the features accepted by every predicate, preserving order.
func Filter(features []domain.GeoFeature, preds ...Predicate) []domain.GeoFeature {
	if len(preds) == 0 {
		return features
	}

	out := make([]domain.GeoFeature, 0, len(features))
	for _, f := range features {
		if acceptAll(f, preds) {
			out = append(out, f)
		}
	}
	return out
}

// ExcludeSources rejects features whose source is one of sources.
func ExcludeSources(sources ...string) Predicate {
	set := make(map[string]struct{}, len(sources))
	for _, s := range sources {
		set[s] = struct{}{}
	}
	return func(f domain.GeoFeature) bool {
		_, excluded := set[f.Properties.Source]
		return !excluded
	}
}

// RequireSource rejects features that carry no source at all.
func RequireSource() Predicate {
	return func(f domain.GeoFeature) bool {
		return f.Properties.HasSource()
	}
}

// KeyIn accepts only features whose key is in keys.
func KeyIn(keys map[string]struct{}) Predicate {
	return func(f domain.GeoFeature) bool {
		_, ok := keys[f.Key]
		return ok
	}
}

func acceptAll(f domain.GeoFeature, preds []Predicate) bool {
	for _, p := range preds {
		if !p(f) {
			return false
		}
	}
	return true
}
