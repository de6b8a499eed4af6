package layers

import (
	"github.com/marchon-locator/internal/calendar"
	"github.com/marchon-locator/internal/domain"
)

// Partition раскладывает фичи по слоям. Одна фича может попасть в несколько
// слоёв. Пустые слои не возвращаются, порядок - как в каталоге.
func (c *Catalogue) Partition(features []domain.GeoFeature, p calendar.Policy) []domain.LayerGroup {
	groups := make([]domain.LayerGroup, 0, len(c.layers))

	for i, l := range c.layers {
		var matched []domain.GeoFeature
		for _, f := range features {
			if c.rules[i](f, p) {
				matched = append(matched, f)
			}
		}
		if len(matched) == 0 {
			continue
		}
		groups = append(groups, domain.LayerGroup{Layer: l, Features: matched})
	}
	return groups
}

// Select возвращает фичи, попавшие хотя бы в один из слоёв ids, без дублей
func (c *Catalogue) Select(features []domain.GeoFeature, p calendar.Policy, ids []string) []domain.GeoFeature {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	out := make([]domain.GeoFeature, 0)
	for _, f := range features {
		for i, l := range c.layers {
			if _, ok := want[l.ID]; !ok {
				continue
			}
			if c.rules[i](f, p) {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

// Visible - id видимых слоёв. checked == nil означает исходное состояние
// легенды (initially_checked).
func Visible(groups []domain.LayerGroup, checked []string) []string {
	var on map[string]struct{}
	if checked != nil {
		on = make(map[string]struct{}, len(checked))
		for _, id := range checked {
			on[id] = struct{}{}
		}
	}

	out := make([]string, 0, len(groups))
	for _, g := range groups {
		if on == nil {
			if g.Layer.InitiallyChecked {
				out = append(out, g.Layer.ID)
			}
			continue
		}
		if _, ok := on[g.Layer.ID]; ok {
			out = append(out, g.Layer.ID)
		}
	}
	return out
}

// LayersOf - id слоёв, в которые попадает фича
func (c *Catalogue) LayersOf(f domain.GeoFeature, p calendar.Policy) []string {
	out := make([]string, 0, 1)
	for i, l := range c.layers {
		if c.rules[i](f, p) {
			out = append(out, l.ID)
		}
	}
	return out
}
