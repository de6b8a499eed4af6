package layers

import (
	"github.com/marchon-locator/internal/calendar"
	"github.com/marchon-locator/internal/domain"
)

// Rule решает, попадает ли фича в слой
type Rule func(f domain.GeoFeature, p calendar.Policy) bool

// Имена правил в layers.yaml
const (
	RuleAffiliate              = "affiliate"
	RuleNonAffiliate           = "non_affiliate"
	RuleFamilySeparationFuture = "family_separation_future"
	RuleFamilySeparationPast   = "family_separation_past"
	RuleFlagship               = "flagship"
	RuleNonFlagship            = "non_flagship"
)

var rules = map[string]Rule{
	RuleAffiliate:              affiliate,
	RuleNonAffiliate:           nonAffiliate,
	RuleFamilySeparationFuture: familySeparationFuture,
	RuleFamilySeparationPast:   familySeparationPast,
	RuleFlagship:               flagship,
	RuleNonFlagship:            nonFlagship,
}

// Lookup возвращает правило по имени
func Lookup(name string) (Rule, bool) {
	r, ok := rules[name]
	return r, ok
}

func affiliate(f domain.GeoFeature, _ calendar.Policy) bool {
	return f.Properties.Source == domain.SourceEvents && f.Properties.Affiliate.Affirmative()
}

func nonAffiliate(f domain.GeoFeature, _ calendar.Policy) bool {
	return f.Properties.Source == domain.SourceEvents && !f.Properties.Affiliate.Affirmative()
}

// семейные события: без source, без affiliate (даже "No") и без ключа flagship
func familySeparation(f domain.GeoFeature) bool {
	p := f.Properties
	return !p.HasSource() && !p.Affiliate.Truthy() && !p.Flagship.Present()
}

func familySeparationFuture(f domain.GeoFeature, p calendar.Policy) bool {
	if !familySeparation(f) {
		return false
	}
	t, err := calendar.ParseEventDate(f.Properties.EventDate)
	if err != nil {
		return false
	}
	return !p.IsPast(t)
}

// Прошлый слой исторически включает все семейные события, вне зависимости от даты
func familySeparationPast(f domain.GeoFeature, _ calendar.Policy) bool {
	return familySeparation(f)
}

func flagship(f domain.GeoFeature, _ calendar.Policy) bool {
	return f.Properties.Flagship == domain.FlagYes
}

func nonFlagship(f domain.GeoFeature, _ calendar.Policy) bool {
	return f.Properties.Flagship.Present() && f.Properties.Flagship != domain.FlagYes
}
