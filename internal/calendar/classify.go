package calendar

import (
	"sort"
	"strconv"

	"github.com/marchon-locator/internal/domain"
)

// BuildRecord строит EventRecord из фичи. Без корректной даты - ErrParseFailure.
func BuildRecord(f domain.GeoFeature, p Policy) (domain.EventRecord, error) {
	t, err := ParseEventDate(f.Properties.EventDate)
	if err != nil {
		return domain.EventRecord{}, err
	}

	name := f.Properties.EventName
	if name == "" {
		name = f.Properties.Name
	}

	return domain.EventRecord{
		Location:     f.Properties.Location,
		Name:         name,
		EventDateISO: t.Format(ISODateLayout),
		Weekday:      t.Weekday().String(),
		MonthName:    t.Month().String(),
		DayOfMonth:   strconv.Itoa(t.Day()),
		Link:         f.Properties.EventLink,
		IsPast:       p.IsPast(t),
	}, nil
}

// Classify раскладывает события на прошедшие и будущие.
// Фичи без даты или с битой датой молча пропускаются.
func Classify(features []domain.GeoFeature, p Policy) (past, future []domain.EventRecord) {
	past = make([]domain.EventRecord, 0)
	future = make([]domain.EventRecord, 0)

	for _, f := range features {
		rec, err := BuildRecord(f, p)
		if err != nil {
			continue
		}
		if rec.IsPast {
			past = append(past, rec)
		} else {
			future = append(future, rec)
		}
	}
	return past, future
}

// SortUpcoming сортирует по (ymd, name) не меняя входной слайс
func SortUpcoming(events []domain.EventRecord) []domain.EventRecord {
	out := make([]domain.EventRecord, len(events))
	copy(out, events)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EventDateISO != out[j].EventDateISO {
			return out[i].EventDateISO < out[j].EventDateISO
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Upcoming - отсортированные будущие события
func Upcoming(features []domain.GeoFeature, p Policy) []domain.EventRecord {
	_, future := Classify(features, p)
	return SortUpcoming(future)
}

// FutureFeatures оставляет фичи с датой не раньше отсечки
func FutureFeatures(features []domain.GeoFeature, p Policy) []domain.GeoFeature {
	out := make([]domain.GeoFeature, 0, len(features))
	for _, f := range features {
		t, err := ParseEventDate(f.Properties.EventDate)
		if err != nil || p.IsPast(t) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// FindByLocation ищет первое событие в локации (метаданные для попапа)
func FindByLocation(events []domain.EventRecord, location string) (domain.EventRecord, bool) {
	for _, ev := range events {
		if ev.Location == location {
			return ev, true
		}
	}
	return domain.EventRecord{}, false
}
