package calendar

import "time"

// Policy задаёт отсечку прошедших событий: опорный момент минус grace-дни.
// Событие в прошлом, если его дата строго раньше Cutoff().
type Policy struct {
	Reference time.Time
	GraceDays int
}

// Now - отсечка ровно по текущему моменту часов
func Now(clock Clock) Policy {
	return Policy{Reference: clock.Now()}
}

// WithGrace - события последних days дней ещё считаются актуальными
func WithGrace(clock Clock, days int) Policy {
	return Policy{Reference: clock.Now(), GraceDays: days}
}

// FixedCutoff - фиксированная календарная дата отсечки (например 1 января)
func FixedCutoff(date time.Time) Policy {
	return Policy{Reference: date}
}

// Cutoff - момент, с которым сравниваются даты событий
func (p Policy) Cutoff() time.Time {
	if p.GraceDays == 0 {
		return p.Reference
	}
	return p.Reference.AddDate(0, 0, -p.GraceDays)
}

// IsPast сравнивает дату события с отсечкой. Дата привязывается к полуночи
// в часовом поясе опорного момента.
func (p Policy) IsPast(date time.Time) bool {
	cutoff := p.Cutoff()
	local := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, cutoff.Location())
	return local.Before(cutoff)
}
