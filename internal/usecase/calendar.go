package usecase

import (
	"time"

	"github.com/marchon-locator/internal/calendar"
	apperrors "github.com/marchon-locator/internal/pkg/errors"
	"github.com/marchon-locator/internal/pkg/utils"
)

// CalendarSettings - общие правила отсечки прошедших событий
type CalendarSettings struct {
	Clock     calendar.Clock
	GraceDays int
	// DisplayCutoff - события раньше этой даты не показываются на карте вовсе
	DisplayCutoff time.Time
}

func (s CalendarSettings) clock() calendar.Clock {
	if s.Clock == nil {
		return calendar.RealClock{}
	}
	return s.Clock
}

// Policy - отсечка по текущему времени с grace-днями
func (s CalendarSettings) Policy() calendar.Policy {
	return calendar.WithGrace(s.clock(), s.GraceDays)
}

// DisplayPolicy - фиксированная отсечка для отображения на карте
func (s CalendarSettings) DisplayPolicy() calendar.Policy {
	if s.DisplayCutoff.IsZero() {
		return s.Policy()
	}
	return calendar.FixedCutoff(s.DisplayCutoff)
}

// ResolvePolicy строит отсечку из параметров запроса.
// cutoff задаёт дату напрямую, reference заменяет текущий момент.
func (s CalendarSettings) ResolvePolicy(reference, cutoff string, graceDays *int) (calendar.Policy, error) {
	grace := s.GraceDays
	if graceDays != nil {
		if !utils.ValidateGraceDays(*graceDays) {
			return calendar.Policy{}, apperrors.ErrInvalidGraceDays.WithDetails(map[string]interface{}{
				"grace_days": *graceDays,
			})
		}
		grace = *graceDays
	}

	loc := s.clock().Now().Location()

	if cutoff != "" {
		t, err := time.ParseInLocation(calendar.ISODateLayout, cutoff, loc)
		if err != nil {
			return calendar.Policy{}, apperrors.ErrInvalidEventDate.WithDetails(map[string]interface{}{
				"cutoff": cutoff,
			})
		}
		return calendar.FixedCutoff(t), nil
	}

	if reference != "" {
		t, err := time.ParseInLocation(calendar.ISODateLayout, reference, loc)
		if err != nil {
			return calendar.Policy{}, apperrors.ErrInvalidEventDate.WithDetails(map[string]interface{}{
				"reference": reference,
			})
		}
		return calendar.Policy{Reference: t, GraceDays: grace}, nil
	}

	return calendar.WithGrace(s.clock(), grace), nil
}
