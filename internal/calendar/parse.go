package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/marchon-locator/internal/domain"
)

// EventDateLayout - формат поля eventDate (MM/DD/YYYY, ведущие нули необязательны)
const EventDateLayout = "1/2/2006"

// ISODateLayout - формат ymd в EventRecord
const ISODateLayout = "2006-01-02"

// ErrParseFailure - дата события отсутствует или не в формате MM/DD/YYYY
var ErrParseFailure = errors.New("event date parse failure")

// ParseEventDate разбирает строку MM/DD/YYYY в полночь UTC
func ParseEventDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, ErrParseFailure
	}

	t, err := time.Parse(EventDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrParseFailure, raw)
	}
	return t, nil
}

// ExpandDate раскладывает дату события на месяц, день и год для попапа
func ExpandDate(raw string) (domain.ExpandedDate, error) {
	t, err := ParseEventDate(raw)
	if err != nil {
		return domain.ExpandedDate{}, err
	}

	return domain.ExpandedDate{
		EventMonth: t.Month().String(),
		EventDay:   strconv.Itoa(t.Day()),
		EventYear:  strconv.Itoa(t.Year()),
	}, nil
}
