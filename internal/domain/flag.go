package domain

import (
	"encoding/json"
	"math"
)

// Flag - признак из property bag (affiliate, flagship). Отсутствие ключа
// отличается от пустого значения: часть слоёв фильтрует именно по наличию.
// Строки сравниваются точно, как их сравнивает виджет карты.
type Flag int

const (
	FlagAbsent Flag = iota
	// FlagEmpty - ключ есть, значение ложное: "", false, 0
	FlagEmpty
	// FlagNo - строка "No"
	FlagNo
	// FlagTrue - любое другое истинное значение, включая true и "Y"
	FlagTrue
	// FlagYes - строка "Yes"
	FlagYes
)

// ParseFlag приводит значение из property bag к Flag
func ParseFlag(v interface{}) Flag {
	switch t := v.(type) {
	case nil:
		return FlagAbsent
	case bool:
		if t {
			return FlagTrue
		}
		return FlagEmpty
	case float64:
		if t == 0 || math.IsNaN(t) {
			return FlagEmpty
		}
		return FlagTrue
	case json.Number:
		if f, err := t.Float64(); err == nil && f == 0 {
			return FlagEmpty
		}
		return FlagTrue
	case string:
		switch t {
		case "":
			return FlagEmpty
		case "No":
			return FlagNo
		case "Yes":
			return FlagYes
		default:
			return FlagTrue
		}
	default:
		return FlagTrue
	}
}

// Present - ключ был в исходных properties
func (f Flag) Present() bool {
	return f != FlagAbsent
}

// Truthy - значение истинно в смысле виджета, "No" тоже истинно
func (f Flag) Truthy() bool {
	return f == FlagNo || f == FlagTrue || f == FlagYes
}

// Affirmative - истинно и не "No"
func (f Flag) Affirmative() bool {
	return f == FlagTrue || f == FlagYes
}

func (f Flag) String() string {
	switch f {
	case FlagEmpty:
		return "empty"
	case FlagNo:
		return "no"
	case FlagTrue:
		return "true"
	case FlagYes:
		return "yes"
	default:
		return "absent"
	}
}
