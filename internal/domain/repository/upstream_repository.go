package repository

import (
	"context"

	"github.com/marchon-locator/internal/domain"
)

// GeocoderRepository - прямое геокодирование текстовой локации
type GeocoderRepository interface {
	// ForwardGeocode возвращает лучший результат или domain.ErrNoGeocodeMatch
	ForwardGeocode(ctx context.Context, query string, countries []string) (*domain.GeocodeResult, error)
}

// EventFeedRepository - внешний источник строк набора данных
// (таблица Google Sheets, кампания Action Network)
type EventFeedRepository interface {
	// Name - имя источника для логов
	Name() string
	// FetchRows возвращает строки источника по ключу фичи
	FetchRows(ctx context.Context) (map[string]domain.SourceRow, error)
	// Owns - сохранённая фича пришла из этого источника.
	// Удаляются только фичи источников, которые участвовали в синхронизации.
	Owns(f domain.GeoFeature) bool
}
