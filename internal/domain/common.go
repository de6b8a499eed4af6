package domain

import "time"

// GeoPoint - опорная точка (геолокация пользователя или результат поиска)
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Coordinates - координаты точки GeoJSON в порядке [lon, lat]
type Coordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Point возвращает координаты как GeoPoint
func (c Coordinates) Point() GeoPoint {
	return GeoPoint{Lat: c.Lat, Lon: c.Lon}
}

type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// DefaultBounds - США и юг Канады, стартовый охват карты
var DefaultBounds = BoundingBox{
	MinLat: 24.52,
	MinLon: -124.77,
	MaxLat: 55,
	MaxLon: -66.95,
}

// FeatureStats - статистика по текущему снимку набора данных
type FeatureStats struct {
	Dataset     string         `json:"dataset"`
	Total       int            `json:"total"`
	Skipped     int            `json:"skipped"`
	BySource    map[string]int `json:"by_source"`
	WithEvents  int            `json:"with_events"`
	LastUpdated time.Time      `json:"last_updated"`
}
