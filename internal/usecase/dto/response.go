package dto

import (
	"time"

	"github.com/marchon-locator/internal/domain"
)

// FeatureResponse - фича в ответе API
type FeatureResponse struct {
	Key        string                 `json:"key"`
	Lon        float64                `json:"lon"`
	Lat        float64                `json:"lat"`
	Properties map[string]interface{} `json:"properties"`
}

// NewFeatureResponse конвертирует фичу
func NewFeatureResponse(f domain.GeoFeature) FeatureResponse {
	return FeatureResponse{
		Key:        f.Key,
		Lon:        f.Coordinates.Lon,
		Lat:        f.Coordinates.Lat,
		Properties: f.Properties.Map(),
	}
}

// NearestMatch - кандидат с расстоянием
type NearestMatch struct {
	Feature    FeatureResponse `json:"feature"`
	DistanceKm float64         `json:"distance_km"`
}

// NearestResponse - ближайшая фича и, при limit > 1, следующие за ней
type NearestResponse struct {
	Dataset    string          `json:"dataset"`
	Reference  domain.GeoPoint `json:"reference"`
	Nearest    NearestMatch    `json:"nearest"`
	Candidates int             `json:"candidates"`
	Ranked     []NearestMatch  `json:"ranked,omitempty"`
}

// ClassifiedEventsResponse - события, разложенные по отсечке
type ClassifiedEventsResponse struct {
	Dataset string               `json:"dataset"`
	Cutoff  time.Time            `json:"cutoff"`
	Past    []domain.EventRecord `json:"past"`
	Future  []domain.EventRecord `json:"future"`
}

// UpcomingEventsResponse - отсортированные будущие события
type UpcomingEventsResponse struct {
	Dataset string               `json:"dataset"`
	Cutoff  time.Time            `json:"cutoff"`
	Events  []domain.EventRecord `json:"events"`
}

// LayerSummary - слой легенды
type LayerSummary struct {
	domain.Layer
	Image   string `json:"icon_image"`
	Count   int    `json:"count"`
	Visible bool   `json:"visible"`
}

// LayersResponse - слои с фичами для карты
type LayersResponse struct {
	Dataset string             `json:"dataset"`
	Bounds  domain.BoundingBox `json:"bounds"`
	Layers  []LayerSummary     `json:"layers"`
	Visible []string           `json:"visible"`
}

// FeatureDetailResponse - данные попапа фичи
type FeatureDetailResponse struct {
	FeatureResponse
	Mailto       string               `json:"mailto,omitempty"`
	ExpandedDate *domain.ExpandedDate `json:"expandedDate,omitempty"`
	EventMeta    *domain.EventRecord  `json:"eventMeta,omitempty"`
	Layers       []string             `json:"layers"`
}

// RefreshResponse - результат принудительного обновления набора
type RefreshResponse struct {
	Dataset  string    `json:"dataset"`
	Features int       `json:"features"`
	Skipped  int       `json:"skipped"`
	LoadedAt time.Time `json:"loaded_at"`
}

// HealthResponse - состояние зависимостей
type HealthResponse struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks"`
	Datasets map[string]int    `json:"datasets"`
}
