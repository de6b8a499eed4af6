package domain

import "errors"

// ErrNoGeocodeMatch - геокодер не нашёл достаточно релевантного результата
var ErrNoGeocodeMatch = errors.New("no geocode match")

// GeocodeResult - результат прямого геокодирования
type GeocodeResult struct {
	Lon       float64 `json:"lon"`
	Lat       float64 `json:"lat"`
	PlaceName string  `json:"place_name,omitempty"`
	Relevance float64 `json:"relevance"`
}

// SourceRow - строка внешнего источника до геокодирования.
// Geometry появляется после успешного геокодирования или из уже сохранённой фичи.
type SourceRow struct {
	Key        string
	Properties map[string]interface{}
	Geometry   *Coordinates
	// Query - адрес для геокодера, если ключ им не является
	Query string
}

// GeocodeQuery - строка для геокодера: Query или локация из ключа
func (r SourceRow) GeocodeQuery() string {
	if r.Query != "" {
		return r.Query
	}
	return LocationFromKey(r.Key)
}
