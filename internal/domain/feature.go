package domain

import (
	"fmt"
	"strings"
)

// Источники фич (значение properties.source)
const (
	SourceEvents        = "events"
	SourceActionNetwork = "actionnetwork"
)

// Ключи property bag, которые читаются явно
const (
	PropID           = "id"
	PropName         = "name"
	PropLocation     = "location"
	PropHost         = "host"
	PropContactName  = "contactName"
	PropContactEmail = "contactEmail"
	PropSource       = "source"
	PropAffiliate    = "affiliate"
	PropFlagship     = "flagship"
	PropEventDate    = "eventDate"
	PropEvent        = "event"
	PropEventLink    = "eventLink"
	PropPlaceName    = "placeName"
)

// FeatureProperties - типизированное представление properties фичи.
// Исходный набор ключей хранится целиком и отдаётся копией.
type FeatureProperties struct {
	Name         string
	Location     string
	Host         string
	ContactName  string
	ContactEmail string
	Source       string
	EventDate    string
	EventName    string
	EventLink    string
	PlaceName    string
	Affiliate    Flag
	Flagship     Flag

	raw map[string]interface{}
}

// NewFeatureProperties разбирает property bag
func NewFeatureProperties(raw map[string]interface{}) FeatureProperties {
	cp := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		cp[k] = v
	}

	return FeatureProperties{
		Name:         stringProp(cp, PropName),
		Location:     stringProp(cp, PropLocation),
		Host:         stringProp(cp, PropHost),
		ContactName:  stringProp(cp, PropContactName),
		ContactEmail: stringProp(cp, PropContactEmail),
		Source:       stringProp(cp, PropSource),
		EventDate:    stringProp(cp, PropEventDate),
		EventName:    stringProp(cp, PropEvent),
		EventLink:    stringProp(cp, PropEventLink),
		PlaceName:    stringProp(cp, PropPlaceName),
		Affiliate:    ParseFlag(cp[PropAffiliate]),
		Flagship:     ParseFlag(cp[PropFlagship]),
		raw:          cp,
	}
}

// Map возвращает копию исходных properties
func (p FeatureProperties) Map() map[string]interface{} {
	cp := make(map[string]interface{}, len(p.raw))
	for k, v := range p.raw {
		cp[k] = v
	}
	return cp
}

// Get возвращает исходное значение ключа
func (p FeatureProperties) Get(key string) (interface{}, bool) {
	v, ok := p.raw[key]
	return v, ok
}

// HasSource - ключ source задан и не пустой
func (p FeatureProperties) HasSource() bool {
	return p.Source != ""
}

// HasEventDate - у фичи есть строка даты события (не обязательно корректная)
func (p FeatureProperties) HasEventDate() bool {
	return strings.TrimSpace(p.EventDate) != ""
}

// Mailto - ссылка для контакта в попапе
func (p FeatureProperties) Mailto() string {
	if p.ContactEmail == "" {
		return ""
	}
	return "mailto:" + p.ContactEmail
}

// Equal сравнивает исходные наборы properties
func (p FeatureProperties) Equal(other FeatureProperties) bool {
	if len(p.raw) != len(other.raw) {
		return false
	}
	for k, v := range p.raw {
		ov, ok := other.raw[k]
		if !ok || fmt.Sprint(v) != fmt.Sprint(ov) {
			return false
		}
	}
	return true
}

// GeoFeature - точка интереса: координаты + properties.
// Снимок набора данных неизменяем, фичи передаются по значению.
type GeoFeature struct {
	Key         string
	Coordinates Coordinates
	Properties  FeatureProperties
}

// Point - координаты фичи как GeoPoint
func (f GeoFeature) Point() GeoPoint {
	return f.Coordinates.Point()
}

// FeatureKey строит ключ фичи: для actionnetwork допускается несколько
// событий в одной локации, поэтому ключ составной location::host
func FeatureKey(p FeatureProperties) string {
	if id, ok := p.raw[PropID].(string); ok && id != "" {
		return id
	}
	if p.Source == SourceActionNetwork {
		return MakeCompoundKey(p.Location, p.Host)
	}
	return p.Location
}

// MakeCompoundKey - ключ вида <location>::<host>
func MakeCompoundKey(location, host string) string {
	return location + "::" + host
}

// LocationFromKey отрезает host из составного ключа
func LocationFromKey(key string) string {
	location, _, _ := strings.Cut(key, "::")
	return location
}

// NewGeoFeature собирает фичу и вычисляет ключ
func NewGeoFeature(lon, lat float64, props map[string]interface{}) GeoFeature {
	p := NewFeatureProperties(props)
	return GeoFeature{
		Key:         FeatureKey(p),
		Coordinates: Coordinates{Lon: lon, Lat: lat},
		Properties:  p,
	}
}

func stringProp(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
