package actionnetwork

import (
	"strings"
	"time"

	"github.com/marchon-locator/internal/calendar"
	"github.com/marchon-locator/internal/domain"
)

// DefaultEventDate подставляется, если у события нет start_date
const DefaultEventDate = "1/20/2018"

var startDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	calendar.EventDateLayout,
}

// Event - событие в формате OSDI
type Event struct {
	Name       string    `json:"name"`
	Title      string    `json:"title"`
	StartDate  string    `json:"start_date"`
	BrowserURL string    `json:"browser_url"`
	Location   *Location `json:"location"`
	Embedded   *struct {
		Organizer *Person `json:"osdi:organizer"`
	} `json:"_embedded"`
}

type Location struct {
	Country    *string `json:"country"`
	Locality   string  `json:"locality"`
	Region     string  `json:"region"`
	PostalCode string  `json:"postal_code"`
}

type Person struct {
	GivenName      string         `json:"given_name"`
	FamilyName     string         `json:"family_name"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
}

type EmailAddress struct {
	Address string `json:"address"`
	Primary bool   `json:"primary"`
}

// EventName - name, если пусто - title
func EventName(e Event) string {
	if e.Name != "" {
		return e.Name
	}
	return e.Title
}

// MakeLocation - почтовый индекс для США, "город, страна" для остальных
func MakeLocation(loc *Location) string {
	if loc == nil {
		return ""
	}
	country := "US"
	if loc.Country != nil {
		country = *loc.Country
	}
	if country != "US" {
		return loc.Locality + ", " + country
	}
	return loc.PostalCode
}

// Organizer возвращает организатора или пустую запись
func Organizer(e Event) Person {
	if e.Embedded == nil || e.Embedded.Organizer == nil {
		return Person{}
	}
	return *e.Embedded.Organizer
}

// ContactName - "имя фамилия"
func ContactName(p Person) string {
	return strings.TrimSpace(p.GivenName + " " + p.FamilyName)
}

// PrimaryEmail - основной адрес, иначе первый из списка
func PrimaryEmail(p Person) string {
	fallback := ""
	for _, e := range p.EmailAddresses {
		if e.Primary {
			return e.Address
		}
		if fallback == "" {
			fallback = e.Address
		}
	}
	return fallback
}

// FormatEventDate переводит start_date в M/D/YYYY
func FormatEventDate(startDate string) (string, bool) {
	s := strings.TrimSpace(startDate)
	if s == "" {
		return DefaultEventDate, true
	}
	for _, layout := range startDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(calendar.EventDateLayout), true
		}
	}
	return DefaultEventDate, false
}

// ConvertEvent превращает OSDI-событие в строку набора данных
func ConvertEvent(e Event) domain.SourceRow {
	organizer := Organizer(e)
	eventDate, _ := FormatEventDate(e.StartDate)
	host := ContactName(organizer)
	location := MakeLocation(e.Location)

	props := map[string]interface{}{
		domain.PropSource:       domain.SourceActionNetwork,
		domain.PropAffiliate:    false,
		domain.PropName:         EventName(e),
		domain.PropEventDate:    eventDate,
		domain.PropEventLink:    e.BrowserURL,
		domain.PropLocation:     location,
		domain.PropContactEmail: PrimaryEmail(organizer),
		domain.PropHost:         host,
		domain.PropContactName:  host,
		"facebook":              "",
		"instagram":             "",
		"twitter":               "",
	}

	return domain.SourceRow{
		Key:        domain.MakeCompoundKey(location, host),
		Properties: props,
	}
}
