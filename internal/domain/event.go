package domain

// EventRecord - нормализованная запись события, вычисляется из фичи
// при каждой классификации и нигде не хранится
type EventRecord struct {
	Location     string `json:"location"`
	Name         string `json:"name"`
	EventDateISO string `json:"ymd"`
	Weekday      string `json:"weekday"`
	MonthName    string `json:"month"`
	DayOfMonth   string `json:"day"`
	Link         string `json:"link"`
	IsPast       bool   `json:"is_past"`
}

// ExpandedDate - дата события в разбивке для попапа
type ExpandedDate struct {
	EventMonth string `json:"eventMonth"`
	EventDay   string `json:"eventDay"`
	EventYear  string `json:"eventYear"`
}
