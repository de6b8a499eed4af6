package dto

// NearestRequest - поиск ближайшей фичи к точке
type NearestRequest struct {
	Dataset        string   `json:"dataset" query:"dataset" validate:"omitempty,dataset"`
	Lat            *float64 `json:"lat" query:"lat" validate:"required,min=-90,max=90"`
	Lon            *float64 `json:"lon" query:"lon" validate:"required,min=-180,max=180"`
	ExcludeSources []string `json:"exclude_sources,omitempty" query:"exclude_sources"`
	RequireSource  bool     `json:"require_source,omitempty" query:"require_source"`
	Layers         []string `json:"layers,omitempty" query:"layers"`
	Limit          int      `json:"limit,omitempty" query:"limit" validate:"omitempty,min=1,max=50"`
}

// EventQuery - параметры классификации событий. Cutoff приоритетнее Reference.
type EventQuery struct {
	Dataset   string `query:"dataset" validate:"omitempty,dataset"`
	Reference string `query:"reference" validate:"omitempty,datetime=2006-01-02"`
	GraceDays *int   `query:"grace_days" validate:"omitempty,min=0,max=365"`
	Cutoff    string `query:"cutoff" validate:"omitempty,datetime=2006-01-02"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=1000"`
}

// LayerQuery - параметры разбиения на слои
type LayerQuery struct {
	Dataset   string   `query:"dataset" validate:"omitempty,dataset"`
	Checked   []string `query:"checked"`
	Reference string   `query:"reference" validate:"omitempty,datetime=2006-01-02"`
	// AllFeatures - не отбрасывать старые события (карта аффилиатов)
	AllFeatures bool `query:"all"`
}
