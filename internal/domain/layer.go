package domain

// Layer - описание слоя карты
type Layer struct {
	ID               string    `json:"layer_id" yaml:"id"`
	Label            string    `json:"label" yaml:"label"`
	Icon             string    `json:"icon" yaml:"icon"`
	IconSize         float64   `json:"icon_size,omitempty" yaml:"icon_size"`
	IconOffset       []float64 `json:"icon_offset,omitempty" yaml:"icon_offset"`
	InitiallyChecked bool      `json:"initially_checked" yaml:"initially_checked"`
	LabelVisible     bool      `json:"label_visible" yaml:"label_visible"`
	Rule             string    `json:"-" yaml:"rule"`
}

// IconImage - имя svg-файла иконки для легенды
func (l Layer) IconImage() string {
	return l.Icon + ".svg"
}

// LayerGroup - слой вместе с попавшими в него фичами
type LayerGroup struct {
	Layer    Layer
	Features []GeoFeature
}
