// Package layers splits a feature set into the map's display layers.
package layers

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/marchon-locator/internal/domain"
)

//go:embed layers.yaml
var defaultCatalogue []byte

// Catalogue - упорядоченный список слоёв с привязанными правилами
type Catalogue struct {
	layers []domain.Layer
	rules  []Rule
}

type catalogueFile struct {
	Layers []domain.Layer `yaml:"layers"`
}

// Default возвращает встроенный каталог слоёв
func Default() *Catalogue {
	c, err := Parse(defaultCatalogue)
	if err != nil {
		panic(fmt.Sprintf("embedded layers.yaml: %v", err))
	}
	return c
}

// LoadFile читает каталог из файла
func LoadFile(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layer catalogue: %w", err)
	}
	return Parse(data)
}

// Parse разбирает YAML каталога и проверяет правила
func Parse(data []byte) (*Catalogue, error) {
	var file catalogueFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse layer catalogue: %w", err)
	}
	if len(file.Layers) == 0 {
		return nil, fmt.Errorf("layer catalogue is empty")
	}

	c := &Catalogue{
		layers: make([]domain.Layer, 0, len(file.Layers)),
		rules:  make([]Rule, 0, len(file.Layers)),
	}
	seen := make(map[string]struct{}, len(file.Layers))

	for i, l := range file.Layers {
		if l.ID == "" {
			return nil, fmt.Errorf("layer #%d has no id", i)
		}
		if _, dup := seen[l.ID]; dup {
			return nil, fmt.Errorf("duplicate layer id %q", l.ID)
		}
		seen[l.ID] = struct{}{}

		rule, ok := Lookup(l.Rule)
		if !ok {
			return nil, fmt.Errorf("layer %q: unknown rule %q", l.ID, l.Rule)
		}
		if l.IconSize == 0 {
			l.IconSize = 1
		}
		c.layers = append(c.layers, l)
		c.rules = append(c.rules, rule)
	}
	return c, nil
}

// Layers - копия описаний слоёв в порядке каталога
func (c *Catalogue) Layers() []domain.Layer {
	out := make([]domain.Layer, len(c.layers))
	copy(out, c.layers)
	return out
}

// Layer ищет слой по id
func (c *Catalogue) Layer(id string) (domain.Layer, bool) {
	for _, l := range c.layers {
		if l.ID == id {
			return l, true
		}
	}
	return domain.Layer{}, false
}
