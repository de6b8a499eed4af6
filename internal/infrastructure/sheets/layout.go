package sheets

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/marchon-locator/internal/domain"
)

// Layout описывает, как строки листа превращаются в строки набора данных
type Layout struct {
	Name  string
	Range string
	// Fields - property -> номер колонки
	Fields map[string]int
	// KeyColumns склеиваются через пробел в ключ фичи
	KeyColumns []int
	// HashKey - ключ md5 от KeyColumns, пропущенные колонки не учитываются
	HashKey bool
	// MinColumns - более короткие строки пропускаются
	MinColumns int
	// Base - properties до заполнения полей, поля их перекрывают
	Base map[string]interface{}
	// DefaultName строит имя для строки без name, nil - имя не подставляется
	DefaultName func(key string, props map[string]interface{}) string
	// Query строит адрес для геокодера, nil - геокодируется ключ
	Query func(props map[string]interface{}) string
}

var layouts = map[string]Layout{
	"affiliates": {
		Name:  "affiliates",
		Range: "Sheet1!A1:S",
		Fields: map[string]int{
			"name": 0, "location": 1, "contactName": 3, "contactEmail": 5,
			"facebook": 9, "twitter": 10, "instagram": 11, "other": 12, "website": 13,
			"event": 14, "eventDate": 15, "eventLink": 16, "photo": 17, "about": 18,
		},
		KeyColumns: []int{1},
		MinColumns: 2,
		Base:       map[string]interface{}{domain.PropSource: domain.SourceEvents, domain.PropAffiliate: true},
	},
	"events": {
		Name:  "events",
		Range: "Sheet1!A1:M",
		Fields: map[string]int{
			"name": 0, "eventDate": 1, "location": 3, "host": 4, "affiliate": 5,
			"contactName": 6, "contactEmail": 7, "facebook": 8, "twitter": 9, "instagram": 10,
			"motpLink": 12, "eventLink": 12,
		},
		KeyColumns:  []int{3},
		MinColumns:  4,
		Base:        map[string]interface{}{domain.PropSource: domain.SourceEvents, domain.PropAffiliate: false},
		DefaultName: keyEventName,
	},
	"family_separation": {
		Name:  "family_separation",
		Range: "Sheet1!A1:M",
		Fields: map[string]int{
			"name": 0, "eventDate": 1, "eventLink": 2, "city": 3, "state": 4, "country": 5,
			"host": 6, "affiliate": 7, "contactName": 8, "contactEmail": 9,
			"facebook": 10, "twitter": 11, "instagram": 12,
		},
		KeyColumns:  []int{3, 4, 5},
		MinColumns:  6,
		DefaultName: keyEventName,
	},
	"marchonpolls": {
		Name:  "marchonpolls",
		Range: "A1:Z",
		Fields: map[string]int{
			"name": 1, "host": 2, "hostContact": 3, "hostPhone": 4, "eventLink": 5,
			"facebook": 6, "twitter": 7, "instagram": 8, "venue": 9, "address": 10,
			"city": 11, "state": 12, "zip": 13, "eventDate": 14, "startTime": 15, "endTime": 16,
			"description": 17, "instructions": 18, "email": 19, "flagship": 20,
		},
		KeyColumns:  []int{1, 10, 11, 12, 14},
		HashKey:     true,
		MinColumns:  4,
		DefaultName: cityEventName,
		Query:       streetAddress,
	},
}

// LookupLayout возвращает раскладку листа по имени
func LookupLayout(name string) (Layout, bool) {
	l, ok := layouts[name]
	return l, ok
}

// LayoutNames - известные раскладки
func LayoutNames() []string {
	out := make([]string, 0, len(layouts))
	for name := range layouts {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func keyEventName(key string, _ map[string]interface{}) string {
	return fmt.Sprintf("%s Event", key)
}

func cityEventName(_ string, props map[string]interface{}) string {
	return fmt.Sprintf("%s Event", text(props["city"]))
}

// адрес и штат могут быть пустыми
func streetAddress(props map[string]interface{}) string {
	return text(props["address"]) + ", " + text(props["city"]) + "," + text(props["state"])
}

// Row превращает строку листа в строку набора данных.
// ok=false - строку нужно пропустить.
func (l Layout) Row(cells []string) (domain.SourceRow, bool) {
	if len(cells) < l.MinColumns {
		return domain.SourceRow{}, false
	}

	props := make(map[string]interface{}, len(l.Base)+len(l.Fields))
	for k, v := range l.Base {
		props[k] = v
	}
	for field := range l.Fields {
		props[field] = ""
	}
	for field, idx := range l.Fields {
		if idx < len(cells) {
			props[field] = cellValue(cells[idx])
		}
	}

	key := l.key(cells)
	if key == "" {
		return domain.SourceRow{}, false
	}

	if l.DefaultName != nil && text(props[domain.PropName]) == "" {
		props[domain.PropName] = l.DefaultName(key, props)
	}

	row := domain.SourceRow{Key: key, Properties: props}
	if l.Query != nil {
		row.Query = l.Query(props)
	}
	return row, true
}

func (l Layout) key(cells []string) string {
	if l.HashKey {
		h := md5.New()
		for _, idx := range l.KeyColumns {
			if idx < len(cells) {
				h.Write([]byte(cells[idx]))
			}
		}
		return hex.EncodeToString(h.Sum(nil))
	}

	parts := make([]string, 0, len(l.KeyColumns))
	for _, idx := range l.KeyColumns {
		if idx < len(cells) {
			parts = append(parts, strings.TrimSpace(cells[idx]))
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Y|N в bool, остальное - строка без пробелов по краям
func cellValue(raw string) interface{} {
	v := strings.TrimSpace(raw)
	switch v {
	case "Y":
		return true
	case "N":
		return false
	default:
		return v
	}
}

func text(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
