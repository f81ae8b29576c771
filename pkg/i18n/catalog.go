// Package i18n holds the translation tables and the per-session localizer.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed locales/*.json
var localeFS embed.FS

const DefaultLanguage = "ar"

// Direction is the text direction of a language.
type Direction string

const (
	RTL Direction = "rtl"
	LTR Direction = "ltr"
)

var directions = map[string]Direction{
	"ar": RTL,
	"en": LTR,
}

// Catalog is an immutable set of nested translation tables keyed by
// language code.
type Catalog struct {
	tables    map[string]map[string]interface{}
	languages []string
}

// LoadCatalog reads the embedded locale files.
func LoadCatalog() (*Catalog, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locales: %w", err)
	}

	tables := make(map[string]map[string]interface{}, len(entries))
	for _, entry := range entries {
		code := strings.TrimSuffix(entry.Name(), ".json")
		data, err := localeFS.ReadFile("locales/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", code, err)
		}
		var table map[string]interface{}
		if err := json.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", code, err)
		}
		tables[code] = table
	}
	return NewCatalog(tables)
}

// NewCatalog builds a catalog from in-memory tables. Every language needs a
// known text direction.
func NewCatalog(tables map[string]map[string]interface{}) (*Catalog, error) {
	languages := make([]string, 0, len(tables))
	for code := range tables {
		if _, ok := directions[code]; !ok {
			return nil, fmt.Errorf("no text direction for language %q", code)
		}
		languages = append(languages, code)
	}
	if _, ok := tables[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("default language %q missing from catalog", DefaultLanguage)
	}
	// Default first, then alphabetical.
	sort.Slice(languages, func(i, j int) bool {
		if languages[i] == DefaultLanguage || languages[j] == DefaultLanguage {
			return languages[i] == DefaultLanguage
		}
		return languages[i] < languages[j]
	})
	return &Catalog{tables: tables, languages: languages}, nil
}

func (c *Catalog) Supports(code string) bool {
	_, ok := c.tables[code]
	return ok
}

// Languages lists supported codes with the default language first.
func (c *Catalog) Languages() []string {
	out := make([]string, len(c.languages))
	copy(out, c.languages)
	return out
}

// Table returns the raw translation tree for a language.
func (c *Catalog) Table(code string) (map[string]interface{}, bool) {
	table, ok := c.tables[code]
	return table, ok
}

// Lookup resolves a dotted key path.
func (c *Catalog) Lookup(code, key string) (interface{}, bool) {
	var node interface{} = c.tables[code]
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil, false
		}
		node, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return node, node != nil
}

func DirectionOf(code string) Direction {
	if dir, ok := directions[code]; ok {
		return dir
	}
	return LTR
}

// FormatPrice renders an amount in Omani rial with three decimals.
func FormatPrice(amount float64, code string) string {
	tag := language.English
	suffix := "OMR"
	if code == "ar" {
		tag = language.MustParse("ar-OM")
		suffix = "ر.ع"
	}
	return message.NewPrinter(tag).Sprintf("%.3f", amount) + " " + suffix
}

func interpolate(value string, params map[string]interface{}) string {
	if len(params) == 0 {
		return value
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, 2*len(names))
	for _, name := range names {
		pairs = append(pairs, "{"+name+"}", fmt.Sprint(params[name]))
	}
	return strings.NewReplacer(pairs...).Replace(value)
}
