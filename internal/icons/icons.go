// Package icons maps the symbolic glyph names used in portfolio content to
// symbols in the bundled SVG sprite.
//
// Content files only name an icon ("github", "python"); how it is drawn is
// decided here so a theme can swap the sprite without touching content.
package icons

import (
	"fmt"
	"html/template"
	"sort"
	"strings"
)

// SpritePath is where the server exposes the sprite sheet.
const SpritePath = "/static/icons.svg"

const symbolPrefix = "icon-"

// Fallback is drawn for names that are not in the catalog.
const Fallback = "generic"

// Definition describes one catalog entry.
type Definition struct {
	Name        string
	Label       string
	Description string
}

var catalog = []Definition{
	{Name: Fallback, Label: "Generic", Description: "Placeholder for unknown icons."},
	{Name: "github", Label: "GitHub", Description: "GitHub profile or repository."},
	{Name: "linkedin", Label: "LinkedIn", Description: "LinkedIn profile."},
	{Name: "twitter", Label: "Twitter", Description: "Twitter profile."},
	{Name: "envelope", Label: "Email", Description: "Mail link."},
	{Name: "phone", Label: "Phone", Description: "Telephone link."},
	{Name: "react", Label: "React", Description: "React skill."},
	{Name: "nodejs", Label: "Node.js", Description: "Node.js skill."},
	{Name: "python", Label: "Python", Description: "Python skill."},
	{Name: "database", Label: "Database", Description: "Databases and data stores."},
	{Name: "js", Label: "JavaScript", Description: "JavaScript skill."},
	{Name: "go", Label: "Go", Description: "Go skill."},
	{Name: "terminal", Label: "Terminal", Description: "Command line tools."},
	{Name: "menu", Label: "Open menu", Description: "Mobile menu closed state."},
	{Name: "close", Label: "Close menu", Description: "Mobile menu open state."},
}

var byName = func() map[string]Definition {
	m := make(map[string]Definition, len(catalog))
	for _, def := range catalog {
		m[def.Name] = def
	}
	return m
}()

// Catalog returns every known icon sorted by name.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup finds an icon by name, case-insensitively.
func Lookup(name string) (Definition, bool) {
	def, ok := byName[normalize(name)]
	return def, ok
}

// SymbolID returns the sprite symbol for name, falling back to the generic
// glyph.
func SymbolID(name string) string {
	if def, ok := Lookup(name); ok {
		return symbolPrefix + def.Name
	}
	return symbolPrefix + Fallback
}

// Glyph returns inline SVG markup referencing the sprite symbol for name.
func Glyph(name, class string) template.HTML {
	label := byName[Fallback].Label
	if def, ok := Lookup(name); ok {
		label = def.Label
	}
	return template.HTML(fmt.Sprintf(
		`<svg class="%s" role="img" aria-label="%s"><use href="%s#%s"></use></svg>`,
		template.HTMLEscapeString(class),
		template.HTMLEscapeString(label),
		SpritePath,
		SymbolID(name),
	))
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
