// Package web bundles the page templates and static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"strings"
	"time"

	"github.com/Zachkp/portfolio/internal/icons"
	"github.com/Zachkp/portfolio/internal/portfolio"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the asset tree served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Funcs are the helpers available to every template.
var Funcs = template.FuncMap{
	"glyph": icons.Glyph,
	"stagger": func(s portfolio.Section, i int) int64 {
		return portfolio.Stagger(s, i).Delay.Milliseconds()
	},
	"slideX": func(s portfolio.Section, i int) int {
		return portfolio.Stagger(s, i).FromOffsetX
	},
	"durationMS": func(d time.Duration) int64 { return d.Milliseconds() },
	"lower":      strings.ToLower,
	"tel":        telURL,
}

// telURL builds a tel: link, which html/template would otherwise reject.
func telURL(phone string) template.URL {
	digits := strings.Map(func(r rune) rune {
		if r == '+' || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, phone)
	return template.URL("tel:" + digits)
}

// Templates parses every embedded template.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(templateFS, "templates/*.html")
}

// Page is the data handed to the page templates.
type Page struct {
	portfolio.Snapshot
	Entrance portfolio.Entrance
	Year     int
	// Live is false for exported static pages, which have no server to
	// talk back to.
	Live bool
	// Notice is shown under the contact form after a submission.
	Notice string
}

// NewPage wraps a snapshot for rendering.
func NewPage(snap portfolio.Snapshot, live bool) Page {
	return Page{
		Snapshot: snap,
		Entrance: portfolio.FadeInUp,
		Year:     time.Now().Year(),
		Live:     live,
	}
}

// Shown reports whether the named section already played its entrance and
// should render in its final position.
func (p Page) Shown(section string) bool {
	return p.Played[portfolio.Section(section)]
}
