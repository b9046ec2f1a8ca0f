// Package portfolio holds the interactive state behind the portfolio page:
// which section the navigation highlights, whether the mobile menu is open,
// the contact form fields and the entrance animations of each section.
//
// Nothing in here renders markup. The server package turns a Snapshot into
// HTML and feeds user input back through View.
package portfolio

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Section identifies one of the named regions of the page.
type Section string

const (
	About      Section = "about"
	Experience Section = "experience"
	Skills     Section = "skills"
	Projects   Section = "projects"
	Contact    Section = "contact"
)

// ErrUnknownSection is returned when a section identifier is outside the
// closed set.
var ErrUnknownSection = errors.New("unknown section")

var sections = []Section{About, Experience, Skills, Projects, Contact}

var titleCaser = cases.Title(language.English)

// Sections returns every section in page order.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// ParseSection converts a raw identifier into a Section.
func ParseSection(raw string) (Section, error) {
	s := Section(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, raw)
	}
	return s, nil
}

// Valid reports whether s is one of the five page sections.
func (s Section) Valid() bool {
	return s.Index() >= 0
}

// Index is the position of s in page order, or -1.
func (s Section) Index() int {
	for i, candidate := range sections {
		if candidate == s {
			return i
		}
	}
	return -1
}

// Label is the capitalized nav text for the section.
func (s Section) Label() string {
	return titleCaser.String(string(s))
}

// Anchor returns the handle used to scroll to and observe the section.
func (s Section) Anchor() Anchor {
	return Anchor{Section: s, ID: "section-" + string(s)}
}

func (s Section) String() string { return string(s) }

// Anchor is the rendered region of a section. ID is the DOM id the page
// assigns to it.
type Anchor struct {
	Section Section
	ID      string
}
