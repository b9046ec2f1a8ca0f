// Package content loads the static portfolio data: profile, job history,
// skills and projects.
package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/Zachkp/portfolio/internal/icons"
)

//go:embed profiles/*.yaml
var profiles embed.FS

// ErrUnknownProfile is returned by Builtin for names that are not embedded.
var ErrUnknownProfile = errors.New("unknown profile")

// Content is everything the page shows that is not interaction state.
type Content struct {
	Profile    Profile   `yaml:"profile"`
	Experience []Job     `yaml:"experience"`
	Skills     []Skill   `yaml:"skills"`
	Projects   []Project `yaml:"projects"`

	aboutHTML template.HTML
}

// Profile describes the page owner.
type Profile struct {
	Name     string   `yaml:"name"`
	Headline string   `yaml:"headline"`
	About    string   `yaml:"about"`
	PhotoURL string   `yaml:"photo_url"`
	Email    string   `yaml:"email"`
	Phone    string   `yaml:"phone"`
	Socials  []Social `yaml:"socials"`
}

// Social is a footer link.
type Social struct {
	Label string `yaml:"label"`
	Icon  string `yaml:"icon"`
	URL   string `yaml:"url"`
}

// Job is one entry of the experience section.
type Job struct {
	Company     string `yaml:"company"`
	Role        string `yaml:"role"`
	Period      string `yaml:"period"`
	Description string `yaml:"description"`
	ImageURL    string `yaml:"image_url"`
}

// Skill is a named technology with its icon.
type Skill struct {
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

// Project is one card of the projects section.
type Project struct {
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Skills      []Skill `yaml:"skills"`
	LiveDemoURL string  `yaml:"live_demo"`
	GitHubURL   string  `yaml:"github"`
}

// AboutHTML returns the rendered about text.
func (c *Content) AboutHTML() template.HTML {
	return c.aboutHTML
}

// Builtin returns one of the embedded profiles.
func Builtin(name string) (*Content, error) {
	data, err := profiles.ReadFile("profiles/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return Parse(data)
}

// BuiltinNames lists the embedded profiles.
func BuiltinNames() []string {
	entries, err := profiles.ReadDir("profiles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Load reads content from a file on disk. Markdown files carry the data as
// front matter and the about text as their body; anything else is YAML.
func Load(path string) (*Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading content file %s: %w", path, err)
	}
	parse := Parse
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".md" || ext == ".markdown" {
		parse = ParseMarkdown
	}
	c, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("content file %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes, validates and renders a YAML content document.
func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("error unmarshalling content: %w", err)
	}
	return finish(&c)
}

// ParseMarkdown decodes a markdown document whose front matter holds the
// content and whose body, when not blank, replaces profile.about.
func ParseMarkdown(data []byte) (*Content, error) {
	var c Content
	body, err := frontmatter.MustParse(bytes.NewReader(data), &c)
	if err != nil {
		return nil, fmt.Errorf("error parsing front matter: %w", err)
	}
	if about := strings.TrimSpace(string(body)); about != "" {
		c.Profile.About = about
	}
	return finish(&c)
}

func finish(c *Content) (*Content, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	html, err := renderMarkdown(c.Profile.About)
	if err != nil {
		return nil, fmt.Errorf("rendering about text: %w", err)
	}
	c.aboutHTML = html
	return c, nil
}

// Validate checks the fields the page cannot do without and that every
// icon resolves.
func (c *Content) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Profile.Name) == "" {
		errs = append(errs, errors.New("profile.name is required"))
	}
	checkIcon := func(where, name string) {
		if _, ok := icons.Lookup(name); !ok {
			errs = append(errs, fmt.Errorf("%s: unknown icon %q", where, name))
		}
	}
	for i, s := range c.Profile.Socials {
		checkIcon(fmt.Sprintf("profile.socials[%d]", i), s.Icon)
	}
	for i, s := range c.Skills {
		checkIcon(fmt.Sprintf("skills[%d]", i), s.Icon)
	}
	for i, p := range c.Projects {
		if strings.TrimSpace(p.Title) == "" {
			errs = append(errs, fmt.Errorf("projects[%d]: title is required", i))
		}
		for j, s := range p.Skills {
			checkIcon(fmt.Sprintf("projects[%d].skills[%d]", i, j), s.Icon)
		}
	}
	return errors.Join(errs...)
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

func renderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
