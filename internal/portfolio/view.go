package portfolio

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Zachkp/portfolio/internal/content"
)

// Options configure a View.
type Options struct {
	// ScrollSpy lets visibility changes move the highlighted nav item.
	// Without it only nav clicks do.
	ScrollSpy bool
	// UnifyEntrances makes About play its entrance once like the others.
	UnifyEntrances bool
	// Diagnostics receives contact submissions. Defaults to LogDiagnostics.
	Diagnostics Diagnostics
}

// View is the state of one rendered portfolio page. All methods are safe
// for concurrent use; a single visitor's requests serialize on it.
type View struct {
	mu        sync.Mutex
	content   *content.Content
	opts      Options
	nav       Navigation
	form      ContactForm
	entrances *Entrances
	spy       *spy
	now       func() time.Time
}

// NewView returns a page in its initial state showing c.
func NewView(c *content.Content, opts Options) *View {
	if opts.Diagnostics == nil {
		opts.Diagnostics = LogDiagnostics{}
	}
	return &View{
		content:   c,
		opts:      opts,
		nav:       NewNavigation(),
		entrances: NewEntrances(opts.UnifyEntrances),
		spy:       newSpy(),
		now:       time.Now,
	}
}

// Content returns the static content the view renders.
func (v *View) Content() *content.Content { return v.content }

// Select handles a click on a nav item, desktop or mobile. Sections outside
// the page are ignored and yield no scroll.
func (v *View) Select(s Section) ScrollEffect {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !s.Valid() {
		return ScrollEffect{}
	}
	v.spy.pin(s)
	return v.nav.Select(s)
}

// ToggleMenu handles the mobile menu button.
func (v *View) ToggleMenu() Navigation {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nav.ToggleMenu()
	return v.nav
}

// Input stores a keystroke's worth of form input.
func (v *View) Input(field Field, value string) ContactForm {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form.Set(field, value)
	return v.form
}

// Submit logs the current form. It never fails and leaves the fields as
// they are.
func (v *View) Submit(ctx context.Context) Submission {
	v.mu.Lock()
	sub := Submission{Form: v.form, Submitted: v.now()}
	diag := v.opts.Diagnostics
	v.mu.Unlock()

	if err := diag.RecordContact(ctx, sub); err != nil {
		log.Printf("contact: diagnostics: %v", err)
	}
	return sub
}

// Update is the outcome of one visibility change.
type Update struct {
	Section Section
	// Entrance is set when the section should play its entrance now.
	Entrance *Entrance
	// Active is the highlighted nav section after the change.
	Active        Section
	ActiveChanged bool
}

// Visibility applies one observed visibility change.
func (v *View) Visibility(vis Visibility) Update {
	v.mu.Lock()
	defer v.mu.Unlock()

	u := Update{Section: vis.Section, Active: v.nav.Active}
	if !vis.Section.Valid() {
		return u
	}
	if v.entrances.Observe(vis) {
		e := FadeInUp
		u.Entrance = &e
	}
	if !v.opts.ScrollSpy {
		return u
	}
	if active, ok := v.spy.update(vis); ok && active != v.nav.Active {
		v.nav.Active = active
		u.Active = active
		u.ActiveChanged = true
	}
	return u
}

// Watch consumes obs for every section anchor and calls emit for each change
// that the page has to react to. It returns once every stream has closed.
func (v *View) Watch(ctx context.Context, obs Observer, emit func(Update)) {
	v.Follow(Subscribe(ctx, obs), emit)
}

// Follow applies every event of stream and calls emit for each change that
// the page has to react to.
func (v *View) Follow(stream <-chan Visibility, emit func(Update)) {
	for ev := range stream {
		u := v.Visibility(ev)
		if u.Entrance != nil || u.ActiveChanged {
			emit(u)
		}
	}
}

// Subscribe observes every section anchor and merges the streams into one,
// closed after ctx is done. The subscriptions exist when it returns.
func Subscribe(ctx context.Context, obs Observer) <-chan Visibility {
	merged := make(chan Visibility)
	var wg sync.WaitGroup
	for _, s := range sections {
		stream := obs.Observe(ctx, s.Anchor())
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ev := range stream {
				select {
				case merged <- ev:
				case <-ctx.Done():
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(merged)
	}()
	return merged
}

// Snapshot is a copy of the view for rendering.
type Snapshot struct {
	Content    *content.Content
	Nav        Navigation
	Form       ContactForm
	Played     map[Section]bool
	Sections   []Section
	AboutEvery bool
}

// Snapshot copies the current state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	played := make(map[Section]bool, len(sections))
	for _, s := range sections {
		played[s] = v.entrances.Played(s)
	}
	return Snapshot{
		Content:    v.content,
		Nav:        v.nav,
		Form:       v.form,
		Played:     played,
		Sections:   Sections(),
		AboutEvery: v.entrances.Mode(About) == TriggerEveryVisible,
	}
}
