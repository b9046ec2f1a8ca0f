package portfolio

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Visibility is one observed change of a section crossing the viewport edge.
type Visibility struct {
	Section Section `json:"section"`
	Visible bool    `json:"visible"`
}

// Observer delivers visibility changes for an anchor until ctx is done.
type Observer interface {
	Observe(ctx context.Context, anchor Anchor) <-chan Visibility
}

const feedBuffer = 16

// Feed is an Observer driven by an outside source, such as the browser
// reporting IntersectionObserver callbacks.
type Feed struct {
	mu   sync.Mutex
	subs map[Section]map[chan Visibility]<-chan struct{}
}

// NewFeed returns an empty feed.
func NewFeed() *Feed {
	return &Feed{subs: make(map[Section]map[chan Visibility]<-chan struct{})}
}

// Observe implements Observer. The returned channel is closed once ctx is
// cancelled.
func (f *Feed) Observe(ctx context.Context, anchor Anchor) <-chan Visibility {
	ch := make(chan Visibility, feedBuffer)

	f.mu.Lock()
	if f.subs[anchor.Section] == nil {
		f.subs[anchor.Section] = make(map[chan Visibility]<-chan struct{})
	}
	f.subs[anchor.Section][ch] = ctx.Done()
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs[anchor.Section], ch)
		close(ch)
		f.mu.Unlock()
	}()
	return ch
}

// Publish hands v to every observer of its section. A full observer makes
// it wait, so no change is ever lost; it gives up when ctx is done.
// Observers whose own context has ended are skipped.
func (f *Feed) Publish(ctx context.Context, v Visibility) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch, done := range f.subs[v.Section] {
		select {
		case ch <- v:
		case <-done:
		case <-ctx.Done():
			return fmt.Errorf("publishing %s visibility: %w", v.Section, ctx.Err())
		}
	}
	return nil
}

// Trigger decides how often a section replays its entrance.
type Trigger int

const (
	// TriggerOnce plays on the first time the section becomes visible.
	TriggerOnce Trigger = iota
	// TriggerEveryVisible plays every time the section comes back into view.
	TriggerEveryVisible
)

// Entrance holds the fade/slide parameters of a section entrance. Offsets
// are in pixels.
type Entrance struct {
	FromOpacity float64       `json:"from_opacity"`
	ToOpacity   float64       `json:"to_opacity"`
	FromOffsetX int           `json:"from_offset_x"`
	ToOffsetX   int           `json:"to_offset_x"`
	FromOffsetY int           `json:"from_offset_y"`
	ToOffsetY   int           `json:"to_offset_y"`
	Duration    time.Duration `json:"duration"`
	Delay       time.Duration `json:"delay,omitempty"`
}

// FadeInUp is the entrance every section uses.
var FadeInUp = Entrance{
	FromOpacity: 0,
	ToOpacity:   1,
	FromOffsetY: 20,
	ToOffsetY:   0,
	Duration:    500 * time.Millisecond,
}

// Stagger returns the entrance of the i-th card inside a section. Experience
// cards slide in from the left 200ms apart and skill tiles trail each other
// by 100ms.
func Stagger(s Section, i int) Entrance {
	e := FadeInUp
	switch s {
	case Experience:
		e.FromOffsetX, e.FromOffsetY = -20, 0
		e.Delay = time.Duration(i) * 200 * time.Millisecond
	case Skills:
		e.Delay = time.Duration(i) * 100 * time.Millisecond
	}
	return e
}

// Entrances tracks which section entrances have played.
type Entrances struct {
	modes   map[Section]Trigger
	played  map[Section]bool
	visible map[Section]bool
}

// NewEntrances returns trackers where About replays on every return into
// view and the rest play once. With unify set About plays once as well.
func NewEntrances(unify bool) *Entrances {
	e := &Entrances{
		modes:   make(map[Section]Trigger, len(sections)),
		played:  make(map[Section]bool, len(sections)),
		visible: make(map[Section]bool, len(sections)),
	}
	for _, s := range sections {
		e.modes[s] = TriggerOnce
	}
	if !unify {
		e.modes[About] = TriggerEveryVisible
	}
	return e
}

// Mode reports the trigger used for s.
func (e *Entrances) Mode(s Section) Trigger {
	return e.modes[s]
}

// Observe records a visibility change and reports whether the entrance of
// the section should play now. Leaving the viewport never reverses it.
func (e *Entrances) Observe(v Visibility) bool {
	if !v.Visible {
		e.visible[v.Section] = false
		return false
	}
	if e.visible[v.Section] {
		return false
	}
	e.visible[v.Section] = true
	if e.modes[v.Section] == TriggerOnce && e.played[v.Section] {
		return false
	}
	e.played[v.Section] = true
	return true
}

// Played reports whether the entrance of s has run at least once.
func (e *Entrances) Played(s Section) bool {
	return e.played[s]
}
