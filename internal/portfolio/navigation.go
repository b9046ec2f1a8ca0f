package portfolio

// Navigation is the header state: the highlighted section and the mobile
// menu overlay.
type Navigation struct {
	Active   Section
	MenuOpen bool
}

// NewNavigation returns the state of a freshly loaded page.
func NewNavigation() Navigation {
	return Navigation{Active: About}
}

// ScrollEffect asks the page to smooth-scroll an anchor into view. Nothing
// waits for it to finish and a later effect simply supersedes it.
type ScrollEffect struct {
	Anchor Anchor
	Smooth bool
}

// Select activates s and always closes the mobile menu.
func (n *Navigation) Select(s Section) ScrollEffect {
	n.Active = s
	n.MenuOpen = false
	return ScrollEffect{Anchor: s.Anchor(), Smooth: true}
}

// ToggleMenu flips the mobile menu.
func (n *Navigation) ToggleMenu() {
	n.MenuOpen = !n.MenuOpen
}

// spy tracks which sections are on screen so the highlighted nav item can
// follow free scrolling. A clicked section is pinned: it stays highlighted
// while the smooth scroll passes other sections, and is released once it
// has been on screen and leaves again.
type spy struct {
	visible map[Section]bool
	pinned  Section
	reached bool
}

func newSpy() *spy {
	return &spy{visible: make(map[Section]bool, len(sections))}
}

// pin holds s as the answer of update until s scrolls out of view.
func (s *spy) pin(section Section) {
	s.pinned = section
	s.reached = s.visible[section]
}

// update records a visibility change and returns the pinned section or else
// the first visible section in page order. ok is false when nothing is on
// screen.
func (s *spy) update(v Visibility) (Section, bool) {
	s.visible[v.Section] = v.Visible
	if s.pinned != "" && v.Section == s.pinned {
		if v.Visible {
			s.reached = true
		} else if s.reached {
			s.pinned = ""
		}
	}
	if s.pinned != "" {
		return s.pinned, true
	}
	for _, candidate := range sections {
		if s.visible[candidate] {
			return candidate, true
		}
	}
	return "", false
}
