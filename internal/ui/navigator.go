package ui

import (
	"sync"

	"github.com/desertthunder/cogniapply/internal/models"
	"github.com/desertthunder/cogniapply/internal/shared"
)

// SectionStore persists the section last shown.
type SectionStore interface {
	RememberSection(models.Section) error
	LastSection() (models.Section, error)
}

// Completeness reports whether the cached profile allows an automation run.
type Completeness interface {
	Complete(hasNewResume bool) bool
}

// Navigator owns the active dashboard section.
type Navigator struct {
	store    SectionStore
	profiles Completeness

	mu       sync.Mutex
	current  models.Section
	selected func() bool
}

func NewNavigator(store SectionStore, profiles Completeness) *Navigator {
	return &Navigator{store: store, profiles: profiles, current: models.SectionProfile}
}

// SelectedResume registers fn as the source of whether a resume is chosen for
// upload but not saved yet. A selected resume counts towards completeness.
func (n *Navigator) SelectedResume(fn func() bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.selected = fn
}

func (n *Navigator) complete() bool {
	n.mu.Lock()
	selected := n.selected
	n.mu.Unlock()
	return n.profiles.Complete(selected != nil && selected())
}

// Current returns the active section.
func (n *Navigator) Current() models.Section {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Show switches to section and persists it.
//
// Entering [models.SectionJobSearch] with an incomplete profile returns
// [shared.ErrProfileIncomplete] and leaves the current section untouched.
func (n *Navigator) Show(section models.Section) error {
	if _, err := models.ParseSection(string(section)); err != nil {
		return err
	}
	if section == models.SectionJobSearch && !n.complete() {
		return shared.ErrProfileIncomplete
	}

	if err := n.store.RememberSection(section); err != nil {
		return err
	}

	n.mu.Lock()
	n.current = section
	n.mu.Unlock()
	return nil
}

// Restore selects the persisted section, falling back to the profile.
func (n *Navigator) Restore() models.Section {
	section, err := n.store.LastSection()
	if err != nil || (section == models.SectionJobSearch && !n.complete()) {
		section = models.SectionProfile
	}

	n.mu.Lock()
	n.current = section
	n.mu.Unlock()
	return section
}
