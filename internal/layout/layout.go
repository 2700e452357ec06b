package layout

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ecodeclub/ekit/slice"

	"resume-builder/internal/resume"
)

// DefaultSectionTitle names a custom section created without a title.
const DefaultSectionTitle = "New Section"

var (
	// ErrNotFound indicates a section id that is not in the document.
	ErrNotFound = errors.New("section not found")

	// ErrInvalidInput indicates a bad direction or identifier.
	ErrInvalidInput = errors.New("invalid input")
)

// Direction moves a section one step in the order.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection validates a direction name.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(s)) {
	case Up:
		return Up, nil
	case Down:
		return Down, nil
	default:
		return "", fmt.Errorf("%w: direction must be up or down", ErrInvalidInput)
	}
}

// Updater applies a mutation to the resume document.
type Updater interface {
	UpdateResume(fn func(*resume.ResumeData)) error
}

// Manager edits the section order and the custom sections. Every operation
// is a single update, so the order and the section list never disagree.
type Manager struct {
	Store Updater
}

// AddCustomSection appends a new custom section and its order entry.
func (m *Manager) AddCustomSection(title, description string) (resume.CustomSection, error) {
	if strings.TrimSpace(title) == "" {
		title = DefaultSectionTitle
	}
	section := resume.CustomSection{ID: resume.NewID(), Title: title, Description: description}
	err := m.Store.UpdateResume(func(d *resume.ResumeData) {
		d.CustomSections = append(d.CustomSections, section)
		if slice.Index(d.SectionOrder, section.ID) < 0 {
			d.SectionOrder = append(d.SectionOrder, section.ID)
		}
	})
	if err != nil {
		return resume.CustomSection{}, err
	}
	return section, nil
}

// UpdateCustomSection replaces the title and description of a custom section.
func (m *Manager) UpdateCustomSection(id, title, description string) error {
	found := false
	err := m.Store.UpdateResume(func(d *resume.ResumeData) {
		i := customIndex(d.CustomSections, id)
		if i < 0 {
			return
		}
		found = true
		d.CustomSections[i].Title = title
		d.CustomSections[i].Description = description
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return nil
}

// RemoveCustomSection deletes a custom section and its order entry.
func (m *Manager) RemoveCustomSection(id string) error {
	found := false
	err := m.Store.UpdateResume(func(d *resume.ResumeData) {
		if customIndex(d.CustomSections, id) < 0 {
			return
		}
		found = true
		d.CustomSections = slice.FilterDelete(d.CustomSections, func(_ int, cs resume.CustomSection) bool {
			return cs.ID == id
		})
		d.SectionOrder = slice.FilterDelete(d.SectionOrder, func(_ int, s string) bool {
			return s == id
		})
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return nil
}

// MoveSection swaps a section with its neighbour. Moving past either end is
// a no-op.
func (m *Manager) MoveSection(id string, dir Direction) error {
	if dir != Up && dir != Down {
		return fmt.Errorf("%w: direction %q", ErrInvalidInput, dir)
	}
	found := false
	err := m.Store.UpdateResume(func(d *resume.ResumeData) {
		i := slice.Index(d.SectionOrder, id)
		if i < 0 {
			return
		}
		found = true
		j := i - 1
		if dir == Down {
			j = i + 1
		}
		if j < 0 || j >= len(d.SectionOrder) {
			return
		}
		d.SectionOrder[i], d.SectionOrder[j] = d.SectionOrder[j], d.SectionOrder[i]
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return nil
}

// ReorderSection moves id to the position target held before the move.
func (m *Manager) ReorderSection(id, target string) error {
	found := false
	err := m.Store.UpdateResume(func(d *resume.ResumeData) {
		from := slice.Index(d.SectionOrder, id)
		to := slice.Index(d.SectionOrder, target)
		if from < 0 || to < 0 {
			return
		}
		found = true
		if from == to {
			return
		}
		d.SectionOrder = slices.Delete(d.SectionOrder, from, from+1)
		d.SectionOrder = slices.Insert(d.SectionOrder, to, id)
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %q or %q", ErrNotFound, id, target)
	}
	return nil
}

// Label returns the display name of a section.
func Label(doc resume.ResumeData, id string) string {
	switch id {
	case resume.SectionExperience:
		return "Work Experience"
	case resume.SectionEducation:
		return "Education"
	case resume.SectionSkills:
		return "Skills"
	case resume.SectionProjects:
		return "Projects"
	case resume.SectionAchievements:
		return "Achievements"
	}
	if i := customIndex(doc.CustomSections, id); i >= 0 && doc.CustomSections[i].Title != "" {
		return doc.CustomSections[i].Title
	}
	return "Custom Section"
}

func customIndex(sections []resume.CustomSection, id string) int {
	return slices.IndexFunc(sections, func(cs resume.CustomSection) bool {
		return cs.ID == id
	})
}
