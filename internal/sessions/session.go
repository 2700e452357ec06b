package sessions

import (
	"context"
	"encoding/json"
	"fmt"

	"resume-builder/internal/editor"
	"resume-builder/internal/identity"
	"resume-builder/internal/layout"
	"resume-builder/internal/persist"
	"resume-builder/internal/resume"
	"resume-builder/internal/suggest"
)

// Session is one user's editor: a state container kept in sync with the
// document store by a coordinator.
type Session struct {
	userID string
	store  *editor.Store
	manual *identity.Manual
	coord  *persist.Coordinator
	inbox  *Inbox
	layout *layout.Manager
}

// View is the state a client renders.
type View struct {
	Ready      bool                `json:"ready"`
	Status     string              `json:"status"`
	Version    uint64              `json:"version"`
	Resume     resume.ResumeData   `json:"resume"`
	Design     resume.DesignState  `json:"design"`
	Sections   []SectionView       `json:"sections"`
	Bullets    map[string][]string `json:"bullets"`
	Validation resume.FieldErrors  `json:"validation"`
}

// SectionView is one entry of the section order with its display label.
type SectionView struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Custom bool   `json:"custom"`
}

// UserID returns the session owner.
func (s *Session) UserID() string { return s.userID }

// Layout returns the section order and custom section editor.
func (s *Session) Layout() *layout.Manager { return s.layout }

// View returns the current snapshot with its validation report.
func (s *Session) View() View {
	snap := s.store.Snapshot()
	doc := snap.Resume
	validation := resume.Validate(doc)
	if validation == nil {
		validation = resume.FieldErrors{}
	}
	sections := make([]SectionView, 0, len(doc.SectionOrder))
	for _, id := range doc.SectionOrder {
		sections = append(sections, SectionView{ID: id, Label: layout.Label(doc, id), Custom: !resume.IsBuiltin(id)})
	}
	return View{
		Ready:      snap.Status == editor.StatusReady,
		Status:     snap.Status.String(),
		Version:    snap.Version,
		Resume:     doc,
		Design:     snap.Design,
		Sections:   sections,
		Bullets:    bullets(doc),
		Validation: validation,
	}
}

// WaitReady blocks until the first load has been applied or ctx ends.
func (s *Session) WaitReady(ctx context.Context) error {
	return s.store.WaitReady(ctx)
}

// Notices drains pending load and save notices.
func (s *Session) Notices() []persist.Notice {
	return s.inbox.Drain()
}

// UpdateResume applies fn once the session is ready.
func (s *Session) UpdateResume(fn func(*resume.ResumeData)) error {
	if !s.store.Ready() {
		return ErrNotReady
	}
	return s.store.UpdateResume(fn)
}

// UpdateDesign applies fn once the session is ready.
func (s *Session) UpdateDesign(fn func(*resume.DesignState)) error {
	if !s.store.Ready() {
		return ErrNotReady
	}
	return s.store.UpdateDesign(fn)
}

// SetPersonalDetails replaces the header block.
func (s *Session) SetPersonalDetails(pd resume.PersonalDetails) error {
	return s.UpdateResume(func(d *resume.ResumeData) {
		d.PersonalDetails = pd
	})
}

// ReplaceSection replaces one built-in list with the JSON array in raw.
// Items without an id are given one.
func (s *Session) ReplaceSection(section string, raw json.RawMessage) error {
	var apply func(*resume.ResumeData)
	var err error
	switch section {
	case resume.SectionExperience:
		var items []resume.Experience
		err = json.Unmarshal(raw, &items)
		apply = func(d *resume.ResumeData) { d.Experience = nonNil(items) }
	case resume.SectionEducation:
		var items []resume.Education
		err = json.Unmarshal(raw, &items)
		apply = func(d *resume.ResumeData) { d.Education = nonNil(items) }
	case resume.SectionSkills:
		var items []resume.SkillCategory
		err = json.Unmarshal(raw, &items)
		for i := range items {
			items[i].Skills = nonNil(items[i].Skills)
		}
		apply = func(d *resume.ResumeData) { d.Skills = nonNil(items) }
	case resume.SectionProjects:
		var items []resume.Project
		err = json.Unmarshal(raw, &items)
		apply = func(d *resume.ResumeData) { d.Projects = nonNil(items) }
	case resume.SectionAchievements:
		var items []resume.Achievement
		err = json.Unmarshal(raw, &items)
		apply = func(d *resume.ResumeData) { d.Achievements = nonNil(items) }
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidInput, section, err)
	}
	return s.UpdateResume(apply)
}

// SetDesign replaces the design state.
func (s *Session) SetDesign(design resume.DesignState) error {
	return s.UpdateDesign(func(d *resume.DesignState) {
		*d = design
	})
}

// Suggest asks svc for improvements to the current document.
func (s *Session) Suggest(ctx context.Context, svc *suggest.Service, desiredRoles string) (map[string]string, error) {
	if !s.store.Ready() {
		return nil, ErrNotReady
	}
	return svc.Optimize(ctx, s.store.Resume(), desiredRoles)
}

// ApplySuggestion writes text into the section named by label.
func (s *Session) ApplySuggestion(label, text string) error {
	var applyErr error
	err := s.UpdateResume(func(d *resume.ResumeData) {
		applyErr = suggest.Apply(d, label, text)
	})
	if err != nil {
		return err
	}
	return applyErr
}

func nonNil[S ~[]E, E any](s S) S {
	if s == nil {
		return S{}
	}
	return s
}

// bullets splits every non-empty description of the list sections, keyed
// by item id.
func bullets(doc resume.ResumeData) map[string][]string {
	out := make(map[string][]string)
	add := func(id, description string) {
		if lines := resume.Bullets(description); len(lines) > 0 {
			out[id] = lines
		}
	}
	for _, e := range doc.Experience {
		add(e.ID, e.Description)
	}
	for _, e := range doc.Education {
		add(e.ID, e.Description)
	}
	for _, p := range doc.Projects {
		add(p.ID, p.Description)
	}
	for _, cs := range doc.CustomSections {
		add(cs.ID, cs.Description)
	}
	return out
}
