package suggest

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"resume-builder/internal/resume"
	"resume-builder/internal/shared/telemetry"
)

// Section label prefixes.
const (
	LabelSummary    = "Summary"
	labelExperience = "Experience "
	labelProject    = "Project "
)

var (
	// ErrInvalidInput indicates a request without desired roles.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoSections indicates a document with nothing to improve.
	ErrNoSections = errors.New("no sections with content")

	// ErrUnknownLabel indicates a suggestion key that names no section.
	ErrUnknownLabel = errors.New("unknown section label")

	// ErrNotFound indicates a suggestion for an item that no longer exists.
	ErrNotFound = errors.New("section item not found")

	// ErrNotConfigured is returned by PlaceholderClient.
	ErrNotConfigured = errors.New("suggestions are not configured")
)

// Request is the input of a suggestion run: section label to current text.
type Request struct {
	Sections     map[string]string `json:"sections"`
	DesiredRoles string            `json:"desiredRoles"`
}

// Client produces improved text per section label.
type Client interface {
	Suggest(ctx context.Context, req Request) (map[string]string, error)
}

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

// Suggest returns ErrNotConfigured.
func (PlaceholderClient) Suggest(context.Context, Request) (map[string]string, error) {
	return nil, ErrNotConfigured
}

// Sections collects the text sections of doc that can be improved, keyed
// by label. Empty text is skipped.
func Sections(doc resume.ResumeData) map[string]string {
	out := map[string]string{}
	if doc.PersonalDetails.Summary != "" {
		out[LabelSummary] = doc.PersonalDetails.Summary
	}
	for _, exp := range doc.Experience {
		if exp.Description != "" {
			out[labelExperience+exp.ID] = exp.Description
		}
	}
	for _, p := range doc.Projects {
		if p.Description != "" {
			out[labelProject+p.ID] = p.Description
		}
	}
	return out
}

// Service runs suggestions for a document.
type Service struct {
	Client Client
}

// Optimize asks the client for improvements to every section of doc. Keys
// the client invents are dropped.
func (s *Service) Optimize(ctx context.Context, doc resume.ResumeData, desiredRoles string) (map[string]string, error) {
	desiredRoles = strings.TrimSpace(desiredRoles)
	if desiredRoles == "" {
		return nil, fmt.Errorf("%w: desired roles are required", ErrInvalidInput)
	}
	sections := Sections(doc)
	if len(sections) == 0 {
		return nil, ErrNoSections
	}
	out, err := s.Client.Suggest(ctx, Request{Sections: sections, DesiredRoles: desiredRoles})
	if err != nil {
		return nil, err
	}
	dropped := 0
	for key := range out {
		if _, ok := sections[key]; !ok {
			delete(out, key)
			dropped++
		}
	}
	telemetry.Info("suggest.complete", map[string]any{
		"sections":    len(sections),
		"suggestions": len(out),
		"dropped":     dropped,
	})
	return out, nil
}

// Apply writes text into the section named by label.
func Apply(doc *resume.ResumeData, label, text string) error {
	switch {
	case label == LabelSummary:
		doc.PersonalDetails.Summary = text
		return nil
	case strings.HasPrefix(label, labelExperience):
		id := strings.TrimPrefix(label, labelExperience)
		i := slices.IndexFunc(doc.Experience, func(e resume.Experience) bool { return e.ID == id })
		if i < 0 {
			return fmt.Errorf("%w: experience %q", ErrNotFound, id)
		}
		doc.Experience[i].Description = text
		return nil
	case strings.HasPrefix(label, labelProject):
		id := strings.TrimPrefix(label, labelProject)
		i := slices.IndexFunc(doc.Projects, func(p resume.Project) bool { return p.ID == id })
		if i < 0 {
			return fmt.Errorf("%w: project %q", ErrNotFound, id)
		}
		doc.Projects[i].Description = text
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
}
