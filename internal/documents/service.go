package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-builder/internal/resume"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
)

// Service loads and saves the resume and design documents of a user.
type Service struct {
	Repo Repo
}

// LoadResume returns the stored resume, or the default when none exists. A
// missing document is seeded with the default so later loads read it back.
// On failure the default is returned together with an error wrapping
// ErrLoadFailed; the returned document is always usable.
func (s *Service) LoadResume(ctx context.Context, userID string) (resume.ResumeData, error) {
	if userID == "" {
		return resume.DefaultResume(), ErrNoIdentity
	}
	raw, err := s.load(ctx, userID, KindResume)
	if errors.Is(err, ErrNotFound) {
		doc := resume.DefaultResume()
		if err := s.SaveResume(ctx, userID, doc); err != nil {
			return doc, s.loadFailed(userID, KindResume, err)
		}
		return doc, nil
	}
	if err != nil {
		return resume.DefaultResume(), s.loadFailed(userID, KindResume, err)
	}
	doc, err := resume.Parse(raw)
	if err != nil {
		return resume.DefaultResume(), s.loadFailed(userID, KindResume, err)
	}
	return doc, nil
}

// LoadDesign is LoadResume for the design document.
func (s *Service) LoadDesign(ctx context.Context, userID string) (resume.DesignState, error) {
	if userID == "" {
		return resume.DefaultDesign(), ErrNoIdentity
	}
	raw, err := s.load(ctx, userID, KindDesign)
	if errors.Is(err, ErrNotFound) {
		design := resume.DefaultDesign()
		if err := s.SaveDesign(ctx, userID, design); err != nil {
			return design, s.loadFailed(userID, KindDesign, err)
		}
		return design, nil
	}
	if err != nil {
		return resume.DefaultDesign(), s.loadFailed(userID, KindDesign, err)
	}
	design, err := resume.ParseDesign(raw)
	if err != nil {
		return resume.DefaultDesign(), s.loadFailed(userID, KindDesign, err)
	}
	return design, nil
}

// SaveResume writes the resume for the user.
func (s *Service) SaveResume(ctx context.Context, userID string, doc resume.ResumeData) error {
	return s.save(ctx, userID, KindResume, doc)
}

// SaveDesign writes the design for the user.
func (s *Service) SaveDesign(ctx context.Context, userID string, design resume.DesignState) error {
	return s.save(ctx, userID, KindDesign, design)
}

func (s *Service) load(ctx context.Context, userID string, kind Kind) ([]byte, error) {
	raw, err := s.Repo.Get(ctx, userID, kind)
	switch {
	case errors.Is(err, ErrNotFound):
		metrics.IncLoad(string(kind), metrics.ResultNotFound)
	case err != nil:
		metrics.IncLoad(string(kind), metrics.ResultError)
	default:
		metrics.IncLoad(string(kind), metrics.ResultOK)
	}
	return raw, err
}

func (s *Service) save(ctx context.Context, userID string, kind Kind, v any) error {
	if userID == "" {
		return ErrNoIdentity
	}
	payload, err := Sanitize(v)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	start := time.Now()
	err = s.Repo.Put(ctx, userID, kind, payload)
	if err != nil {
		metrics.ObserveSave(string(kind), metrics.ResultError, time.Since(start))
		telemetry.Error("document.save_failed", map[string]any{
			"user_id": userID,
			"kind":    string(kind),
			"error":   err,
		})
		return fmt.Errorf("%w: %s: %w", ErrSaveFailed, kind, err)
	}
	metrics.ObserveSave(string(kind), metrics.ResultOK, time.Since(start))
	return nil
}

func (s *Service) loadFailed(userID string, kind Kind, err error) error {
	telemetry.Error("document.load_failed", map[string]any{
		"user_id": userID,
		"kind":    string(kind),
		"error":   err,
	})
	return fmt.Errorf("%w: %s: %w", ErrLoadFailed, kind, err)
}
