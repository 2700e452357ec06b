package editor

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"resume-builder/internal/resume"
)

var equateEmpty = cmpopts.EquateEmpty()

// share returns prev when next holds the same elements.
func share[S ~[]E, E any](prev, next S) (S, bool) {
	if cmp.Equal(prev, next, equateEmpty) {
		return prev, false
	}
	return next, true
}

// reconcile builds the committed snapshot from a finished draft. Every list
// the draft left equal to prev keeps prev's backing array, as does the item
// list of every unchanged skill category.
func reconcile(prev, draft resume.ResumeData) (resume.ResumeData, bool) {
	out := draft
	changed := draft.PersonalDetails != prev.PersonalDetails

	var c [7]bool
	out.Experience, c[0] = share(prev.Experience, draft.Experience)
	out.Education, c[1] = share(prev.Education, draft.Education)
	out.Projects, c[2] = share(prev.Projects, draft.Projects)
	out.Achievements, c[3] = share(prev.Achievements, draft.Achievements)
	out.CustomSections, c[4] = share(prev.CustomSections, draft.CustomSections)
	out.SectionOrder, c[5] = share(prev.SectionOrder, draft.SectionOrder)
	out.Skills, c[6] = share(prev.Skills, draft.Skills)
	if c[6] {
		out.Skills = shareSkillItems(prev.Skills, draft.Skills)
	}
	for _, v := range c {
		changed = changed || v
	}
	return out, changed
}

func shareSkillItems(prev, next []resume.SkillCategory) []resume.SkillCategory {
	byID := make(map[string][]resume.SkillItem, len(prev))
	for _, cat := range prev {
		byID[cat.ID] = cat.Skills
	}
	for i := range next {
		if items, ok := byID[next[i].ID]; ok {
			next[i].Skills, _ = share(items, next[i].Skills)
		}
	}
	return next
}
