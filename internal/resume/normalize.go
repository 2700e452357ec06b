package resume

import "github.com/ecodeclub/ekit/slice"

// Normalize repairs documents written by older versions of the editor:
// lists are made non-nil, built-in sections missing from the order are
// appended, unknown or repeated order entries are dropped and custom
// sections missing from the order are appended.
func Normalize(doc *ResumeData) {
	if doc.Experience == nil {
		doc.Experience = []Experience{}
	}
	if doc.Education == nil {
		doc.Education = []Education{}
	}
	if doc.Skills == nil {
		doc.Skills = []SkillCategory{}
	}
	for i := range doc.Skills {
		if doc.Skills[i].Skills == nil {
			doc.Skills[i].Skills = []SkillItem{}
		}
	}
	if doc.Projects == nil {
		doc.Projects = []Project{}
	}
	if doc.Achievements == nil {
		doc.Achievements = []Achievement{}
	}
	if doc.CustomSections == nil {
		doc.CustomSections = []CustomSection{}
	}

	customIDs := slice.Map(doc.CustomSections, func(idx int, src CustomSection) string {
		return src.ID
	})
	seen := make(map[string]struct{}, len(doc.SectionOrder))
	order := make([]string, 0, len(doc.SectionOrder)+len(customIDs))
	for _, id := range doc.SectionOrder {
		if _, dup := seen[id]; dup {
			continue
		}
		if !IsBuiltin(id) && !slice.Contains(customIDs, id) {
			continue
		}
		seen[id] = struct{}{}
		order = append(order, id)
	}
	for _, id := range BuiltinSections() {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			order = append(order, id)
		}
	}
	for _, id := range customIDs {
		if _, ok := seen[id]; !ok && id != "" {
			seen[id] = struct{}{}
			order = append(order, id)
		}
	}
	doc.SectionOrder = order
}
