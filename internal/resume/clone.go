package resume

import "slices"

// Clone returns a deep copy that shares no backing arrays with d.
func (d ResumeData) Clone() ResumeData {
	out := d
	out.Experience = slices.Clone(d.Experience)
	out.Education = slices.Clone(d.Education)
	out.Projects = slices.Clone(d.Projects)
	out.Achievements = slices.Clone(d.Achievements)
	out.CustomSections = slices.Clone(d.CustomSections)
	out.SectionOrder = slices.Clone(d.SectionOrder)
	if d.Skills != nil {
		out.Skills = make([]SkillCategory, len(d.Skills))
		for i, cat := range d.Skills {
			cat.Skills = slices.Clone(cat.Skills)
			out.Skills[i] = cat
		}
	}
	return out
}
