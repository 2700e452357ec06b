package resume

const (
	DefaultPrimaryColor = "#3F51B5"
	DefaultFontSize     = "10"
	DefaultFontFamily   = "Inter"
)

// DefaultResume returns the document a new user starts with. Every call
// returns freshly allocated lists.
func DefaultResume() ResumeData {
	return ResumeData{
		Experience:     []Experience{},
		Education:      []Education{},
		Skills:         []SkillCategory{},
		Projects:       []Project{},
		Achievements:   []Achievement{},
		CustomSections: []CustomSection{},
		SectionOrder:   BuiltinSections(),
	}
}

// DefaultDesign returns the design a new user starts with.
func DefaultDesign() DesignState {
	return DesignState{
		Template:     TemplateModern,
		PrimaryColor: DefaultPrimaryColor,
		FontSize:     DefaultFontSize,
		FontFamily:   DefaultFontFamily,
	}
}
