package resume

// PersonalDetails is the header block of a resume.
type PersonalDetails struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty"`
	Website  string `json:"website,omitempty" validate:"omitempty,url"`
	Location string `json:"location,omitempty"`
	Summary  string `json:"summary,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Experience is one work history entry. Description lines starting with a
// bullet marker render as list items.
type Experience struct {
	ID          string `json:"id"`
	Company     string `json:"company" validate:"required"`
	Role        string `json:"role" validate:"required"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

type Education struct {
	ID          string `json:"id"`
	Institution string `json:"institution" validate:"required"`
	Degree      string `json:"degree" validate:"required"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
}

type SkillItem struct {
	ID   string `json:"id"`
	Name string `json:"name" validate:"required"`
}

// SkillCategory groups skills under a label such as "Languages".
type SkillCategory struct {
	ID       string      `json:"id"`
	Category string      `json:"category" validate:"required"`
	Skills   []SkillItem `json:"skills" validate:"dive"`
}

type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required"`
	Intro       string `json:"intro,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty" validate:"omitempty,url"`
}

// Achievement carries an optional title; older documents only have a description.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description" validate:"required"`
}

// CustomSection is a user defined section rendered alongside the built-ins.
type CustomSection struct {
	ID          string `json:"id"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
}

// ResumeData is the root resume document.
type ResumeData struct {
	PersonalDetails PersonalDetails `json:"personalDetails"`
	Experience      []Experience    `json:"experience" validate:"dive"`
	Education       []Education     `json:"education" validate:"dive"`
	Skills          []SkillCategory `json:"skills" validate:"dive"`
	Projects        []Project       `json:"projects" validate:"dive"`
	Achievements    []Achievement   `json:"achievements" validate:"dive"`
	CustomSections  []CustomSection `json:"customSections" validate:"dive"`
	SectionOrder    []string        `json:"sectionOrder"`
}

// Template names a resume layout.
type Template string

const (
	TemplateClassic    Template = "classic"
	TemplateModern     Template = "modern"
	TemplateMinimalist Template = "minimalist"
)

// DesignState stores the visual choices for a resume. Values are stored as
// chosen; nothing here interprets them.
type DesignState struct {
	Template     Template `json:"template" validate:"required,oneof=classic modern minimalist"`
	PrimaryColor string   `json:"primaryColor" validate:"required"`
	FontSize     string   `json:"fontSize" validate:"required,numeric"`
	FontFamily   string   `json:"fontFamily" validate:"required"`
}

// Built-in section identifiers used in ResumeData.SectionOrder.
const (
	SectionExperience   = "experience"
	SectionEducation    = "education"
	SectionSkills       = "skills"
	SectionProjects     = "projects"
	SectionAchievements = "achievements"
)

// BuiltinSections returns the built-in section ids in canonical order.
func BuiltinSections() []string {
	return []string{
		SectionExperience,
		SectionEducation,
		SectionSkills,
		SectionProjects,
		SectionAchievements,
	}
}

// IsBuiltin reports whether id names a built-in section.
func IsBuiltin(id string) bool {
	switch id {
	case SectionExperience, SectionEducation, SectionSkills, SectionProjects, SectionAchievements:
		return true
	default:
		return false
	}
}
