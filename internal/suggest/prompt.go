package suggest

import (
	"slices"
	"strings"
)

const promptHeader = `You are an expert resume writer specializing in tailoring resumes to specific job roles.

Given the following resume sections and the desired job roles, provide improved content suggestions for each section to better match the roles.
Focus on improving wording, keywords, and overall impact.

Desired Roles: `

const promptFooter = `
Provide the output as a JSON object where the keys are the resume section names exactly as given and the values are the improved content suggestions for those sections.
`

// BuildPrompt renders the instruction text for req. Sections appear in key
// order so identical requests produce identical prompts.
func BuildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString(req.DesiredRoles)
	b.WriteString("\n\nResume Sections:\n")
	keys := make([]string, 0, len(req.Sections))
	for k := range req.Sections {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		b.WriteString("Section Name: ")
		b.WriteString(k)
		b.WriteString("\nCurrent Content: ")
		b.WriteString(req.Sections[k])
		b.WriteString("\n---\n")
	}
	b.WriteString(promptFooter)
	return b.String()
}
