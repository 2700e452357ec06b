package resume

import "strings"

// Bullets splits a description into its list items. Each non-blank line is
// one item with any leading "•" marker removed.
func Bullets(description string) []string {
	var out []string
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "•"))
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
