package resume

import "github.com/google/uuid"

// NewID returns a random identifier for a new list item.
func NewID() string {
	return uuid.NewString()
}

// AssignIDs gives every list item without an id a fresh one.
func AssignIDs(doc *ResumeData) {
	assignIDs(doc, false)
}

// RepairIDs is AssignIDs that also replaces repeated ids, keeping the first
// occurrence, and renames custom sections that reuse a built-in name.
func RepairIDs(doc *ResumeData) {
	assignIDs(doc, true)
}

func assignIDs(doc *ResumeData, dedupe bool) {
	fix := func(seen map[string]struct{}) func(*string) {
		return func(id *string) {
			if *id == "" {
				*id = NewID()
			} else if _, dup := seen[*id]; dup && dedupe {
				*id = NewID()
			}
			seen[*id] = struct{}{}
		}
	}

	next := fix(map[string]struct{}{})
	for i := range doc.Experience {
		next(&doc.Experience[i].ID)
	}
	next = fix(map[string]struct{}{})
	for i := range doc.Education {
		next(&doc.Education[i].ID)
	}
	next = fix(map[string]struct{}{})
	items := fix(map[string]struct{}{})
	for i := range doc.Skills {
		next(&doc.Skills[i].ID)
		for j := range doc.Skills[i].Skills {
			items(&doc.Skills[i].Skills[j].ID)
		}
	}
	next = fix(map[string]struct{}{})
	for i := range doc.Projects {
		next(&doc.Projects[i].ID)
	}
	next = fix(map[string]struct{}{})
	for i := range doc.Achievements {
		next(&doc.Achievements[i].ID)
	}
	builtins := map[string]struct{}{}
	if dedupe {
		for _, id := range BuiltinSections() {
			builtins[id] = struct{}{}
		}
	}
	next = fix(builtins)
	for i := range doc.CustomSections {
		next(&doc.CustomSections[i].ID)
	}
}
