package resume

import "fmt"

// CheckIntegrity reports the first structural invariant doc violates: ids
// must be present and unique per list (skill items across all categories),
// custom section ids must not shadow built-in names, and the section order
// must list every built-in and every custom section exactly once and
// nothing else.
func CheckIntegrity(doc ResumeData) error {
	if err := uniqueIDs("experience", len(doc.Experience), func(i int) string { return doc.Experience[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("education", len(doc.Education), func(i int) string { return doc.Education[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("skills", len(doc.Skills), func(i int) string { return doc.Skills[i].ID }); err != nil {
		return err
	}
	var items []string
	for _, cat := range doc.Skills {
		for _, item := range cat.Skills {
			items = append(items, item.ID)
		}
	}
	if err := uniqueIDs("skill items", len(items), func(i int) string { return items[i] }); err != nil {
		return err
	}
	if err := uniqueIDs("projects", len(doc.Projects), func(i int) string { return doc.Projects[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("achievements", len(doc.Achievements), func(i int) string { return doc.Achievements[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("customSections", len(doc.CustomSections), func(i int) string { return doc.CustomSections[i].ID }); err != nil {
		return err
	}
	return checkOrder(doc)
}

func uniqueIDs(list string, n int, id func(int) string) error {
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		v := id(i)
		if v == "" {
			return fmt.Errorf("%w: %s[%d]", ErrMissingID, list, i)
		}
		if _, ok := seen[v]; ok {
			return fmt.Errorf("%w: %s %q", ErrDuplicateID, list, v)
		}
		seen[v] = struct{}{}
	}
	return nil
}

func checkOrder(doc ResumeData) error {
	custom := make(map[string]bool, len(doc.CustomSections))
	for _, cs := range doc.CustomSections {
		if IsBuiltin(cs.ID) {
			return fmt.Errorf("%w: custom section %q shadows a built-in section", ErrDuplicateID, cs.ID)
		}
		custom[cs.ID] = false
	}
	seen := make(map[string]struct{}, len(doc.SectionOrder))
	for _, id := range doc.SectionOrder {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %q", ErrOrderDuplicate, id)
		}
		seen[id] = struct{}{}
		if IsBuiltin(id) {
			continue
		}
		if _, ok := custom[id]; !ok {
			return fmt.Errorf("%w: %q", ErrOrderUnknown, id)
		}
		custom[id] = true
	}
	for _, id := range BuiltinSections() {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("%w: %q", ErrOrderMissing, id)
		}
	}
	for id, listed := range custom {
		if !listed {
			return fmt.Errorf("%w: %q", ErrOrderMissing, id)
		}
	}
	return nil
}
