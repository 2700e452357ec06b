package resume

import "errors"

var (
	// ErrMissingID indicates a list item without an id.
	ErrMissingID = errors.New("missing id")

	// ErrDuplicateID indicates two items of the same list share an id.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrOrderDuplicate indicates a section id listed twice in the section order.
	ErrOrderDuplicate = errors.New("section order contains duplicate")

	// ErrOrderUnknown indicates a section order entry that names no section.
	ErrOrderUnknown = errors.New("section order contains unknown section")

	// ErrOrderMissing indicates a custom section absent from the section order.
	ErrOrderMissing = errors.New("section order missing custom section")

	// ErrInvalidShape indicates a raw document that does not match the schema.
	ErrInvalidShape = errors.New("invalid document shape")
)
