package documents

import "errors"

var (
	// ErrNotFound indicates no document is stored for the user and kind.
	ErrNotFound = errors.New("not found")

	// ErrNoIdentity indicates an operation that needs a signed-in user was
	// called without one.
	ErrNoIdentity = errors.New("no identity")

	// ErrLoadFailed wraps any failure to read a stored document.
	ErrLoadFailed = errors.New("load failed")

	// ErrSaveFailed wraps any failure to write a document.
	ErrSaveFailed = errors.New("save failed")
)
