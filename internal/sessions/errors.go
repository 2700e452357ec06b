package sessions

import "errors"

var (
	// ErrNoSession indicates a request for a user that has not signed in.
	ErrNoSession = errors.New("no active session")

	// ErrNotReady indicates an edit attempted before the first load finished.
	ErrNotReady = errors.New("session not ready")

	// ErrFixedIdentity indicates a sign-out against the fixed local identity.
	ErrFixedIdentity = errors.New("identity is fixed")

	// ErrUnknownSection indicates a section name that is not a built-in list.
	ErrUnknownSection = errors.New("unknown section")

	// ErrInvalidInput indicates a request body that cannot be decoded.
	ErrInvalidInput = errors.New("invalid input")
)
