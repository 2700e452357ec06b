package editor

import "errors"

// ErrRejected indicates an update whose result broke a document invariant.
// The store keeps its previous state.
var ErrRejected = errors.New("update rejected")
