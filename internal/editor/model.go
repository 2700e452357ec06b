package editor

import "resume-builder/internal/resume"

// Status is the lifecycle state of a Store.
type Status int

const (
	StatusUninitialized Status = iota
	StatusLoading
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// Source says what produced a Change.
type Source string

const (
	SourceEdit  Source = "edit"
	SourceLoad  Source = "load"
	SourceReset Source = "reset"
)

// Change is delivered to subscribers after every committed state change.
// Resume and Design are nil when that document did not change. Status is
// the store status right after the change.
type Change struct {
	Source  Source
	Status  Status
	Resume  *resume.ResumeData
	Design  *resume.DesignState
	Version uint64
}

// Snapshot is a consistent read of the whole store.
type Snapshot struct {
	Status  Status
	Resume  resume.ResumeData
	Design  resume.DesignState
	Version uint64
}
