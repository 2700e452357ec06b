package persist

import (
	"time"

	"resume-builder/internal/shared/telemetry"
)

// Level grades a notice.
type Level string

const LevelError Level = "error"

// Notice is a user-visible message about a background load or save.
type Notice struct {
	Level       Level     `json:"level"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	At          time.Time `json:"at"`
	Err         error     `json:"-"`
}

// Notifier receives notices. Implementations must not block.
type Notifier interface {
	Notify(Notice)
}

// LogNotifier writes notices to the error log.
type LogNotifier struct{}

// Notify logs n.
func (LogNotifier) Notify(n Notice) {
	fields := map[string]any{
		"title":       n.Title,
		"description": n.Description,
	}
	if n.Err != nil {
		fields["error"] = n.Err
	}
	telemetry.Error("notice", fields)
}

var (
	noticeLoadFailed = Notice{
		Level:       LevelError,
		Title:       "Error loading data",
		Description: "Could not fetch your data from the database.",
	}
	noticeResumeSaveFailed = Notice{
		Level:       LevelError,
		Title:       "Error saving resume",
		Description: "Your changes could not be saved to the database.",
	}
	noticeDesignSaveFailed = Notice{
		Level:       LevelError,
		Title:       "Error saving design",
		Description: "Your design changes could not be saved to the database.",
	}
)
