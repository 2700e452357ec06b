package sessions

import (
	"resume-builder/internal/persist"
)

type customSectionRequest struct {
	Title       string `json:"title" binding:"max=200"`
	Description string `json:"description"`
}

type moveRequest struct {
	ID        string `json:"id" binding:"required"`
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

type reorderRequest struct {
	ID       string `json:"id" binding:"required"`
	TargetID string `json:"targetId" binding:"required"`
}

type suggestRequest struct {
	DesiredRoles string `json:"desiredRoles" binding:"required"`
}

type applySuggestionRequest struct {
	Key  string `json:"key" binding:"required"`
	Text string `json:"text"`
}

type suggestResponse struct {
	Suggestions map[string]string `json:"suggestions"`
}

type noticesResponse struct {
	Notices []persist.Notice `json:"notices"`
}
