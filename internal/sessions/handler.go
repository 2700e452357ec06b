package sessions

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/editor"
	"resume-builder/internal/identity"
	"resume-builder/internal/layout"
	"resume-builder/internal/resume"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/suggest"
)

const defaultReadyTimeout = 10 * time.Second

// Handler exposes editing sessions over HTTP.
type Handler struct {
	Sessions     *Manager
	Suggest      *suggest.Service
	ReadyTimeout time.Duration
}

// NewHandler constructs a Handler.
func NewHandler(m *Manager, svc *suggest.Service) *Handler {
	return &Handler{Sessions: m, Suggest: svc, ReadyTimeout: defaultReadyTimeout}
}

// RegisterRoutes attaches session and editing routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/session", h.signIn)
	rg.DELETE("/session", h.signOut)
	rg.GET("/session/notices", h.notices)

	rg.GET("/resume", h.getResume)
	rg.PUT("/resume/personal-details", h.putPersonalDetails)
	rg.PUT("/resume/sections/:section", h.putSection)
	rg.POST("/resume/custom-sections", h.addCustomSection)
	rg.PUT("/resume/custom-sections/:id", h.updateCustomSection)
	rg.DELETE("/resume/custom-sections/:id", h.removeCustomSection)
	rg.POST("/resume/layout/move", h.moveSection)
	rg.POST("/resume/layout/reorder", h.reorderSection)
	rg.POST("/resume/suggestions", h.suggest)
	rg.POST("/resume/suggestions/apply", h.applySuggestion)

	rg.GET("/design", h.getDesign)
	rg.PUT("/design", h.putDesign)
}

func (h *Handler) signIn(c *gin.Context) {
	s, err := h.Sessions.Acquire(middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	timeout := h.ReadyTimeout
	if timeout <= 0 {
		timeout = defaultReadyTimeout
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()
	if err := s.WaitReady(ctx); err != nil {
		respond.JSON(c, http.StatusAccepted, s.View())
		return
	}
	respond.OK(c, s.View())
}

func (h *Handler) signOut(c *gin.Context) {
	if err := h.Sessions.Release(middleware.UserIDFromContext(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) notices(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	respond.OK(c, noticesResponse{Notices: s.Notices()})
}

func (h *Handler) getResume(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	respond.OK(c, s.View())
}

func (h *Handler) putPersonalDetails(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var pd resume.PersonalDetails
	if err := c.ShouldBindJSON(&pd); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid personal details", err.Error())
		return
	}
	if err := s.SetPersonalDetails(pd); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, s.View())
}

func (h *Handler) putSection(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	raw, err := c.GetRawData()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read body", nil)
		return
	}
	if err := s.ReplaceSection(c.Param("section"), raw); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, s.View())
}

func (h *Handler) addCustomSection(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req customSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid custom section", err.Error())
		return
	}
	section, err := s.Layout().AddCustomSection(req.Title, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, section)
}

func (h *Handler) updateCustomSection(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req customSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid custom section", err.Error())
		return
	}
	if err := s.Layout().UpdateCustomSection(c.Param("id"), req.Title, req.Description); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, s.View())
}

func (h *Handler) removeCustomSection(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Layout().RemoveCustomSection(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) moveSection(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid move request", err.Error())
		return
	}
	dir, err := layout.ParseDirection(req.Direction)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.Layout().MoveSection(req.ID, dir); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, s.View())
}

func (h *Handler) reorderSection(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid reorder request", err.Error())
		return
	}
	if err := s.Layout().ReorderSection(req.ID, req.TargetID); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, s.View())
}

func (h *Handler) suggest(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "desiredRoles is required", err.Error())
		return
	}
	out, err := s.Suggest(c.Request.Context(), h.Suggest, req.DesiredRoles)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, suggestResponse{Suggestions: out})
}

func (h *Handler) applySuggestion(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req applySuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid suggestion", err.Error())
		return
	}
	if err := s.ApplySuggestion(req.Key, req.Text); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, s.View())
}

func (h *Handler) getDesign(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	v := s.View()
	respond.OK(c, gin.H{"design": v.Design, "validation": designValidation(v.Design)})
}

func (h *Handler) putDesign(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	raw, err := c.GetRawData()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read body", nil)
		return
	}
	design, err := resume.ParseDesign(raw)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.SetDesign(design); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"design": design, "validation": designValidation(design)})
}

func designValidation(d resume.DesignState) resume.FieldErrors {
	if errs := resume.ValidateDesign(d); errs != nil {
		return errs
	}
	return resume.FieldErrors{}
}

func (h *Handler) session(c *gin.Context) (*Session, bool) {
	s, ok := h.Sessions.Get(middleware.UserIDFromContext(c))
	if !ok {
		writeError(c, ErrNoSession)
		return nil, false
	}
	return s, true
}

func writeError(c *gin.Context, err error) {
	var shape *resume.ShapeError
	switch {
	case errors.As(err, &shape):
		respond.Error(c, http.StatusBadRequest, "validation_error", "document does not match schema", shape.Errors)
	case errors.Is(err, identity.ErrEmptyUserID):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
	case errors.Is(err, ErrNoSession):
		respond.Error(c, http.StatusConflict, "session_required", "sign in first", nil)
	case errors.Is(err, ErrNotReady):
		respond.Error(c, http.StatusConflict, "not_ready", "your data is still loading", nil)
	case errors.Is(err, ErrFixedIdentity):
		respond.Error(c, http.StatusConflict, "conflict", "local mode has a fixed identity", nil)
	case errors.Is(err, editor.ErrRejected):
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", err.Error(), nil)
	case errors.Is(err, suggest.ErrNoSections):
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", "add a summary or descriptions first", nil)
	case errors.Is(err, layout.ErrNotFound), errors.Is(err, suggest.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, ErrUnknownSection),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, resume.ErrInvalidShape),
		errors.Is(err, layout.ErrInvalidInput),
		errors.Is(err, suggest.ErrInvalidInput),
		errors.Is(err, suggest.ErrUnknownLabel):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, suggest.ErrNotConfigured):
		respond.Error(c, http.StatusServiceUnavailable, "unavailable", "suggestions are not configured", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "unexpected error", nil)
	}
}
