// Package onboarding exposes the per-visitor onboarding workflow over HTTP.
// A client starts a session, then drives the workflow with the returned
// bearer token; every action responds with the rendered view.
package onboarding

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/boxfinder/pkg/boxfinder/apperr"
	"github.com/mikepea/boxfinder/pkg/boxfinder/device"
	"github.com/mikepea/boxfinder/pkg/boxfinder/forms"
	"github.com/mikepea/boxfinder/pkg/boxfinder/sessions"
	"github.com/mikepea/boxfinder/pkg/boxfinder/workflow"
)

// NewFactory returns a session factory building workflows from base. Each
// workflow logs with its session id.
func NewFactory(base workflow.Options) sessions.Factory {
	return func(sessionID string) (*workflow.Workflow, error) {
		opts := base
		logger := opts.Logger
		if logger == nil {
			logger = slog.Default()
		}
		opts.Logger = logger.With("session_id", sessionID)
		return workflow.New(opts)
	}
}

// Handler handles onboarding requests
type Handler struct {
	sessions *sessions.Manager
}

// NewHandler creates a new onboarding handler
func NewHandler(m *sessions.Manager) *Handler {
	return &Handler{sessions: m}
}

// SessionResponse is returned when a session starts
type SessionResponse struct {
	SessionID string        `json:"session_id"`
	Token     string        `json:"token"`
	View      workflow.View `json:"view"`
}

// QueryRequest updates the search text
type QueryRequest struct {
	Query string `json:"query"`
}

// SelectRequest picks a search result
type SelectRequest struct {
	BoxID string `json:"box_id" binding:"required"`
}

// MemberRequest submits the member form. Device fields missing from the
// body are taken from the request headers.
type MemberRequest struct {
	Values forms.Values `json:"values"`
	Device device.Probe `json:"device"`
}

// BoxNameRequest updates the new box's name
type BoxNameRequest struct {
	Name string `json:"name"`
}

// BoxFieldsRequest updates fields of the box creation form
type BoxFieldsRequest struct {
	Fields forms.Values `json:"fields" binding:"required"`
}

// Start creates a new onboarding session
// @Summary Start an onboarding session
// @Tags onboarding
// @Produce json
// @Success 201 {object} SessionResponse
// @Router /onboarding/sessions [post]
func (h *Handler) Start(c *gin.Context) {
	id, token, err := h.sessions.Create()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to start session"})
		return
	}
	wf, err := h.sessions.Get(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
		return
	}
	c.JSON(http.StatusCreated, SessionResponse{SessionID: id, Token: token, View: wf.View()})
}

// End disposes the caller's session
// @Summary End the onboarding session
// @Tags onboarding
// @Success 204
// @Security BearerAuth
// @Router /onboarding/session [delete]
func (h *Handler) End(c *gin.Context) {
	id, _ := sessions.GetSessionID(c)
	h.sessions.Delete(id)
	c.Status(http.StatusNoContent)
}

// State returns the current view
// @Summary Get the onboarding state
// @Tags onboarding
// @Produce json
// @Success 200 {object} workflow.View
// @Security BearerAuth
// @Router /onboarding/state [get]
func (h *Handler) State(c *gin.Context) {
	wf, _ := sessions.GetWorkflow(c)
	c.JSON(http.StatusOK, wf.View())
}

// SetQuery updates the search text. Results arrive asynchronously and are
// visible through State.
// @Summary Update the search text
// @Description Results arrive after the debounce period; poll the state endpoint.
// @Tags onboarding
// @Accept json
// @Produce json
// @Param request body QueryRequest true "Search text"
// @Success 200 {object} workflow.View
// @Failure 409 {object} map[string]string "Not searching"
// @Security BearerAuth
// @Router /onboarding/query [put]
func (h *Handler) SetQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.act(c, func(wf *workflow.Workflow) error { return wf.SetQuery(req.Query) })
}

// Select picks an existing box from the results
// @Summary Select a search result
// @Tags onboarding
// @Accept json
// @Produce json
// @Param request body SelectRequest true "Chosen box"
// @Success 200 {object} workflow.View
// @Failure 404 {object} map[string]string "Not among the results"
// @Security BearerAuth
// @Router /onboarding/select [post]
func (h *Handler) Select(c *gin.Context) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.act(c, func(wf *workflow.Workflow) error { return wf.SelectCandidate(req.BoxID) })
}

// NoMatch continues without an existing box
// @Summary Continue without a match
// @Tags onboarding
// @Produce json
// @Success 200 {object} workflow.View
// @Failure 409 {object} map[string]string "Not searching"
// @Security BearerAuth
// @Router /onboarding/no-match [post]
func (h *Handler) NoMatch(c *gin.Context) {
	h.act(c, (*workflow.Workflow).DeclineCandidates)
}

// Cancel backs out of the current step
// @Summary Cancel the current step
// @Tags onboarding
// @Produce json
// @Success 200 {object} workflow.View
// @Failure 409 {object} map[string]string "Nothing to cancel"
// @Security BearerAuth
// @Router /onboarding/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	h.act(c, (*workflow.Workflow).Cancel)
}

// SubmitMember submits the member form
// @Summary Submit member details
// @Tags onboarding
// @Accept json
// @Produce json
// @Param request body MemberRequest true "Member form"
// @Success 200 {object} workflow.View
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /onboarding/member [post]
func (h *Handler) SubmitMember(c *gin.Context) {
	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Device.UserAgent == "" {
		req.Device.UserAgent = c.Request.UserAgent()
	}
	h.act(c, func(wf *workflow.Workflow) error {
		return wf.SubmitMember(c.Request.Context(), req.Values, req.Device)
	})
}

// SetBoxName updates the new box's name and refreshes place suggestions
// @Summary Update the new box's name
// @Tags onboarding
// @Accept json
// @Produce json
// @Param request body BoxNameRequest true "Box name"
// @Success 200 {object} workflow.View
// @Failure 409 {object} map[string]string "Not creating a box"
// @Security BearerAuth
// @Router /onboarding/box/name [put]
func (h *Handler) SetBoxName(c *gin.Context) {
	var req BoxNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.act(c, func(wf *workflow.Workflow) error { return wf.SetBoxName(req.Name) })
}

// ChooseSuggestion fills the box form from a place suggestion
// @Summary Choose a place suggestion
// @Tags onboarding
// @Produce json
// @Param placeId path string true "Place ID"
// @Success 200 {object} workflow.View
// @Failure 404 {object} map[string]string "Unknown suggestion"
// @Security BearerAuth
// @Router /onboarding/box/suggestions/{placeId} [post]
func (h *Handler) ChooseSuggestion(c *gin.Context) {
	placeID := c.Param("placeId")
	h.act(c, func(wf *workflow.Workflow) error { return wf.ChooseSuggestion(placeID) })
}

// DismissSuggestions closes the suggestion list
// @Summary Dismiss place suggestions
// @Tags onboarding
// @Produce json
// @Success 200 {object} workflow.View
// @Security BearerAuth
// @Router /onboarding/box/suggestions/dismiss [post]
func (h *Handler) DismissSuggestions(c *gin.Context) {
	h.act(c, (*workflow.Workflow).DismissSuggestions)
}

// SetBoxFields updates box form fields in form order, stopping at the
// first rejected field
// @Summary Update box form fields
// @Tags onboarding
// @Accept json
// @Produce json
// @Param request body BoxFieldsRequest true "Field values"
// @Success 200 {object} workflow.View
// @Failure 400 {object} map[string]string "Unknown or locked field"
// @Security BearerAuth
// @Router /onboarding/box/fields [put]
func (h *Handler) SetBoxFields(c *gin.Context) {
	var req BoxFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.act(c, func(wf *workflow.Workflow) error {
		for field := range req.Fields {
			if !slices.Contains(forms.BoxFields, field) {
				return workflow.ErrUnknownField
			}
		}
		for _, field := range forms.BoxFields {
			value, ok := req.Fields[field]
			if !ok {
				continue
			}
			if err := wf.SetBoxField(field, value); err != nil {
				return err
			}
		}
		return nil
	})
}

// NextSubStep advances the box creation form
// @Summary Go to the next form step
// @Tags onboarding
// @Produce json
// @Success 200 {object} workflow.View
// @Failure 400 {object} map[string]string "Address required"
// @Security BearerAuth
// @Router /onboarding/box/next [post]
func (h *Handler) NextSubStep(c *gin.Context) {
	h.act(c, (*workflow.Workflow).NextSubStep)
}

// PrevSubStep goes back in the box creation form
// @Summary Go to the previous form step
// @Tags onboarding
// @Produce json
// @Success 200 {object} workflow.View
// @Security BearerAuth
// @Router /onboarding/box/back [post]
func (h *Handler) PrevSubStep(c *gin.Context) {
	h.act(c, (*workflow.Workflow).PrevSubStep)
}

// SubmitBox saves the new box and attaches the held member
// @Summary Create the box
// @Tags onboarding
// @Produce json
// @Success 200 {object} workflow.View
// @Failure 409 {object} map[string]string "Duplicate name"
// @Security BearerAuth
// @Router /onboarding/box/submit [post]
func (h *Handler) SubmitBox(c *gin.Context) {
	h.act(c, func(wf *workflow.Workflow) error { return wf.SubmitBox(c.Request.Context()) })
}

// Done returns from the success screen to search
// @Summary Finish and start over
// @Tags onboarding
// @Produce json
// @Success 200 {object} workflow.View
// @Failure 409 {object} map[string]string "Not finished"
// @Security BearerAuth
// @Router /onboarding/done [post]
func (h *Handler) Done(c *gin.Context) {
	h.act(c, (*workflow.Workflow).Done)
}

// Retry clears a rendering fault
// @Summary Clear a display fault
// @Tags onboarding
// @Produce json
// @Success 200 {object} workflow.View
// @Security BearerAuth
// @Router /onboarding/retry [post]
func (h *Handler) Retry(c *gin.Context) {
	h.act(c, func(wf *workflow.Workflow) error {
		wf.Retry()
		return nil
	})
}

// act runs fn against the session's workflow and responds with the view
func (h *Handler) act(c *gin.Context, fn func(*workflow.Workflow) error) {
	wf, ok := sessions.GetWorkflow(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session required"})
		return
	}

	err := fn(wf)
	view := wf.View()
	if err == nil {
		c.JSON(http.StatusOK, view)
		return
	}

	status, body := actionError(err)
	body["view"] = view
	c.JSON(status, body)
}

func actionError(err error) (int, map[string]any) {
	switch {
	case errors.Is(err, workflow.ErrWrongStep), errors.Is(err, workflow.ErrBusy):
		return http.StatusConflict, gin.H{"error": err.Error()}
	case errors.Is(err, workflow.ErrDisposed):
		return http.StatusGone, gin.H{"error": err.Error()}
	case errors.Is(err, workflow.ErrUnknownCandidate), errors.Is(err, workflow.ErrUnknownSuggestion):
		return http.StatusNotFound, gin.H{"error": err.Error()}
	case errors.Is(err, workflow.ErrUnknownField), errors.Is(err, workflow.ErrFieldLocked):
		return http.StatusBadRequest, gin.H{"error": err.Error()}
	}
	return apperr.Response(err, "An unexpected error occurred")
}

// RegisterRoutes registers onboarding routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sessions", h.Start)

	s := rg.Group("", sessions.Middleware(h.sessions))
	s.DELETE("/session", h.End)
	s.GET("/state", h.State)
	s.PUT("/query", h.SetQuery)
	s.POST("/select", h.Select)
	s.POST("/no-match", h.NoMatch)
	s.POST("/cancel", h.Cancel)
	s.POST("/member", h.SubmitMember)
	s.PUT("/box/name", h.SetBoxName)
	s.POST("/box/suggestions/dismiss", h.DismissSuggestions)
	s.POST("/box/suggestions/:placeId", h.ChooseSuggestion)
	s.PUT("/box/fields", h.SetBoxFields)
	s.POST("/box/next", h.NextSubStep)
	s.POST("/box/back", h.PrevSubStep)
	s.POST("/box/submit", h.SubmitBox)
	s.POST("/done", h.Done)
	s.POST("/retry", h.Retry)
}
