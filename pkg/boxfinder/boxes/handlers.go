// Package boxes serves the directory API used by clients that search and
// write boxes without going through an onboarding session.
package boxes

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/boxfinder/pkg/boxfinder/apperr"
	"github.com/mikepea/boxfinder/pkg/boxfinder/device"
	"github.com/mikepea/boxfinder/pkg/boxfinder/models"
	"github.com/mikepea/boxfinder/pkg/boxfinder/places"
	"github.com/mikepea/boxfinder/pkg/boxfinder/store"
	"github.com/mikepea/boxfinder/pkg/boxfinder/validation"
)

// PlaceLookup finds candidate places by free text
type PlaceLookup interface {
	Lookup(ctx context.Context, text string) ([]models.Candidate, error)
}

// Handler handles box directory requests
type Handler struct {
	store     store.Store
	places    PlaceLookup
	validator *validation.Validator
}

// NewHandler creates a new boxes handler. places may be nil.
func NewHandler(st store.Store, pl PlaceLookup, v *validation.Validator) *Handler {
	if v == nil {
		v = validation.New()
	}
	return &Handler{store: st, places: pl, validator: v}
}

func respondError(c *gin.Context, err error, fallback string) {
	status, body := apperr.Response(err, fallback)
	c.JSON(status, body)
}

// Search returns boxes whose name contains every word of the query
// @Summary Search boxes
// @Description Keyword search over box names (at most 10 results)
// @Tags boxes
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {array} models.Box
// @Failure 400 {object} map[string]string "Invalid query"
// @Router /boxes [get]
func (h *Handler) Search(c *gin.Context) {
	q, err := validation.ValidateSearchQuery(c.Query("q"))
	if err != nil {
		respondError(c, err, "")
		return
	}

	found, err := h.store.FindBoxesByKeyword(c.Request.Context(), q)
	if err != nil {
		respondError(c, err, "An unexpected error occurred while searching")
		return
	}
	if found == nil {
		found = []models.Box{}
	}
	c.JSON(http.StatusOK, found)
}

// Get returns a single box
// @Summary Get a box
// @Tags boxes
// @Produce json
// @Param id path string true "Box ID"
// @Success 200 {object} models.Box
// @Failure 404 {object} map[string]string "Box not found"
// @Router /boxes/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	box, err := h.store.GetBox(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch box")
		return
	}
	c.JSON(http.StatusOK, box)
}

// Create validates and stores a new box
// @Summary Create a box
// @Description Creates an unapproved box. Names must be unique ignoring case and punctuation.
// @Tags boxes
// @Accept json
// @Produce json
// @Param box body object true "Box fields"
// @Success 201 {object} models.Box
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 409 {object} map[string]string "Duplicate name"
// @Router /boxes [post]
func (h *Handler) Create(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": apperr.ValidationRejected})
		return
	}

	box, err := h.validator.ValidateBox(raw)
	if err != nil {
		respondError(c, err, "")
		return
	}

	created, err := h.store.CreateBox(c.Request.Context(), box)
	if err != nil {
		respondError(c, err, "Failed to create box")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// AddMember adds a member to an existing box. The submission channel is
// derived from the request when the body does not name one.
// @Summary Add a member to a box
// @Tags boxes
// @Accept json
// @Produce json
// @Param id path string true "Box ID"
// @Param member body object true "Member fields"
// @Success 201 {object} models.Member
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Box not found"
// @Router /boxes/{id}/members [post]
func (h *Handler) AddMember(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": apperr.ValidationRejected})
		return
	}

	raw["box_id"] = c.Param("id")
	if _, ok := raw["submitted_by"]; !ok {
		raw["submitted_by"] = string(device.Classify(device.Probe{UserAgent: c.Request.UserAgent()}))
	}

	member, err := h.validator.ValidateMember(raw)
	if err != nil {
		respondError(c, err, "")
		return
	}

	created, err := h.store.CreateMember(c.Request.Context(), member)
	if err != nil {
		respondError(c, err, "Failed to add member")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Places returns place candidates used to pre-fill a new box
// @Summary Look up places
// @Tags boxes
// @Produce json
// @Param q query string true "Place name"
// @Success 200 {array} models.Candidate
// @Failure 503 {object} map[string]string "Lookup unavailable"
// @Router /places [get]
func (h *Handler) Places(c *gin.Context) {
	if h.places == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Place suggestions are not available", "kind": apperr.TransientNetwork})
		return
	}

	q := c.Query("q")
	if len([]rune(q)) < 3 {
		c.JSON(http.StatusOK, []models.Candidate{})
		return
	}

	found, err := h.places.Lookup(c.Request.Context(), q)
	if errors.Is(err, places.ErrNotConfigured) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Place suggestions are not available", "kind": apperr.TransientNetwork})
		return
	}
	if err != nil {
		respondError(c, err, "Unable to load suggestions")
		return
	}
	if found == nil {
		found = []models.Candidate{}
	}
	c.JSON(http.StatusOK, found)
}

// RegisterRoutes registers box directory routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/boxes", h.Search)
	rg.POST("/boxes", h.Create)
	rg.GET("/boxes/:id", h.Get)
	rg.POST("/boxes/:id/members", h.AddMember)
	rg.GET("/places", h.Places)
}
