package importexport

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/boxfinder/pkg/boxfinder/apperr"
	"github.com/mikepea/boxfinder/pkg/boxfinder/models"
)

// maxImportBytes bounds the request body of an import
const maxImportBytes = 10 << 20

// Directory is the part of the store import and export need
type Directory interface {
	Writer
	GetBox(ctx context.Context, id string) (*models.Box, error)
	ListBoxes(ctx context.Context) ([]models.Box, error)
	ListMembers(ctx context.Context, boxID string) ([]models.Member, error)
}

// Handler handles import/export requests
type Handler struct {
	dir      Directory
	importer *Importer
}

// NewHandler creates a new import/export handler. recorder may be nil.
func NewHandler(dir Directory, recorder Recorder, logger *slog.Logger) *Handler {
	return &Handler{dir: dir, importer: NewImporter(dir, recorder, logger)}
}

// ExportMember represents a member for export
type ExportMember struct {
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	Country     string         `json:"country"`
	Email       string         `json:"email,omitempty"`
	SubmittedBy models.Channel `json:"submitted_by"`
	Approved    bool           `json:"approved"`
	CreatedAt   string         `json:"created_at"`
}

// ExportBox represents a box and its members for export. The layout is the
// import format, so an export can seed another directory.
type ExportBox struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Location     string         `json:"location,omitempty"`
	City         string         `json:"city,omitempty"`
	State        string         `json:"state,omitempty"`
	Country      string         `json:"country,omitempty"`
	CountryCode  string         `json:"country_code,omitempty"`
	Latitude     *float64       `json:"lat,omitempty"`
	Longitude    *float64       `json:"lng,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	Website      string         `json:"website,omitempty"`
	ContactName  string         `json:"contact_name,omitempty"`
	ContactEmail string         `json:"contact_email,omitempty"`
	Approved     bool           `json:"approved"`
	CreatedAt    string         `json:"created_at"`
	Members      []ExportMember `json:"members"`
}

// RequireToken only lets requests through that carry token as a bearer token
func RequireToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(token)) != 1 {
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid admin token"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *Handler) exportBox(ctx context.Context, box models.Box) (ExportBox, error) {
	members, err := h.dir.ListMembers(ctx, box.ID)
	if err != nil {
		return ExportBox{}, err
	}

	out := ExportBox{
		ID:           box.ID,
		Name:         box.Name,
		Location:     box.Location,
		City:         box.City,
		State:        box.State,
		Country:      box.Country,
		CountryCode:  box.CountryCode,
		Latitude:     box.Latitude,
		Longitude:    box.Longitude,
		Phone:        box.Phone,
		Website:      box.Website,
		ContactName:  box.ContactName,
		ContactEmail: box.ContactEmail,
		Approved:     box.Approved,
		CreatedAt:    box.CreatedAt.Format(time.RFC3339),
		Members:      make([]ExportMember, len(members)),
	}
	for i, m := range members {
		out.Members[i] = ExportMember{
			FirstName:   m.FirstName,
			LastName:    m.LastName,
			Country:     m.Country,
			Email:       m.Email,
			SubmittedBy: m.SubmittedBy,
			Approved:    m.Approved,
			CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		}
	}
	return out, nil
}

// Import seeds the directory from a JSON array of boxes
// @Summary Import boxes
// @Description Create boxes (and their members) from a JSON array. Existing names are skipped.
// @Tags importexport
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param records body []ExportBox true "Boxes to import"
// @Success 200 {object} ImportResult
// @Failure 400 {object} map[string]string "Malformed import file"
// @Failure 503 {object} map[string]string "Store unavailable"
// @Router /import [post]
func (h *Handler) Import(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)

	result, err := h.importer.Import(c.Request.Context(), body)
	if err != nil {
		status, resp := apperr.Response(err, "Import failed")
		if result != nil {
			resp["result"] = result
		}
		c.JSON(status, resp)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Export returns every box with its members
// @Summary Export the directory
// @Description Export all boxes and their members in the import format
// @Tags importexport
// @Produce json
// @Security BearerAuth
// @Param download query bool false "Send as an attachment"
// @Success 200 {array} ExportBox
// @Failure 500 {object} map[string]string "Export failed"
// @Router /export [get]
func (h *Handler) Export(c *gin.Context) {
	ctx := c.Request.Context()

	boxes, err := h.dir.ListBoxes(ctx)
	if err != nil {
		status, resp := apperr.Response(err, "Failed to fetch boxes")
		c.JSON(status, resp)
		return
	}

	out := make([]ExportBox, 0, len(boxes))
	for _, box := range boxes {
		eb, err := h.exportBox(ctx, box)
		if err != nil {
			status, resp := apperr.Response(err, "Failed to fetch members")
			c.JSON(status, resp)
			return
		}
		out = append(out, eb)
	}

	// Set content disposition for download
	if c.Query("download") == "true" {
		c.Header("Content-Disposition", "attachment; filename=boxfinder-export.json")
	}

	c.JSON(http.StatusOK, out)
}

// ExportSingle returns one box with its members
// @Summary Export a box
// @Tags importexport
// @Produce json
// @Security BearerAuth
// @Param id path string true "Box ID"
// @Success 200 {object} ExportBox
// @Failure 404 {object} map[string]string "Box not found"
// @Router /export/{id} [get]
func (h *Handler) ExportSingle(c *gin.Context) {
	ctx := c.Request.Context()

	box, err := h.dir.GetBox(ctx, c.Param("id"))
	if err != nil {
		status, resp := apperr.Response(err, "Failed to fetch box")
		c.JSON(status, resp)
		return
	}

	eb, err := h.exportBox(ctx, *box)
	if err != nil {
		status, resp := apperr.Response(err, "Failed to fetch members")
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, eb)
}

// RegisterRoutes registers import/export routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/import", h.Import)
	rg.GET("/export", h.Export)
	rg.GET("/export/:id", h.ExportSingle)
}
