// Package importexport seeds the directory from a JSON list of boxes and
// exports it back in the same format.
package importexport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/mikepea/boxfinder/pkg/boxfinder/apperr"
	"github.com/mikepea/boxfinder/pkg/boxfinder/models"
	"github.com/mikepea/boxfinder/pkg/boxfinder/store"
	"github.com/mikepea/boxfinder/pkg/boxfinder/validation"
)

// Writer is the part of the store the importer needs
type Writer interface {
	CreateBox(ctx context.Context, box *models.Box) (*models.Box, error)
	CreateMember(ctx context.Context, member *models.Member) (*models.Member, error)
}

// Recorder receives import totals
type Recorder interface {
	Imported(imported, skipped, failed int)
}

// ImportResult represents the result of an import operation
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Members  int      `json:"members"`
	Errors   []string `json:"errors,omitempty"`
}

// fields the directory assigns itself; exported files carry them
var (
	boxManagedFields    = []string{"id", "approved", "created_at", "updated_at", "members"}
	memberManagedFields = []string{"id", "approved", "created_at", "updated_at", "box_id"}
)

// Importer creates boxes from seed records
type Importer struct {
	store     Writer
	validator *validation.Validator
	logger    *slog.Logger
	recorder  Recorder
}

// NewImporter creates an Importer. recorder may be nil.
func NewImporter(w Writer, recorder Recorder, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		store:     w,
		validator: validation.New(),
		logger:    logger.With("component", "import"),
		recorder:  recorder,
	}
}

// Import reads a JSON array of box records from r. Records whose name is
// already taken are skipped; invalid records are reported and skipped.
// Members listed under a newly created box are attached to it. The error is
// non-nil only when the input cannot be read, a store failure is transient,
// or the context ends.
func (im *Importer) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	var records []map[string]any
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, apperr.Wrap(apperr.ValidationRejected, err, "failed to parse import file: %v", err)
	}

	result := &ImportResult{}
	for i, raw := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		members, _ := raw["members"].([]any)
		for _, f := range boxManagedFields {
			delete(raw, f)
		}

		box, err := im.validator.ValidateBox(raw)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("record %d: %v", i+1, err))
			continue
		}

		created, err := im.store.CreateBox(ctx, box)
		if err != nil {
			if store.IsDuplicate(err) {
				result.Skipped++
				im.logger.Debug("skipping existing box", "name", box.Name)
				continue
			}
			if apperr.IsTransient(err) {
				return result, fmt.Errorf("record %d: %w", i+1, err)
			}
			result.Errors = append(result.Errors, fmt.Sprintf("record %d (%s): %v", i+1, box.Name, err))
			continue
		}
		result.Imported++

		if err := im.importMembers(ctx, i+1, created, members, result); err != nil {
			return result, err
		}
	}

	if im.recorder != nil {
		im.recorder.Imported(result.Imported, result.Skipped, len(result.Errors))
	}
	im.logger.Info("import finished",
		"imported", result.Imported,
		"skipped", result.Skipped,
		"members", result.Members,
		"errors", len(result.Errors),
	)
	return result, nil
}

func (im *Importer) importMembers(ctx context.Context, record int, box *models.Box, members []any, result *ImportResult) error {
	for j, m := range members {
		raw, ok := m.(map[string]any)
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("record %d member %d: not an object", record, j+1))
			continue
		}
		for _, f := range memberManagedFields {
			delete(raw, f)
		}
		raw["box_id"] = box.ID

		member, err := im.validator.ValidateMember(raw)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("record %d member %d: %v", record, j+1, err))
			continue
		}
		if _, err := im.store.CreateMember(ctx, member); err != nil {
			if apperr.IsTransient(err) {
				return fmt.Errorf("record %d member %d: %w", record, j+1, err)
			}
			result.Errors = append(result.Errors, fmt.Sprintf("record %d member %d: %v", record, j+1, err))
			continue
		}
		result.Members++
	}
	return nil
}
