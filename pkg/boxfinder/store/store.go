// Package store provides the directory persistence abstraction shared by the
// SQLite, MongoDB and Firestore backends.
package store

import (
	"context"
	"errors"

	"github.com/mikepea/boxfinder/pkg/boxfinder/apperr"
	"github.com/mikepea/boxfinder/pkg/boxfinder/models"
)

// SearchLimit caps the number of boxes returned by a keyword search
const SearchLimit = 10

var (
	ErrDuplicateName = apperr.New(apperr.DuplicateName, "A box with this name already exists")
	ErrBoxNotFound   = apperr.New(apperr.NotFound, "Box not found")
	ErrNoBox         = apperr.New(apperr.ValidationRejected, "A box is required to add a member")
)

// Store defines the directory persistence operations.
// Implementations assign identifiers and timestamps and force the approval
// flag to false on every write.
type Store interface {
	// FindBoxesByKeyword returns up to SearchLimit boxes whose keyword index
	// contains every normalized word of keyword.
	FindBoxesByKeyword(ctx context.Context, keyword string) ([]models.Box, error)

	// GetBox retrieves a box by ID. Returns ErrBoxNotFound if missing.
	GetBox(ctx context.Context, id string) (*models.Box, error)

	// CreateBox persists a validated box. The duplicate-name check is a
	// pre-insert lookup, not a constraint.
	CreateBox(ctx context.Context, box *models.Box) (*models.Box, error)

	// CreateMember persists a validated member whose BoxID must exist.
	CreateMember(ctx context.Context, member *models.Member) (*models.Member, error)

	// ListBoxes returns every box ordered by name.
	ListBoxes(ctx context.Context) ([]models.Box, error)

	// ListMembers returns the members of a box, newest first.
	ListMembers(ctx context.Context, boxID string) ([]models.Member, error)

	// Close releases any resources held by the store.
	Close() error
}

// IsDuplicate reports whether err is a name collision
func IsDuplicate(err error) bool {
	return apperr.KindOf(err) == apperr.DuplicateName
}

// IsNotFound reports whether err is a missing record
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBoxNotFound) || apperr.KindOf(err) == apperr.NotFound
}
