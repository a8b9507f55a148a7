// Package gormstore implements store.Store on top of GORM (SQLite by default).
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mikepea/boxfinder/pkg/boxfinder/apperr"
	"github.com/mikepea/boxfinder/pkg/boxfinder/models"
	"github.com/mikepea/boxfinder/pkg/boxfinder/store"
	"gorm.io/gorm"
)

var _ store.Store = (*Store)(nil)

// candidateScan bounds how many rows a first-keyword LIKE pulls back before
// the all-keywords filter is applied.
const candidateScan = 50

// Store is a GORM-backed directory
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// New wraps an already opened and migrated database
func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// FindBoxesByKeyword returns boxes whose keyword index contains every word
func (s *Store) FindBoxesByKeyword(ctx context.Context, keyword string) ([]models.Box, error) {
	keywords := store.Keywords(keyword)
	if len(keywords) == 0 {
		return []models.Box{}, nil
	}

	var boxes []models.Box
	err := s.db.WithContext(ctx).
		Where("search_keywords LIKE ?", keywordPattern(keywords[0])).
		Order("name").
		Limit(candidateScan).
		Find(&boxes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search boxes: %w", err)
	}

	return store.FilterMatches(boxes, keywords), nil
}

// GetBox retrieves a box by ID
func (s *Store) GetBox(ctx context.Context, id string) (*models.Box, error) {
	var box models.Box
	if err := s.db.WithContext(ctx).First(&box, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrBoxNotFound
		}
		return nil, fmt.Errorf("failed to get box: %w", err)
	}
	return &box, nil
}

// CreateBox inserts a new box after an advisory duplicate-name check
func (s *Store) CreateBox(ctx context.Context, box *models.Box) (*models.Box, error) {
	created := *box
	store.PrepareBox(&created)

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Box{}).
		Where("name_normalized = ?", created.NameNormalized).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check box name: %w", err)
	}
	if count > 0 {
		return nil, store.ErrDuplicateName
	}

	now := s.now().UTC()
	created.ID = uuid.NewString()
	created.CreatedAt = now
	created.UpdatedAt = now

	if err := s.db.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, fmt.Errorf("failed to create box: %w", err)
	}
	return &created, nil
}

// CreateMember inserts a member attached to an existing box
func (s *Store) CreateMember(ctx context.Context, member *models.Member) (*models.Member, error) {
	if member.BoxID == "" {
		return nil, store.ErrNoBox
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Box{}).Where("id = ?", member.BoxID).Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check box: %w", err)
	}
	if count == 0 {
		return nil, apperr.Wrap(apperr.NotFound, store.ErrBoxNotFound, "Box %s not found", member.BoxID)
	}

	created := *member
	now := s.now().UTC()
	created.ID = uuid.NewString()
	created.CreatedAt = now
	created.UpdatedAt = now
	created.Approved = false

	if err := s.db.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	return &created, nil
}

// ListBoxes returns every box ordered by name
func (s *Store) ListBoxes(ctx context.Context) ([]models.Box, error) {
	boxes := []models.Box{}
	if err := s.db.WithContext(ctx).Order("name").Find(&boxes).Error; err != nil {
		return nil, fmt.Errorf("failed to list boxes: %w", err)
	}
	return boxes, nil
}

// ListMembers returns the members of a box, newest first
func (s *Store) ListMembers(ctx context.Context, boxID string) ([]models.Member, error) {
	members := []models.Member{}
	err := s.db.WithContext(ctx).Where("box_id = ?", boxID).Order("created_at desc").Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// Close closes the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// keywordPattern matches one element of the JSON-serialized keyword array
func keywordPattern(kw string) string {
	return `%"` + kw + `"%`
}
