// Package firestorestore implements store.Store on Cloud Firestore.
package firestorestore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/mikepea/boxfinder/pkg/boxfinder/apperr"
	"github.com/mikepea/boxfinder/pkg/boxfinder/models"
	"github.com/mikepea/boxfinder/pkg/boxfinder/store"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	boxesCollection   = "boxes"
	membersCollection = "hailraisers"

	// candidateScan bounds the array-contains query before the
	// all-keywords filter runs client side.
	candidateScan = 50
)

var _ store.Store = (*Store)(nil)

// Store is a Firestore-backed directory
type Store struct {
	client *firestore.Client
	now    func() time.Time
}

// Open creates a Firestore client for projectID. When credentialsFile is
// empty, application default credentials (or FIRESTORE_EMULATOR_HOST) apply.
func Open(ctx context.Context, projectID, credentialsFile string) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return &Store{client: client, now: time.Now}, nil
}

// FindBoxesByKeyword queries on the first keyword and keeps boxes matching all
func (s *Store) FindBoxesByKeyword(ctx context.Context, keyword string) ([]models.Box, error) {
	keywords := store.Keywords(keyword)
	if len(keywords) == 0 {
		return []models.Box{}, nil
	}

	iter := s.client.Collection(boxesCollection).
		Where("searchKeywords", "array-contains", keywords[0]).
		Limit(candidateScan).
		Documents(ctx)
	defer iter.Stop()

	var boxes []models.Box
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, classify(err, "failed to search boxes")
		}
		var box models.Box
		if err := doc.DataTo(&box); err != nil {
			return nil, fmt.Errorf("failed to decode box %s: %w", doc.Ref.ID, err)
		}
		box.ID = doc.Ref.ID
		boxes = append(boxes, box)
	}

	return store.FilterMatches(boxes, keywords), nil
}

// GetBox retrieves a box by document ID
func (s *Store) GetBox(ctx context.Context, id string) (*models.Box, error) {
	doc, err := s.client.Collection(boxesCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, store.ErrBoxNotFound
		}
		return nil, classify(err, "failed to get box")
	}

	var box models.Box
	if err := doc.DataTo(&box); err != nil {
		return nil, fmt.Errorf("failed to decode box %s: %w", id, err)
	}
	box.ID = doc.Ref.ID
	return &box, nil
}

// CreateBox inserts a new box after an advisory duplicate-name check
func (s *Store) CreateBox(ctx context.Context, box *models.Box) (*models.Box, error) {
	created := *box
	store.PrepareBox(&created)

	iter := s.client.Collection(boxesCollection).
		Where("nameNormalized", "==", created.NameNormalized).
		Limit(1).
		Documents(ctx)
	_, err := iter.Next()
	iter.Stop()
	if err == nil {
		return nil, store.ErrDuplicateName
	}
	if !errors.Is(err, iterator.Done) {
		return nil, classify(err, "failed to check box name")
	}

	ref := s.client.Collection(boxesCollection).NewDoc()
	now := s.now().UTC()
	created.ID = ref.ID
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := ref.Create(ctx, &created); err != nil {
		return nil, classify(err, "failed to create box")
	}
	return &created, nil
}

// CreateMember inserts a member attached to an existing box
func (s *Store) CreateMember(ctx context.Context, member *models.Member) (*models.Member, error) {
	if member.BoxID == "" {
		return nil, store.ErrNoBox
	}

	if _, err := s.client.Collection(boxesCollection).Doc(member.BoxID).Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, apperr.Wrap(apperr.NotFound, store.ErrBoxNotFound, "Box %s not found", member.BoxID)
		}
		return nil, classify(err, "failed to check box")
	}

	ref := s.client.Collection(membersCollection).NewDoc()
	created := *member
	now := s.now().UTC()
	created.ID = ref.ID
	created.CreatedAt = now
	created.UpdatedAt = now
	created.Approved = false

	if _, err := ref.Create(ctx, &created); err != nil {
		return nil, classify(err, "failed to create member")
	}
	return &created, nil
}

// ListBoxes returns every box ordered by name
func (s *Store) ListBoxes(ctx context.Context) ([]models.Box, error) {
	iter := s.client.Collection(boxesCollection).OrderBy("name", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	boxes := []models.Box{}
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, classify(err, "failed to list boxes")
		}
		var box models.Box
		if err := doc.DataTo(&box); err != nil {
			return nil, fmt.Errorf("failed to decode box %s: %w", doc.Ref.ID, err)
		}
		box.ID = doc.Ref.ID
		boxes = append(boxes, box)
	}
	return boxes, nil
}

// ListMembers returns the members of a box, newest first. Sorting happens
// client side so the query needs no composite index.
func (s *Store) ListMembers(ctx context.Context, boxID string) ([]models.Member, error) {
	iter := s.client.Collection(membersCollection).Where("boxId", "==", boxID).Documents(ctx)
	defer iter.Stop()

	members := []models.Member{}
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, classify(err, "failed to list members")
		}
		var m models.Member
		if err := doc.DataTo(&m); err != nil {
			return nil, fmt.Errorf("failed to decode member %s: %w", doc.Ref.ID, err)
		}
		m.ID = doc.Ref.ID
		members = append(members, m)
	}

	slices.SortFunc(members, func(a, b models.Member) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return members, nil
}

// Close closes the client
func (s *Store) Close() error {
	return s.client.Close()
}

func classify(err error, msg string) error {
	switch status.Code(err) {
	case codes.NotFound:
		return apperr.Wrap(apperr.NotFound, err, "%s: not found", msg)
	case codes.AlreadyExists:
		return apperr.Wrap(apperr.DuplicateName, err, "%s: already exists", msg)
	case codes.PermissionDenied, codes.Unauthenticated:
		return apperr.Wrap(apperr.PermissionDenied, err, "%s: permission denied", msg)
	case codes.Unavailable, codes.DeadlineExceeded:
		return apperr.Wrap(apperr.TransientNetwork, err, "%s: network unavailable", msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
