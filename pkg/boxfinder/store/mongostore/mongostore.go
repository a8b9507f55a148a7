// Package mongostore implements store.Store on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mikepea/boxfinder/pkg/boxfinder/apperr"
	"github.com/mikepea/boxfinder/pkg/boxfinder/models"
	"github.com/mikepea/boxfinder/pkg/boxfinder/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	boxesCollection   = "boxes"
	membersCollection = "hailraisers"
)

var _ store.Store = (*Store)(nil)

// Store is a MongoDB-backed directory
type Store struct {
	client  *mongo.Client
	boxes   *mongo.Collection
	members *mongo.Collection
	now     func() time.Time
}

// Open connects to uri and prepares the collections in database
func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client:  client,
		boxes:   db.Collection(boxesCollection),
		members: db.Collection(membersCollection),
		now:     time.Now,
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// name_ci is indexed but not unique; the duplicate check stays advisory.
func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.boxes.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "search_keywords", Value: 1}}},
		{Keys: bson.D{{Key: "name_ci", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create box indexes: %w", err)
	}
	_, err = s.members.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "box_id", Value: 1}}})
	if err != nil {
		return fmt.Errorf("failed to create member indexes: %w", err)
	}
	return nil
}

// FindBoxesByKeyword returns boxes whose keyword array holds every word
func (s *Store) FindBoxesByKeyword(ctx context.Context, keyword string) ([]models.Box, error) {
	keywords := store.Keywords(keyword)
	if len(keywords) == 0 {
		return []models.Box{}, nil
	}

	opts := options.Find().SetLimit(store.SearchLimit).SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.boxes.Find(ctx, bson.M{"search_keywords": bson.M{"$all": keywords}}, opts)
	if err != nil {
		return nil, classify(err, "failed to search boxes")
	}

	boxes := []models.Box{}
	if err := cur.All(ctx, &boxes); err != nil {
		return nil, classify(err, "failed to decode boxes")
	}
	return boxes, nil
}

// GetBox retrieves a box by ID
func (s *Store) GetBox(ctx context.Context, id string) (*models.Box, error) {
	var box models.Box
	err := s.boxes.FindOne(ctx, bson.M{"_id": id}).Decode(&box)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrBoxNotFound
	}
	if err != nil {
		return nil, classify(err, "failed to get box")
	}
	return &box, nil
}

// CreateBox inserts a new box after an advisory duplicate-name check
func (s *Store) CreateBox(ctx context.Context, box *models.Box) (*models.Box, error) {
	created := *box
	store.PrepareBox(&created)

	n, err := s.boxes.CountDocuments(ctx, bson.M{"name_ci": created.NameNormalized}, options.Count().SetLimit(1))
	if err != nil {
		return nil, classify(err, "failed to check box name")
	}
	if n > 0 {
		return nil, store.ErrDuplicateName
	}

	now := s.now().UTC()
	created.ID = uuid.NewString()
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := s.boxes.InsertOne(ctx, &created); err != nil {
		return nil, classify(err, "failed to create box")
	}
	return &created, nil
}

// CreateMember inserts a member attached to an existing box
func (s *Store) CreateMember(ctx context.Context, member *models.Member) (*models.Member, error) {
	if member.BoxID == "" {
		return nil, store.ErrNoBox
	}

	n, err := s.boxes.CountDocuments(ctx, bson.M{"_id": member.BoxID}, options.Count().SetLimit(1))
	if err != nil {
		return nil, classify(err, "failed to check box")
	}
	if n == 0 {
		return nil, apperr.Wrap(apperr.NotFound, store.ErrBoxNotFound, "Box %s not found", member.BoxID)
	}

	created := *member
	now := s.now().UTC()
	created.ID = uuid.NewString()
	created.CreatedAt = now
	created.UpdatedAt = now
	created.Approved = false

	if _, err := s.members.InsertOne(ctx, &created); err != nil {
		return nil, classify(err, "failed to create member")
	}
	return &created, nil
}

// ListBoxes returns every box ordered by name
func (s *Store) ListBoxes(ctx context.Context) ([]models.Box, error) {
	cur, err := s.boxes.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, classify(err, "failed to list boxes")
	}

	boxes := []models.Box{}
	if err := cur.All(ctx, &boxes); err != nil {
		return nil, classify(err, "failed to decode boxes")
	}
	return boxes, nil
}

// ListMembers returns the members of a box, newest first
func (s *Store) ListMembers(ctx context.Context, boxID string) ([]models.Member, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.members.Find(ctx, bson.M{"box_id": boxID}, opts)
	if err != nil {
		return nil, classify(err, "failed to list members")
	}

	members := []models.Member{}
	if err := cur.All(ctx, &members); err != nil {
		return nil, classify(err, "failed to decode members")
	}
	return members, nil
}

// Close disconnects the client
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// drop removes both collections; used by tests against a scratch database
func (s *Store) drop(ctx context.Context) error {
	if err := s.boxes.Drop(ctx); err != nil {
		return err
	}
	return s.members.Drop(ctx)
}

func classify(err error, msg string) error {
	switch {
	case mongo.IsTimeout(err), mongo.IsNetworkError(err):
		return apperr.Wrap(apperr.TransientNetwork, err, "%s: network error", msg)
	case mongo.IsDuplicateKeyError(err):
		return apperr.Wrap(apperr.DuplicateName, err, "%s: duplicate key", msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
