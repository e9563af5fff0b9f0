// internal/app/store/materials/materialstore.go
package materialstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bhe-24/pustakamateri/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the Mongo collection holding board materials.
const CollectionName = "materials"

var (
	ErrMissingTitle    = errors.New("title is required")
	ErrMissingCategory = errors.New("category is required")
)

type Store struct {
	c   *mongo.Collection
	now func() time.Time
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName), now: time.Now}
}

// SetClock replaces the time source used for CreatedAt.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// List returns every material, newest first. Documents without a
// created_at sort after all timestamped ones. An empty collection yields
// an empty, non-nil slice.
func (s *Store) List(ctx context.Context) ([]models.Material, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Material{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts m, assigning its ID and CreatedAt. The timestamp is
// taken by the store at second precision; any CreatedAt on m is ignored.
func (s *Store) Create(ctx context.Context, m models.Material) (models.Material, error) {
	m.Title = strings.TrimSpace(m.Title)
	m.Category = strings.TrimSpace(m.Category)
	m.Topic = strings.TrimSpace(m.Topic)
	m.VideoURL = strings.TrimSpace(m.VideoURL)
	m.ImageURL = strings.TrimSpace(m.ImageURL)

	if m.Title == "" {
		return models.Material{}, ErrMissingTitle
	}
	if m.Category == "" {
		return models.Material{}, ErrMissingCategory
	}

	now := s.now().UTC().Truncate(time.Second)
	m.ID = primitive.NewObjectID()
	m.CreatedAt = &now

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Material{}, err
	}
	return m, nil
}

// GetByID returns a material by its ID. mongo.ErrNoDocuments is returned
// unchanged when it does not exist.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Material, error) {
	var m models.Material
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return models.Material{}, err
	}
	return m, nil
}

// Delete removes a material by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
