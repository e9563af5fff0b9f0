// internal/app/store/publog/publogstore.go
package publogstore

import (
	"context"
	"errors"
	"time"

	"github.com/bhe-24/pustakamateri/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the collection holding singleton system documents.
const CollectionName = "system"

// Store reads and writes the daily publication log document.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// LastDate returns the recorded last publish date, or "" when the log
// document does not exist yet.
func (s *Store) LastDate(ctx context.Context) (string, error) {
	var log models.PublicationLog
	err := s.c.FindOne(ctx, bson.M{"_id": models.PublicationLogID}).Decode(&log)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return log.LastDate, nil
}

// SetLastDate records day as the last publish date. Uses upsert so it
// works whether the log exists or not.
func (s *Store) SetLastDate(ctx context.Context, day string) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"last_date":  day,
			"updated_at": now,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": models.PublicationLogID}, update, opts)
	return err
}

// ClaimDate atomically moves last_date to day unless it already equals
// day. It returns true when this caller made the change. Used when the
// gate runs in strict mode instead of read-then-write.
func (s *Store) ClaimDate(ctx context.Context, day string) (bool, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"_id":       models.PublicationLogID,
		"last_date": bson.M{"$ne": day},
	}
	update := bson.M{"$set": bson.M{"last_date": day, "updated_at": now}}
	opts := options.Update().SetUpsert(true)

	res, err := s.c.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		// The upsert collides with the existing document when last_date
		// already equals day: someone else claimed it.
		if wafflemongo.IsDup(err) {
			return false, nil
		}
		return false, err
	}
	return res.ModifiedCount == 1 || res.UpsertedCount == 1, nil
}

// RestoreDate puts last_date back to prev after a failed claimed publish,
// but only if it still holds day.
func (s *Store) RestoreDate(ctx context.Context, day, prev string) error {
	filter := bson.M{"_id": models.PublicationLogID, "last_date": day}
	update := bson.M{"$set": bson.M{"last_date": prev, "updated_at": time.Now().UTC()}}
	_, err := s.c.UpdateOne(ctx, filter, update)
	return err
}
