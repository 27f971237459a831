package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/schoolhub/school-console/internal/core/ports"
)

const stateCollection = "console_state"

// StateStore keeps one document per key.
type StateStore struct {
	coll *mongo.Collection
}

func NewStateStore(db *mongo.Database) *StateStore {
	return &StateStore{coll: db.Collection(stateCollection)}
}

type stateDoc struct {
	Key       string `bson:"_id"`
	Value     string `bson:"value"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (s *StateStore) Get(ctx context.Context, key string) (string, bool, error) {
	var doc stateDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find state %s: %w", key, err)
	}
	return doc.Value, true, nil
}

func (s *StateStore) Set(ctx context.Context, key, value string) error {
	update := bson.M{"$set": bson.M{
		"value":      value,
		"updated_at": time.Now().UTC().Unix(),
	}}
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": key}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert state %s: %w", key, err)
	}
	return nil
}

func (s *StateStore) Remove(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("delete state %s: %w", key, err)
	}
	return nil
}

func (s *StateStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

var _ ports.PersistenceStore = (*StateStore)(nil)
