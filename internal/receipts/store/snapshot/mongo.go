package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cooliehub/pkg/platform/sentinel"
)

// DocumentStore is the slice of a mongo collection the snapshot needs.
type DocumentStore interface {
	FindOne(ctx context.Context, filter any, out any) error
	ReplaceOne(
		ctx context.Context,
		filter any,
		replacement any,
		opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
}

// MongoCollection adapts *mongo.Collection to DocumentStore.
type MongoCollection struct {
	*mongo.Collection
}

// FindOne decodes the first matching document into out.
func (c *MongoCollection) FindOne(ctx context.Context, filter any, out any) error {
	return c.Collection.FindOne(ctx, filter).Decode(out)
}

type snapshotDocument struct {
	Slot      string    `bson:"_id"`
	Payload   string    `bson:"payload"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// Mongo stores the payload as one document keyed by slot.
type Mongo struct {
	store DocumentStore
	slot  string
	now   func() time.Time
}

func NewMongo(store DocumentStore, slot string) *Mongo {
	return &Mongo{store: store, slot: slot, now: time.Now}
}

// NewMongoFromClient opens the named collection on client.
func NewMongoFromClient(client *mongo.Client, database, collection, slot string) *Mongo {
	return NewMongo(&MongoCollection{client.Database(database).Collection(collection)}, slot)
}

func (m *Mongo) Read(ctx context.Context) ([]byte, error) {
	var doc snapshotDocument
	err := m.store.FindOne(ctx, bson.D{{Key: "_id", Value: m.slot}}, &doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find snapshot %s: %w", m.slot, err)
	}
	if doc.Payload == "" {
		return nil, sentinel.ErrNotFound
	}
	return []byte(doc.Payload), nil
}

func (m *Mongo) Write(ctx context.Context, payload []byte) error {
	doc := snapshotDocument{Slot: m.slot, Payload: string(payload), UpdatedAt: m.now().UTC()}
	_, err := m.store.ReplaceOne(ctx, bson.D{{Key: "_id", Value: m.slot}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace snapshot %s: %w", m.slot, err)
	}
	return nil
}
