package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cooliehub/pkg/platform/sentinel"
)

type mockDocumentStore struct {
	findOneFunc    func(ctx context.Context, filter any, out any) error
	replaceOneFunc func(ctx context.Context, filter any, replacement any, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
}

func (m *mockDocumentStore) FindOne(ctx context.Context, filter any, out any) error {
	if m.findOneFunc != nil {
		return m.findOneFunc(ctx, filter, out)
	}
	return mongo.ErrNoDocuments
}

func (m *mockDocumentStore) ReplaceOne(ctx context.Context, filter any, replacement any, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	if m.replaceOneFunc != nil {
		return m.replaceOneFunc(ctx, filter, replacement, opts...)
	}
	return &mongo.UpdateResult{}, nil
}

func TestMongoRead(t *testing.T) {
	t.Run("missing document", func(t *testing.T) {
		m := NewMongo(&mockDocumentStore{}, "ch_receipts")
		_, err := m.Read(context.Background())
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("document present", func(t *testing.T) {
		store := &mockDocumentStore{
			findOneFunc: func(_ context.Context, filter any, out any) error {
				assert.Equal(t, bson.D{{Key: "_id", Value: "ch_receipts"}}, filter)
				doc, ok := out.(*snapshotDocument)
				require.True(t, ok)
				doc.Slot = "ch_receipts"
				doc.Payload = `[]`
				return nil
			},
		}
		got, err := NewMongo(store, "ch_receipts").Read(context.Background())
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(got))
	})

	t.Run("driver failure", func(t *testing.T) {
		store := &mockDocumentStore{
			findOneFunc: func(context.Context, any, any) error { return errors.New("server selection timeout") },
		}
		_, err := NewMongo(store, "ch_receipts").Read(context.Background())
		require.Error(t, err)
		assert.NotErrorIs(t, err, sentinel.ErrNotFound)
	})
}

func TestMongoWriteUpserts(t *testing.T) {
	fixed := time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)
	var captured snapshotDocument
	var upsert bool

	store := &mockDocumentStore{
		replaceOneFunc: func(_ context.Context, _ any, replacement any, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
			captured = replacement.(snapshotDocument)
			for _, o := range opts {
				if o.Upsert != nil {
					upsert = *o.Upsert
				}
			}
			return &mongo.UpdateResult{UpsertedCount: 1}, nil
		},
	}
	m := NewMongo(store, "ch_receipts")
	m.now = func() time.Time { return fixed }

	require.NoError(t, m.Write(context.Background(), []byte(`[]`)))
	assert.True(t, upsert)
	assert.Equal(t, snapshotDocument{Slot: "ch_receipts", Payload: `[]`, UpdatedAt: fixed}, captured)
}

func TestMongoWriteFailure(t *testing.T) {
	store := &mockDocumentStore{
		replaceOneFunc: func(context.Context, any, any, ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
			return nil, errors.New("not primary")
		},
	}
	assert.ErrorContains(t, NewMongo(store, "ch_receipts").Write(context.Background(), []byte(`[]`)), "not primary")
}
