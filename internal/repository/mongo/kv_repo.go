package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/group-fitness/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const kvCollectionName = "kv"

// kvDocument is how one app collection is stored: the whole JSON array
// as a single document keyed by collection name.
type kvDocument struct {
	Collection string    `bson:"_id"`
	Payload    string    `bson:"payload"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

// mongoKVBackend implements repository.Backend on a MongoDB collection.
type mongoKVBackend struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoKVBackend creates a Backend storing collections in db.kv.
// The returned value also implements repository.Closer, which disconnects
// the client.
func NewMongoKVBackend(client *mongo.Client, db *mongo.Database) repository.Backend {
	return &mongoKVBackend{
		client:     client,
		collection: db.Collection(kvCollectionName),
	}
}

var (
	_ repository.Backend = (*mongoKVBackend)(nil)
	_ repository.Closer  = (*mongoKVBackend)(nil)
)

// Load retrieves the stored array for a collection.
func (r *mongoKVBackend) Load(ctx context.Context, collection string) ([]byte, error) {
	var doc kvDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": collection}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(doc.Payload), nil
}

// Save replaces (or inserts) the document for a collection.
func (r *mongoKVBackend) Save(ctx context.Context, collection string, data []byte) error {
	doc := kvDocument{
		Collection: collection,
		Payload:    string(data),
		UpdatedAt:  time.Now().UTC(),
	}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": collection}, doc, options.Replace().SetUpsert(true))
	return err
}

// Close disconnects the underlying client.
func (r *mongoKVBackend) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return DisconnectDB(ctx, r.client)
}
