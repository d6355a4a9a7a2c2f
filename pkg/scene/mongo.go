package scene

import (
	"context"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pipescope/pipescope/pkg/errors"
	"github.com/pipescope/pipescope/pkg/observability"
)

// MongoConfig configures the MongoDB scene store.
type MongoConfig struct {
	// URI is the MongoDB connection string.
	URI string

	// Database is the database name. Defaults to "pipescope".
	Database string

	// Collection is the collection name. Defaults to "scenes".
	Collection string
}

// MongoStore is a MongoDB-backed scene store for durable scene libraries.
// Documents are keyed by scene name via the _id field.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "pipescope"
	}
	if cfg.Collection == "" {
		cfg.Collection = "scenes"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Get retrieves a scene by name. Returns nil, nil if absent.
func (s *MongoStore) Get(ctx context.Context, name string) (*Document, error) {
	start := time.Now()

	var doc Document
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		observability.Scene().OnSceneLoaded(ctx, name, time.Since(start), nil)
		return nil, nil
	}
	if err != nil {
		werr := errors.Wrap(errors.ErrCodeStorage, err, "mongo find scene %q", name)
		observability.Scene().OnSceneLoaded(ctx, name, time.Since(start), werr)
		return nil, werr
	}

	observability.Scene().OnSceneLoaded(ctx, name, time.Since(start), nil)
	return &doc, nil
}

// Put upserts a scene by name.
func (s *MongoStore) Put(ctx context.Context, doc *Document) error {
	start := time.Now()
	stamp(doc)

	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.Name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		werr := errors.Wrap(errors.ErrCodeStorage, err, "mongo upsert scene %q", doc.Name)
		observability.Scene().OnSceneSaved(ctx, doc.Name, len(doc.Graph.Nodes), time.Since(start), werr)
		return werr
	}

	observability.Scene().OnSceneSaved(ctx, doc.Name, len(doc.Graph.Nodes), time.Since(start), nil)
	return nil
}

// List returns all scene names, sorted.
func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	values, err := s.coll.Distinct(ctx, "_id", bson.D{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "mongo list scenes")
	}

	names := make([]string, 0, len(values))
	for _, v := range values {
		if name, ok := v.(string); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// Delete removes a scene. Deleting an absent scene is not an error.
func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": name}); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "mongo delete scene %q", name)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
