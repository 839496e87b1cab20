// Package mongo provides a design store backed by MongoDB.
//
// Designs are documents in a single collection, keyed by design id and
// filtered by owner. An index on (owner, updated_at) serves listing.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/slotcraft/pkg/design"
)

// DefaultCollection is the collection used when Config.Collection is empty.
const DefaultCollection = "designs"

// Config configures a MongoDB design store.
type Config struct {
	URI        string
	Database   string
	Collection string
}

// Store is a MongoDB-backed design store.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// New connects to MongoDB, pings the server and ensures the list index.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongo: database name is required")
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}, {Key: "updated_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create mongo index: %w", err)
	}
	return &Store{client: client, coll: coll}, nil
}

func (s *Store) Get(ctx context.Context, owner, id string) (*design.Design, error) {
	var d design.Design
	err := s.coll.FindOne(ctx, bson.M{"_id": id, "owner": owner}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, design.NotFound(owner, id)
	}
	if err != nil {
		return nil, fmt.Errorf("mongo get design: %w", err)
	}
	return &d, nil
}

func (s *Store) Save(ctx context.Context, d *design.Design) error {
	if err := design.Prepare(d, time.Now()); err != nil {
		return err
	}
	if prev, err := s.Get(ctx, d.Owner, d.ID); err == nil {
		d.CreatedAt = prev.CreatedAt
	}

	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": d.ID, "owner": d.Owner},
		d,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongo save design: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, owner, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id, "owner": owner})
	if err != nil {
		return fmt.Errorf("mongo delete design: %w", err)
	}
	if res.DeletedCount == 0 {
		return design.NotFound(owner, id)
	}
	return nil
}

func (s *Store) List(ctx context.Context, owner string) ([]design.Design, error) {
	cur, err := s.coll.Find(ctx, bson.M{"owner": owner},
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo list designs: %w", err)
	}
	defer cur.Close(ctx)

	out := []design.Design{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("mongo list designs: %w", err)
	}
	return out, nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ design.Store = (*Store)(nil)
