// Package mongostore reads inventory items directly from the MongoDB
// collection behind the inventory API.
//
// It is a fallback for printing when the API is unreachable, and for bulk
// reprints where paging through the API is slow. Filters are translated to
// MongoDB queries so only the selected items leave the database.
package mongostore

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/inventory"
)

// Defaults for [Config].
const (
	DefaultDatabase   = "inventory"
	DefaultCollection = "inventories"

	connectTimeout = 10 * time.Second
)

// Config locates the collection.
type Config struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// SetDefaults fills empty database and collection names.
func (c *Config) SetDefaults() {
	if c.Database == "" {
		c.Database = DefaultDatabase
	}
	if c.Collection == "" {
		c.Collection = DefaultCollection
	}
}

// Store reads items from MongoDB.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Open connects to MongoDB and pings the primary.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo uri is required")
	}
	cfg.SetDefaults()

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongo")
	}
	return &Store{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Items returns the items matching f. Without a sort field, items come back
// in creation order (ties broken by _id), which is the order the API
// returns them in.
func (s *Store) Items(ctx context.Context, f inventory.Filter) ([]inventory.Item, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	cur, err := s.coll.Find(ctx, Query(f), options.Find().SetSort(Sort(f)))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "query inventory")
	}
	var items []inventory.Item
	if err := cur.All(ctx, &items); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "decode inventory")
	}
	return items, nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Query translates the filter part of f into a MongoDB query document.
func Query(f inventory.Filter) bson.M {
	q := bson.M{}
	if f.Category != "" && f.Category != inventory.All {
		q["category"] = f.Category
	}
	if f.Status != "" && f.Status != inventory.All {
		q["status"] = f.Status
	}
	if f.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
		q["$or"] = bson.A{
			bson.M{"serialNumber": pattern},
			bson.M{"subCategory": pattern},
			bson.M{"location.faculty": pattern},
			bson.M{"location.room": pattern},
			bson.M{"department": pattern},
		}
	}
	return q
}

// Sort translates the ordering part of f into a MongoDB sort document.
func Sort(f inventory.Filter) bson.D {
	dir := 1
	if f.Desc {
		dir = -1
	}
	if f.SortBy == inventory.SortNone {
		return bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	}
	return bson.D{{Key: f.SortBy, Value: dir}, {Key: "_id", Value: 1}}
}
