// Package mongodb stores tracked products as documents in MongoDB.
package mongodb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	collectionName = "products"
	connectTimeout = 10 * time.Second
)

// Repository is a MongoDB backed product repository. The client handle is shared
// by all callers and is safe for concurrent use.
type Repository struct {
	client *mongo.Client
	coll   *mongo.Collection
	log    *slog.Logger
}

// NewRepository connects to uri, selects database and ensures the indexes the ledger relies on.
func NewRepository(ctx context.Context, log *slog.Logger, uri, database string) (*Repository, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("error connecting to mongo: %w", err)
	}

	if err = client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("unable to establish connection to mongo: %w", err)
	}

	repo := &Repository{client: client, coll: client.Database(database).Collection(collectionName), log: log}

	if err = repo.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo index initialization error: %w", err)
	}

	return repo, nil
}

// NewForTest wraps an existing collection without creating indexes.
func NewForTest(coll *mongo.Collection) *Repository {
	return &Repository{
		client: coll.Database().Client(),
		coll:   coll,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// ensureIndexes creates the unique source URL index and the listing index.
func (r *Repository) ensureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sourceUrl", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_source_url"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("created_at_desc"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Ping checks the connection to the primary.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("repository.mongo.Ping: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (r *Repository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := r.client.Disconnect(ctx); err != nil {
		r.log.Error("failed to disconnect from mongo", "op", "repository.mongo.Close", "error", err)
		return fmt.Errorf("failed to disconnect from mongo: %w", err)
	}
	return nil
}
