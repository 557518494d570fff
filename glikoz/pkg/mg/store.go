// Package mg is the mongo-backed entry log. It lets a backup be imported
// once and reported over arbitrary windows later.
package mg

import (
	"context"
	"fmt"
	"time"

	"glikoz/glikoz/defs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type EntryStore interface {
	WriteEntry(ctx context.Context, e *defs.Entry) (*mongo.UpdateResult, error)
	ReadEntries(ctx context.Context, start, end time.Time) ([]defs.Entry, error)
}

type MongoStore struct {
	Client *mongo.Client
	Logger *zap.Logger

	DBName string
}

func New(ctx context.Context, cfg defs.MongoConfig, dbName string, logger *zap.Logger) (*MongoStore, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.Username != "" {
		opts = opts.SetAuth(options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}

	mongoClient, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to mongo: %w", err)
	}

	return &MongoStore{
		Client: mongoClient,
		Logger: logger,
		DBName: dbName,
	}, nil
}

// WriteEntry upserts keyed by timestamp, so re-importing the same backup
// does not duplicate entries.
func (ms *MongoStore) WriteEntry(ctx context.Context, e *defs.Entry) (*mongo.UpdateResult, error) {
	ms.Logger.Debug(
		"writing entry",
		zap.Time("time", e.Time),
	)

	res, err := ms.Client.
		Database(ms.DBName).
		Collection(defs.EntriesCollection).
		UpdateOne(ctx,
			bson.M{"time": e.Time},
			bson.M{"$set": e},
			options.Update().SetUpsert(true),
		)
	if err != nil {
		return nil, fmt.Errorf("unable to write entry: %w", err)
	}
	return res, nil
}

func (ms *MongoStore) ReadEntries(ctx context.Context, start, end time.Time) ([]defs.Entry, error) {
	cur, err := ms.Client.
		Database(ms.DBName).
		Collection(defs.EntriesCollection).
		Find(ctx,
			bson.M{"time": bson.M{"$gte": start, "$lte": end}},
			options.Find().SetSort(bson.M{"time": 1}),
		)
	if err != nil {
		return nil, fmt.Errorf("unable to read entries: %w", err)
	}

	var entries []defs.Entry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("unable to decode entries: %w", err)
	}

	ms.Logger.Debug("read entries", zap.Int("count", len(entries)))
	return entries, nil
}
