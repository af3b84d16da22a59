package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skorlabs/skorstaking/internal/config"
)

const (
	GlobalConfigCollection = "global_config"
	StakeCounterCollection = "stake_counters"
	StakeCollection        = "stakes"
	TimeLockCollection     = "timelocks"
	MintCollection         = "mints"
	TokenAccountCollection = "token_accounts"
	OverallStatsCollection = "overall_stats"
	StakerStatsCollection  = "staker_stats"

	RequestSignatureCollection = "request_signatures"
)

type index struct {
	Indexes bson.D
	Unique  bool
	// ExpireAfterSeconds turns the index into a TTL index on a date field.
	ExpireAfterSeconds *int32
}

func expireAt(seconds int32) *int32 {
	return &seconds
}

var collections = map[string][]index{
	GlobalConfigCollection: {},
	StakeCounterCollection: {},
	StakeCollection: {
		{Indexes: bson.D{{Key: "staker", Value: 1}, {Key: "index", Value: 1}}, Unique: true},
		{Indexes: bson.D{{Key: "claimed", Value: 1}, {Key: "staker", Value: 1}}},
	},
	TimeLockCollection: {
		{Indexes: bson.D{{Key: "unlock_time", Value: 1}}},
	},
	MintCollection: {},
	TokenAccountCollection: {
		{Indexes: bson.D{{Key: "owner", Value: 1}, {Key: "mint", Value: 1}}},
	},
	OverallStatsCollection: {},
	StakerStatsCollection:  {},
	RequestSignatureCollection: {
		{Indexes: bson.D{{Key: "expires_at", Value: 1}}, ExpireAfterSeconds: expireAt(0)},
	},
}

// Setup creates every collection and index. Collections must exist up front
// because they are written inside multi-document transactions.
func Setup(ctx context.Context, cfg *config.DbConfig) error {
	client, err := Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("Failed to disconnect after setup")
		}
	}()

	database := client.Database(cfg.DbName)
	for collection, idxs := range collections {
		if err := createCollection(ctx, database, collection); err != nil {
			return err
		}
		for _, idx := range idxs {
			if err := createIndex(ctx, database, collection, idx); err != nil {
				return err
			}
		}
	}

	log.Ctx(ctx).Info().Msg("Collections and Indexes created successfully.")
	return nil
}

// Connect opens a client for cfg and pings the primary.
func Connect(ctx context.Context, cfg *config.DbConfig) (*mongo.Client, error) {
	clientOps := options.Client().ApplyURI(cfg.Address)
	if cfg.Username != "" {
		clientOps.SetAuth(options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}

	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

func createCollection(ctx context.Context, database *mongo.Database, collectionName string) error {
	err := database.CreateCollection(ctx, collectionName)
	if err == nil {
		return nil
	}
	var cmdErr mongo.CommandError
	// 48 is NamespaceExists
	if errors.As(err, &cmdErr) && cmdErr.Code == 48 {
		log.Ctx(ctx).Debug().Str("collection", collectionName).Msg("Collection already exists")
		return nil
	}
	return fmt.Errorf("failed to create collection %s: %w", collectionName, err)
}

func createIndex(ctx context.Context, database *mongo.Database, collectionName string, idx index) error {
	opts := options.Index().SetUnique(idx.Unique)
	if idx.ExpireAfterSeconds != nil {
		opts.SetExpireAfterSeconds(*idx.ExpireAfterSeconds)
	}
	indexModel := mongo.IndexModel{
		Keys:    idx.Indexes,
		Options: opts,
	}

	_, err := database.Collection(collectionName).Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		return fmt.Errorf("failed to create index on collection %s: %w", collectionName, err)
	}

	log.Ctx(ctx).Debug().Str("collection", collectionName).Msg("Index created successfully")
	return nil
}
