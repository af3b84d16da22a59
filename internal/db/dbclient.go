package db

import (
	"context"
	"errors"
	"math"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/skorlabs/skorstaking/internal/config"
	"github.com/skorlabs/skorstaking/internal/db/model"
)

// maxStoredAmount bounds balances: BSON has no unsigned 64 bit integer and
// $inc past int64 fails.
const maxStoredAmount = uint64(math.MaxInt64)

type Database struct {
	dbName string
	client *mongo.Client
}

// New connects to the configured mongo deployment. Transactions need a
// replica set or sharded cluster.
func New(ctx context.Context, cfg config.DbConfig) (*Database, error) {
	client, err := model.Connect(ctx, &cfg)
	if err != nil {
		return nil, err
	}
	return &Database{
		dbName: cfg.DbName,
		client: client,
	}, nil
}

func (db *Database) Ping(ctx context.Context) error {
	return db.client.Ping(ctx, nil)
}

func (db *Database) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

func (db *Database) collection(name string) *mongo.Collection {
	return db.client.Database(db.dbName).Collection(name)
}

func (db *Database) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	session, err := db.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	// the driver retries fn on transient errors, so fn must only have
	// effects through sessCtx
	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	}, txnOpts)
	return err
}

func isDuplicateKey(err error) bool {
	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, e := range writeErr.WriteErrors {
			if mongo.IsDuplicateKeyError(e) {
				return true
			}
		}
	}
	return mongo.IsDuplicateKeyError(err)
}
