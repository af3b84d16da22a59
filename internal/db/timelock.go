package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skorlabs/skorstaking/internal/db/model"
)

func (db *Database) SaveNewTimeLock(ctx context.Context, doc *model.TimeLockDocument) error {
	_, err := db.collection(model.TimeLockCollection).InsertOne(ctx, doc)
	if err != nil {
		if isDuplicateKey(err) {
			return &DuplicateKeyError{
				Key:     doc.StakeID,
				Message: "timelock already exists",
			}
		}
		return err
	}
	return nil
}

func (db *Database) FindUnlockedStakes(ctx context.Context, now int64, limit uint64) ([]model.TimeLockDocument, error) {
	filter := bson.M{"unlock_time": bson.M{"$lte": now}}
	opts := options.Find().
		SetSort(bson.D{{Key: "unlock_time", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := db.collection(model.TimeLockCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var timelocks []model.TimeLockDocument
	if err = cursor.All(ctx, &timelocks); err != nil {
		return nil, err
	}

	return timelocks, nil
}

func (db *Database) DeleteTimeLock(ctx context.Context, stakeID string) error {
	result, err := db.collection(model.TimeLockCollection).DeleteOne(ctx, bson.M{"_id": stakeID})
	if err != nil {
		return fmt.Errorf("failed to delete timelock of stake %v: %w", stakeID, err)
	}

	if result.DeletedCount == 0 {
		return &NotFoundError{
			Key:     stakeID,
			Message: fmt.Sprintf("no timelock found for stake %v", stakeID),
		}
	}

	return nil
}
