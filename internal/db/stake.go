package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skorlabs/skorstaking/internal/db/model"
	"github.com/skorlabs/skorstaking/internal/types"
)

func (db *Database) GetStakeCounter(ctx context.Context, staker types.Pubkey) (uint64, error) {
	var doc model.StakeCounterDocument
	err := db.collection(model.StakeCounterCollection).
		FindOne(ctx, bson.M{"_id": staker.String()}).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}
	return doc.Count, nil
}

func (db *Database) AllocateStakeIndex(ctx context.Context, staker types.Pubkey) (uint64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.Before)

	var prev model.StakeCounterDocument
	err := db.collection(model.StakeCounterCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": staker.String()}, bson.M{"$inc": bson.M{"count": 1}}, opts).
		Decode(&prev)
	if err != nil {
		// first stake: the upsert created the counter, there was no
		// previous document
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}
	return prev.Count, nil
}

func (db *Database) SaveNewStake(ctx context.Context, doc *model.StakeDocument) error {
	_, err := db.collection(model.StakeCollection).InsertOne(ctx, doc)
	if err != nil {
		if isDuplicateKey(err) {
			return &DuplicateKeyError{
				Key:     doc.ID,
				Message: "stake already exists",
			}
		}
		return err
	}
	return nil
}

func (db *Database) GetStake(ctx context.Context, staker types.Pubkey, index uint64) (*model.StakeDocument, error) {
	id := model.StakeID(staker, index)
	var doc model.StakeDocument
	err := db.collection(model.StakeCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     id,
				Message: fmt.Sprintf("stake %d of %s not found", index, staker),
			}
		}
		return nil, err
	}
	return &doc, nil
}

func (db *Database) GetStakesByStaker(
	ctx context.Context, staker types.Pubkey, fromIndex uint64, limit int64,
) ([]*model.StakeDocument, error) {
	filter := bson.M{
		"staker": staker.String(),
		"index":  bson.M{"$gte": fromIndex},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "index", Value: 1}}).
		SetLimit(limit)

	cursor, err := db.collection(model.StakeCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stakes []*model.StakeDocument
	if err := cursor.All(ctx, &stakes); err != nil {
		return nil, err
	}
	return stakes, nil
}

func (db *Database) MarkStakeClaimed(ctx context.Context, staker types.Pubkey, index uint64, claimedAt int64) error {
	id := model.StakeID(staker, index)
	filter := bson.M{"_id": id, "claimed": false}
	update := bson.M{"$set": bson.M{"claimed": true, "claimed_at": claimedAt}}

	res, err := db.collection(model.StakeCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return &NotFoundError{
			Key:     id,
			Message: fmt.Sprintf("unclaimed stake %d of %s not found", index, staker),
		}
	}
	return nil
}
