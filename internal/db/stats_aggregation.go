package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/skorlabs/skorstaking/internal/db/model"
	"github.com/skorlabs/skorstaking/internal/types"
)

// totalsGroup sums stake amounts split by claim status. groupID is the
// $group key: nil for a single total, "$staker" for one row per staker.
func totalsGroup(groupID any) bson.M {
	sumIf := func(claimed bool, field any) bson.M {
		return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$claimed", claimed}}, field, 0}}}
	}
	return bson.M{
		"$group": bson.M{
			"_id":             groupID,
			"total_staked":    sumIf(false, "$deposit_amount"),
			"active_stakes":   sumIf(false, 1),
			"total_claimed":   sumIf(true, "$deposit_amount"),
			"claimed_stakes":  sumIf(true, 1),
			"pending_rewards": sumIf(false, "$reward_amount"),
			"rewards_paid":    sumIf(true, "$reward_amount"),
		},
	}
}

// CalculateStakeTotals calculates totals using MongoDB aggregation pipeline
// instead of loading every stake into memory
func (db *Database) CalculateStakeTotals(ctx context.Context, staker *types.Pubkey) (*model.StakeTotals, error) {
	pipeline := bson.A{}
	if staker != nil {
		pipeline = append(pipeline, bson.M{"$match": bson.M{"staker": staker.String()}})
	}
	pipeline = append(pipeline, totalsGroup(nil))

	cursor, err := db.collection(model.StakeCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var totals model.StakeTotals
	if cursor.Next(ctx) {
		if err := cursor.Decode(&totals); err != nil {
			return nil, err
		}
	}
	return &totals, cursor.Err()
}

func (db *Database) CalculateStakerTotals(ctx context.Context) ([]*model.StakerStatsDocument, error) {
	pipeline := bson.A{
		totalsGroup("$staker"),
		bson.M{"$sort": bson.M{"_id": 1}},
	}

	cursor, err := db.collection(model.StakeCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stats []*model.StakerStatsDocument
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}
