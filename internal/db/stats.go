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

// UpsertOverallStats updates or inserts overall stats
func (db *Database) UpsertOverallStats(ctx context.Context, doc *model.OverallStatsDocument) error {
	doc.ID = model.OverallStatsID
	filter := bson.M{"_id": model.OverallStatsID}
	opts := options.Replace().SetUpsert(true)

	_, err := db.collection(model.OverallStatsCollection).ReplaceOne(ctx, filter, doc, opts)
	return err
}

func (db *Database) GetOverallStats(ctx context.Context) (*model.OverallStatsDocument, error) {
	var doc model.OverallStatsDocument
	err := db.collection(model.OverallStatsCollection).
		FindOne(ctx, bson.M{"_id": model.OverallStatsID}).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     model.OverallStatsID,
				Message: "overall stats not computed yet",
			}
		}
		return nil, err
	}
	return &doc, nil
}

// UpsertStakerStats updates or inserts the stats of one staker in separate collection
func (db *Database) UpsertStakerStats(ctx context.Context, doc *model.StakerStatsDocument) error {
	filter := bson.M{"_id": doc.Staker}
	opts := options.Replace().SetUpsert(true)

	_, err := db.collection(model.StakerStatsCollection).ReplaceOne(ctx, filter, doc, opts)
	return err
}

func (db *Database) GetStakerStats(ctx context.Context, staker types.Pubkey) (*model.StakerStatsDocument, error) {
	var doc model.StakerStatsDocument
	err := db.collection(model.StakerStatsCollection).
		FindOne(ctx, bson.M{"_id": staker.String()}).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     staker.String(),
				Message: fmt.Sprintf("no stats for staker %s", staker),
			}
		}
		return nil, err
	}
	return &doc, nil
}
