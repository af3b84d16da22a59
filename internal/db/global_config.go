package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skorlabs/skorstaking/internal/db/model"
)

func (db *Database) GetGlobalConfig(ctx context.Context) (*model.GlobalConfigDocument, error) {
	var doc model.GlobalConfigDocument
	err := db.collection(model.GlobalConfigCollection).
		FindOne(ctx, bson.M{"_id": model.GlobalConfigID}).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     model.GlobalConfigID,
				Message: "global config is not initialized",
			}
		}
		return nil, err
	}
	return &doc, nil
}

func (db *Database) InsertGlobalConfig(ctx context.Context, doc *model.GlobalConfigDocument) error {
	doc.ID = model.GlobalConfigID
	_, err := db.collection(model.GlobalConfigCollection).InsertOne(ctx, doc)
	if err != nil {
		if isDuplicateKey(err) {
			return &DuplicateKeyError{
				Key:     model.GlobalConfigID,
				Message: "global config already exists",
			}
		}
		return err
	}
	return nil
}

func (db *Database) UpdateGlobalConfig(ctx context.Context, doc *model.GlobalConfigDocument) error {
	doc.ID = model.GlobalConfigID
	res, err := db.collection(model.GlobalConfigCollection).
		ReplaceOne(ctx, bson.M{"_id": model.GlobalConfigID}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return &NotFoundError{
			Key:     model.GlobalConfigID,
			Message: "global config is not initialized",
		}
	}
	return nil
}
