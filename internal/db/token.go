package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skorlabs/skorstaking/internal/custody"
	"github.com/skorlabs/skorstaking/internal/db/model"
	"github.com/skorlabs/skorstaking/internal/types"
)

func (db *Database) SaveNewMint(ctx context.Context, doc *model.MintDocument) error {
	_, err := db.collection(model.MintCollection).InsertOne(ctx, doc)
	if err != nil {
		if isDuplicateKey(err) {
			return &DuplicateKeyError{
				Key:     doc.Address,
				Message: "mint already exists",
			}
		}
		return err
	}
	return nil
}

func (db *Database) GetMint(ctx context.Context, address types.Pubkey) (*types.Mint, error) {
	var doc model.MintDocument
	err := db.collection(model.MintCollection).FindOne(ctx, bson.M{"_id": address.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     address.String(),
				Message: fmt.Sprintf("mint %s not found", address),
			}
		}
		return nil, err
	}
	return doc.ToMint()
}

func (db *Database) IncreaseMintSupply(ctx context.Context, address types.Pubkey, amount uint64) error {
	if amount > maxStoredAmount {
		return types.ErrOverflow
	}
	filter := bson.M{
		"_id":    address.String(),
		"supply": bson.M{"$lte": int64(maxStoredAmount - amount)},
	}
	res, err := db.collection(model.MintCollection).
		UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"supply": int64(amount)}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, err := db.GetMint(ctx, address); err != nil {
			return err
		}
		return types.ErrOverflow
	}
	return nil
}

func (db *Database) SaveNewTokenAccount(ctx context.Context, doc *model.TokenAccountDocument) error {
	_, err := db.collection(model.TokenAccountCollection).InsertOne(ctx, doc)
	if err != nil {
		if isDuplicateKey(err) {
			return &DuplicateKeyError{
				Key:     doc.Address,
				Message: "token account already exists",
			}
		}
		return err
	}
	return nil
}

func (db *Database) GetTokenAccount(ctx context.Context, address types.Pubkey) (*types.TokenAccount, error) {
	var doc model.TokenAccountDocument
	err := db.collection(model.TokenAccountCollection).
		FindOne(ctx, bson.M{"_id": address.String()}).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     address.String(),
				Message: fmt.Sprintf("token account %s not found", address),
			}
		}
		return nil, err
	}
	return doc.ToTokenAccount()
}

// DebitTokenAccount only matches when the balance covers amount, so
// concurrent debits can never overdraw.
func (db *Database) DebitTokenAccount(ctx context.Context, address types.Pubkey, amount uint64) error {
	if amount > maxStoredAmount {
		return custody.ErrInsufficientFunds
	}
	filter := bson.M{
		"_id":    address.String(),
		"amount": bson.M{"$gte": int64(amount)},
	}
	res, err := db.collection(model.TokenAccountCollection).
		UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"amount": -int64(amount)}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, err := db.GetTokenAccount(ctx, address); err != nil {
			return err
		}
		return custody.ErrInsufficientFunds
	}
	return nil
}

func (db *Database) CreditTokenAccount(ctx context.Context, address types.Pubkey, amount uint64) error {
	if amount > maxStoredAmount {
		return types.ErrOverflow
	}
	filter := bson.M{
		"_id":    address.String(),
		"amount": bson.M{"$lte": int64(maxStoredAmount - amount)},
	}
	res, err := db.collection(model.TokenAccountCollection).
		UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"amount": int64(amount)}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, err := db.GetTokenAccount(ctx, address); err != nil {
			return err
		}
		return types.ErrOverflow
	}
	return nil
}
