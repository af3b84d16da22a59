package db

import (
	"context"

	"github.com/skorlabs/skorstaking/internal/db/model"
)

// SaveRequestSignature relies on the unique _id to reject a replay. Expired
// entries are removed by the TTL index in the background, so one past its
// expiry may still be found here; the caller rejects those as stale before
// getting this far.
func (db *Database) SaveRequestSignature(ctx context.Context, doc *model.RequestSignatureDocument) error {
	_, err := db.collection(model.RequestSignatureCollection).InsertOne(ctx, doc)
	if err != nil {
		if isDuplicateKey(err) {
			return &DuplicateKeyError{
				Key:     doc.Signature,
				Message: "request signature already used",
			}
		}
		return err
	}
	return nil
}
