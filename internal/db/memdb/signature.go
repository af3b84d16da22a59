package memdb

import (
	"context"

	"github.com/skorlabs/skorstaking/internal/db"
	"github.com/skorlabs/skorstaking/internal/db/model"
)

// SaveRequestSignature drops entries that expired before doc was signed, the
// way the TTL index does for mongo.
func (s *Store) SaveRequestSignature(ctx context.Context, doc *model.RequestSignatureDocument) error {
	defer s.lock(ctx)()
	for sig, seen := range s.state.signatures {
		if seen.ExpiresAt.Unix() < doc.Timestamp {
			delete(s.state.signatures, sig)
		}
	}
	if _, ok := s.state.signatures[doc.Signature]; ok {
		return &db.DuplicateKeyError{Key: doc.Signature, Message: "request signature already used"}
	}
	s.state.signatures[doc.Signature] = *doc
	return nil
}
