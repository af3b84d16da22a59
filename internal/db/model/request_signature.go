package model

import "time"

// RequestSignatureDocument records a signature the API accepted. It expires
// once the signed timestamp falls out of the accepted skew window, after
// which the request is rejected as stale anyway.
type RequestSignatureDocument struct {
	Signature string    `bson:"_id"`
	Signer    string    `bson:"signer"`
	Timestamp int64     `bson:"timestamp"`
	ExpiresAt time.Time `bson:"expires_at"`
}

func NewRequestSignatureDocument(signature, signer string, timestamp int64, window time.Duration) *RequestSignatureDocument {
	return &RequestSignatureDocument{
		Signature: signature,
		Signer:    signer,
		Timestamp: timestamp,
		ExpiresAt: time.Unix(timestamp, 0).Add(window).UTC(),
	}
}
