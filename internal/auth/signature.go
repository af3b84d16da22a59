package auth

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/google/uuid"

	"github.com/skorlabs/skorstaking/internal/clock"
	"github.com/skorlabs/skorstaking/internal/db"
	"github.com/skorlabs/skorstaking/internal/db/model"
	"github.com/skorlabs/skorstaking/internal/types"
)

const (
	SignerHeader    = "X-Skor-Signer"
	SignatureHeader = "X-Skor-Signature"
	TimestampHeader = "X-Skor-Timestamp"
	NonceHeader     = "X-Skor-Nonce"

	DefaultMaxSkew      = 5 * time.Minute
	DefaultMaxBodyBytes = int64(1 << 20)

	maxNonceLength = 64
)

var (
	ErrMissingSignature = errors.New("missing request signature headers")
	ErrInvalidSignature = errors.New("invalid request signature")
	ErrStaleRequest     = errors.New("request timestamp outside the accepted window")
	ErrReplayedRequest  = errors.New("request signature already used")
	ErrRequestTooLarge  = errors.New("request body too large")
)

// SigningPayload is the message a caller signs:
// METHOD \n PATH \n TIMESTAMP \n NONCE \n hex(sha256(body)).
func SigningPayload(method, path string, timestamp int64, nonce string, body []byte) []byte {
	sum := sha256.Sum256(body)
	return []byte(fmt.Sprintf(
		"%s\n%s\n%d\n%s\n%s", method, path, timestamp, nonce, hex.EncodeToString(sum[:]),
	))
}

// SignRequest sets the signature headers on req for the given body under a
// fresh nonce, so two identical requests never share a signature.
func (k *Keypair) SignRequest(req *http.Request, body []byte, timestamp int64) {
	nonce := uuid.NewString()
	sig := k.Sign(SigningPayload(req.Method, req.URL.Path, timestamp, nonce, body))
	req.Header.Set(SignerHeader, k.Pubkey().String())
	req.Header.Set(SignatureHeader, base58.Encode(sig))
	req.Header.Set(TimestampHeader, strconv.FormatInt(timestamp, 10))
	req.Header.Set(NonceHeader, nonce)
}

// SignatureLedger remembers accepted signatures until their window closes.
type SignatureLedger interface {
	// SaveRequestSignature fails with a db.DuplicateKeyError for a signature
	// it already holds.
	SaveRequestSignature(ctx context.Context, doc *model.RequestSignatureDocument) error
}

type Verifier struct {
	clock   clock.Clock
	seen    SignatureLedger
	maxSkew int64
	maxBody int64
}

func NewVerifier(c clock.Clock, seen SignatureLedger, maxSkew time.Duration, maxBody int64) *Verifier {
	if maxSkew <= 0 {
		maxSkew = DefaultMaxSkew
	}
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &Verifier{
		clock:   c,
		seen:    seen,
		maxSkew: int64(maxSkew / time.Second),
		maxBody: maxBody,
	}
}

// Verify authenticates req and returns the signer. The body is read and
// put back so handlers can decode it afterwards. A signature is accepted
// once; the same request sent again is rejected with ErrReplayedRequest.
func (v *Verifier) Verify(req *http.Request) (types.Pubkey, error) {
	signer := req.Header.Get(SignerHeader)
	sig := req.Header.Get(SignatureHeader)
	ts := req.Header.Get(TimestampHeader)
	nonce := req.Header.Get(NonceHeader)
	if signer == "" || sig == "" || ts == "" || nonce == "" {
		return types.ZeroPubkey, ErrMissingSignature
	}
	if len(nonce) > maxNonceLength {
		return types.ZeroPubkey, fmt.Errorf("%w: nonce longer than %d bytes", ErrInvalidSignature, maxNonceLength)
	}
	pk, err := types.ParsePubkey(signer)
	if err != nil {
		return types.ZeroPubkey, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	timestamp, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return types.ZeroPubkey, fmt.Errorf("%w: bad timestamp", ErrInvalidSignature)
	}
	if skew := v.clock.Now() - timestamp; skew > v.maxSkew || skew < -v.maxSkew {
		return types.ZeroPubkey, ErrStaleRequest
	}

	body, err := v.readBody(req)
	if err != nil {
		return types.ZeroPubkey, err
	}

	rawSig := base58.Decode(sig)
	if len(rawSig) != ed25519.SignatureSize {
		return types.ZeroPubkey, ErrInvalidSignature
	}
	if !ed25519.Verify(pk[:], SigningPayload(req.Method, req.URL.Path, timestamp, nonce, body), rawSig) {
		return types.ZeroPubkey, ErrInvalidSignature
	}

	// a signature stays valid until timestamp+maxSkew, keep it that long
	window := time.Duration(v.maxSkew) * time.Second
	doc := model.NewRequestSignatureDocument(base58.Encode(rawSig), pk.String(), timestamp, window)
	if err := v.seen.SaveRequestSignature(req.Context(), doc); err != nil {
		if db.IsDuplicateKeyError(err) {
			return types.ZeroPubkey, ErrReplayedRequest
		}
		return types.ZeroPubkey, fmt.Errorf("failed to record request signature: %w", err)
	}
	return pk, nil
}

// readBody reads at most maxBody bytes of the body and puts them back.
func (v *Verifier) readBody(req *http.Request) ([]byte, error) {
	if req.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(req.Body, v.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if int64(len(body)) > v.maxBody {
		return nil, ErrRequestTooLarge
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

type signerKey struct{}

func WithSigner(ctx context.Context, signer types.Pubkey) context.Context {
	return context.WithValue(ctx, signerKey{}, signer)
}

func SignerFromContext(ctx context.Context) (types.Pubkey, bool) {
	pk, ok := ctx.Value(signerKey{}).(types.Pubkey)
	return pk, ok
}
