package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skorlabs/skorstaking/internal/clock"
	"github.com/skorlabs/skorstaking/internal/db/memdb"
)

func TestKeypairRoundTrip(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, kp.Save(path))

	loaded, err := LoadKeypair(path)
	require.NoError(t, err)
	assert.Equal(t, kp.Pubkey(), loaded.Pubkey())
}

func TestParseKeypairRejectsMismatchedPublicKey(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)
	data, err := kp.MarshalJSON()
	require.NoError(t, err)

	other, err := GenerateKeypair()
	require.NoError(t, err)
	otherData, err := other.MarshalJSON()
	require.NoError(t, err)

	// splice the other key's public half onto our seed
	var a, b []int
	require.NoError(t, json.Unmarshal(data, &a))
	require.NoError(t, json.Unmarshal(otherData, &b))
	copy(a[32:], b[32:])
	spliced, err := json.Marshal(a)
	require.NoError(t, err)

	_, err = ParseKeypair(spliced)
	assert.Error(t, err)

	_, err = ParseKeypair([]byte("[1,2,3]"))
	assert.Error(t, err)
}

func TestLoadKeypairMissingFile(t *testing.T) {
	_, err := LoadKeypair(filepath.Join(os.TempDir(), "does-not-exist.json"))
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)
	clk := clock.NewManual(1_700_000_000)
	v := NewVerifier(clk, memdb.New(), 0, 0)

	body := []byte(`{"paused":true}`)
	req := httptest.NewRequest("POST", "/v1/admin/pause", bytes.NewReader(body))
	kp.SignRequest(req, body, clk.Now())

	signer, err := v.Verify(req)
	require.NoError(t, err)
	assert.Equal(t, kp.Pubkey(), signer)

	// body is still readable by the handler
	rest, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, body, rest)
}

func TestVerifyRejects(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)
	clk := clock.NewManual(1_700_000_000)
	v := NewVerifier(clk, memdb.New(), DefaultMaxSkew, 64)
	body := []byte(`{"monthlyCap":10}`)

	t.Run("unsigned", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/admin/monthly-cap", bytes.NewReader(body))
		_, err := v.Verify(req)
		assert.ErrorIs(t, err, ErrMissingSignature)
	})

	t.Run("tampered body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/admin/monthly-cap", bytes.NewReader([]byte(`{"monthlyCap":99}`)))
		kp.SignRequest(req, body, clk.Now())
		_, err := v.Verify(req)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("other path", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/admin/pause", bytes.NewReader(body))
		kp.SignRequest(req, body, clk.Now())
		req.URL.Path = "/v1/admin/monthly-cap"
		_, err := v.Verify(req)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("missing nonce", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/admin/monthly-cap", bytes.NewReader(body))
		kp.SignRequest(req, body, clk.Now())
		req.Header.Del(NonceHeader)
		_, err := v.Verify(req)
		assert.ErrorIs(t, err, ErrMissingSignature)
	})

	t.Run("other nonce", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/admin/monthly-cap", bytes.NewReader(body))
		kp.SignRequest(req, body, clk.Now())
		req.Header.Set(NonceHeader, "another")
		_, err := v.Verify(req)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("body over the limit", func(t *testing.T) {
		large := bytes.Repeat([]byte("x"), 65)
		req := httptest.NewRequest("POST", "/v1/admin/monthly-cap", bytes.NewReader(large))
		kp.SignRequest(req, large, clk.Now())
		_, err := v.Verify(req)
		assert.ErrorIs(t, err, ErrRequestTooLarge)
	})

	t.Run("stale", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/admin/monthly-cap", bytes.NewReader(body))
		kp.SignRequest(req, body, clk.Now()-int64(DefaultMaxSkew.Seconds())-1)
		_, err := v.Verify(req)
		assert.ErrorIs(t, err, ErrStaleRequest)
	})
}

func TestVerifyRejectsReplay(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)
	clk := clock.NewManual(1_700_000_000)
	v := NewVerifier(clk, memdb.New(), time.Minute, 0)
	body := []byte(`{"amount":100}`)

	signed := httptest.NewRequest("POST", "/v1/rewards/fund", bytes.NewReader(body))
	kp.SignRequest(signed, body, clk.Now())
	replay := func() error {
		req := httptest.NewRequest("POST", "/v1/rewards/fund", bytes.NewReader(body))
		req.Header = signed.Header.Clone()
		_, err := v.Verify(req)
		return err
	}

	require.NoError(t, replay())
	assert.ErrorIs(t, replay(), ErrReplayedRequest)

	// past the window it is stale before it is a replay
	clk.Advance(2 * time.Minute)
	assert.ErrorIs(t, replay(), ErrStaleRequest)

	// identical body, fresh nonce
	again := httptest.NewRequest("POST", "/v1/rewards/fund", bytes.NewReader(body))
	kp.SignRequest(again, body, clk.Now())
	_, err = v.Verify(again)
	require.NoError(t, err)
	assert.NotEqual(t, signed.Header.Get(SignatureHeader), again.Header.Get(SignatureHeader))
}
