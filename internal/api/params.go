package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/skorlabs/skorstaking/internal/types"
)

func pubkeyParam(r *http.Request, name string) (types.Pubkey, error) {
	pk, err := types.ParsePubkey(chi.URLParam(r, name))
	if err != nil {
		return types.ZeroPubkey, types.NewValidationFailedError(fmt.Errorf("%s: %w", name, err))
	}
	return pk, nil
}

func uintParam(r *http.Request, name string) (uint64, error) {
	v, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, types.NewValidationFailedError(fmt.Errorf("invalid %s", name))
	}
	return v, nil
}

// uintQuery returns def when the query parameter is absent.
func uintQuery(r *http.Request, name string, def uint64) (uint64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, types.NewValidationFailedError(fmt.Errorf("invalid %s query parameter", name))
	}
	return v, nil
}
