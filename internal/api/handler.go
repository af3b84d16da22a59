package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/skorlabs/skorstaking/internal/auth"
	"github.com/skorlabs/skorstaking/internal/db"
	"github.com/skorlabs/skorstaking/internal/types"
)

const jsonContentType = "application/json; charset=utf-8"

// handlerFunc is an http.HandlerFunc that reports failures by returning
// them; wrap renders the error response.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

type ErrorResponse struct {
	ErrorCode string `json:"errorCode"`
	Code      uint32 `json:"code,omitempty"`
	Message   string `json:"message"`
}

func wrap(f handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			status, body := errorResponse(err)
			if status >= http.StatusInternalServerError {
				log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
			} else {
				log.Ctx(r.Context()).Debug().Err(err).Str("path", r.URL.Path).Msg("request rejected")
			}
			writeJSON(w, status, body)
		}
	}
}

// errorResponse maps an error to the status and body the client receives.
// Internal errors never leak their message.
func errorResponse(err error) (int, *ErrorResponse) {
	var (
		stakingErr *types.StakingError
		apiErr     *types.Error
	)
	switch {
	case errors.As(err, &stakingErr):
		return stakingErr.HTTPStatus(), &ErrorResponse{
			ErrorCode: stakingErr.Name,
			Code:      stakingErr.Code,
			Message:   stakingErr.Msg,
		}
	case errors.As(err, &apiErr):
		status := apiErr.StatusCode
		msg := apiErr.Err.Error()
		if status >= http.StatusInternalServerError {
			msg = "internal service error"
		}
		return status, &ErrorResponse{ErrorCode: string(apiErr.ErrorCode), Message: msg}
	case db.IsNotFoundError(err):
		return http.StatusNotFound, &ErrorResponse{ErrorCode: string(types.NotFound), Message: err.Error()}
	case errors.Is(err, auth.ErrMissingSignature),
		errors.Is(err, auth.ErrInvalidSignature),
		errors.Is(err, auth.ErrStaleRequest),
		errors.Is(err, auth.ErrReplayedRequest):
		return http.StatusUnauthorized, &ErrorResponse{ErrorCode: string(types.Unauthenticated), Message: err.Error()}
	case errors.Is(err, auth.ErrRequestTooLarge):
		return http.StatusRequestEntityTooLarge, &ErrorResponse{ErrorCode: string(types.BadRequest), Message: err.Error()}
	default:
		return http.StatusInternalServerError, &ErrorResponse{
			ErrorCode: string(types.InternalServiceError),
			Message:   "internal service error",
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", jsonContentType)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

// parseJSON decodes the request body strictly. An empty body leaves v
// untouched when allowEmpty is set.
func parseJSON(r *http.Request, v any, allowEmpty bool) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(v)
	if errors.Is(err, io.EOF) && allowEmpty {
		return nil
	}
	if err != nil {
		var stakingErr *types.StakingError
		if errors.As(err, &stakingErr) {
			return stakingErr
		}
		return types.NewValidationFailedError(err)
	}
	return nil
}

// signer returns the authenticated caller. Only reachable behind the auth
// middleware.
func signer(r *http.Request) (types.Pubkey, error) {
	pk, ok := auth.SignerFromContext(r.Context())
	if !ok {
		return types.ZeroPubkey, auth.ErrMissingSignature
	}
	return pk, nil
}
