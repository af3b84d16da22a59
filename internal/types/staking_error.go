package types

import (
	"errors"
	"net/http"
)

// StakingError is one of the fixed rejection reasons of the staking engine.
// Values are comparable with errors.Is and keep the codes of the deployed
// program so clients can match on either.
type StakingError struct {
	Code uint32
	Name string
	Msg  string
}

func (e *StakingError) Error() string {
	return e.Msg
}

func (e *StakingError) Is(target error) bool {
	t, ok := target.(*StakingError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrStakingPaused            = &StakingError{6000, "StakingPaused", "Staking is paused"}
	ErrUnauthorizedToken        = &StakingError{6001, "UnauthorizedToken", "Unauthorized token"}
	ErrBelowMinimum             = &StakingError{6002, "BelowMinimum", "Stake below minimum"}
	ErrOverflow                 = &StakingError{6003, "Overflow", "Overflow error"}
	ErrInvalidDuration          = &StakingError{6004, "InvalidDuration", "Invalid duration"}
	ErrAlreadyClaimed           = &StakingError{6005, "AlreadyClaimed", "Already claimed"}
	ErrStillLocked              = &StakingError{6006, "StillLocked", "Still locked"}
	ErrUnauthorized             = &StakingError{6007, "Unauthorized", "Unauthorized action"}
	ErrInvalidVaultOwner        = &StakingError{6008, "InvalidVaultOwner", "Invalid vault owner"}
	ErrMonthlyCapReached        = &StakingError{6009, "MonthlyCapReached", "Monthly cap reached, Try After some Time"}
	ErrInsufficientTokenBalance = &StakingError{6010, "InsufficientTokenBalance", "Insufficient User Token Balance"}
	ErrInsufficientRewards      = &StakingError{6011, "InsufficientRewards", "Insufficient reward pool"}
	ErrInvalidMint              = &StakingError{6012, "InvalidMint", "Invalid mint account"}
	ErrAlreadyInitialized       = &StakingError{6013, "AlreadyInitialized", "Program has Already Initialized"}
	ErrInvalidDecimals          = &StakingError{6014, "InvalidDecimals", "Program only supports 6 decimals"}
)

var stakingErrors = []*StakingError{
	ErrStakingPaused,
	ErrUnauthorizedToken,
	ErrBelowMinimum,
	ErrOverflow,
	ErrInvalidDuration,
	ErrAlreadyClaimed,
	ErrStillLocked,
	ErrUnauthorized,
	ErrInvalidVaultOwner,
	ErrMonthlyCapReached,
	ErrInsufficientTokenBalance,
	ErrInsufficientRewards,
	ErrInvalidMint,
	ErrAlreadyInitialized,
	ErrInvalidDecimals,
}

// StakingErrors returns every staking error in code order.
func StakingErrors() []*StakingError {
	out := make([]*StakingError, len(stakingErrors))
	copy(out, stakingErrors)
	return out
}

// AsStakingError extracts the staking error from a wrapped chain.
func AsStakingError(err error) (*StakingError, bool) {
	var se *StakingError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// HTTPStatus maps the rejection to the status the API answers with.
func (e *StakingError) HTTPStatus() int {
	switch e.Code {
	case ErrUnauthorized.Code:
		return http.StatusForbidden
	case ErrOverflow.Code:
		return http.StatusUnprocessableEntity
	case ErrAlreadyClaimed.Code, ErrAlreadyInitialized.Code, ErrStillLocked.Code,
		ErrMonthlyCapReached.Code, ErrStakingPaused.Code, ErrInsufficientRewards.Code:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
