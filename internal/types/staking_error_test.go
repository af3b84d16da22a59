package types

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStakingErrorsAreClosedAndOrdered(t *testing.T) {
	all := StakingErrors()
	require.Len(t, all, 15)
	for i, e := range all {
		assert.Equal(t, uint32(6000+i), e.Code, e.Name)
		assert.NotEmpty(t, e.Msg)
	}
}

func TestStakingErrorMatching(t *testing.T) {
	wrapped := fmt.Errorf("claim failed: %w", ErrStillLocked)
	assert.ErrorIs(t, wrapped, ErrStillLocked)
	assert.NotErrorIs(t, wrapped, ErrAlreadyClaimed)

	se, ok := AsStakingError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "StillLocked", se.Name)
	assert.Equal(t, http.StatusConflict, se.HTTPStatus())

	_, ok = AsStakingError(fmt.Errorf("plain"))
	assert.False(t, ok)

	assert.Equal(t, http.StatusForbidden, ErrUnauthorized.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, ErrBelowMinimum.HTTPStatus())
}
