package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTokenAmount(t *testing.T) {
	cases := map[string]uint64{
		"1":          1_000_000,
		"12.5":       12_500_000,
		"0.000001":   1,
		"100000":     100_000_000_000,
		"300000.000": 300_000_000_000,
	}
	for in, want := range cases {
		got, err := parseTokenAmount(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "abc", "0", "-5", "0.0000001", "99999999999999999999"} {
		_, err := parseTokenAmount(in)
		assert.Error(t, err, in)
	}
}
