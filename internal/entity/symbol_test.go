package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeSymbol(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		suffix string
		want   Symbol
	}{
		{"appends default suffix", "reliance", "", "RELIANCE.NS"},
		{"trims and uppercases", "  tcs \t", ".NS", "TCS.NS"},
		{"keeps existing exchange", "infy.bo", ".NS", "INFY.BO"},
		{"keeps dotted us ticker", " brk.b ", ".NS", "BRK.B"},
		{"custom suffix without dot", "aapl", "us", "AAPL.US"},
		{"lower case suffix", "hdfcbank", ".ns", "HDFCBANK.NS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalizeSymbol(tt.raw, tt.suffix)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalizeSymbol_Empty(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		got, err := CanonicalizeSymbol(raw, ".NS")
		require.Error(t, err)
		assert.True(t, IsValidation(err))
		assert.True(t, got.IsZero())
	}
}

func TestSymbol_Parts(t *testing.T) {
	s := Symbol("BRK.B.NS")
	assert.Equal(t, "BRK.B", s.Ticker())
	assert.Equal(t, ".NS", s.Exchange())

	assert.Equal(t, "ABC", Symbol("ABC").Ticker())
	assert.Equal(t, "", Symbol("ABC").Exchange())
}
