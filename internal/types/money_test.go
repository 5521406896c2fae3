package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCLP(t *testing.T) {
	testCases := []struct {
		amount   string
		expected string
	}{
		{"0", "$ 0"},
		{"42", "$ 42"},
		{"380", "$ 380"},
		{"1000", "$ 1.000"},
		{"55380", "$ 55.380"},
		{"47380", "$ 47.380"},
		{"1234567", "$ 1.234.567"},
		{"39486.38", "$ 39.486"},
		{"-1500", "$ -1.500"},
	}

	for _, tc := range testCases {
		t.Run(tc.amount, func(t *testing.T) {
			got := FormatCLP(decimal.RequireFromString(tc.amount))
			assert.Equal(t, tc.expected, got)
		})
	}
}
