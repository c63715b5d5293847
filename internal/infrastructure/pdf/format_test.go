package pdf

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatQuantity(t *testing.T) {
	cases := map[string]string{
		"10":       "10",
		"1234.5":   "1.234,5",
		"1000000":  "1.000.000",
		"0.123456": "0,1235",
		"-2500.25": "-2.500,25",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatQuantity(decimal.RequireFromString(in)), in)
	}
}
