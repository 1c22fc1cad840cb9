package currencyutils

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripAmount(t *testing.T) {
	tests := map[string]string{
		"$1,234.56":   "1234.56",
		"-12.50 USD":  "-12.50",
		"\"1 000.00\"": "1000.00",
		"CHF 1'234.5": "1234.5",
		"1.234,56":    "1.23456",
		"N/A":         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, StripAmount(in), in)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		noDigit bool
		wantErr bool
	}{
		{raw: "$1,234.56", want: "1234.56"},
		{raw: "-5.75", want: "-5.75"},
		{raw: "1000", want: "1000"},
		{raw: "€ -250.00", want: "-250"},
		{raw: "abc", noDigit: true, wantErr: true},
		{raw: "-", noDigit: true, wantErr: true},
		{raw: "", noDigit: true, wantErr: true},
		{raw: "1-2", wantErr: true},
		{raw: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.noDigit, errors.Is(err, ErrNoDigits))
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1234.50", FormatAmount(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "-0.10", FormatAmount(decimal.RequireFromString("-0.1")))
}
