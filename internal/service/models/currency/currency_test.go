package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		in      string
		want    Currency
		wantErr bool
	}{
		{in: "INR", want: CurrencyINR},
		{in: "", want: CurrencyINR},
		{in: "USD", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.in, func(t *testing.T) {
			got, err := ParseCurrency(testCase.in)
			if testCase.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCurrency)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestCurrency_Format(t *testing.T) {
	assert.Equal(t, "₹724.50", CurrencyINR.Format(decimal.RequireFromString("724.5")))
	assert.Equal(t, "₹15.00", CurrencyINR.Format(decimal.NewFromInt(15)))
	assert.Equal(t, "USD 3.10", Currency("USD").Format(decimal.RequireFromString("3.1")))
}
