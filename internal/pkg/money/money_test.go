//go:build unit

package money_test

import (
	"testing"

	"lunchrun/internal/pkg/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  money.Cents
		errIs error
	}{
		{name: "whole amount", input: "9", want: 900},
		{name: "one fractional digit", input: "9.5", want: 950},
		{name: "two fractional digits", input: "9.50", want: 950},
		{name: "zero", input: "0", want: 0},
		{name: "leading dot", input: ".50", want: 50},
		{name: "surrounding whitespace", input: " 12.30 ", want: 1230},
		{name: "empty", input: "", errIs: money.ErrInvalidAmount},
		{name: "negative", input: "-1.00", errIs: money.ErrNegativeAmount},
		{name: "three fractional digits", input: "9.505", errIs: money.ErrInvalidAmount},
		{name: "trailing dot", input: "9.", errIs: money.ErrInvalidAmount},
		{name: "not a number", input: "lunch", errIs: money.ErrInvalidAmount},
		{name: "signed fraction", input: "9.-5", errIs: money.ErrInvalidAmount},
		{name: "plus in fraction", input: "9.+5", errIs: money.ErrInvalidAmount},
		{name: "explicit plus sign", input: "+9.50", errIs: money.ErrInvalidAmount},
		{name: "inner whitespace", input: "9. 5", errIs: money.ErrInvalidAmount},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := money.Parse(tc.input)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "9.50", money.Cents(950).String())
	assert.Equal(t, "9.05", money.Cents(905).String())
	assert.Equal(t, "0.00", money.Cents(0).String())
}

func TestFromInt64(t *testing.T) {
	c, err := money.FromInt64(1200)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(1200), c)

	_, err = money.FromInt64(-1)
	assert.ErrorIs(t, err, money.ErrNegativeAmount)
}
