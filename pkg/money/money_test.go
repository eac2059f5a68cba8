package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "integer", input: "150000", want: "150000"},
		{name: "fractional", input: "150000.50", want: "150000.5"},
		{name: "negative", input: "-2500", want: "-2500"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "12,000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestWithinEpsilon(t *testing.T) {
	a := FromFloat(1150000.005)
	b := FromInt(1150000)
	assert.True(t, WithinEpsilon(a, b))

	c := FromFloat(1150000.02)
	assert.False(t, WithinEpsilon(c, b))
}

func TestNegligible(t *testing.T) {
	assert.True(t, Negligible(FromFloat(0.005)))
	assert.True(t, Negligible(FromFloat(-0.01)))
	assert.False(t, Negligible(FromFloat(0.011)))
}

func TestArithmetic(t *testing.T) {
	a := FromInt(100000)
	b := FromInt(52000)

	assert.Equal(t, "48000", a.Sub(b).String())
	assert.Equal(t, "152000", a.Add(b).String())
	assert.True(t, a.Sub(a).Sub(Zero).Decimal.IsZero())
	assert.Equal(t, "-52000", b.Neg().String())
}
