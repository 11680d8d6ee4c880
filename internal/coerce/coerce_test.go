package coerce

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     any
		want   bool
		wantOK bool
	}{
		{"bool true", true, true, true},
		{"bool false", false, false, true},
		{"int one", 1, true, true},
		{"int zero", 0, false, true},
		{"float one", 1.0, true, true},
		{"string true", "true", true, true},
		{"string TRUE", "TRUE", true, true},
		{"string mixed case", " True ", true, true},
		{"string false", "False", false, true},
		{"string one", "1", true, true},
		{"string zero", "0", false, true},
		{"nil", nil, false, false},
		{"garbage", "evet", false, false},
		{"two", 2, false, false},
		{"empty", "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToBool(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestTruthy(t *testing.T) {
	t.Parallel()
	assert.True(t, Truthy("true"))
	assert.False(t, Truthy("yes"))
	assert.False(t, Truthy(nil))
}

func TestToNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     any
		want   float64
		wantOK bool
	}{
		{"int", 9, 9, true},
		{"float", 5.5, 5.5, true},
		{"string", "9", 9, true},
		{"padded string", " 12 ", 12, true},
		{"decimal comma", "2,5", 2.5, true},
		{"decimal dot", "2.5", 2.5, true},
		{"empty", "", 0, false},
		{"text", "abc", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToNumber(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestToInt(t *testing.T) {
	t.Parallel()

	n, ok := ToInt("9")
	assert.True(t, ok)
	assert.Equal(t, 9, n)

	n, ok = ToInt(float64(5))
	assert.True(t, ok)
	assert.Equal(t, 5, n)

	n, ok = ToInt("9.0")
	assert.True(t, ok)
	assert.Equal(t, 9, n)

	_, ok = ToInt("x")
	assert.False(t, ok)
}

func TestToInt_RejectsFractions(t *testing.T) {
	t.Parallel()

	for _, v := range []any{"9.7", "9,7", 8.5, math.NaN(), math.Inf(1)} {
		_, ok := ToInt(v)
		assert.False(t, ok, "%v", v)
	}
}

func TestToString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "abc", ToString("abc"))
	assert.Equal(t, "5", ToString(5))
}
