package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatchID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"canonical", "SFR100", "SFR100"},
		{"lower case", "sfr100", "SFR100"},
		{"embedded spaces", "SFR 123 456", "SFR123456"},
		{"prefix inside text", "Sefer: SFR2024001 iptal", "SFR2024001"},
		{"bare long number", "12345678", "SFR12345678"},
		{"bare number with spaces", "1234 5678", "SFR12345678"},
		{"short number", "1234567", "1234567"},
		{"first token", "ABC123 ek bilgi", "ABC123"},
		{"prefix without digits", "SFR YOK", "SFR"},
		{"nbsp", "SFR\u00a0100", "SFR100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DispatchID(tt.in))
		})
	}
}

func TestDispatcher_CustomPrefix(t *testing.T) {
	t.Parallel()

	d := NewDispatcher("trp")
	assert.Equal(t, "TRP", d.Prefix())
	assert.Equal(t, "TRP42", d.Normalize("trp 42"))
	assert.Equal(t, "TRP87654321", d.Normalize("87654321"))
	assert.True(t, d.IsFulfillment("TRP42"))
	assert.False(t, d.IsFulfillment("SFR42"))
	assert.False(t, d.IsFulfillment(""))
}

func TestDispatcher_EmptyPrefixFallsBack(t *testing.T) {
	t.Parallel()
	assert.Equal(t, DefaultDispatchPrefix, NewDispatcher("").Prefix())
}

func TestDispatchID_Idempotent(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"sfr 1 2 3", "12345678", "abc def", "SFR100"} {
		once := DispatchID(in)
		assert.Equal(t, once, DispatchID(once), "input %q", in)
	}
}

func TestHasAnyPrefix(t *testing.T) {
	t.Parallel()
	assert.True(t, HasAnyPrefix("YOK-1", []string{"-", "yok"}))
	assert.False(t, HasAnyPrefix("VP1", []string{"-", "YOK"}))
	assert.False(t, HasAnyPrefix("VP1", []string{""}))
}

func TestRequestID(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "VP1", RequestID(" vp1 "))
}
