package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"blank", "   ", ""},
		{"trim and collapse", "  pepsi   ftl  ", "PEPSİ FTL"},
		{"dotted i", "istanbul", "İSTANBUL"},
		{"dotless i", "ıspartakule", "ISPARTAKULE"},
		{"mixed turkish", "çorlu şişli ğüö", "ÇORLU ŞİŞLİ ĞÜÖ"},
		{"already upper", "TEKİRDAĞ", "TEKİRDAĞ"},
		{"nbsp", "pepsi\u00a0ftl", "PEPSİ FTL"},
		{"narrow nbsp", "a\u202fb", "A B"},
		{"zero width", "sfr\u200b100", "SFR100"},
		{"bom", "\ufeffvp1", "VP1"},
		{"tabs and newlines", "a\t\nb", "A B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func TestText_NotASCIIUpper(t *testing.T) {
	t.Parallel()
	// ASCII upper-casing would yield "PEPSI".
	assert.Equal(t, "PEPSİ", Text("pepsi"))
	assert.NotEqual(t, "PEPSI", Text("pepsi"))
}

func TestText_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"  pepsi ftl ",
		"ıiIİ",
		"straße",
		"a\u00a0\u200bb",
		"SFR 100 / 2024",
		"\tçorlu\n",
		"\u01c6 \ufb01 \u0149",
	}
	for _, in := range inputs {
		once := Text(in)
		assert.Equal(t, once, Text(once), "input %q", in)
	}
}

func TestText_SameKeyForCaseVariants(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Text("Çorlu"), Text("ÇORLU"))
	assert.Equal(t, Text(" tekirdağ"), Text("TEKİRDAĞ "))
	assert.NotEqual(t, Text("izmir"), Text("IZMIR"))
}
