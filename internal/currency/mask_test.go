package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMasked(t *testing.T) {
	cases := []struct {
		input string
		want  float64
	}{
		{"1234", 12.34},
		{"12,34", 12.34},
		{"R$ 12,34", 12.34},
		{"1", 0.01},
		{"05", 0.05},
		{"100", 1.00},
		{"", 0},
		{"abc", 0},
		{"R$ ", 0},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseMasked(tc.input), "input %q", tc.input)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "12,34", Format(12.34))
	assert.Equal(t, "0,05", Format(0.05))
	assert.Equal(t, "1,00", Format(1))
	assert.Equal(t, "0,00", Format(0))
	assert.Equal(t, "-3,50", Format(-3.5))
}

// O ciclo digitação → valor → exibição preserva os centavos.
func TestMaskRoundTrip(t *testing.T) {
	value := ParseMasked("1234")
	assert.Equal(t, 12.34, value)
	assert.Equal(t, "12,34", Format(value))
}
