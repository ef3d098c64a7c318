package currency

import (
	"fmt"
	"strconv"
	"strings"
)

// Máscara monetária do app: o usuário digita apenas dígitos e o
// valor cresce pelos centavos ("1234" → R$ 12,34).

// ParseMasked extrai os dígitos de um texto livre e devolve o
// valor em reais. Texto sem dígitos vale zero.
func ParseMasked(input string) float64 {
	var digits strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	if digits.Len() == 0 {
		return 0
	}

	cents, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		// mais de 18 dígitos não é um preço real
		return 0
	}

	return float64(cents) / 100
}

// Format produz a representação brasileira com vírgula ("12,34").
func Format(value float64) string {
	cents := int64(value*100 + 0.5)
	if value < 0 {
		cents = int64(value*100 - 0.5)
	}

	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	return fmt.Sprintf("%s%d,%02d", sign, cents/100, cents%100)
}
