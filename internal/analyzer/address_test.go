package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAddress(t *testing.T) {
	// The system program ID decodes to 32 zero bytes, which is a canonical
	// curve point encoding.
	assert.NoError(t, ValidateAddress("11111111111111111111111111111111"))
}

func TestValidateAddressRejects(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"too short":      "abc123",
		"bad characters": "0OIl!!!!0OIl!!!!0OIl!!!!0OIl!!!!0OIl",
		"wrong length":   "22222222222222222222222222222222", // decodes under 32 bytes
		"too long":       "111111111111111111111111111111111111111111111",
	}

	for name, addr := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateAddress(addr), ErrInvalidAddress)
		})
	}
}
