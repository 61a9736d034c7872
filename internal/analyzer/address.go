package analyzer

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// ValidateAddress checks that addr is a plausible Solana wallet: base58 text
// decoding to 32 bytes that parse as an ed25519 curve point. Program-derived
// addresses are deliberately rejected; they are not user wallets.
func ValidateAddress(addr string) error {
	if len(addr) < 32 || len(addr) > 44 {
		return fmt.Errorf("%w: length %d", ErrInvalidAddress, len(addr))
	}

	raw, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(raw) != 32 {
		return fmt.Errorf("%w: decodes to %d bytes", ErrInvalidAddress, len(raw))
	}

	if _, err := new(edwards25519.Point).SetBytes(raw); err != nil {
		return fmt.Errorf("%w: not on the ed25519 curve", ErrInvalidAddress)
	}
	return nil
}
