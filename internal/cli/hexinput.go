// Package cli contains utilities shared by the lemacd command tree.
package cli

import (
	"encoding/hex"
	"fmt"
)

// ParseBlock decodes a hex string into exactly 16 bytes, the size every
// LeMac/PetitMac key and nonce must be.
func ParseBlock(label, hexStr string) ([]byte, error) {
	data, err := hex.DecodeString(hexStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid hex: %w", label, err)
	}
	if len(data) != 16 {
		return nil, fmt.Errorf("%s: must decode to exactly 16 bytes, got %d", label, len(data))
	}

	return data, nil
}

// FormatTag renders a 16-byte tag as uppercase hex, the teacher's
// convention for printing cryptographic material to the terminal.
func FormatTag(tag []byte) string {
	return fmt.Sprintf("%X", tag)
}
