// Package signature provides the content addressing used by the blockchain.
// Every value is hashed over its canonical JSON encoding so any client that
// receives a block over the API can recompute the same digest.
package signature

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// HashLength is the number of hex characters in a digest.
const HashLength = 2 * sha256.Size

// Hash returns the hex encoded SHA-256 digest of the canonical encoding of
// the value. The encoding is the JSON representation where struct fields are
// emitted in declaration order and map keys are sorted.
func Hash(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("encoding value: %w", err)
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

// HasLeadingZeros reports whether the hex digest begins with at least n
// consecutive '0' characters.
func HasLeadingZeros(hash string, n uint) bool {
	if uint(len(hash)) < n {
		return false
	}

	return strings.Count(hash[:n], "0") == int(n)
}
