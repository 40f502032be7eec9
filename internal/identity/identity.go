// Package identity derives short stable pseudonymous hashes from sender addresses.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const hashLength = 8

// Hash returns an uppercase hex digest prefix identifying a sender.
// The same address always yields the same hash; the address cannot be
// recovered from it.
func Hash(address string) string {
	sum := sha256.Sum256([]byte(address))
	return strings.ToUpper(hex.EncodeToString(sum[:]))[:hashLength]
}
