// Package mining holds the pure rules of the mining dashboard: referrer
// validation, reward estimates and the display formats for both.
package mining

import (
	"errors"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInvalidReferrer is returned for a non-empty referrer that is not a
// well-formed address.
var ErrInvalidReferrer = errors.New("invalid referrer address")

var addressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ValidateReferrer turns the raw referrer input into an address. Blank input
// means "no referrer" and yields the zero address. Anything else must be 0x
// followed by 40 hex digits; input that is not all lower case must also
// carry a valid EIP-55 checksum.
func ValidateReferrer(raw string) (common.Address, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return common.Address{}, nil
	}
	if !IsAddress(s) {
		return common.Address{}, ErrInvalidReferrer
	}
	return common.HexToAddress(s), nil
}

// IsAddress reports whether s is a strictly valid hex address.
func IsAddress(s string) bool {
	if !addressRe.MatchString(s) {
		return false
	}
	if strings.ToLower(s) == s {
		return true
	}
	return common.HexToAddress(s).Hex() == s
}
