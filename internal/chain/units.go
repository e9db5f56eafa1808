package chain

import (
	"errors"
	"math/big"
	"strings"
)

// ErrInvalidAmount is returned when a decimal amount cannot be parsed.
var ErrInvalidAmount = errors.New("invalid amount")

// ParseUnits converts a decimal string such as "0.01" into an integer amount
// scaled by 10^decimals. Fractional digits beyond decimals are rejected.
func ParseUnits(s string, decimals int) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") {
		return nil, ErrInvalidAmount
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, ErrInvalidAmount
	}
	r.Mul(r, new(big.Rat).SetInt(pow10(decimals)))
	if !r.IsInt() {
		return nil, ErrInvalidAmount
	}
	return new(big.Int).Set(r.Num()), nil
}

// ParseEther converts a decimal ether amount to wei.
func ParseEther(s string) (*big.Int, error) { return ParseUnits(s, 18) }

// MustParseEther is ParseEther for constants known to be valid.
func MustParseEther(s string) *big.Int {
	v, err := ParseEther(s)
	if err != nil {
		panic(err)
	}
	return v
}

// FormatUnits renders amount/10^decimals with exactly places fractional
// digits, rounding half away from zero. A nil amount formats as zero.
func FormatUnits(amount *big.Int, decimals, places int) string {
	if amount == nil {
		amount = new(big.Int)
	}
	r := new(big.Rat).SetFrac(amount, pow10(decimals))
	return r.FloatString(places)
}

// FormatEther renders wei as ether with places fractional digits.
func FormatEther(wei *big.Int, places int) string { return FormatUnits(wei, 18, places) }

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
