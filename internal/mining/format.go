package mining

import (
	"math/big"

	"github.com/Mohsinsiddi/minedash/internal/chain"
)

const (
	rewardPlaces = 6
	l1Places     = 3

	// unknownReward is shown before the pending reward first resolves.
	unknownReward = "0.00"
)

// CanClaim reports whether a claim may be submitted: the pending reward must
// be known and positive.
func CanClaim(pending *big.Int) bool {
	return pending != nil && pending.Sign() > 0
}

// FormatReward renders an 18-decimal reward with six fractional digits.
func FormatReward(pending *big.Int) string {
	if pending == nil {
		return unknownReward
	}
	return chain.FormatEther(pending, rewardPlaces)
}

// EstimateL1 returns direct × perReferral in wei.
func EstimateL1(direct, perReferral *big.Int) *big.Int {
	if direct == nil || perReferral == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(direct, perReferral)
}

// FormatL1 renders the L1 estimate with three fractional digits.
func FormatL1(direct, perReferral *big.Int) string {
	return chain.FormatEther(EstimateL1(direct, perReferral), l1Places)
}

// FormatCount renders an on-chain counter; nil reads as zero.
func FormatCount(n *big.Int) string {
	if n == nil {
		return "0"
	}
	return n.String()
}
