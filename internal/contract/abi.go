package contract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ABIEntry is one ABI entry (function, event, etc.).
type ABIEntry struct {
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	Inputs          []ABIParam `json:"inputs"`
	Outputs         []ABIParam `json:"outputs"`
	StateMutability string     `json:"stateMutability"`
}

// ABIParam is a parameter in an ABI entry.
type ABIParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Function names on the mining contract.
const (
	fnUsers          = "users"
	fnPendingReward  = "getPendingMmt"
	fnActivateMining = "activateMining"
	fnClaimRewards   = "claimMiningRewards"
)

// miningEntries describes the mining contract. The users() outputs follow
// the layout so each contract version decodes by its own field list.
func miningEntries(l Layout) []ABIEntry {
	outputs := make([]ABIParam, len(l.Fields))
	for i, f := range l.Fields {
		outputs[i] = ABIParam{Name: f.Name, Type: f.Type}
	}
	return []ABIEntry{
		{
			Name: fnUsers, Type: "function",
			Inputs:          []ABIParam{{Name: "", Type: "address"}},
			Outputs:         outputs,
			StateMutability: "view",
		},
		{
			Name: fnPendingReward, Type: "function",
			Inputs:          []ABIParam{{Name: "_user", Type: "address"}},
			Outputs:         []ABIParam{{Name: "", Type: "uint256"}},
			StateMutability: "view",
		},
		{
			Name: fnActivateMining, Type: "function",
			Inputs:          []ABIParam{{Name: "_referrer", Type: "address"}},
			StateMutability: "payable",
		},
		{
			Name: fnClaimRewards, Type: "function",
			StateMutability: "nonpayable",
		},
	}
}

// erc20Entries is the read-only slice of EIP-20 the dashboard needs.
//
//	symbol()            → 0x95d89b41
//	decimals()          → 0x313ce567
//	balanceOf(address)  → 0x70a08231
var erc20Entries = []ABIEntry{
	{
		Name: "symbol", Type: "function",
		Outputs:         []ABIParam{{Name: "", Type: "string"}},
		StateMutability: "view",
	},
	{
		Name: "decimals", Type: "function",
		Outputs:         []ABIParam{{Name: "", Type: "uint8"}},
		StateMutability: "view",
	},
	{
		Name: "balanceOf", Type: "function",
		Inputs:          []ABIParam{{Name: "account", Type: "address"}},
		Outputs:         []ABIParam{{Name: "", Type: "uint256"}},
		StateMutability: "view",
	},
}

// buildABI turns entries into a go-ethereum ABI.
func buildABI(entries []ABIEntry) (abi.ABI, error) {
	entries = append([]ABIEntry(nil), entries...)
	for i := range entries {
		if entries[i].Inputs == nil {
			entries[i].Inputs = []ABIParam{}
		}
		if entries[i].Outputs == nil {
			entries[i].Outputs = []ABIParam{}
		}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return abi.ABI{}, err
	}
	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parsing ABI: %w", err)
	}
	return parsed, nil
}

// MiningABI returns the mining contract ABI for a layout version.
func MiningABI(version string) (abi.ABI, error) {
	l, err := LayoutFor(version)
	if err != nil {
		return abi.ABI{}, err
	}
	return buildABI(miningEntries(l))
}

// MiningABIJSON renders the ABI for a layout version, for `deployments abi`
// style inspection and tests.
func MiningABIJSON(version string) ([]byte, error) {
	l, err := LayoutFor(version)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(miningEntries(l), "", "  ")
}
