package contract

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ErrUnknownLayout is returned for a layout version that is not registered.
var ErrUnknownLayout = errors.New("unknown user layout")

// Field names of the users() struct.
const (
	FieldIsActivated       = "isActivated"
	FieldReferrer          = "referrer"
	FieldDirectReferrals   = "directReferrals"
	FieldIndirectReferrals = "indirectReferrals"
	FieldMiningPower       = "miningPower"
	FieldRewardDebt        = "rewardDebt"
)

// Field is one slot of the users() struct.
type Field struct {
	Name string
	Type string
}

// Layout is the users() struct shape of one contract version. Versions are
// independent: a record is only ever decoded with the layout of the
// deployment it came from.
type Layout struct {
	Version string
	Fields  []Field
}

var layouts = map[string]Layout{
	"v1": {
		Version: "v1",
		Fields: []Field{
			{FieldIsActivated, "bool"},
			{FieldReferrer, "address"},
			{FieldDirectReferrals, "uint256"},
			{FieldMiningPower, "uint256"},
			{FieldRewardDebt, "uint256"},
		},
	},
	"v2": {
		Version: "v2",
		Fields: []Field{
			{FieldIsActivated, "bool"},
			{FieldReferrer, "address"},
			{FieldDirectReferrals, "uint256"},
			{FieldIndirectReferrals, "uint256"},
			{FieldMiningPower, "uint256"},
			{FieldRewardDebt, "uint256"},
		},
	},
}

// LayoutFor returns the registered layout for version.
func LayoutFor(version string) (Layout, error) {
	l, ok := layouts[version]
	if !ok {
		return Layout{}, fmt.Errorf("%w: %q", ErrUnknownLayout, version)
	}
	return l, nil
}

// LayoutVersions lists the registered versions.
func LayoutVersions() []string {
	out := make([]string, 0, len(layouts))
	for v := range layouts {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Has reports whether the layout carries the named field.
func (l Layout) Has(name string) bool {
	for _, f := range l.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// UserRecord mirrors the contract's users() entry. Fields the layout does
// not carry stay zero.
type UserRecord struct {
	IsActivated       bool
	Referrer          common.Address
	DirectReferrals   *big.Int
	IndirectReferrals *big.Int
	MiningPower       *big.Int
	RewardDebt        *big.Int
}

// HasReferrer reports whether a non-zero referrer is recorded.
func (u UserRecord) HasReferrer() bool {
	return u.Referrer != (common.Address{})
}

// decodeUser maps unpacked users() outputs onto a record by field name.
func decodeUser(args abi.Arguments, values []interface{}) (UserRecord, error) {
	u := UserRecord{
		DirectReferrals:   new(big.Int),
		IndirectReferrals: new(big.Int),
		MiningPower:       new(big.Int),
		RewardDebt:        new(big.Int),
	}
	if len(values) != len(args) {
		return u, fmt.Errorf("users(): got %d values, layout has %d", len(values), len(args))
	}
	for i, arg := range args {
		v := values[i]
		var ok bool
		switch arg.Name {
		case FieldIsActivated:
			u.IsActivated, ok = v.(bool)
		case FieldReferrer:
			u.Referrer, ok = v.(common.Address)
		case FieldDirectReferrals:
			u.DirectReferrals, ok = v.(*big.Int)
		case FieldIndirectReferrals:
			u.IndirectReferrals, ok = v.(*big.Int)
		case FieldMiningPower:
			u.MiningPower, ok = v.(*big.Int)
		case FieldRewardDebt:
			u.RewardDebt, ok = v.(*big.Int)
		default:
			ok = true // unknown extra fields are ignored
		}
		if !ok {
			return u, fmt.Errorf("users(): field %s has type %T", arg.Name, v)
		}
	}
	return u, nil
}
