package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer signs EVM transactions for a signing wallet. The key is read from
// the keystore once, when the signer is created.
type Signer struct {
	name    string
	address common.Address
	key     *ecdsa.PrivateKey
}

// NewSigner loads the wallet's key from ks.
func NewSigner(w *Wallet, ks KeystoreBackend) (*Signer, error) {
	if !w.CanSign() {
		return nil, fmt.Errorf("%w: %s", ErrWatchOnly, w.Name)
	}

	hexKey, err := ks.Retrieve(w.KeyRef)
	if err != nil {
		return nil, fmt.Errorf("retrieving key: %w", err)
	}

	key, err := crypto.HexToECDSA(normaliseHexKey(hexKey))
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	addr := crypto.PubkeyToAddress(key.PublicKey)
	if w.Address != "" && common.HexToAddress(w.Address) != addr {
		return nil, fmt.Errorf("stored key for %q does not match address %s", w.Name, w.Address)
	}
	return &Signer{name: w.Name, address: addr, key: key}, nil
}

// SignTx signs an EVM transaction with the London signer for chainID.
func (s *Signer) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signed, err := types.SignTx(tx, types.NewLondonSigner(chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}
	return signed, nil
}

// Address returns the wallet's address.
func (s *Signer) Address() common.Address {
	return s.address
}

// Name returns the wallet name the signer was built from.
func (s *Signer) Name() string {
	return s.name
}
