package wallet

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var errBadSignature = errors.New("signature must be 65 bytes")

// SignMessage produces a personal_sign (EIP-191) signature with V in {27, 28}.
func (s *Signer) SignMessage(message []byte) ([]byte, error) {
	sig, err := crypto.Sign(accounts.TextHash(message), s.key)
	if err != nil {
		return nil, fmt.Errorf("signing message: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

// VerifyMessage returns the address that produced sig over message. Both the
// 27/28 and 0/1 recovery id conventions are accepted.
func VerifyMessage(message, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("%w, got %d", errBadSignature, len(sig))
	}
	rsv := append([]byte(nil), sig...)
	if rsv[crypto.RecoveryIDOffset] >= 27 {
		rsv[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(accounts.TextHash(message), rsv)
	if err != nil {
		return common.Address{}, fmt.Errorf("recovering signer: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// handshake runs at connect time: the key must sign a challenge naming the
// wallet and the node's chain, and the signature must recover to the wallet.
func handshake(s *Signer, chainID int64) error {
	challenge := fmt.Appendf(nil, "minedash connect %s on chain %d", s.address.Hex(), chainID)
	sig, err := s.SignMessage(challenge)
	if err != nil {
		return err
	}
	got, err := VerifyMessage(challenge, sig)
	if err != nil {
		return err
	}
	if got != s.address {
		return fmt.Errorf("handshake recovered %s, want %s", got.Hex(), s.address.Hex())
	}
	return nil
}
