package contract

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/minedash/internal/chain"
	"github.com/Mohsinsiddi/minedash/internal/config"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// ErrNoSigner is returned when a write is attempted without a connected wallet.
var ErrNoSigner = errors.New("no wallet connected")

// TxClient is the node surface needed to build and broadcast a transaction.
type TxClient interface {
	CallClient
	EstimateGas(ctx context.Context, msg chain.CallMsg) (uint64, error)
	SuggestFees(ctx context.Context) (*chain.Fees, error)
	PendingNonce(ctx context.Context, address string) (uint64, error)
	SendRawTransaction(ctx context.Context, rawTx string) (string, error)
}

// TxSigner signs transactions for one account.
type TxSigner interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// Writer submits the mining contract's state-changing calls.
type Writer struct {
	client        TxClient
	signer        TxSigner
	chainID       *big.Int
	contract      common.Address
	abi           abi.ABI
	activationFee *big.Int
	log           *zap.Logger
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithWriterLogger sets the logger. The default discards.
func WithWriterLogger(l *zap.Logger) WriterOption {
	return func(w *Writer) { w.log = l }
}

// NewWriter binds a writer to the contract. activationFee is the exact value
// attached to activateMining.
func NewWriter(client TxClient, signer TxSigner, chainID int64, addr common.Address, activationFee *big.Int, opts ...WriterOption) (*Writer, error) {
	if signer == nil {
		return nil, ErrNoSigner
	}
	// The write methods are the same in every layout.
	parsed, err := buildABI(miningEntries(layouts[config.DefaultLayout]))
	if err != nil {
		return nil, err
	}
	w := &Writer{
		client:        client,
		signer:        signer,
		chainID:       big.NewInt(chainID),
		contract:      addr,
		abi:           parsed,
		activationFee: new(big.Int).Set(activationFee),
		log:           zap.NewNop(),
	}
	for _, o := range opts {
		o(w)
	}
	return w, nil
}

// From returns the signing address.
func (w *Writer) From() common.Address { return w.signer.Address() }

// ActivateMining sends activateMining(referrer) carrying the activation fee.
// The zero address means no referrer.
func (w *Writer) ActivateMining(ctx context.Context, referrer common.Address) (common.Hash, error) {
	data, err := w.abi.Pack(fnActivateMining, referrer)
	if err != nil {
		return common.Hash{}, fmt.Errorf("encoding %s: %w", fnActivateMining, err)
	}
	return w.send(ctx, fnActivateMining, data, w.activationFee, config.GasLimitActivate)
}

// ClaimMiningRewards sends claimMiningRewards().
func (w *Writer) ClaimMiningRewards(ctx context.Context) (common.Hash, error) {
	data, err := w.abi.Pack(fnClaimRewards)
	if err != nil {
		return common.Hash{}, fmt.Errorf("encoding %s: %w", fnClaimRewards, err)
	}
	return w.send(ctx, fnClaimRewards, data, new(big.Int), config.GasLimitClaim)
}

// Simulate dry-runs activateMining(referrer) with eth_call so a revert
// surfaces before anything is signed.
func (w *Writer) Simulate(ctx context.Context, referrer common.Address) error {
	data, err := w.abi.Pack(fnActivateMining, referrer)
	if err != nil {
		return err
	}
	_, err = w.client.CallContract(ctx, w.msg(data, w.activationFee))
	if err != nil {
		return asRevert(err)
	}
	return nil
}

func (w *Writer) msg(data []byte, value *big.Int) chain.CallMsg {
	return chain.CallMsg{
		From:  w.signer.Address().Hex(),
		To:    w.contract.Hex(),
		Data:  "0x" + hex.EncodeToString(data),
		Value: value,
	}
}

func (w *Writer) send(ctx context.Context, method string, data []byte, value *big.Int, fallbackGas uint64) (common.Hash, error) {
	msg := w.msg(data, value)
	log := w.log.With(zap.String("method", method), zap.String("from", msg.From))

	if _, err := w.client.CallContract(ctx, msg); err != nil {
		return common.Hash{}, asRevert(err)
	}

	gas, err := w.client.EstimateGas(ctx, msg)
	if err != nil {
		// A revert here is real; anything else falls back to the fixed limit.
		if rev := asRevert(err); rev != err {
			return common.Hash{}, rev
		}
		log.Warn("gas estimate failed, using fixed limit", zap.Error(err), zap.Uint64("gas", fallbackGas))
		gas = fallbackGas
	} else {
		gas += gas / 5
	}

	fees, err := w.client.SuggestFees(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("getting fees: %w", err)
	}
	nonce, err := w.client.PendingNonce(ctx, msg.From)
	if err != nil {
		return common.Hash{}, fmt.Errorf("getting nonce: %w", err)
	}

	to := w.contract
	var tx *types.Transaction
	if fees.IsEIP1559 {
		tx = types.NewTx(&types.DynamicFeeTx{
			ChainID:   w.chainID,
			Nonce:     nonce,
			GasTipCap: fees.TipCap,
			GasFeeCap: fees.FeeCap,
			Gas:       gas,
			To:        &to,
			Value:     value,
			Data:      data,
		})
	} else {
		tx = types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: fees.GasPrice,
			Gas:      gas,
			To:       &to,
			Value:    value,
			Data:     data,
		})
	}

	signed, err := w.signer.SignTx(tx, w.chainID)
	if err != nil {
		return common.Hash{}, err
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return common.Hash{}, fmt.Errorf("encoding transaction: %w", err)
	}

	if _, err := w.client.SendRawTransaction(ctx, "0x"+hex.EncodeToString(raw)); err != nil {
		return common.Hash{}, fmt.Errorf("broadcasting transaction: %w", asRevert(err))
	}
	log.Info("transaction sent",
		zap.String("hash", signed.Hash().Hex()),
		zap.Uint64("nonce", nonce),
		zap.Uint64("gas", gas),
		zap.String("fees", fees.String()),
	)
	return signed.Hash(), nil
}
