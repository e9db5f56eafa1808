package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Mohsinsiddi/minedash/internal/chain"
	"github.com/Mohsinsiddi/minedash/internal/config"
	"github.com/Mohsinsiddi/minedash/internal/contract"
	"github.com/Mohsinsiddi/minedash/internal/mining"
	"github.com/Mohsinsiddi/minedash/internal/sync"
	"github.com/Mohsinsiddi/minedash/internal/ui"
	"github.com/Mohsinsiddi/minedash/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	activateReferrer string
	activateDryRun   bool
	txYes            bool
	txNoWait         bool
)

var activateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Pay the activation fee and start mining",
	Long: `Activate mining for the selected wallet, optionally under a referrer.

The call is simulated first so a rejected referrer fails before anything is
signed. Use --dry-run to stop after the simulation.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		referrer, err := mining.ValidateReferrer(activateReferrer)
		if err != nil {
			return fmt.Errorf("%w: %q", err, activateReferrer)
		}
		ctx := cmd.Context()
		e, signer, w, err := openWriter(ctx)
		if err != nil {
			return err
		}

		ref := "none"
		if referrer != (common.Address{}) {
			ref = referrer.Hex()
		}
		fmt.Println(ui.KeyValueBlock("Activate mining", [][2]string{
			{"Wallet", signer.Name()},
			{"From", ui.Addr(signer.Address().Hex())},
			{"Referrer", ref},
			{"Fee", e.dep.ActivationFee + " " + e.currency()},
			{"Contract", ui.Addr(e.dep.Contract)},
			{"Network", e.chain.Label(e.dep.Mode)},
		}))

		sctx, cancel := context.WithTimeout(ctx, config.SubmitTimeout)
		defer cancel()
		if err := w.Simulate(sctx, referrer); err != nil {
			return err
		}
		if activateDryRun {
			fmt.Println(ui.Success("Simulation passed, nothing was sent."))
			return nil
		}
		if !txYes && !ui.ConfirmDanger(os.Stdin, os.Stdout, fmt.Sprintf("Pay %s %s to activate?", e.dep.ActivationFee, e.currency())) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		return submitAndWait(ctx, e, sync.KindActivate, func(ctx context.Context) (common.Hash, error) {
			return w.ActivateMining(ctx, referrer)
		})
	},
}

var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Claim the pending MMT reward",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, signer, w, err := openWriter(ctx)
		if err != nil {
			return err
		}
		reader, err := e.reader()
		if err != nil {
			return err
		}

		rctx, cancel := context.WithTimeout(ctx, config.ReadTimeout)
		pending, err := reader.PendingReward(rctx, signer.Address())
		cancel()
		if err != nil {
			return err
		}
		if !mining.CanClaim(pending) {
			fmt.Println(ui.Info("Nothing to claim yet (pending " + mining.FormatReward(pending) + ")."))
			return nil
		}

		fmt.Println(ui.KeyValueBlock("Claim rewards", [][2]string{
			{"Wallet", signer.Name()},
			{"From", ui.Addr(signer.Address().Hex())},
			{"Pending MMT", ui.StyleWarning.Render(mining.FormatReward(pending))},
			{"Network", e.chain.Label(e.dep.Mode)},
		}))
		if !txYes && !ui.Confirm(os.Stdin, os.Stdout, "Claim now?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		return submitAndWait(ctx, e, sync.KindClaim, func(ctx context.Context) (common.Hash, error) {
			return w.ClaimMiningRewards(ctx)
		})
	},
}

func init() {
	activateCmd.Flags().StringVarP(&activateReferrer, "referrer", "r", "", "referrer address (blank for none)")
	activateCmd.Flags().BoolVar(&activateDryRun, "dry-run", false, "simulate only")
	for _, c := range []*cobra.Command{activateCmd, claimCmd} {
		c.Flags().BoolVarP(&txYes, "yes", "y", false, "skip the confirmation prompt")
		c.Flags().BoolVar(&txNoWait, "no-wait", false, "return after the node accepts the transaction")
	}
}

// openWriter selects an endpoint and unlocks the signing wallet.
func openWriter(ctx context.Context) (*env, *wallet.Signer, *contract.Writer, error) {
	signer, err := loadSigner()
	if err != nil {
		return nil, nil, nil, err
	}
	e, err := openEnv(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	w, err := e.writer(signer)
	if err != nil {
		return nil, nil, nil, err
	}
	return e, signer, w, nil
}

// submitAndWait sends a write and, unless --no-wait, blocks on its receipt.
func submitAndWait(ctx context.Context, e *env, kind sync.Kind, send func(context.Context) (common.Hash, error)) error {
	spin := ui.NewSpinner("Submitting transaction...")
	spin.Start()
	sctx, cancel := context.WithTimeout(ctx, config.SubmitTimeout)
	hash, err := send(sctx)
	cancel()
	spin.Stop()
	if err != nil {
		log.Warn("write failed", zap.String("kind", string(kind)), zap.Error(err))
		return err
	}
	fmt.Println(ui.Success("Transaction sent: ") + ui.Addr(hash.Hex()))
	fmt.Println(ui.Meta(e.txURL(hash)))
	if txNoWait {
		return nil
	}

	spin = ui.NewSpinner("Waiting for confirmation...")
	spin.Start()
	r, err := e.client.WaitForReceipt(ctx, hash.Hex(), config.ReceiptPoll)
	spin.Stop()
	switch {
	case errors.Is(err, chain.ErrReverted):
		log.Warn("transaction reverted", zap.String("kind", string(kind)), zap.String("hash", hash.Hex()))
		return fmt.Errorf("%s: %w", kind, err)
	case err != nil:
		return err
	}
	log.Info("transaction confirmed", zap.String("kind", string(kind)), zap.String("hash", hash.Hex()), zap.Uint64("block", r.BlockNumber))
	fmt.Println(ui.Success(fmt.Sprintf("Confirmed in block %d (gas used %d).", r.BlockNumber, r.GasUsed)))
	return nil
}
