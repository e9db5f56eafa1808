package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/Mohsinsiddi/minedash/internal/chain"
	"github.com/Mohsinsiddi/minedash/internal/config"
	"github.com/Mohsinsiddi/minedash/internal/contract"
	"github.com/Mohsinsiddi/minedash/internal/mining"
	"github.com/Mohsinsiddi/minedash/internal/price"
	"github.com/Mohsinsiddi/minedash/internal/ui"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	statusJSON bool
	statusFiat bool
)

var statusCmd = &cobra.Command{
	Use:   "status [address|wallet]",
	Short: "Show mining status, referrals and pending reward",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := resolveAddress(args)
		if err != nil {
			return err
		}
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}

		spin := ui.NewSpinner("Reading contract...")
		spin.Start()
		st, err := readStatus(cmd.Context(), e, addr)
		spin.Stop()
		if err != nil {
			return err
		}

		if statusFiat {
			if err := st.quoteFiat(cmd.Context(), e); err != nil {
				log.Debug("no fiat quote", zap.Error(err))
				if !statusJSON {
					fmt.Println(ui.Meta("No fiat quote: " + err.Error()))
				}
			}
		}

		if statusJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		}
		fmt.Println(ui.KeyValueBlock(fmt.Sprintf("%s · %s", e.dep.Name, e.chain.Label(e.dep.Mode)), st.pairs(e)))
		if !st.Activated {
			fmt.Println(ui.Hint("Activate with: minedash activate --referrer <address>"))
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print machine-readable JSON")
	statusCmd.Flags().BoolVar(&statusFiat, "fiat", false, "value the L1 estimate in USD (mainnet deployments)")
}

// miningStatus is the one-shot view of an account.
type miningStatus struct {
	Address           string `json:"address"`
	Activated         bool   `json:"activated"`
	Referrer          string `json:"referrer,omitempty"`
	MiningPower       string `json:"mining_power"`
	DirectReferrals   string `json:"direct_referrals"`
	IndirectReferrals string `json:"indirect_referrals,omitempty"`
	EstimatedL1       string `json:"estimated_l1"`
	EstimatedL1Fiat   string `json:"estimated_l1_fiat,omitempty"`
	Pending           string `json:"pending_reward"`
	TokenSymbol       string `json:"token_symbol,omitempty"`
	TokenBalance      string `json:"token_balance,omitempty"`

	hasIndirect bool
	l1Wei       *big.Int
}

func readStatus(ctx context.Context, e *env, addr common.Address) (*miningStatus, error) {
	reader, err := e.reader()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, config.ReadTimeout)
	defer cancel()

	u, err := reader.UserRecord(ctx, addr)
	if err != nil {
		return nil, err
	}
	perRef, err := chain.ParseEther(e.dep.L1RewardPerReferral)
	if err != nil {
		perRef = new(big.Int)
	}
	st := &miningStatus{
		Address:           addr.Hex(),
		Activated:         u.IsActivated,
		MiningPower:       mining.FormatCount(u.MiningPower),
		DirectReferrals:   mining.FormatCount(u.DirectReferrals),
		IndirectReferrals: mining.FormatCount(u.IndirectReferrals),
		EstimatedL1:       mining.FormatL1(u.DirectReferrals, perRef),
		l1Wei:             mining.EstimateL1(u.DirectReferrals, perRef),
		Pending:           mining.FormatReward(nil),
		hasIndirect:       reader.Layout().Has(contract.FieldIndirectReferrals),
	}
	if u.HasReferrer() {
		st.Referrer = u.Referrer.Hex()
	}
	if !st.hasIndirect {
		st.IndirectReferrals = ""
	}
	if u.IsActivated {
		p, err := reader.PendingReward(ctx, addr)
		if err != nil {
			return nil, err
		}
		st.Pending = mining.FormatReward(p)
	}

	tok, err := e.token()
	if err != nil || tok == nil {
		return st, err
	}
	info, err := tok.Info(ctx)
	if err != nil {
		return nil, err
	}
	bal, err := tok.BalanceOf(ctx, addr)
	if err != nil {
		return nil, err
	}
	st.TokenSymbol = info.Symbol
	st.TokenBalance = chain.FormatUnits(bal, int(info.Decimals), 6)
	return st, nil
}

// quoteFiat values the L1 estimate at the native coin's market price.
func (s *miningStatus) quoteFiat(ctx context.Context, e *env) error {
	ctx, cancel := context.WithTimeout(ctx, config.ReadTimeout)
	defer cancel()
	p, err := price.NewFetcher("usd").NativePrice(ctx, e.dep.Network, e.dep.Mode)
	if err != nil {
		return err
	}
	s.EstimatedL1Fiat = fmt.Sprintf("$%.2f", price.Value(s.l1Wei, p))
	return nil
}

func (s *miningStatus) pairs(e *env) [][2]string {
	activated := ui.StyleError.Render("not activated")
	if s.Activated {
		activated = ui.StyleSuccess.Render("activated")
	}
	out := [][2]string{
		{"Address", ui.Addr(s.Address)},
		{"Status", activated},
	}
	if s.Referrer != "" {
		out = append(out, [2]string{"Referrer", ui.Addr(s.Referrer)})
	}
	out = append(out,
		[2]string{"Mining power", s.MiningPower + " P"},
		[2]string{"Direct referrals", s.DirectReferrals},
	)
	if s.hasIndirect {
		out = append(out, [2]string{"Indirect referrals", s.IndirectReferrals})
	}
	out = append(out,
		[2]string{"Estimated L1", s.EstimatedL1 + " " + e.currency()},
	)
	if s.EstimatedL1Fiat != "" {
		out = append(out, [2]string{"Estimated L1 (USD)", s.EstimatedL1Fiat})
	}
	out = append(out,
		[2]string{"Pending MMT", ui.StyleWarning.Render(s.Pending)},
	)
	if s.TokenSymbol != "" {
		out = append(out, [2]string{s.TokenSymbol + " balance", s.TokenBalance})
	}
	return out
}
