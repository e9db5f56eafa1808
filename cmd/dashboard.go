package cmd

import (
	"context"
	"path/filepath"

	"github.com/Mohsinsiddi/minedash/internal/contract"
	"github.com/Mohsinsiddi/minedash/internal/metrics"
	"github.com/Mohsinsiddi/minedash/internal/ui"
	"github.com/Mohsinsiddi/minedash/internal/wallet"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dashboardAutoConnect bool

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive mining dashboard (default)",
	Long: `Open the full-screen mining dashboard.

The last connected wallet is reconnected automatically. Keys:
  c  connect / claim      y  copy address      o  open explorer
  s  switch wallet        d  disconnect        q  quit

Set metrics_addr in the config to expose Prometheus metrics while it runs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd.Context())
	},
}

func init() {
	dashboardCmd.Flags().BoolVar(&dashboardAutoConnect, "connect", false, "connect the selected wallet at start")
}

func runDashboard(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	reader, err := e.reader()
	if err != nil {
		return err
	}
	mgr, err := newWalletManager()
	if err != nil {
		return err
	}
	wallets, err := mgr.List()
	if err != nil {
		return err
	}
	var signing []string
	for _, w := range wallets {
		if w.CanSign() {
			signing = append(signing, w.Name)
		}
	}

	met := metrics.New()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := met.Serve(ctx, cfg.MetricsAddr, log); err != nil {
				log.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	session := wallet.NewSession(mgr, e.client,
		wallet.WithSessionCache(wallet.NewSessionCache(filepath.Join(cfg.Dir(), sessionFile))),
		wallet.WithSessionLogger(log),
		wallet.WithWallet(selectedWallet()),
	)

	deps := ui.DashboardDeps{
		Session: session,
		Reader:  reader,
		NewWriter: func(s contract.TxSigner) (ui.MiningWriter, error) {
			w, err := e.writer(s)
			if err != nil {
				return nil, err
			}
			return w, nil
		},
		Receipts:    e.client,
		Deployment:  e.dep,
		Chain:       e.chain,
		Wallets:     signing,
		Catalog:     catalog(),
		Metrics:     met,
		Log:         log,
		AutoConnect: dashboardAutoConnect || walletFlag != "",
	}
	tok, err := e.token()
	if err != nil {
		log.Warn("token disabled", zap.Error(err))
	} else if tok != nil {
		deps.Token = tok
	}

	log.Info("dashboard started",
		zap.String("deployment", e.dep.Name),
		zap.Int64("chain_id", e.dep.ChainID),
		zap.Int("wallets", len(signing)))
	return ui.RunDashboard(ctx, deps)
}
