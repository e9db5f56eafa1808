package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/minedash/internal/rpc"
	"github.com/Mohsinsiddi/minedash/internal/ui"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactive setup wizard",
	Long:  "Pick the deployment, language, RPC selection and default wallet.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(ui.Banner())

		deps, err := cfg.Deployments()
		if err != nil {
			return err
		}
		opts := ui.WizardOptions{
			Languages: ui.Languages(),
			Algorithms: []string{
				string(rpc.AlgorithmFastest),
				string(rpc.AlgorithmRoundRobin),
				string(rpc.AlgorithmFailover),
			},
		}
		for _, d := range deps {
			opts.Deployments = append(opts.Deployments, d.Name)
		}

		mgr, err := newWalletManager()
		if err != nil {
			return err
		}
		wallets, err := mgr.List()
		if err != nil {
			return err
		}
		for _, w := range wallets {
			if w.CanSign() {
				opts.Wallets = append(opts.Wallets, w.Name)
			}
		}

		result, err := ui.RunWizard(opts)
		if err != nil {
			return err
		}
		if result == nil {
			fmt.Println(ui.Meta("Setup cancelled, nothing saved."))
			return nil
		}

		for key, value := range map[string]string{
			"deployment":    result.Deployment,
			"language":      result.Language,
			"rpc_algorithm": result.RPCAlgorithm,
		} {
			if value == "" {
				continue
			}
			if err := cfg.Set(key, value); err != nil {
				return err
			}
		}
		if result.DefaultWallet != "" {
			if err := mgr.SetDefault(result.DefaultWallet); err != nil {
				return err
			}
			cfg.DefaultWallet = result.DefaultWallet
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Println(ui.Success("minedash configured."))
		if len(opts.Wallets) == 0 {
			fmt.Println(ui.Hint("Add a wallet with: minedash wallet add <name> --key <hex>"))
		}
		fmt.Println(ui.Hint("Open the dashboard with: minedash"))
		return nil
	},
}
