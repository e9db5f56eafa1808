package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/minedash/internal/chain"
	"github.com/Mohsinsiddi/minedash/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"list"},
	Short:   "Show current configuration",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(ui.KeyValueBlock("Current configuration", cfg.Pairs()))
		for network, urls := range cfg.CustomRPCs {
			for _, u := range urls {
				fmt.Println(ui.Meta(fmt.Sprintf("  rpc %-10s %s", network, u)))
			}
		}
		fmt.Println(ui.Meta("Config directory: " + cfg.Dir()))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Long: `Set a config value by key.

Keys: deployment, default_wallet, rpc_algorithm, language, log_level,
log_file, metrics_addr`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if key == "deployment" {
			if _, err := cfg.ResolveDeployment(value); err != nil {
				return err
			}
		}
		if err := cfg.Set(key, value); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("%s set to %q", key, value)))
		return nil
	},
}

var configSetRPCCmd = &cobra.Command{
	Use:   "set-rpc <network> <url>",
	Short: "Add a custom RPC for a network",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		network, url := args[0], args[1]
		if _, err := chain.NewRegistry().GetByName(network); err != nil {
			return err
		}
		if err := cfg.AddRPC(network, url); err != nil {
			// Already present, not fatal.
			fmt.Println(ui.Warn(err.Error()))
			return nil
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("RPC for %s added: %s", network, url)))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd, configSetRPCCmd)
}
