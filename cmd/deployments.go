package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Mohsinsiddi/minedash/internal/config"
	"github.com/Mohsinsiddi/minedash/internal/contract"
	"github.com/Mohsinsiddi/minedash/internal/sync"
	"github.com/Mohsinsiddi/minedash/internal/ui"
	"github.com/spf13/cobra"
)

var (
	syncWatch    bool
	syncInterval time.Duration
)

var deploymentsCmd = &cobra.Command{
	Use:     "deployments",
	Aliases: []string{"deployment", "dep"},
	Short:   "List, inspect and sync contract deployments",
}

var deploymentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known deployments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := cfg.Deployments()
		if err != nil {
			return err
		}
		active, _ := cfg.ResolveDeployment(deploymentFlag)

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 16},
			{Title: "Network", Width: 10},
			{Title: "Mode", Width: 8},
			{Title: "Chain", Width: 7},
			{Title: "Contract", Width: 44},
			{Title: "Layout", Width: 6},
		})
		for i, d := range deps {
			if d.Name == active.Name {
				t.SelIdx = i
			}
			t.AddRow(ui.Row{d.Name, d.Network, d.Mode, strconv.FormatInt(d.ChainID, 10), d.Contract, d.Layout})
		}
		if err := t.Fprint(os.Stdout); err != nil {
			return err
		}

		df, err := cfg.LoadDeployments()
		if err == nil && df.Source != "" {
			synced := df.LastSynced
			if synced == "" {
				synced = "never"
			}
			fmt.Println(ui.Meta(fmt.Sprintf("Source: %s (last synced %s)", df.Source, synced)))
		}
		return nil
	},
}

var deploymentsShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show one deployment (default: active)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := deploymentFlag
		if len(args) == 1 {
			name = args[0]
		}
		d, err := cfg.ResolveDeployment(name)
		if err != nil {
			return err
		}
		fmt.Println(ui.KeyValueBlock("Deployment "+d.Name, deploymentPairs(d)))
		return nil
	},
}

var deploymentsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch the remote manifest and merge it into deployments.yaml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := sync.NewManifestSyncer(cfg, log)
		if syncWatch {
			fmt.Println(ui.Info(fmt.Sprintf("Syncing every %s, Ctrl+C to stop.", syncInterval)))
			return s.Watch(cmd.Context(), syncInterval)
		}

		spin := ui.NewSpinner("Fetching manifest...")
		spin.Start()
		names, err := s.Run(cmd.Context())
		spin.Stop()
		if err != nil {
			if errors.Is(err, sync.ErrNoSource) {
				fmt.Println(ui.Warn(err.Error()))
				return nil
			}
			return err
		}
		if len(names) == 0 {
			fmt.Println(ui.Info("Manifest had no valid deployments."))
			return nil
		}
		for _, n := range names {
			fmt.Println(ui.Success("synced " + n))
		}
		return nil
	},
}

var deploymentsSetSourceCmd = &cobra.Command{
	Use:   "set-source <url>",
	Short: "Set the remote deployments manifest URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sync.NewManifestSyncer(cfg, log).SetSource(args[0]); err != nil {
			return err
		}
		fmt.Println(ui.Success("Manifest source set to " + args[0]))
		fmt.Println(ui.Hint("Fetch it with: minedash deployments sync"))
		return nil
	},
}

var deploymentsABICmd = &cobra.Command{
	Use:   "abi [layout]",
	Short: "Print the mining contract ABI for a users() layout",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version := ""
		if len(args) == 1 {
			version = args[0]
		} else {
			d, err := cfg.ResolveDeployment(deploymentFlag)
			if err != nil {
				return err
			}
			version = d.Layout
		}
		data, err := contract.MiningABIJSON(version)
		if err != nil {
			return fmt.Errorf("%w (known: %v)", err, contract.LayoutVersions())
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	deploymentsSyncCmd.Flags().BoolVar(&syncWatch, "watch", false, "keep syncing until interrupted")
	deploymentsSyncCmd.Flags().DurationVar(&syncInterval, "interval", 10*time.Minute, "sync interval with --watch")
	deploymentsCmd.AddCommand(deploymentsListCmd, deploymentsShowCmd, deploymentsSyncCmd, deploymentsSetSourceCmd, deploymentsABICmd)
}

func deploymentPairs(d config.Deployment) [][2]string {
	token := d.Token
	if token == "" {
		token = "-"
	}
	return [][2]string{
		{"Network", d.Network + " (" + d.Mode + ")"},
		{"Chain ID", strconv.FormatInt(d.ChainID, 10)},
		{"Contract", d.Contract},
		{"Reward token", token},
		{"users() layout", d.Layout},
		{"Activation fee", d.ActivationFee},
		{"L1 per referral", d.L1RewardPerReferral},
		{"Poll interval", d.PollInterval().String()},
	}
}
