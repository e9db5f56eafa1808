package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Mohsinsiddi/minedash/internal/config"
	"github.com/Mohsinsiddi/minedash/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/minedash/cmd.Version=1.2.3" .
var Version = "0.3.0"

var (
	cfgDir         string
	cfg            *config.Config
	log            = zap.NewNop()
	verbose        bool
	deploymentFlag string
	rpcFlag        string
	walletFlag     string
)

// rootCmd is the top-level command. Without a subcommand it opens the
// dashboard.
var rootCmd = &cobra.Command{
	Use:   "minedash",
	Short: "Terminal dashboard for the MMT mining contract",
	Long: `minedash is a terminal client for the MMT mining and referral contract.

  Connect a stored wallet, activate mining with an optional referrer,
  watch mining power and referral counts, and claim pending rewards.

The deployment (network, contract, layout) comes from the config and can be
overridden per invocation with --deployment. Set up with: minedash init`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd.Context())
	},
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, errLine(err))
		os.Exit(1)
	}
}

// persistentPreRun loads config and logging before any subcommand. It is
// attached in init to avoid an initialization cycle through isDashboard.
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}
	var err error
	cfg, err = config.Load(cfgDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log, err = logging.New(logging.Options{
		Level: level,
		File:  cfg.LogPath(),
		// The dashboard owns the terminal; everything else may echo logs.
		Console: verbose && !isDashboard(cmd),
	})
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	log.Debug("config loaded", zap.String("dir", cfg.Dir()), zap.String("deployment", cfg.Deployment))
	return nil
}

func isDashboard(cmd *cobra.Command) bool {
	return cmd == rootCmd || cmd == dashboardCmd
}

func init() {
	// MINEDASH_CONFIG_DIR overrides the default; --config overrides both.
	if envDir := os.Getenv("MINEDASH_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentPreRunE = persistentPreRun

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.minedash)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging (echoed to stderr outside the dashboard)")
	pf.StringVarP(&deploymentFlag, "deployment", "d", "", "deployment profile (default: config)")
	pf.StringVar(&rpcFlag, "rpc", "", "use this RPC URL instead of selecting one")
	pf.StringVarP(&walletFlag, "wallet", "w", "", "wallet name (default: config)")

	rootCmd.AddCommand(
		initCmd,
		dashboardCmd,
		statusCmd,
		activateCmd,
		claimCmd,
		referralCmd,
		walletCmd,
		deploymentsCmd,
		rpcCmd,
		configCmd,
	)
}
