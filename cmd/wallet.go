package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/Mohsinsiddi/minedash/internal/ui"
	"github.com/Mohsinsiddi/minedash/internal/wallet"
	"github.com/spf13/cobra"
)

var walletKeyFlag string

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage wallets",
}

var walletAddCmd = &cobra.Command{
	Use:   "add <name> [address]",
	Short: "Add a signing wallet (--key) or a watch-only address",
	Example: `  minedash wallet add miner --key 0xabc...
  minedash wallet add friend 0x9641...`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		mgr, err := newWalletManager()
		if err != nil {
			return err
		}

		var w *wallet.Wallet
		switch {
		case walletKeyFlag != "":
			w, err = mgr.AddWithKey(name, walletKeyFlag)
		case len(args) == 2:
			w, err = mgr.AddWatchOnly(name, args[1])
		default:
			return errors.New("pass --key <hex> for a signing wallet or an address for a watch-only one")
		}
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("%s wallet %q added: %s", w.Type, name, ui.Addr(w.Address))))
		if w.CanSign() {
			fmt.Println(ui.Hint("Make it the default with: minedash wallet use " + name))
		}
		return nil
	},
}

var walletGenerateCmd = &cobra.Command{
	Use:   "generate <name>",
	Short: "Generate a new signing wallet",
	Long: `Generate a fresh keypair and store the private key in the OS keychain.

The private key is shown once. Fund the address with a little native coin to
pay the activation fee and gas.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newWalletManager()
		if err != nil {
			return err
		}
		w, err := mgr.Generate(args[0])
		if err != nil {
			return err
		}
		hexKey, err := mgr.Keystore().Retrieve(w.KeyRef)
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Printf("  %s  %s\n", ui.Meta("Wallet :"), ui.Val(w.Name))
		fmt.Printf("  %s  %s\n\n", ui.Meta("Address:"), ui.Addr(w.Address))
		fmt.Println(ui.DangerBox(
			ui.Warn("SAVE YOUR PRIVATE KEY. It is shown only once.") + "\n\n" +
				ui.Val("0x"+hexKey) + "\n\n" +
				ui.Hint("Keep it in a password manager. Never share it."),
		))
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all wallets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newWalletManager()
		if err != nil {
			return err
		}
		wallets, err := mgr.List()
		if err != nil {
			return err
		}
		if len(wallets) == 0 {
			fmt.Println(ui.Info("No wallets configured yet."))
			fmt.Println(ui.Hint("Add one with: minedash wallet add <name> --key <hex>"))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 16},
			{Title: "Address", Width: 44},
			{Title: "Type", Width: 12},
			{Title: "Default", Width: 8},
		})
		for _, w := range wallets {
			def := ""
			if w.Name == cfg.DefaultWallet || (cfg.DefaultWallet == "" && w.IsDefault) {
				def = ui.StyleSuccess.Render("✓")
			}
			t.AddRow(ui.Row{ui.Val(w.Name), ui.Addr(w.Address), ui.Meta(w.Type), def})
		}
		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("%d wallet(s) configured", len(wallets))))
		return nil
	},
}

var walletUseCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Set the default wallet (interactive without a name)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newWalletManager()
		if err != nil {
			return err
		}
		name := ""
		if len(args) == 1 {
			name = args[0]
		} else {
			wallets, err := mgr.List()
			if err != nil {
				return err
			}
			name, err = ui.PickItem("Select default wallet", walletPickerItems(wallets, cfg.DefaultWallet))
			if err != nil {
				return err
			}
			if name == "" {
				fmt.Println(ui.Meta("Cancelled."))
				return nil
			}
		}

		if err := mgr.SetDefault(name); err != nil {
			return err
		}
		cfg.DefaultWallet = name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default wallet set to %q.", name)))
		return nil
	},
}

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a wallet and its stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !ui.ConfirmDanger(os.Stdin, os.Stdout, fmt.Sprintf("Remove wallet %q and delete its key?", name)) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		mgr, err := newWalletManager()
		if err != nil {
			return err
		}
		if err := mgr.Remove(name); err != nil {
			return err
		}
		if cfg.DefaultWallet == name {
			cfg.DefaultWallet = ""
			if err := cfg.Save(); err != nil {
				return err
			}
		}
		fmt.Println(ui.Success(fmt.Sprintf("Wallet %q removed.", name)))
		return nil
	},
}

// walletPickerItems lists signing wallets first; watch-only ones cannot be
// connected.
func walletPickerItems(wallets []*wallet.Wallet, current string) []ui.PickerItem {
	var signing, watch []ui.PickerItem
	for _, w := range wallets {
		it := ui.PickerItem{
			Label:    w.Name,
			SubLabel: ui.TruncateAddr(w.Address),
			Value:    w.Name,
			Current:  w.Name == current,
		}
		if w.CanSign() {
			signing = append(signing, it)
			continue
		}
		it.SubLabel += "  " + ui.Meta("[watch-only]")
		watch = append(watch, it)
	}
	return append(signing, watch...)
}

func init() {
	walletAddCmd.Flags().StringVar(&walletKeyFlag, "key", "", "private key (hex) for a signing wallet")
	walletCmd.AddCommand(walletAddCmd, walletGenerateCmd, walletListCmd, walletUseCmd, walletRemoveCmd)
}
