package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/minedash/internal/ui"
	"github.com/spf13/cobra"
)

var referralCopy bool

var referralCmd = &cobra.Command{
	Use:     "referral [wallet]",
	Aliases: []string{"invite"},
	Short:   "Print your referral address to share with friends",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := resolveAddress(args)
		if err != nil {
			return err
		}
		cat := catalog()
		fmt.Println(ui.StyleTitle.Render(cat.InviteTitle))
		fmt.Println(ui.Meta(cat.InviteBlurb))
		fmt.Println()
		fmt.Println("  " + ui.Addr(addr.Hex()))
		fmt.Println()
		fmt.Println(ui.Hint("minedash activate --referrer " + addr.Hex()))

		if referralCopy {
			if err := ui.CopyToClipboard(addr.Hex()); err != nil {
				fmt.Println(ui.Warn(cat.CopyFailed + ": " + err.Error()))
				return nil
			}
			fmt.Println(ui.Success(cat.Copied))
		}
		return nil
	},
}

func init() {
	referralCmd.Flags().BoolVarP(&referralCopy, "copy", "c", false, "copy the address to the clipboard")
}
