package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tokenforge/permit721/internal/ui"
	"github.com/tokenforge/permit721/internal/wallet"
)

var accountKeyFlag string

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage signing and watch-only accounts",
}

var accountAddCmd = &cobra.Command{
	Use:   "add <name> [address]",
	Short: "Add an account",
	Long: `Add an account.

With --key the account can sign permits; the private key is stored in
the OS keychain, never in the config directory. Without --key the
account is watch-only and needs an address argument.

Examples:
  permit721 account add alice --key 0xac09...ff80
  permit721 account add bob 0x70997970C51812dc3A010C7d01b50e0d17dc79C8`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		mgr := newAccountManager()

		if accountKeyFlag != "" {
			if err := mgr.AddWithKey(name, accountKeyFlag); err != nil {
				return err
			}
			a, _ := mgr.Get(name)
			fmt.Println(ui.Success(fmt.Sprintf("Signing account %q added: %s", name, ui.Addr(a.Address))))
		} else {
			if len(args) < 2 {
				return fmt.Errorf("address required for a watch-only account\n  Usage: permit721 account add <name> <address>\n  Or for signing: permit721 account add <name> --key <private-key>")
			}
			addr, err := parseAddr(args[1])
			if err != nil {
				return err
			}
			if err := mgr.Add(name, &wallet.Account{
				Name:    name,
				Address: addr.Hex(),
				Type:    wallet.TypeWatchOnly,
			}); err != nil {
				return err
			}
			fmt.Println(ui.Success(fmt.Sprintf("Watch-only account %q added: %s", name, ui.Addr(addr.Hex()))))
		}
		fmt.Println(ui.Hint(fmt.Sprintf("Set as default with: permit721 account use %s", name)))
		return nil
	},
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newAccountManager()
		accounts := mgr.List()

		if len(accounts) == 0 {
			fmt.Println(ui.Info("No accounts configured yet."))
			fmt.Println(ui.Hint("Add one with: permit721 account add me --key <private-key>"))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 16},
			{Title: "Address", Width: 44},
			{Title: "Type", Width: 12},
			{Title: "Default", Width: 8},
		})
		for _, a := range accounts {
			def := ""
			if a.IsDefault {
				def = ui.StyleSuccess.Render("✓")
			}
			t.AddRow(ui.Row{a.Name, a.Address, a.Type, def})
		}
		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("%d account(s) configured", len(accounts))))
		return nil
	},
}

var accountUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the default acting account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newAccountManager()
		if err := mgr.SetDefault(args[0]); err != nil {
			return err
		}
		cfg.DefaultAccount = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default account set to %q", args[0])))
		return nil
	},
}

var accountRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !ui.ConfirmDanger(fmt.Sprintf("Remove account %q?", name)) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		mgr := newAccountManager()
		if err := mgr.Remove(name); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Account %q removed.", name)))
		return nil
	},
}

func init() {
	accountAddCmd.Flags().StringVar(&accountKeyFlag, "key", "", "hex private key (makes the account a signing account)")
	accountCmd.AddCommand(accountAddCmd, accountListCmd, accountUseCmd, accountRemoveCmd)
}
