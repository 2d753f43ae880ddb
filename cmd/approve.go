package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tokenforge/permit721/internal/ui"
)

var (
	approveSpender string
	approveAs      string

	operatorEnabled bool
	operatorAs      string
)

var approveCmd = &cobra.Command{
	Use:   "approve <token-id>",
	Short: "Approve a spender for one token",
	Long: `Set the approved spender for a single token (last write wins).
The acting account must be the owner or one of the owner's operators.
The approval clears automatically on transfer or burn.

Example:
  permit721 approve 1 --spender bob --as alice`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid token id: %w", err)
		}
		if approveSpender == "" {
			return fmt.Errorf("--spender is required")
		}
		spender, err := resolveActor(approveSpender)
		if err != nil {
			return err
		}
		caller, err := resolveActor(approveAs)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		if err := a.reg.Approve(caller, spender, id); err != nil {
			return err
		}
		if err := a.commit(); err != nil {
			return err
		}

		fmt.Println(ui.Success(fmt.Sprintf("Spender %s approved for token #%d", ui.Addr(spender.Hex()), id)))
		return nil
	},
}

var operatorCmd = &cobra.Command{
	Use:   "operator <address>",
	Short: "Grant or revoke an operator over all your tokens",
	Long: `Toggle operator standing: an operator may manage all of the acting
account's current and future tokens until revoked. Operator grants
survive individual transfers.

Examples:
  permit721 operator bob --enabled --as alice
  permit721 operator bob --enabled=false --as alice`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		operator, err := resolveActor(args[0])
		if err != nil {
			return err
		}
		caller, err := resolveActor(operatorAs)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		if err := a.reg.SetApprovalForAll(caller, operator, operatorEnabled); err != nil {
			return err
		}
		if err := a.commit(); err != nil {
			return err
		}

		verb := "granted to"
		if !operatorEnabled {
			verb = "revoked from"
		}
		fmt.Println(ui.Success(fmt.Sprintf("Operator standing %s %s", verb, ui.Addr(operator.Hex()))))
		return nil
	},
}

func init() {
	approveCmd.Flags().StringVar(&approveSpender, "spender", "", "spender (account name or address, required)")
	approveCmd.Flags().StringVar(&approveAs, "as", "", "acting account (default: configured default)")

	operatorCmd.Flags().BoolVar(&operatorEnabled, "enabled", true, "grant (true) or revoke (false)")
	operatorCmd.Flags().StringVar(&operatorAs, "as", "", "acting account (default: configured default)")
}
