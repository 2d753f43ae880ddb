package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tokenforge/permit721/internal/ui"
)

var burnAs string

var burnCmd = &cobra.Command{
	Use:   "burn <token-id>",
	Short: "Burn a token",
	Long: `Destroy a token. The caller must be the owner, the approved
spender, or an operator of the owner. The id is retired permanently.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid token id: %w", err)
		}
		caller, err := resolveActor(burnAs)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}

		if !ui.ConfirmDanger(fmt.Sprintf("Burn token #%d? The id is retired forever.", id)) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		if err := a.reg.Burn(caller, id); err != nil {
			return err
		}
		if err := a.commit(); err != nil {
			return err
		}

		fmt.Println(ui.Success(fmt.Sprintf("Token #%d burned. Supply: %d", id, a.reg.TotalSupply())))
		return nil
	},
}

func init() {
	burnCmd.Flags().StringVar(&burnAs, "as", "", "acting account (default: configured default)")
}
