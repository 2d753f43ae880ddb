package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tokenforge/permit721/internal/ui"
)

var (
	mintTo  string
	mintURI string
	mintAs  string
)

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint a new token",
	Long: `Mint the next token id to an address.

Only the configured minter may mint. The URI ref is appended to the
collection's base URI for tokenURI lookups.

Examples:
  permit721 mint --to 0xf39F...2266 --uri 1.json
  permit721 mint --to alice --uri 2.json --as minter`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if mintTo == "" {
			return fmt.Errorf("--to is required")
		}
		to, err := resolveActor(mintTo)
		if err != nil {
			return err
		}
		caller, err := resolveActor(mintAs)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}

		id, err := a.reg.Mint(caller, to, mintURI)
		if err != nil {
			return err
		}
		if err := a.commit(); err != nil {
			return err
		}

		uri, _ := a.reg.TokenURI(id)
		fmt.Println(ui.KeyValueBlock("Token Minted", [][2]string{
			{"Token ID", fmt.Sprintf("%d", id)},
			{"Owner", ui.Addr(to.Hex())},
			{"URI", uri},
			{"Supply", fmt.Sprintf("%d", a.reg.TotalSupply())},
		}))
		return nil
	},
}

func init() {
	mintCmd.Flags().StringVar(&mintTo, "to", "", "recipient (account name or address, required)")
	mintCmd.Flags().StringVar(&mintURI, "uri", "", "metadata ref appended to the base URI")
	mintCmd.Flags().StringVar(&mintAs, "as", "", "acting account (default: configured default)")
}
