package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tokenforge/permit721/internal/config"
	"github.com/tokenforge/permit721/internal/typeddata"
	"github.com/tokenforge/permit721/internal/ui"
)

var (
	initName      string
	initSymbol    string
	initBaseURI   string
	initMaxSupply uint64
	initChainID   uint64
	initMinter    string
	initForce     bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the collection config and an empty ledger",
	Long: `Initialize a collection in the config directory.

The collection name, symbol and chain id become part of the EIP-712
signing domain, so changing them later invalidates every outstanding
permit. The registry address defaults to an identity derived from the
name and symbol.

Examples:
  permit721 init --name "Test Token" --symbol TST --base-uri https://www.test.com/ --minter 0x...
  permit721 init --chain-id 1 --max-supply 10000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.Exists(cfgDir) && !initForce {
			return fmt.Errorf("config already exists — pass --force to overwrite (outstanding permits will break)")
		}

		cfg.Name = initName
		cfg.Symbol = initSymbol
		cfg.BaseURI = initBaseURI
		cfg.MaxSupply = initMaxSupply
		cfg.ChainID = initChainID
		cfg.RegistryAddress = typeddata.RegistryAddress(initName, initSymbol).Hex()

		if initMinter != "" {
			addr, err := parseAddr(initMinter)
			if err != nil {
				return err
			}
			cfg.Minter = addr.Hex()
		}

		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Println(ui.KeyValueBlock("Collection Initialized", [][2]string{
			{"Name", cfg.Name},
			{"Symbol", cfg.Symbol},
			{"Base URI", cfg.BaseURI},
			{"Max Supply", fmt.Sprintf("%d", cfg.MaxSupply)},
			{"Chain ID", fmt.Sprintf("%d", cfg.ChainID)},
			{"Registry", cfg.RegistryAddress},
			{"Minter", cfg.Minter},
			{"Config Dir", cfg.Dir()},
		}))
		if cfg.Minter == "" {
			fmt.Println(ui.Warn("No minter set — set one with: permit721 init --force --minter 0x..."))
		}
		fmt.Println(ui.Hint("Add a signing account: permit721 account add me --key <private-key>"))
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initName, "name", "Test Token", "collection name (part of the signing domain)")
	initCmd.Flags().StringVar(&initSymbol, "symbol", "TST", "collection symbol")
	initCmd.Flags().StringVar(&initBaseURI, "base-uri", "", "metadata base URI")
	initCmd.Flags().Uint64Var(&initMaxSupply, "max-supply", 100, "mint ceiling (0 = unlimited)")
	initCmd.Flags().Uint64Var(&initChainID, "chain-id", 1337, "chain id for the signing domain")
	initCmd.Flags().StringVar(&initMinter, "minter", "", "account allowed to mint")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config")
}
