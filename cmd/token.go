package cmd

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/tokenforge/permit721/internal/registry"
	"github.com/tokenforge/permit721/internal/ui"
)

var tokenCmd = &cobra.Command{
	Use:   "token <token-id>",
	Short: "Show a token's owner, approval, nonce and URI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid token id: %w", err)
		}

		a, err := openApp()
		if err != nil {
			return err
		}

		owner, err := a.reg.OwnerOf(id)
		if err != nil {
			return err
		}
		approved, _ := a.reg.GetApproved(id)
		nonce, _ := a.reg.Nonces(id)
		uri, _ := a.reg.TokenURI(id)

		approvedStr := ui.Meta("none")
		if approved != (common.Address{}) {
			approvedStr = ui.Addr(approved.Hex())
		}
		fmt.Println(ui.KeyValueBlock(fmt.Sprintf("Token #%d", id), [][2]string{
			{"Owner", ui.Addr(owner.Hex())},
			{"Approved", approvedStr},
			{"Nonce", fmt.Sprintf("%d", nonce)},
			{"URI", uri},
		}))
		return nil
	},
}

var supplyCmd = &cobra.Command{
	Use:   "supply",
	Short: "Show the collection's live token count",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		max := "unlimited"
		if a.reg.MaxSupply() > 0 {
			max = fmt.Sprintf("%d", a.reg.MaxSupply())
		}
		fmt.Println(ui.KeyValueBlock(a.reg.Name(), [][2]string{
			{"Symbol", a.reg.Symbol()},
			{"Supply", fmt.Sprintf("%d", a.reg.TotalSupply())},
			{"Max Supply", max},
		}))
		return nil
	},
}

var noncesCmd = &cobra.Command{
	Use:   "nonces <token-id>",
	Short: "Show a token's permit nonce",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid token id: %w", err)
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		nonce, err := a.reg.Nonces(id)
		if err != nil {
			return err
		}
		fmt.Println(ui.Val(fmt.Sprintf("%d", nonce)))
		return nil
	},
}

var interfaceCmd = &cobra.Command{
	Use:   "interface <hex-id>",
	Short: "Check ERC-165 interface support",
	Long: `Report whether the registry implements an interface id.

Malformed identifiers are unsupported, not an error.

Example:
  permit721 interface 0x80ac58cd`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		id, err := registry.ParseInterfaceID(args[0])
		if err != nil || !a.reg.SupportsInterface(id) {
			fmt.Println(ui.Err("unsupported"))
			return nil
		}
		fmt.Println(ui.Success("supported"))
		return nil
	},
}
