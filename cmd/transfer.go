package cmd

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tokenforge/permit721/internal/ui"
)

var (
	transferFrom string
	transferTo   string
	transferAs   string
	transferSafe bool
	transferData string
)

var transferCmd = &cobra.Command{
	Use:   "transfer <token-id>",
	Short: "Transfer a token",
	Long: `Transfer a token between addresses.

The acting account must be authorized: the owner, the approved spender
(including one granted by permit), or an operator of the owner. The
transfer clears any approval and advances the token's nonce, which
invalidates every unused permit signed over the old nonce.

--safe requires a registered receiver at the destination to acknowledge
the token; a rejection rolls the whole transfer back.

Examples:
  permit721 transfer 1 --from alice --to bob
  permit721 transfer 1 --from alice --to 0x9965...A4dc --as spender --safe`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid token id: %w", err)
		}
		if transferFrom == "" || transferTo == "" {
			return fmt.Errorf("--from and --to are required")
		}
		from, err := resolveActor(transferFrom)
		if err != nil {
			return err
		}
		to, err := resolveActor(transferTo)
		if err != nil {
			return err
		}
		asFlag := transferAs
		if asFlag == "" {
			asFlag = transferFrom
		}
		caller, err := resolveActor(asFlag)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}

		if transferSafe {
			var data []byte
			if transferData != "" {
				data, err = hex.DecodeString(strings.TrimPrefix(transferData, "0x"))
				if err != nil {
					return fmt.Errorf("invalid --data hex: %w", err)
				}
			}
			err = a.reg.SafeTransferFrom(caller, from, to, id, data)
		} else {
			err = a.reg.TransferFrom(caller, from, to, id)
		}
		if err != nil {
			return err
		}
		if err := a.commit(); err != nil {
			return err
		}

		nonce, _ := a.reg.Nonces(id)
		fmt.Println(ui.KeyValueBlock("Token Transferred", [][2]string{
			{"Token ID", fmt.Sprintf("%d", id)},
			{"From", ui.Addr(from.Hex())},
			{"To", ui.Addr(to.Hex())},
			{"Nonce", fmt.Sprintf("%d", nonce)},
		}))
		return nil
	},
}

func init() {
	transferCmd.Flags().StringVar(&transferFrom, "from", "", "current owner (required)")
	transferCmd.Flags().StringVar(&transferTo, "to", "", "recipient (required)")
	transferCmd.Flags().StringVar(&transferAs, "as", "", "acting account (default: --from)")
	transferCmd.Flags().BoolVar(&transferSafe, "safe", false, "require receiver acknowledgement")
	transferCmd.Flags().StringVar(&transferData, "data", "", "hex payload for the receiver callback")
}
