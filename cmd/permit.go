package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tokenforge/permit721/internal/ui"
	"github.com/tokenforge/permit721/internal/wallet"
)

var (
	permitSpender  string
	permitTokenID  uint64
	permitDeadline uint64
	permitTTL      time.Duration
	permitAccount  string
	permitSig      string
)

var permitCmd = &cobra.Command{
	Use:   "permit",
	Short: "Create and submit gas-less approvals",
	Long: `Work with EIP-4494 permits.

A permit is an off-line EIP-712 signature by the token's owner that
grants one spender approval over one token. Anyone may submit it; the
signature alone authorizes the approval. It stays valid until its
deadline passes or a transfer advances the token's nonce.

Sub-commands:
  permit721 permit digest  — print the digest a signer must sign
  permit721 permit sign    — sign with a local signing account
  permit721 permit submit  — verify a signature and grant the approval`,
}

func permitDeadlineValue() (uint64, error) {
	if permitDeadline != 0 {
		return permitDeadline, nil
	}
	if permitTTL > 0 {
		return uint64(time.Now().Add(permitTTL).Unix()), nil
	}
	return 0, fmt.Errorf("--deadline or --ttl is required")
}

var permitDigestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Print the EIP-712 digest for a permit",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		spender, err := resolveActor(permitSpender)
		if err != nil {
			return err
		}
		deadline, err := permitDeadlineValue()
		if err != nil {
			return err
		}

		digest, err := a.protocol().Digest(spender, permitTokenID, deadline)
		if err != nil {
			return err
		}
		nonce, _ := a.reg.Nonces(permitTokenID)

		fmt.Println(ui.KeyValueBlock("Permit Digest", [][2]string{
			{"Spender", ui.Addr(spender.Hex())},
			{"Token ID", fmt.Sprintf("%d", permitTokenID)},
			{"Nonce", fmt.Sprintf("%d", nonce)},
			{"Deadline", fmt.Sprintf("%d", deadline)},
			{"Digest", "0x" + hex.EncodeToString(digest)},
		}))
		return nil
	},
}

var permitSignCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a permit with a local signing account",
	Long: `Sign a permit. The signing account must be the token's current
owner for the permit to be accepted at submission time.

Example:
  permit721 permit sign --spender bob --token 1 --ttl 24h --account alice`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		spender, err := resolveActor(permitSpender)
		if err != nil {
			return err
		}
		deadline, err := permitDeadlineValue()
		if err != nil {
			return err
		}

		mgr := newAccountManager()
		name := permitAccount
		if name == "" {
			name = cfg.DefaultAccount
		}
		acct, err := mgr.Get(name)
		if err != nil {
			return fmt.Errorf("signing account %q: %w", name, err)
		}

		digest, err := a.protocol().Digest(spender, permitTokenID, deadline)
		if err != nil {
			return err
		}
		sig, err := wallet.SignDigest(acct, mgr.Keystore(), digest)
		if err != nil {
			return fmt.Errorf("signing failed: %w", err)
		}

		sigHex := "0x" + hex.EncodeToString(sig)
		fmt.Println(ui.KeyValueBlock("Permit Signed", [][2]string{
			{"Signer", ui.Addr(acct.Address)},
			{"Spender", ui.Addr(spender.Hex())},
			{"Token ID", fmt.Sprintf("%d", permitTokenID)},
			{"Deadline", fmt.Sprintf("%d", deadline)},
			{"Signature", sigHex},
		}))
		fmt.Println(ui.Hint(fmt.Sprintf(
			"Submit: permit721 permit submit --spender %s --token %d --deadline %d --sig %s",
			permitSpender, permitTokenID, deadline, sigHex)))
		return nil
	},
}

var permitSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a signed permit",
	Long: `Verify a permit signature and grant the approval. Any account may
submit — authorization comes from the signature, not the submitter.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if permitSig == "" {
			return fmt.Errorf("--sig is required")
		}
		sig, err := hex.DecodeString(strings.TrimPrefix(permitSig, "0x"))
		if err != nil {
			return fmt.Errorf("invalid signature hex: %w", err)
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		spender, err := resolveActor(permitSpender)
		if err != nil {
			return err
		}
		deadline, err := permitDeadlineValue()
		if err != nil {
			return err
		}

		if err := a.protocol().Submit(spender, permitTokenID, deadline, sig); err != nil {
			return err
		}
		if err := a.commit(); err != nil {
			return err
		}

		fmt.Println(ui.Success(fmt.Sprintf(
			"Permit accepted: %s approved for token #%d", ui.Addr(spender.Hex()), permitTokenID)))
		fmt.Println(ui.Hint(fmt.Sprintf(
			"Spend it: permit721 transfer %d --from <owner> --to <dest> --as %s",
			permitTokenID, permitSpender)))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{permitDigestCmd, permitSignCmd, permitSubmitCmd} {
		c.Flags().StringVar(&permitSpender, "spender", "", "spender (account name or address, required)")
		c.Flags().Uint64Var(&permitTokenID, "token", 0, "token id (required)")
		c.Flags().Uint64Var(&permitDeadline, "deadline", 0, "unix deadline")
		c.Flags().DurationVar(&permitTTL, "ttl", 0, "deadline as now+duration (alternative to --deadline)")
		c.MarkFlagRequired("spender") //nolint:errcheck
		c.MarkFlagRequired("token")   //nolint:errcheck
	}
	permitSignCmd.Flags().StringVar(&permitAccount, "account", "", "signing account name (default: configured default)")
	permitSubmitCmd.Flags().StringVar(&permitSig, "sig", "", "hex permit signature (required)")

	permitCmd.AddCommand(permitDigestCmd, permitSignCmd, permitSubmitCmd)
}
