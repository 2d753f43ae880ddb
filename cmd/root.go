package cmd

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/tokenforge/permit721/internal/config"
	"github.com/tokenforge/permit721/internal/eventlog"
	"github.com/tokenforge/permit721/internal/permit"
	"github.com/tokenforge/permit721/internal/registry"
	"github.com/tokenforge/permit721/internal/statefile"
	"github.com/tokenforge/permit721/internal/typeddata"
	"github.com/tokenforge/permit721/internal/wallet"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/tokenforge/permit721/cmd.Version=1.2.3" .
var Version = "1.0.0"

var (
	cfgDir string
	cfg    *config.Config
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "permit721",
	Short: "Local ERC-721 registry with signature-based approvals",
	Long: `permit721 — an ERC-721 token registry with EIP-4494 permits.

Mint, transfer and burn tokens in a locally persisted ledger, and
authorize transfers gas-lessly: a token owner signs an EIP-712 permit
off-line, anyone submits it, and the named spender gains approval for
that one token until the deadline passes or a transfer bumps the
token's nonce.

Start with: permit721 init`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// PERMIT721_CONFIG_DIR env var overrides --config flag.
	if envDir := os.Getenv("PERMIT721_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.permit721)")

	rootCmd.AddCommand(
		initCmd,
		accountCmd,
		mintCmd,
		burnCmd,
		transferCmd,
		approveCmd,
		operatorCmd,
		tokenCmd,
		supplyCmd,
		noncesCmd,
		interfaceCmd,
		permitCmd,
		eventsCmd,
		watchCmd,
	)
}

// ── shared helpers ────────────────────────────────────────────────────────────

// app bundles the loaded registry and its persistence for one command.
type app struct {
	cfg   *config.Config
	reg   *registry.Registry
	store *statefile.Store
}

// openApp loads the persisted ledger for the configured collection.
func openApp() (*app, error) {
	regCfg := registry.Config{
		Name:      cfg.Name,
		Symbol:    cfg.Symbol,
		BaseURI:   cfg.BaseURI,
		MaxSupply: cfg.MaxSupply,
		Minter:    common.HexToAddress(cfg.Minter),
	}

	store := statefile.NewStore(cfg.LedgerPath())
	snap, err := store.Load()
	if err != nil {
		return nil, err
	}

	var reg *registry.Registry
	if snap == nil {
		reg = registry.New(regCfg)
	} else {
		reg, err = registry.FromSnapshot(regCfg, snap)
		if err != nil {
			return nil, fmt.Errorf("restoring ledger: %w", err)
		}
	}

	return &app{cfg: cfg, reg: reg, store: store}, nil
}

// domain returns the EIP-712 signing domain from config.
func (a *app) domain() typeddata.Domain {
	return typeddata.Domain{
		ChainID:  a.cfg.ChainID,
		Contract: common.HexToAddress(a.cfg.RegistryAddress),
	}
}

// protocol returns the permit protocol bound to the loaded registry.
func (a *app) protocol() *permit.Protocol {
	return permit.New(a.reg, a.domain())
}

// commit persists the ledger and appends the drained events to the
// event log. Call it once after a successful mutating operation.
func (a *app) commit() error {
	if err := a.store.Save(a.reg.Snapshot()); err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}
	events := a.reg.DrainEvents()
	if len(events) == 0 {
		return nil
	}
	log, err := eventlog.Open(a.cfg.EventLogPath())
	if err != nil {
		return err
	}
	defer log.Close()
	return log.Append(events)
}

// newAccountManager returns the account manager over the config dir.
func newAccountManager() *wallet.Manager {
	return wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(cfg.AccountsPath())))
}

// parseAddr parses a 0x address, rejecting malformed input.
func parseAddr(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address: %q", s)
	}
	return common.HexToAddress(s), nil
}

// resolveActor turns an --as flag value (account name or hex address)
// into an address, falling back to the default account when empty.
func resolveActor(val string) (common.Address, error) {
	if common.IsHexAddress(val) {
		return common.HexToAddress(val), nil
	}
	mgr := newAccountManager()
	if val != "" {
		acct, err := mgr.Get(val)
		if err != nil {
			return common.Address{}, fmt.Errorf("account %q: %w", val, err)
		}
		return common.HexToAddress(acct.Address), nil
	}
	if cfg.DefaultAccount != "" {
		acct, err := mgr.Get(cfg.DefaultAccount)
		if err == nil {
			return common.HexToAddress(acct.Address), nil
		}
	}
	if def := mgr.Default(); def != nil {
		return common.HexToAddress(def.Address), nil
	}
	return common.Address{}, fmt.Errorf("no acting account: pass --as <name|address> or add an account first")
}
