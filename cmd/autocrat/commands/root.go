// Package commands implements the autocrat CLI: one subcommand per client
// operation, sharing config, payer and connection setup.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var versionString = "dev"

type globalOptions struct {
	configPath string
	rpcURL     string
	keypair    string
	programID  string
	dryRun     bool
	verbose    bool
}

// NewRootCommand builds the full command tree. Each call returns an
// independent tree with its own flag state.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "autocrat",
		Short: "Autocrat futarchy governance client",
		Long: `autocrat builds and sends transactions for the Autocrat governance program
and its conditional-token AMM: DAO setup, proposals, conditional vaults and
market liquidity.

Settings are read from autocrat.yaml (or --config), then AUTOCRAT_* environment
variables, then flags.`,
		Version: versionString,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		FParseErrWhitelist: cobra.FParseErrWhitelist{},
		SilenceErrors:      true,
		SilenceUsage:       true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default autocrat.yaml or configs/autocrat.yaml)")
	flags.StringVar(&opts.rpcURL, "rpc-url", "", "Solana JSON-RPC endpoint")
	flags.StringVar(&opts.keypair, "keypair", "", "payer keypair file")
	flags.StringVar(&opts.programID, "program-id", "", "Autocrat program id")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print the signed transaction as base64 instead of sending it")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging to stderr")

	root.AddCommand(
		lutsCmd(opts),
		daoCmd(opts),
		proposalCmd(opts),
		vaultCmd(opts),
		ammCmd(opts),
		keygenCmd(opts),
	)
	return root
}

// Execute runs the CLI until completion or SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	versionString = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}
