package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"autocrat/go-client/internal/config"
	"autocrat/go-client/internal/keystore"
	"autocrat/go-client/internal/platform/privacylog"
	"autocrat/go-client/internal/printer"
	"autocrat/go-client/pkg/autocrat"
	"autocrat/go-client/pkg/autocrat/instructions"
	"autocrat/go-client/pkg/provider"
)

// newRPC opens the JSON-RPC connection for endpoint.
var newRPC = func(endpoint string) provider.RPC {
	return solanarpc.New(endpoint)
}

// session is everything a command needs to build and send transactions.
type session struct {
	cfg      config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	client   *autocrat.Client
	dryRun   bool
}

// loadConfig layers flags over the file and environment configuration.
func (o *globalOptions) loadConfig() (config.Config, error) {
	cfg, err := config.LoadFromPath(o.configPath)
	if err != nil {
		return config.Config{}, printer.Error("Invalid configuration", err.Error(), []string{
			"Check the file passed with --config or unset it to use defaults.",
		})
	}
	if o.rpcURL != "" {
		cfg.RPCURL = o.rpcURL
	}
	if o.keypair != "" {
		cfg.Keypair = o.keypair
	}
	if o.programID != "" {
		cfg.ProgramID = o.programID
	}
	if o.verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	return privacylog.NewLogger(w, lvl), nil
}

// openSession loads the payer, connects the provider and resolves the
// client's lookup tables.
func (o *globalOptions) openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return nil, printer.Error("Invalid configuration", err.Error(), nil)
	}
	consts, err := cfg.Constants()
	if err != nil {
		return nil, printer.Error("Invalid configuration", err.Error(), nil)
	}
	commitment, err := cfg.CommitmentType()
	if err != nil {
		return nil, printer.Error("Invalid configuration", err.Error(), []string{
			"Use one of processed, confirmed or finalized.",
		})
	}

	path, err := cfg.KeypairPath()
	if err != nil {
		return nil, err
	}
	wallet, err := keystore.LoadKeypair(path, cfg.KeypairPassphrase)
	if err != nil {
		suggestions := []string{"Pass --keypair or set wallet.keypair in the config file.", "Create one with: autocrat keygen"}
		if errors.Is(err, keystore.ErrPassphraseRequired) || errors.Is(err, keystore.ErrAuthFailed) {
			suggestions = []string{"Set AUTOCRAT_KEYPAIR_PASSPHRASE to the keyfile passphrase."}
		}
		return nil, printer.ErrorWithContext("Cannot load payer keypair", err.Error(), map[string]string{"path": path}, suggestions)
	}

	registry := prometheus.NewRegistry()
	p := provider.New(newRPC(cfg.RPCURL), wallet,
		provider.WithLogger(logger),
		provider.WithCommitment(commitment),
		provider.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		provider.WithConfirmation(cfg.ConfirmTimeout, 0),
		provider.WithSkipPreflight(cfg.SkipPreflight),
		provider.WithMetrics(registry),
	)
	logger.Debug("session opened", "payer", p.Wallet().String(), "rpc", cfg.RPCURL, "lookup_tables", len(consts.LookupTables))

	client, err := autocrat.CreateClient(cmd.Context(), autocrat.CreateClientParams{
		Provider:  p,
		Constants: &consts,
	})
	if err != nil {
		suggestions := []string{"Check --rpc-url and network connectivity."}
		if errors.Is(err, provider.ErrLookupTableNotFound) || errors.Is(err, provider.ErrInvalidLookupTable) {
			suggestions = []string{"Set program.lookupTables (or AUTOCRAT_LOOKUP_TABLES) to tables that exist on this cluster."}
		}
		return nil, printer.ErrorWithContext("Cannot create client", err.Error(), map[string]string{"rpc": cfg.RPCURL}, suggestions)
	}

	return &session{cfg: cfg, logger: logger, registry: registry, client: client, dryRun: o.dryRun}, nil
}

// submit sends h, or prints it when the session is a dry run.
func (s *session) submit(ctx context.Context, label string, h *instructions.Handler) (solana.Signature, error) {
	defer s.reportMetrics()

	if s.dryRun {
		tx, err := h.Transaction(ctx)
		if err != nil {
			return solana.Signature{}, printer.Error(fmt.Sprintf("Cannot build %s transaction", label), err.Error(), nil)
		}
		encoded, err := tx.ToBase64()
		if err != nil {
			return solana.Signature{}, err
		}
		printer.Info("%s: %s\n", label, encoded)
		return solana.Signature{}, nil
	}

	printer.Step("sending %s\n", label)
	sig, err := h.Send(ctx)
	if err != nil {
		details := map[string]string{"rpc": s.cfg.RPCURL}
		if sig != (solana.Signature{}) {
			details["signature"] = sig.String()
		}
		return sig, printer.ErrorWithContext(fmt.Sprintf("%s failed", label), err.Error(), details, nil)
	}
	printer.Success("%s confirmed: %s\n", label, sig)
	return sig, nil
}

// reportMetrics logs the RPC counters collected during the command.
func (s *session) reportMetrics() {
	families, err := s.registry.Gather()
	if err != nil {
		s.logger.Debug("gather metrics failed", "reason", err.Error())
		return
	}
	for _, family := range families {
		if !strings.HasSuffix(family.GetName(), "_total") {
			continue
		}
		for _, m := range family.GetMetric() {
			attrs := []any{"metric", family.GetName(), "value", m.GetCounter().GetValue()}
			for _, label := range m.GetLabel() {
				attrs = append(attrs, label.GetName(), label.GetValue())
			}
			s.logger.Debug("rpc usage", attrs...)
		}
	}
}
