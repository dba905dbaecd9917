package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"autocrat/go-client/internal/printer"
	"autocrat/go-client/pkg/autocrat/instructions"
	"autocrat/go-client/pkg/models"
)

func daoCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dao",
		Short: "Create or reconfigure the DAO",
	}
	cmd.AddCommand(daoInitCmd(opts), daoUpdateCmd(opts))
	return cmd
}

func daoInitCmd(opts *globalOptions) *cobra.Command {
	var metaMint, usdcMint string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the DAO account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := parseOptionalKey("meta mint", metaMint)
			if err != nil {
				return err
			}
			usdc, err := parseOptionalKey("usdc mint", usdcMint)
			if err != nil {
				return err
			}
			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}

			h, err := s.client.InitializeDao(cmd.Context(), meta, usdc)
			if err != nil {
				return err
			}
			dao, _, err := instructions.GetDaoAddress(s.client.Program().ID())
			if err != nil {
				return err
			}
			printer.KeyValue(map[string]string{"dao": dao.String()})
			_, err = s.submit(cmd.Context(), "initialize dao", h)
			return err
		},
	}
	cmd.Flags().StringVar(&metaMint, "meta-mint", "", "META mint (default from config)")
	cmd.Flags().StringVar(&usdcMint, "usdc-mint", "", "USDC mint (default from config)")
	return cmd
}

func daoUpdateCmd(opts *globalOptions) *cobra.Command {
	var (
		passThresholdBps      uint64
		slotsPerProposal      uint64
		initialQuoteLiquidity uint64
		swapFeeBps            uint64
		ltwapDecimals         uint8
	)
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Print an update_dao proposal instruction (only the flags given are changed)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var params models.UpdateDaoParams
			flags := cmd.Flags()
			if flags.Changed("pass-threshold-bps") {
				params.PassThresholdBps = &passThresholdBps
			}
			if flags.Changed("slots-per-proposal") {
				params.SlotsPerProposal = &slotsPerProposal
			}
			if flags.Changed("initial-quote-liquidity") {
				params.AmmInitialQuoteLiquidityAmount = &initialQuoteLiquidity
			}
			if flags.Changed("swap-fee-bps") {
				params.AmmSwapFeeBps = &swapFeeBps
			}
			if flags.Changed("ltwap-decimals") {
				params.AmmLtwapDecimals = &ltwapDecimals
			}
			if params.IsEmpty() {
				return printer.Error("Nothing to update", "No DAO parameter flags were given.", []string{
					"Pass at least one of --pass-threshold-bps, --slots-per-proposal, --initial-quote-liquidity, --swap-fee-bps, --ltwap-decimals.",
				})
			}

			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			h, err := s.client.UpdateDao(cmd.Context(), params)
			if err != nil {
				return err
			}
			defer s.reportMetrics()

			// The treasury is a program address, so update_dao only runs as
			// part of a passed proposal. Emit it in proposal file form.
			out := make([]models.ProposalInstruction, 0, len(h.Instructions()))
			for _, ix := range h.Instructions() {
				pi, err := models.NewProposalInstruction(ix)
				if err != nil {
					return err
				}
				out = append(out, pi)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return err
			}
			printer.Warning("update_dao is signed by the DAO treasury; pass this file to: autocrat proposal instructions create --file\n")
			return nil
		},
	}
	cmd.Flags().Uint64Var(&passThresholdBps, "pass-threshold-bps", 0, "pass threshold in basis points")
	cmd.Flags().Uint64Var(&slotsPerProposal, "slots-per-proposal", 0, "proposal duration in slots")
	cmd.Flags().Uint64Var(&initialQuoteLiquidity, "initial-quote-liquidity", 0, "initial AMM quote liquidity")
	cmd.Flags().Uint64Var(&swapFeeBps, "swap-fee-bps", 0, "AMM swap fee in basis points")
	cmd.Flags().Uint8Var(&ltwapDecimals, "ltwap-decimals", 0, "AMM LTWAP decimals")
	return cmd
}
