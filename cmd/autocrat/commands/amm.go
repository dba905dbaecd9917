package commands

import (
	"github.com/spf13/cobra"

	"autocrat/go-client/internal/printer"
	"autocrat/go-client/pkg/autocrat/instructions"
)

func ammCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "amm",
		Short: "Trade and provide liquidity on conditional markets",
	}
	cmd.AddCommand(
		ammPositionCmd(opts),
		ammAddLiquidityCmd(opts),
		ammRemoveLiquidityCmd(opts),
		ammSwapCmd(opts),
		ammCrankCmd(opts),
	)
	return cmd
}

func ammPositionCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "position AMM",
		Short: "Open a liquidity position on a market",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amm, err := parsePublicKey("amm", args[0])
			if err != nil {
				return err
			}
			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			position, _, err := instructions.GetAmmPositionAddress(s.client.Constants().AmmProgramID, amm, s.client.Provider().Wallet())
			if err != nil {
				return err
			}
			h, err := s.client.CreateAmmPositionCpi(cmd.Context(), amm)
			if err != nil {
				return err
			}
			printer.KeyValue(map[string]string{"position": position.String()})
			_, err = s.submit(cmd.Context(), "create amm position", h)
			return err
		},
	}
}

func ammAddLiquidityCmd(opts *globalOptions) *cobra.Command {
	var positionKey, maxBase, maxQuote string
	cmd := &cobra.Command{
		Use:   "add-liquidity AMM",
		Short: "Deposit conditional tokens into a market",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amm, err := parsePublicKey("amm", args[0])
			if err != nil {
				return err
			}
			base, err := parseAmount("max base", maxBase)
			if err != nil {
				return err
			}
			quote, err := parseAmount("max quote", maxQuote)
			if err != nil {
				return err
			}
			explicit, err := parseOptionalKey("position", positionKey)
			if err != nil {
				return err
			}
			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}

			position := explicit
			if position == nil {
				derived, _, err := instructions.GetAmmPositionAddress(s.client.Constants().AmmProgramID, amm, s.client.Provider().Wallet())
				if err != nil {
					return err
				}
				position = &derived
			}
			h, err := s.client.AddLiquidityCpi(cmd.Context(), amm, *position, base, quote)
			if err != nil {
				return err
			}
			_, err = s.submit(cmd.Context(), "add liquidity", h)
			return err
		},
	}
	cmd.Flags().StringVar(&positionKey, "position", "", "position account (default: the payer's position)")
	cmd.Flags().StringVar(&maxBase, "max-base", "", "maximum conditional base tokens to deposit")
	cmd.Flags().StringVar(&maxQuote, "max-quote", "", "maximum conditional quote tokens to deposit")
	_ = cmd.MarkFlagRequired("max-base")
	_ = cmd.MarkFlagRequired("max-quote")
	return cmd
}

func ammRemoveLiquidityCmd(opts *globalOptions) *cobra.Command {
	var bps string
	cmd := &cobra.Command{
		Use:   "remove-liquidity PROPOSAL AMM",
		Short: "Withdraw a share of the payer's position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			proposal, err := parsePublicKey("proposal", args[0])
			if err != nil {
				return err
			}
			amm, err := parsePublicKey("amm", args[1])
			if err != nil {
				return err
			}
			removeBps, err := parseAmount("bps", bps)
			if err != nil {
				return err
			}
			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			h, err := s.client.RemoveLiquidityCpi(cmd.Context(), proposal, amm, removeBps)
			if err != nil {
				return err
			}
			_, err = s.submit(cmd.Context(), "remove liquidity", h)
			return err
		},
	}
	cmd.Flags().StringVar(&bps, "bps", "10000", "share of the position to withdraw in basis points")
	return cmd
}

func ammSwapCmd(opts *globalOptions) *cobra.Command {
	var (
		quoteToBase   bool
		input, minOut string
	)
	cmd := &cobra.Command{
		Use:   "swap PROPOSAL AMM",
		Short: "Swap between a market's conditional base and quote tokens",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			proposal, err := parsePublicKey("proposal", args[0])
			if err != nil {
				return err
			}
			amm, err := parsePublicKey("amm", args[1])
			if err != nil {
				return err
			}
			in, err := parseAmount("input", input)
			if err != nil {
				return err
			}
			out, err := parseAmount("min output", minOut)
			if err != nil {
				return err
			}
			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			h, err := s.client.SwapCpi(cmd.Context(), proposal, amm, quoteToBase, in, out)
			if err != nil {
				return err
			}
			_, err = s.submit(cmd.Context(), "swap", h)
			return err
		},
	}
	cmd.Flags().BoolVar(&quoteToBase, "quote-to-base", false, "sell quote for base (default sells base for quote)")
	cmd.Flags().StringVar(&input, "input", "", "input amount in raw units")
	cmd.Flags().StringVar(&minOut, "min-output", "0", "minimum output amount in raw units")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func ammCrankCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "crank AMM",
		Short: "Update a market's LTWAP oracle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amm, err := parsePublicKey("amm", args[0])
			if err != nil {
				return err
			}
			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			h, err := s.client.UpdateLtwap(cmd.Context(), amm)
			if err != nil {
				return err
			}
			_, err = s.submit(cmd.Context(), "update ltwap", h)
			return err
		},
	}
}
