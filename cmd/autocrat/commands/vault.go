package commands

import (
	"github.com/spf13/cobra"
)

func vaultCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Mint and redeem conditional tokens",
	}
	cmd.AddCommand(vaultMintCmd(opts), vaultRedeemCmd(opts))
	return cmd
}

func vaultMintCmd(opts *globalOptions) *cobra.Command {
	var metaAmount, usdcAmount string
	cmd := &cobra.Command{
		Use:   "mint PROPOSAL",
		Short: "Deposit META and USDC for pass and fail conditional tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proposal, err := parsePublicKey("proposal", args[0])
			if err != nil {
				return err
			}
			meta, err := parseAmount("meta amount", metaAmount)
			if err != nil {
				return err
			}
			usdc, err := parseAmount("usdc amount", usdcAmount)
			if err != nil {
				return err
			}
			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			h, err := s.client.MintConditionalTokens(cmd.Context(), proposal, meta, usdc)
			if err != nil {
				return err
			}
			_, err = s.submit(cmd.Context(), "mint conditional tokens", h)
			return err
		},
	}
	cmd.Flags().StringVar(&metaAmount, "meta", "0", "META amount in raw units")
	cmd.Flags().StringVar(&usdcAmount, "usdc", "0", "USDC amount in raw units")
	return cmd
}

func vaultRedeemCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "redeem PROPOSAL",
		Short: "Redeem the winning side's conditional tokens of a finalized proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proposal, err := parsePublicKey("proposal", args[0])
			if err != nil {
				return err
			}
			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			h, err := s.client.RedeemConditionalTokens(cmd.Context(), proposal)
			if err != nil {
				return err
			}
			_, err = s.submit(cmd.Context(), "redeem conditional tokens", h)
			return err
		},
	}
}
