package commands

import (
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"autocrat/go-client/internal/printer"
	"autocrat/go-client/pkg/autocrat/instructions"
	"autocrat/go-client/pkg/models"
)

func proposalCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proposal",
		Short: "Create and finalize proposals",
	}
	instructionsCmd := &cobra.Command{
		Use:   "instructions",
		Short: "Manage the instruction list a proposal executes",
	}
	instructionsCmd.AddCommand(proposalInstructionsCreateCmd(opts), proposalInstructionsAddCmd(opts))
	cmd.AddCommand(instructionsCmd, proposalCreateCmd(opts), proposalFinalizeCmd(opts))
	return cmd
}

func proposalInstructionsCreateCmd(opts *globalOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a proposal instructions account from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ixs, err := readProposalInstructions(file)
			if err != nil {
				return err
			}
			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}

			account := solana.NewWallet().PrivateKey
			h, err := s.client.CreateProposalInstructions(cmd.Context(), ixs, account)
			if err != nil {
				return err
			}
			printer.KeyValue(map[string]string{"proposal instructions": account.PublicKey().String()})
			_, err = s.submit(cmd.Context(), "create proposal instructions", h)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with the instructions")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func proposalInstructionsAddCmd(opts *globalOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "add PROPOSAL_INSTRUCTIONS",
		Short: "Append instructions from a JSON file to an existing account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := parsePublicKey("proposal instructions", args[0])
			if err != nil {
				return err
			}
			ixs, err := readProposalInstructions(file)
			if err != nil {
				return err
			}
			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}

			h, err := s.client.AddProposalInstructions(cmd.Context(), ixs, account)
			if err != nil {
				return err
			}
			_, err = s.submit(cmd.Context(), "add proposal instructions", h)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with the instructions")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func proposalCreateCmd(opts *globalOptions) *cobra.Command {
	var descriptionURL, passPrice, failPrice, quoteLiquidity string
	cmd := &cobra.Command{
		Use:   "create PROPOSAL_INSTRUCTIONS",
		Short: "Create a proposal and its conditional markets",
		Long: `Create a proposal in two transactions: the first creates the proposal
account, the second its vault, conditional mints and pass/fail markets.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ixAccount, err := parsePublicKey("proposal instructions", args[0])
			if err != nil {
				return err
			}
			pass, err := parseAmount("pass price", passPrice)
			if err != nil {
				return err
			}
			fail, err := parseAmount("fail price", failPrice)
			if err != nil {
				return err
			}
			liquidity, err := parseAmount("quote liquidity", quoteLiquidity)
			if err != nil {
				return err
			}
			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			programID := s.client.Program().ID()
			daoAddr, _, err := instructions.GetDaoAddress(programID)
			if err != nil {
				return err
			}
			var dao models.Dao
			if err := s.client.Program().FetchAccount(ctx, "Dao", daoAddr, &dao); err != nil {
				return err
			}
			proposal, _, err := instructions.GetProposalAddress(programID, dao.ProposalCount)
			if err != nil {
				return err
			}
			printer.KeyValue(map[string]string{"proposal": proposal.String()})

			partOne, err := s.client.CreateProposalPartOne(ctx, descriptionURL, ixAccount)
			if err != nil {
				return err
			}
			if _, err := s.submit(ctx, "create proposal (1/2)", partOne); err != nil {
				return err
			}
			partTwo, err := s.client.CreateProposalPartTwo(ctx, pass, fail, liquidity)
			if err != nil {
				return err
			}
			_, err = s.submit(ctx, "create proposal (2/2)", partTwo)
			return err
		},
	}
	cmd.Flags().StringVar(&descriptionURL, "description-url", "", "link to the proposal description")
	cmd.Flags().StringVar(&passPrice, "pass-price-bps", "", "initial pass market price, quote units per base unit in bps")
	cmd.Flags().StringVar(&failPrice, "fail-price-bps", "", "initial fail market price, quote units per base unit in bps")
	cmd.Flags().StringVar(&quoteLiquidity, "quote-liquidity", "", "quote liquidity seeded into each market")
	for _, name := range []string{"description-url", "pass-price-bps", "fail-price-bps", "quote-liquidity"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func proposalFinalizeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "finalize PROPOSAL",
		Short: "Finalize a proposal, executing its instructions if it passed",
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
			h, err := s.client.FinalizeProposal(cmd.Context(), proposal)
			if err != nil {
				return err
			}
			_, err = s.submit(cmd.Context(), "finalize proposal", h)
			return err
		},
	}
}
