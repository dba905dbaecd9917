package instructions

import (
	"context"
	"fmt"
	"math/big"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"autocrat/go-client/pkg/anchor"
	"autocrat/go-client/pkg/models"
)

type proposalInstructionsArgs struct {
	Instructions []models.ProposalInstruction
}

type createProposalPartOneArgs struct {
	DescriptionURL string
}

type createProposalPartTwoArgs struct {
	InitialPassMarketPriceQuoteUnitsPerBaseUnitBps bin.Uint128
	InitialFailMarketPriceQuoteUnitsPerBaseUnitBps bin.Uint128
	QuoteLiquidityAmountPerAmm                     uint64
}

// CreateProposalInstructions creates the instruction list account at
// keypair's address; keypair co-signs the transaction.
func (b *Builder) CreateProposalInstructions(_ context.Context, env Env, ixs []models.ProposalInstruction, keypair solana.PrivateKey) (*Handler, error) {
	ix, err := env.Program().Instruction("create_proposal_instructions", anchor.Accounts{
		"proposer":              payer(env),
		"proposal_instructions": keypair.PublicKey(),
	}, proposalInstructionsArgs{Instructions: ixs})
	if err != nil {
		return nil, err
	}
	return newHandler(env, []solana.Instruction{ix}, keypair), nil
}

func (b *Builder) AddProposalInstructions(_ context.Context, env Env, ixs []models.ProposalInstruction, proposalInstructions solana.PublicKey) (*Handler, error) {
	ix, err := env.Program().Instruction("add_proposal_instructions", anchor.Accounts{
		"proposer":              payer(env),
		"proposal_instructions": proposalInstructions,
	}, proposalInstructionsArgs{Instructions: ixs})
	if err != nil {
		return nil, err
	}
	return newHandler(env, []solana.Instruction{ix}), nil
}

// CreateProposalPartOne creates the proposal numbered by the DAO's current
// proposal count.
func (b *Builder) CreateProposalPartOne(ctx context.Context, env Env, descriptionURL string, proposalInstructions solana.PublicKey) (*Handler, error) {
	daoAddr, dao, err := fetchDao(ctx, env)
	if err != nil {
		return nil, err
	}
	proposal, _, err := GetProposalAddress(env.Program().ID(), dao.ProposalCount)
	if err != nil {
		return nil, fmt.Errorf("derive proposal: %w", err)
	}
	ix, err := env.Program().Instruction("create_proposal_part_one", anchor.Accounts{
		"proposer":              payer(env),
		"dao":                   daoAddr,
		"proposal":              proposal,
		"proposal_instructions": proposalInstructions,
	}, createProposalPartOneArgs{DescriptionURL: descriptionURL})
	if err != nil {
		return nil, err
	}
	return newHandler(env, []solana.Instruction{ix}), nil
}

// CreateProposalPartTwo sets up the vault, conditional mints and markets of
// the proposal created by part one. The program increments the DAO's
// proposal count when it completes.
func (b *Builder) CreateProposalPartTwo(ctx context.Context, env Env, passPriceBps, failPriceBps, quoteLiquidityPerAmm *big.Int) (*Handler, error) {
	var args createProposalPartTwoArgs
	var err error
	if args.InitialPassMarketPriceQuoteUnitsPerBaseUnitBps, err = toU128("pass price", passPriceBps); err != nil {
		return nil, err
	}
	if args.InitialFailMarketPriceQuoteUnitsPerBaseUnitBps, err = toU128("fail price", failPriceBps); err != nil {
		return nil, err
	}
	if args.QuoteLiquidityAmountPerAmm, err = toU64("quote liquidity", quoteLiquidityPerAmm); err != nil {
		return nil, err
	}

	daoAddr, dao, err := fetchDao(ctx, env)
	if err != nil {
		return nil, err
	}
	programID := env.Program().ID()
	ammProgramID := env.Constants().AmmProgramID
	proposer := payer(env)

	var d derivations
	proposal := d.keep(GetProposalAddress(programID, dao.ProposalCount))
	vault := d.keep(GetProposalVaultAddress(programID, dao.ProposalCount))
	mints := d.conditionalMints(programID, proposal)
	accounts := anchor.Accounts{
		"proposer":                      proposer,
		"dao":                           daoAddr,
		"proposal":                      proposal,
		"proposal_vault":                vault,
		"meta_mint":                     dao.MetaMint,
		"usdc_mint":                     dao.UsdcMint,
		"conditional_on_pass_meta_mint": mints[0],
		"conditional_on_pass_usdc_mint": mints[1],
		"conditional_on_fail_meta_mint": mints[2],
		"conditional_on_fail_usdc_mint": mints[3],
		"meta_proposer_ata":             d.ata(proposer, dao.MetaMint),
		"usdc_proposer_ata":             d.ata(proposer, dao.UsdcMint),
		"meta_vault_ata":                d.ata(vault, dao.MetaMint),
		"usdc_vault_ata":                d.ata(vault, dao.UsdcMint),
		"pass_market_amm":               d.keep(GetPassMarketAmmAddress(ammProgramID, proposal)),
		"fail_market_amm":               d.keep(GetFailMarketAmmAddress(ammProgramID, proposal)),
		"amm_auth_pda":                  d.keep(GetAmmAuthAddress(programID)),
		"amm_program":                   ammProgramID,
	}
	if d.err != nil {
		return nil, fmt.Errorf("derive proposal accounts: %w", d.err)
	}

	ix, err := env.Program().Instruction("create_proposal_part_two", accounts, args)
	if err != nil {
		return nil, err
	}
	return newHandler(env, []solana.Instruction{ix}), nil
}

// FinalizeProposal settles the proposal. Every account of every stored
// instruction is passed as a remaining account so the program can execute
// them when the proposal passes.
func (b *Builder) FinalizeProposal(ctx context.Context, env Env, proposalAddr solana.PublicKey) (*Handler, error) {
	proposal, err := fetchProposal(ctx, env, proposalAddr)
	if err != nil {
		return nil, err
	}
	var stored models.ProposalInstructions
	if err := env.Program().FetchAccount(ctx, "ProposalInstructions", proposal.Instructions, &stored); err != nil {
		return nil, err
	}

	var d derivations
	dao := d.keep(GetDaoAddress(env.Program().ID()))
	treasury := d.keep(GetDaoTreasuryAddress(env.Program().ID(), dao))
	if d.err != nil {
		return nil, fmt.Errorf("derive dao: %w", d.err)
	}

	ix, err := env.Program().Instruction("finalize_proposal", anchor.Accounts{
		"proposal":        proposalAddr,
		"instructions":    proposal.Instructions,
		"dao":             dao,
		"dao_treasury":    treasury,
		"pass_market_amm": proposal.PassMarketAmm,
		"fail_market_amm": proposal.FailMarketAmm,
	}, nil, remainingAccounts(stored.Instructions, treasury)...)
	if err != nil {
		return nil, err
	}
	return newHandler(env, []solana.Instruction{ix}), nil
}

// remainingAccounts flattens the program id and accounts of ixs in first-seen
// order. Repeated keys are merged with their flags OR-ed. The treasury is
// signed for by the program and is never marked as a signer.
func remainingAccounts(ixs []models.ProposalInstruction, treasury solana.PublicKey) []*solana.AccountMeta {
	var out []*solana.AccountMeta
	index := make(map[solana.PublicKey]*solana.AccountMeta)
	add := func(key solana.PublicKey, writable, signer bool) {
		if key.Equals(treasury) {
			signer = false
		}
		if meta, ok := index[key]; ok {
			meta.IsWritable = meta.IsWritable || writable
			meta.IsSigner = meta.IsSigner || signer
			return
		}
		meta := solana.NewAccountMeta(key, writable, signer)
		index[key] = meta
		out = append(out, meta)
	}
	for _, ix := range ixs {
		add(ix.ProgramID, false, false)
		for _, acc := range ix.Accounts {
			add(acc.Pubkey, acc.IsWritable, acc.IsSigner)
		}
	}
	return out
}
