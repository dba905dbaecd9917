package instructions

import (
	"context"
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"

	"autocrat/go-client/pkg/anchor"
	"autocrat/go-client/pkg/models"
)

type mintConditionalTokensArgs struct {
	MetaAmount uint64
	UsdcAmount uint64
}

// vaultAccounts are the accounts shared by mint and redeem.
func vaultAccounts(ctx context.Context, env Env, proposalAddr solana.PublicKey) (anchor.Accounts, *models.Proposal, error) {
	proposal, err := fetchProposal(ctx, env, proposalAddr)
	if err != nil {
		return nil, nil, err
	}
	daoAddr, dao, err := fetchDao(ctx, env)
	if err != nil {
		return nil, nil, err
	}

	user := payer(env)
	var d derivations
	vault := d.keep(GetProposalVaultAddress(env.Program().ID(), proposal.Number))
	accounts := anchor.Accounts{
		"user":                              user,
		"dao":                               daoAddr,
		"proposal":                          proposalAddr,
		"proposal_vault":                    vault,
		"meta_mint":                         dao.MetaMint,
		"usdc_mint":                         dao.UsdcMint,
		"conditional_on_pass_meta_mint":     proposal.ConditionalOnPassMetaMint,
		"conditional_on_pass_usdc_mint":     proposal.ConditionalOnPassUsdcMint,
		"conditional_on_fail_meta_mint":     proposal.ConditionalOnFailMetaMint,
		"conditional_on_fail_usdc_mint":     proposal.ConditionalOnFailUsdcMint,
		"meta_user_ata":                     d.ata(user, dao.MetaMint),
		"usdc_user_ata":                     d.ata(user, dao.UsdcMint),
		"conditional_on_pass_meta_user_ata": d.ata(user, proposal.ConditionalOnPassMetaMint),
		"conditional_on_pass_usdc_user_ata": d.ata(user, proposal.ConditionalOnPassUsdcMint),
		"conditional_on_fail_meta_user_ata": d.ata(user, proposal.ConditionalOnFailMetaMint),
		"conditional_on_fail_usdc_user_ata": d.ata(user, proposal.ConditionalOnFailUsdcMint),
		"meta_vault_ata":                    d.ata(vault, dao.MetaMint),
		"usdc_vault_ata":                    d.ata(vault, dao.UsdcMint),
	}
	if d.err != nil {
		return nil, nil, fmt.Errorf("derive vault accounts: %w", d.err)
	}
	return accounts, proposal, nil
}

// MintConditionalTokens deposits META and USDC into the proposal vault in
// exchange for pass and fail tokens. The user's conditional token accounts
// are created first when missing.
func (b *Builder) MintConditionalTokens(ctx context.Context, env Env, proposalAddr solana.PublicKey, metaAmount, usdcAmount *big.Int) (*Handler, error) {
	var args mintConditionalTokensArgs
	var err error
	if args.MetaAmount, err = toU64("meta amount", metaAmount); err != nil {
		return nil, err
	}
	if args.UsdcAmount, err = toU64("usdc amount", usdcAmount); err != nil {
		return nil, err
	}

	accounts, proposal, err := vaultAccounts(ctx, env, proposalAddr)
	if err != nil {
		return nil, err
	}

	user := payer(env)
	ixs := make([]solana.Instruction, 0, 5)
	for _, mint := range []solana.PublicKey{
		proposal.ConditionalOnPassMetaMint,
		proposal.ConditionalOnPassUsdcMint,
		proposal.ConditionalOnFailMetaMint,
		proposal.ConditionalOnFailUsdcMint,
	} {
		ix, _, err := createIdempotentATA(user, user, mint)
		if err != nil {
			return nil, fmt.Errorf("derive token account: %w", err)
		}
		ixs = append(ixs, ix)
	}

	ix, err := env.Program().Instruction("mint_conditional_tokens", accounts, args)
	if err != nil {
		return nil, err
	}
	return newHandler(env, append(ixs, ix)), nil
}

// RedeemConditionalTokens burns the user's conditional tokens of a settled
// proposal and pays out the winning side from the vault.
func (b *Builder) RedeemConditionalTokens(ctx context.Context, env Env, proposalAddr solana.PublicKey) (*Handler, error) {
	accounts, proposal, err := vaultAccounts(ctx, env, proposalAddr)
	if err != nil {
		return nil, err
	}

	vault := accounts["proposal_vault"]
	var d derivations
	accounts["conditional_on_pass_meta_vault_ata"] = d.ata(vault, proposal.ConditionalOnPassMetaMint)
	accounts["conditional_on_pass_usdc_vault_ata"] = d.ata(vault, proposal.ConditionalOnPassUsdcMint)
	accounts["conditional_on_fail_meta_vault_ata"] = d.ata(vault, proposal.ConditionalOnFailMetaMint)
	accounts["conditional_on_fail_usdc_vault_ata"] = d.ata(vault, proposal.ConditionalOnFailUsdcMint)
	if d.err != nil {
		return nil, fmt.Errorf("derive vault accounts: %w", d.err)
	}

	ix, err := env.Program().Instruction("redeem_conditional_tokens", accounts, nil)
	if err != nil {
		return nil, err
	}
	return newHandler(env, []solana.Instruction{ix}), nil
}
