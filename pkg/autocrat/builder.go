package autocrat

import (
	"context"
	"math/big"

	"github.com/gagliardetto/solana-go"

	"autocrat/go-client/pkg/autocrat/instructions"
	"autocrat/go-client/pkg/models"
)

type DaoBuilder interface {
	InitializeDao(ctx context.Context, env instructions.Env, metaMint, usdcMint *solana.PublicKey) (*instructions.Handler, error)
	UpdateDao(ctx context.Context, env instructions.Env, params models.UpdateDaoParams) (*instructions.Handler, error)
}

type ProposalBuilder interface {
	CreateProposalInstructions(ctx context.Context, env instructions.Env, ixs []models.ProposalInstruction, keypair solana.PrivateKey) (*instructions.Handler, error)
	AddProposalInstructions(ctx context.Context, env instructions.Env, ixs []models.ProposalInstruction, proposalInstructions solana.PublicKey) (*instructions.Handler, error)
	CreateProposalPartOne(ctx context.Context, env instructions.Env, descriptionURL string, proposalInstructions solana.PublicKey) (*instructions.Handler, error)
	CreateProposalPartTwo(ctx context.Context, env instructions.Env, passPriceBps, failPriceBps, quoteLiquidityPerAmm *big.Int) (*instructions.Handler, error)
	FinalizeProposal(ctx context.Context, env instructions.Env, proposal solana.PublicKey) (*instructions.Handler, error)
}

type VaultBuilder interface {
	MintConditionalTokens(ctx context.Context, env instructions.Env, proposal solana.PublicKey, metaAmount, usdcAmount *big.Int) (*instructions.Handler, error)
	RedeemConditionalTokens(ctx context.Context, env instructions.Env, proposal solana.PublicKey) (*instructions.Handler, error)
}

type AmmBuilder interface {
	CreateAmmPositionCpi(ctx context.Context, env instructions.Env, amm solana.PublicKey) (*instructions.Handler, error)
	AddLiquidityCpi(ctx context.Context, env instructions.Env, amm, ammPosition solana.PublicKey, maxBaseAmount, maxQuoteAmount *big.Int) (*instructions.Handler, error)
	RemoveLiquidityCpi(ctx context.Context, env instructions.Env, proposal, amm solana.PublicKey, removeBps *big.Int) (*instructions.Handler, error)
	SwapCpi(ctx context.Context, env instructions.Env, proposal, amm solana.PublicKey, isQuoteToBase bool, inputAmount, minOutputAmount *big.Int) (*instructions.Handler, error)
	UpdateLtwap(ctx context.Context, env instructions.Env, amm solana.PublicKey) (*instructions.Handler, error)
}

// InstructionBuilder is everything a Client delegates to.
type InstructionBuilder interface {
	DaoBuilder
	ProposalBuilder
	VaultBuilder
	AmmBuilder
}

var _ InstructionBuilder = (*instructions.Builder)(nil)
