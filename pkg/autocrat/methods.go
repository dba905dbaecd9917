package autocrat

import (
	"context"
	"math/big"

	"github.com/gagliardetto/solana-go"

	"autocrat/go-client/pkg/autocrat/instructions"
	"autocrat/go-client/pkg/models"
)

// InitializeDao creates the DAO. Nil mints use the configured defaults.
func (c *Client) InitializeDao(ctx context.Context, metaMint, usdcMint *solana.PublicKey) (*instructions.Handler, error) {
	return c.builder.InitializeDao(ctx, c, metaMint, usdcMint)
}

// UpdateDao must be executed by a passed proposal since the DAO treasury
// signs it. It is exposed for building that proposal instruction and for tests.
func (c *Client) UpdateDao(ctx context.Context, params models.UpdateDaoParams) (*instructions.Handler, error) {
	return c.builder.UpdateDao(ctx, c, params)
}

func (c *Client) CreateProposalInstructions(ctx context.Context, ixs []models.ProposalInstruction, keypair solana.PrivateKey) (*instructions.Handler, error) {
	return c.builder.CreateProposalInstructions(ctx, c, ixs, keypair)
}

func (c *Client) AddProposalInstructions(ctx context.Context, ixs []models.ProposalInstruction, proposalInstructions solana.PublicKey) (*instructions.Handler, error) {
	return c.builder.AddProposalInstructions(ctx, c, ixs, proposalInstructions)
}

func (c *Client) CreateProposalPartOne(ctx context.Context, descriptionURL string, proposalInstructions solana.PublicKey) (*instructions.Handler, error) {
	return c.builder.CreateProposalPartOne(ctx, c, descriptionURL, proposalInstructions)
}

func (c *Client) CreateProposalPartTwo(ctx context.Context, passPriceBps, failPriceBps, quoteLiquidityPerAmm *big.Int) (*instructions.Handler, error) {
	return c.builder.CreateProposalPartTwo(ctx, c, passPriceBps, failPriceBps, quoteLiquidityPerAmm)
}

func (c *Client) MintConditionalTokens(ctx context.Context, proposal solana.PublicKey, metaAmount, usdcAmount *big.Int) (*instructions.Handler, error) {
	return c.builder.MintConditionalTokens(ctx, c, proposal, metaAmount, usdcAmount)
}

func (c *Client) RedeemConditionalTokens(ctx context.Context, proposal solana.PublicKey) (*instructions.Handler, error) {
	return c.builder.RedeemConditionalTokens(ctx, c, proposal)
}

func (c *Client) FinalizeProposal(ctx context.Context, proposal solana.PublicKey) (*instructions.Handler, error) {
	return c.builder.FinalizeProposal(ctx, c, proposal)
}

func (c *Client) CreateAmmPositionCpi(ctx context.Context, amm solana.PublicKey) (*instructions.Handler, error) {
	return c.builder.CreateAmmPositionCpi(ctx, c, amm)
}

func (c *Client) AddLiquidityCpi(ctx context.Context, amm, ammPosition solana.PublicKey, maxBaseAmount, maxQuoteAmount *big.Int) (*instructions.Handler, error) {
	return c.builder.AddLiquidityCpi(ctx, c, amm, ammPosition, maxBaseAmount, maxQuoteAmount)
}

func (c *Client) RemoveLiquidityCpi(ctx context.Context, proposal, amm solana.PublicKey, removeBps *big.Int) (*instructions.Handler, error) {
	return c.builder.RemoveLiquidityCpi(ctx, c, proposal, amm, removeBps)
}

func (c *Client) SwapCpi(ctx context.Context, proposal, amm solana.PublicKey, isQuoteToBase bool, inputAmount, minOutputAmount *big.Int) (*instructions.Handler, error) {
	return c.builder.SwapCpi(ctx, c, proposal, amm, isQuoteToBase, inputAmount, minOutputAmount)
}

// UpdateLtwap cranks the time-weighted price of amm.
func (c *Client) UpdateLtwap(ctx context.Context, amm solana.PublicKey) (*instructions.Handler, error) {
	return c.builder.UpdateLtwap(ctx, c, amm)
}
