package instructions

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"autocrat/go-client/pkg/models"
)

// Builder is the default instruction builder. It is stateless and safe for
// concurrent use.
type Builder struct{}

func NewBuilder() *Builder { return &Builder{} }

func fetchDao(ctx context.Context, env Env) (solana.PublicKey, *models.Dao, error) {
	daoAddr, _, err := GetDaoAddress(env.Program().ID())
	if err != nil {
		return solana.PublicKey{}, nil, fmt.Errorf("derive dao: %w", err)
	}
	var dao models.Dao
	if err := env.Program().FetchAccount(ctx, "Dao", daoAddr, &dao); err != nil {
		return solana.PublicKey{}, nil, err
	}
	return daoAddr, &dao, nil
}

func fetchProposal(ctx context.Context, env Env, addr solana.PublicKey) (*models.Proposal, error) {
	var proposal models.Proposal
	if err := env.Program().FetchAccount(ctx, "Proposal", addr, &proposal); err != nil {
		return nil, err
	}
	return &proposal, nil
}

func fetchAmm(ctx context.Context, env Env, addr solana.PublicKey) (*models.Amm, error) {
	var amm models.Amm
	if err := ammProgram(env).FetchAccount(ctx, "Amm", addr, &amm); err != nil {
		return nil, err
	}
	return &amm, nil
}

// createIdempotentATA returns the associated token program's
// CreateIdempotent instruction for owner's account of mint.
func createIdempotentATA(payer, owner, mint solana.PublicKey) (solana.Instruction, solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	ix := solana.NewInstruction(solana.SPLAssociatedTokenAccountProgramID, solana.AccountMetaSlice{
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(ata).WRITE(),
		solana.Meta(owner),
		solana.Meta(mint),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.TokenProgramID),
	}, []byte{1})
	return ix, ata, nil
}
