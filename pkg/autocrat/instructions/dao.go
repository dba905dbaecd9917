package instructions

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"autocrat/go-client/pkg/anchor"
	"autocrat/go-client/pkg/models"
)

// InitializeDao creates the DAO account. Nil mints fall back to the
// configured META and USDC mints.
func (b *Builder) InitializeDao(_ context.Context, env Env, metaMint, usdcMint *solana.PublicKey) (*Handler, error) {
	consts := env.Constants()
	meta, usdc := consts.MetaMint, consts.UsdcMint
	if metaMint != nil {
		meta = *metaMint
	}
	if usdcMint != nil {
		usdc = *usdcMint
	}

	dao, _, err := GetDaoAddress(env.Program().ID())
	if err != nil {
		return nil, fmt.Errorf("derive dao: %w", err)
	}
	ix, err := env.Program().Instruction("initialize_dao", anchor.Accounts{
		"payer":     payer(env),
		"dao":       dao,
		"meta_mint": meta,
		"usdc_mint": usdc,
	}, nil)
	if err != nil {
		return nil, err
	}
	return newHandler(env, []solana.Instruction{ix}), nil
}

// UpdateDao builds the DAO parameter update. The treasury must sign, so the
// result is only executable as a proposal instruction.
func (b *Builder) UpdateDao(_ context.Context, env Env, params models.UpdateDaoParams) (*Handler, error) {
	programID := env.Program().ID()
	var d derivations
	dao := d.keep(GetDaoAddress(programID))
	treasury := d.keep(GetDaoTreasuryAddress(programID, dao))
	if d.err != nil {
		return nil, fmt.Errorf("derive dao: %w", d.err)
	}
	ix, err := env.Program().Instruction("update_dao", anchor.Accounts{
		"dao":          dao,
		"dao_treasury": treasury,
	}, params)
	if err != nil {
		return nil, err
	}
	return newHandler(env, []solana.Instruction{ix}), nil
}
