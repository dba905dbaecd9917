package instructions

import (
	"context"
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"

	"autocrat/go-client/pkg/anchor"
	"autocrat/go-client/pkg/models"
)

type addLiquidityArgs struct {
	MaxBaseAmount  uint64
	MaxQuoteAmount uint64
}

type removeLiquidityArgs struct {
	RemoveBps uint64
}

type swapArgs struct {
	IsQuoteToBase   bool
	InputAmount     uint64
	OutputAmountMin uint64
}

// marketAccounts are the mint and token accounts the user and the AMM trade
// through.
func marketAccounts(d *derivations, user, ammAddr solana.PublicKey, amm *models.Amm) anchor.Accounts {
	return anchor.Accounts{
		"user":                        user,
		"amm":                         ammAddr,
		"conditional_base_mint":       amm.ConditionalBaseMint,
		"conditional_quote_mint":      amm.ConditionalQuoteMint,
		"user_ata_conditional_base":   d.ata(user, amm.ConditionalBaseMint),
		"user_ata_conditional_quote":  d.ata(user, amm.ConditionalQuoteMint),
		"vault_ata_conditional_base":  d.ata(ammAddr, amm.ConditionalBaseMint),
		"vault_ata_conditional_quote": d.ata(ammAddr, amm.ConditionalQuoteMint),
	}
}

// ensureTokenAccounts returns idempotent creation of the user's base and
// quote accounts of amm.
func ensureTokenAccounts(user solana.PublicKey, amm *models.Amm) ([]solana.Instruction, error) {
	ixs := make([]solana.Instruction, 0, 2)
	for _, mint := range []solana.PublicKey{amm.ConditionalBaseMint, amm.ConditionalQuoteMint} {
		ix, _, err := createIdempotentATA(user, user, mint)
		if err != nil {
			return nil, fmt.Errorf("derive token account: %w", err)
		}
		ixs = append(ixs, ix)
	}
	return ixs, nil
}

func (b *Builder) CreateAmmPositionCpi(_ context.Context, env Env, amm solana.PublicKey) (*Handler, error) {
	consts := env.Constants()
	user := payer(env)
	var d derivations
	accounts := anchor.Accounts{
		"user":         user,
		"amm":          amm,
		"amm_position": d.keep(GetAmmPositionAddress(consts.AmmProgramID, amm, user)),
		"amm_auth_pda": d.keep(GetAmmAuthAddress(env.Program().ID())),
		"amm_program":  consts.AmmProgramID,
	}
	if d.err != nil {
		return nil, fmt.Errorf("derive position accounts: %w", d.err)
	}
	ix, err := env.Program().Instruction("create_amm_position", accounts, nil)
	if err != nil {
		return nil, err
	}
	return newHandler(env, []solana.Instruction{ix}), nil
}

func (b *Builder) AddLiquidityCpi(ctx context.Context, env Env, ammAddr, ammPosition solana.PublicKey, maxBaseAmount, maxQuoteAmount *big.Int) (*Handler, error) {
	var args addLiquidityArgs
	var err error
	if args.MaxBaseAmount, err = toU64("max base amount", maxBaseAmount); err != nil {
		return nil, err
	}
	if args.MaxQuoteAmount, err = toU64("max quote amount", maxQuoteAmount); err != nil {
		return nil, err
	}

	amm, err := fetchAmm(ctx, env, ammAddr)
	if err != nil {
		return nil, err
	}
	var d derivations
	accounts := marketAccounts(&d, payer(env), ammAddr, amm)
	accounts["dao"] = d.keep(GetDaoAddress(env.Program().ID()))
	accounts["amm_position"] = ammPosition
	accounts["amm_auth_pda"] = d.keep(GetAmmAuthAddress(env.Program().ID()))
	accounts["amm_program"] = env.Constants().AmmProgramID
	if d.err != nil {
		return nil, fmt.Errorf("derive liquidity accounts: %w", d.err)
	}

	ix, err := env.Program().Instruction("add_liquidity", accounts, args)
	if err != nil {
		return nil, err
	}
	return newHandler(env, []solana.Instruction{ix}), nil
}

// RemoveLiquidityCpi withdraws removeBps basis points of the user's position
// in amm.
func (b *Builder) RemoveLiquidityCpi(ctx context.Context, env Env, proposal, ammAddr solana.PublicKey, removeBps *big.Int) (*Handler, error) {
	var args removeLiquidityArgs
	var err error
	if args.RemoveBps, err = toU64("remove bps", removeBps); err != nil {
		return nil, err
	}

	amm, err := fetchAmm(ctx, env, ammAddr)
	if err != nil {
		return nil, err
	}
	user := payer(env)
	var d derivations
	accounts := marketAccounts(&d, user, ammAddr, amm)
	accounts["dao"] = d.keep(GetDaoAddress(env.Program().ID()))
	accounts["proposal"] = proposal
	accounts["amm_position"] = d.keep(GetAmmPositionAddress(env.Constants().AmmProgramID, ammAddr, user))
	if d.err != nil {
		return nil, fmt.Errorf("derive liquidity accounts: %w", d.err)
	}

	ixs, err := ensureTokenAccounts(user, amm)
	if err != nil {
		return nil, err
	}
	ix, err := env.Program().Instruction("remove_liquidity", accounts, args)
	if err != nil {
		return nil, err
	}
	return newHandler(env, append(ixs, ix)), nil
}

func (b *Builder) SwapCpi(ctx context.Context, env Env, proposal, ammAddr solana.PublicKey, isQuoteToBase bool, inputAmount, minOutputAmount *big.Int) (*Handler, error) {
	args := swapArgs{IsQuoteToBase: isQuoteToBase}
	var err error
	if args.InputAmount, err = toU64("input amount", inputAmount); err != nil {
		return nil, err
	}
	if args.OutputAmountMin, err = toU64("min output amount", minOutputAmount); err != nil {
		return nil, err
	}

	amm, err := fetchAmm(ctx, env, ammAddr)
	if err != nil {
		return nil, err
	}
	user := payer(env)
	var d derivations
	accounts := marketAccounts(&d, user, ammAddr, amm)
	accounts["dao"] = d.keep(GetDaoAddress(env.Program().ID()))
	accounts["proposal"] = proposal
	accounts["amm_auth_pda"] = d.keep(GetAmmAuthAddress(env.Program().ID()))
	accounts["amm_program"] = env.Constants().AmmProgramID
	if d.err != nil {
		return nil, fmt.Errorf("derive swap accounts: %w", d.err)
	}

	ixs, err := ensureTokenAccounts(user, amm)
	if err != nil {
		return nil, err
	}
	ix, err := env.Program().Instruction("swap", accounts, args)
	if err != nil {
		return nil, err
	}
	return newHandler(env, append(ixs, ix)), nil
}

// UpdateLtwap cranks the AMM's time-weighted price. It calls the AMM program
// directly rather than through Autocrat.
func (b *Builder) UpdateLtwap(_ context.Context, env Env, amm solana.PublicKey) (*Handler, error) {
	ix, err := ammProgram(env).Instruction("update_ltwap", anchor.Accounts{
		"user": payer(env),
		"amm":  amm,
	}, nil)
	if err != nil {
		return nil, err
	}
	return newHandler(env, []solana.Instruction{ix}), nil
}
