package constants

import (
	"github.com/gagliardetto/solana-go"
)

// PDA seeds shared with the on-chain program.
var (
	DaoSeed           = []byte("WWCACOTMICMIBMHAFTTWYGHMB")
	ProposalSeed      = []byte("proposal")
	ProposalVaultSeed = []byte("proposal_vault")
	PassMarketAmmSeed = []byte("pass_market_amm")
	FailMarketAmmSeed = []byte("fail_market_amm")
	AmmPositionSeed   = []byte("amm_position")
	AmmAuthSeed       = []byte("amm_auth")

	ConditionalOnPassMetaSeed = []byte("conditional_on_pass_meta")
	ConditionalOnPassUsdcSeed = []byte("conditional_on_pass_usdc")
	ConditionalOnFailMetaSeed = []byte("conditional_on_fail_meta")
	ConditionalOnFailUsdcSeed = []byte("conditional_on_fail_usdc")
)

const BpsScale = 10_000

var (
	defaultProgramID    = solana.MustPublicKeyFromBase58("metaX99LHn3A7Gr7VAcCfXhpfocvpMpqQ3eyp3PGUUq")
	defaultAmmProgramID = solana.MustPublicKeyFromBase58("AMMJdEiCCa8mdugg6JPF7gFirmmxisTfDJoSNSUi5zDJ")
	defaultMetaMint     = solana.MustPublicKeyFromBase58("METADDFL6wWMWEoKTFJwcThTbUmtarRJZjRpzUvkxhr")
	defaultUsdcMint     = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

	defaultLookupTables = []solana.PublicKey{
		solana.MustPublicKeyFromBase58("BsbzU6Q5ct7WuXhtYJvPnkAzYpiMmiD1oFTE9oh7PQsF"),
		solana.MustPublicKeyFromBase58("DRDR5VZNdeCeyPSFeYYj8pXbky9BnmrUwnLZfM35KNSK"),
	}
)

// Constants is the set of deployment addresses a client is built against.
type Constants struct {
	ProgramID    solana.PublicKey
	AmmProgramID solana.PublicKey
	MetaMint     solana.PublicKey
	UsdcMint     solana.PublicKey
	LookupTables []solana.PublicKey
}

// Default returns the mainnet deployment. Each call returns a fresh copy.
func Default() Constants {
	return Constants{
		ProgramID:    defaultProgramID,
		AmmProgramID: defaultAmmProgramID,
		MetaMint:     defaultMetaMint,
		UsdcMint:     defaultUsdcMint,
		LookupTables: append([]solana.PublicKey(nil), defaultLookupTables...),
	}
}

func (c Constants) WithLookupTables(tables ...solana.PublicKey) Constants {
	c.LookupTables = append([]solana.PublicKey(nil), tables...)
	return c
}

func (c Constants) WithProgramID(programID solana.PublicKey) Constants {
	c.ProgramID = programID
	return c
}
