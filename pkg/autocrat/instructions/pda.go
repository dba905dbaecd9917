package instructions

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"autocrat/go-client/pkg/constants"
)

type ConditionalMint int

const (
	ConditionalOnPassMeta ConditionalMint = iota
	ConditionalOnPassUsdc
	ConditionalOnFailMeta
	ConditionalOnFailUsdc
)

func (m ConditionalMint) seed() []byte {
	switch m {
	case ConditionalOnPassMeta:
		return constants.ConditionalOnPassMetaSeed
	case ConditionalOnPassUsdc:
		return constants.ConditionalOnPassUsdcSeed
	case ConditionalOnFailMeta:
		return constants.ConditionalOnFailMetaSeed
	default:
		return constants.ConditionalOnFailUsdcSeed
	}
}

func GetDaoAddress(programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{constants.DaoSeed}, programID)
}

func GetDaoTreasuryAddress(programID, dao solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{dao[:]}, programID)
}

func GetProposalAddress(programID solana.PublicKey, number uint64) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{constants.ProposalSeed, le64(number)}, programID)
}

func GetProposalVaultAddress(programID solana.PublicKey, number uint64) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{constants.ProposalVaultSeed, le64(number)}, programID)
}

func GetConditionalMintAddress(programID, proposal solana.PublicKey, kind ConditionalMint) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{kind.seed(), proposal[:]}, programID)
}

// GetPassMarketAmmAddress derives the pass market AMM under the AMM program.
func GetPassMarketAmmAddress(ammProgramID, proposal solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{constants.PassMarketAmmSeed, proposal[:]}, ammProgramID)
}

func GetFailMarketAmmAddress(ammProgramID, proposal solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{constants.FailMarketAmmSeed, proposal[:]}, ammProgramID)
}

func GetAmmPositionAddress(ammProgramID, amm, user solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{constants.AmmPositionSeed, amm[:], user[:]}, ammProgramID)
}

// GetAmmAuthAddress derives the PDA the Autocrat program signs AMM CPIs with.
func GetAmmAuthAddress(programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{constants.AmmAuthSeed}, programID)
}

func le64(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}

// derivations collects addresses and keeps the first derivation error.
type derivations struct {
	err error
}

func (d *derivations) keep(key solana.PublicKey, _ uint8, err error) solana.PublicKey {
	if d.err == nil && err != nil {
		d.err = err
	}
	return key
}

func (d *derivations) ata(owner, mint solana.PublicKey) solana.PublicKey {
	return d.keep(solana.FindAssociatedTokenAddress(owner, mint))
}

// conditionalMints returns the pass meta, pass usdc, fail meta and fail usdc
// mints of proposal.
func (d *derivations) conditionalMints(programID, proposal solana.PublicKey) [4]solana.PublicKey {
	var out [4]solana.PublicKey
	for i, kind := range []ConditionalMint{ConditionalOnPassMeta, ConditionalOnPassUsdc, ConditionalOnFailMeta, ConditionalOnFailUsdc} {
		out[i] = d.keep(GetConditionalMintAddress(programID, proposal, kind))
	}
	return out
}
