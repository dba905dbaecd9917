// Package instructions builds the transactions behind every Autocrat client
// operation.
package instructions

import (
	"github.com/gagliardetto/solana-go"

	"autocrat/go-client/pkg/anchor"
	"autocrat/go-client/pkg/autocrat/idl"
	"autocrat/go-client/pkg/constants"
	"autocrat/go-client/pkg/provider"
)

// Env is the client context a builder works against.
type Env interface {
	Provider() *provider.Provider
	Program() *anchor.Program
	LookupTables() []provider.LookupTable
	Constants() constants.Constants
}

func payer(env Env) solana.PublicKey {
	return env.Provider().Wallet()
}

func ammProgram(env Env) *anchor.Program {
	return anchor.NewProgram(idl.Amm(), env.Constants().AmmProgramID, env.Provider())
}
