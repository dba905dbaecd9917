package instructions

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// Handler is a built but unsent operation.
type Handler struct {
	env          Env
	instructions []solana.Instruction
	signers      []solana.PrivateKey
}

func newHandler(env Env, ixs []solana.Instruction, signers ...solana.PrivateKey) *Handler {
	return &Handler{env: env, instructions: ixs, signers: signers}
}

// NewHandler wraps pre-built instructions so they can be sent with env's
// provider and lookup tables.
func NewHandler(env Env, ixs []solana.Instruction, signers ...solana.PrivateKey) *Handler {
	return newHandler(env, append([]solana.Instruction(nil), ixs...), append([]solana.PrivateKey(nil), signers...)...)
}

func (h *Handler) Instructions() []solana.Instruction {
	return append([]solana.Instruction(nil), h.instructions...)
}

// Signers returns the keys that must sign in addition to the payer.
func (h *Handler) Signers() []solana.PrivateKey {
	return append([]solana.PrivateKey(nil), h.signers...)
}

// Transaction builds and signs a transaction using the client's lookup tables.
func (h *Handler) Transaction(ctx context.Context) (*solana.Transaction, error) {
	return h.env.Provider().BuildTransaction(ctx, h.instructions, h.env.LookupTables(), h.signers...)
}

// Send builds, submits and confirms the transaction.
func (h *Handler) Send(ctx context.Context) (solana.Signature, error) {
	tx, err := h.Transaction(ctx)
	if err != nil {
		return solana.Signature{}, err
	}
	return h.env.Provider().SendTransaction(ctx, tx)
}
