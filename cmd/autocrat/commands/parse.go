package commands

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/gagliardetto/solana-go"

	"autocrat/go-client/pkg/models"
)

func parsePublicKey(name, raw string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(raw)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%s %q: %w", name, raw, err)
	}
	return key, nil
}

// parseOptionalKey returns nil for an empty value.
func parseOptionalKey(name, raw string) (*solana.PublicKey, error) {
	if raw == "" {
		return nil, nil
	}
	key, err := parsePublicKey(name, raw)
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// parseAmount parses a base-10 integer in raw token units. Range checks
// against the on-chain width happen in the instruction builders.
func parseAmount(name, raw string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("%s %q: not an integer", name, raw)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("%s %q: must not be negative", name, raw)
	}
	return v, nil
}

// readProposalInstructions loads a JSON array of instructions:
// [{"programId": "...", "accounts": [{"pubkey": "...", "isSigner": false, "isWritable": true}], "data": "<base64>"}]
func readProposalInstructions(path string) ([]models.ProposalInstruction, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ixs []models.ProposalInstruction
	if err := json.Unmarshal(raw, &ixs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(ixs) == 0 {
		return nil, fmt.Errorf("%s: no instructions", path)
	}
	return ixs, nil
}
