package idl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autocrat/go-client/pkg/anchor"
)

func TestEmbeddedDiscriminatorsMatchNames(t *testing.T) {
	for _, doc := range []*anchor.IDL{Autocrat(), Amm()} {
		for _, ix := range doc.Instructions {
			assert.Equal(t, anchor.InstructionDiscriminator(ix.Name), ix.Discriminator, "%s.%s", doc.Name(), ix.Name)
		}
		for _, acc := range doc.Accounts {
			assert.Equal(t, anchor.AccountDiscriminator(acc.Name), acc.Discriminator, "%s.%s", doc.Name(), acc.Name)
		}
	}
}

func TestAutocratInstructionSet(t *testing.T) {
	names := []string{
		"initialize_dao", "update_dao",
		"create_proposal_instructions", "add_proposal_instructions",
		"create_proposal_part_one", "create_proposal_part_two",
		"mint_conditional_tokens", "redeem_conditional_tokens", "finalize_proposal",
		"create_amm_position", "add_liquidity", "remove_liquidity", "swap",
	}
	for _, name := range names {
		_, err := Autocrat().Instruction(name)
		require.NoError(t, err, name)
	}
	assert.Len(t, Autocrat().Instructions, len(names))

	_, err := Amm().Instruction("update_ltwap")
	require.NoError(t, err)
	_, err = Amm().Account("Amm")
	require.NoError(t, err)
}

func TestFinalizeTreasuryIsNotSigner(t *testing.T) {
	ix, err := Autocrat().Instruction("finalize_proposal")
	require.NoError(t, err)
	for _, acc := range ix.Accounts {
		if acc.Name == "dao_treasury" {
			assert.False(t, acc.Signer)
			return
		}
	}
	t.Fatal("dao_treasury missing from finalize_proposal")
}

func TestParsedOnce(t *testing.T) {
	assert.Same(t, Autocrat(), Autocrat())
	assert.Same(t, Amm(), Amm())
}
