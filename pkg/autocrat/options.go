package autocrat

import (
	"github.com/gagliardetto/solana-go"

	"autocrat/go-client/pkg/constants"
)

// Option configures a Client built by NewClient.
type Option func(*Client)

// WithBuilder replaces the default instruction builder.
func WithBuilder(b InstructionBuilder) Option {
	return func(c *Client) {
		if b != nil {
			c.builder = b
		}
	}
}

// WithConstants sets the deployment addresses used by the builders. It does
// not change the program id passed to NewClient.
func WithConstants(consts constants.Constants) Option {
	return func(c *Client) {
		c.constants = consts
		c.constants.LookupTables = append([]solana.PublicKey(nil), consts.LookupTables...)
	}
}
