// Package autocrat is the client for the Autocrat governance program. A
// Client pairs a provider with the program handle and the lookup tables its
// transactions use, and delegates every operation to an InstructionBuilder.
package autocrat

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"

	"autocrat/go-client/pkg/anchor"
	"autocrat/go-client/pkg/autocrat/idl"
	"autocrat/go-client/pkg/autocrat/instructions"
	"autocrat/go-client/pkg/constants"
	"autocrat/go-client/pkg/provider"
)

var ErrNilProvider = errors.New("autocrat: nil provider")

// Client is immutable after construction and safe for concurrent use.
type Client struct {
	provider  *provider.Provider
	program   *anchor.Program
	luts      []provider.LookupTable
	constants constants.Constants
	builder   InstructionBuilder
}

var _ instructions.Env = (*Client)(nil)

type CreateClientParams struct {
	Provider *provider.Provider
	// ProgramID overrides Constants.ProgramID when set.
	ProgramID *solana.PublicKey
	// Constants defaults to constants.Default().
	Constants *constants.Constants
	Builder   InstructionBuilder
}

// CreateClient resolves the configured lookup tables and returns a ready
// client. Tables are fetched concurrently and kept in configuration order.
// Any failure, including an absent table, aborts construction.
func CreateClient(ctx context.Context, params CreateClientParams) (*Client, error) {
	if params.Provider == nil {
		return nil, ErrNilProvider
	}
	consts := constants.Default()
	if params.Constants != nil {
		consts = *params.Constants
	}
	programID := consts.ProgramID
	if params.ProgramID != nil {
		programID = *params.ProgramID
	}

	luts, err := fetchLookupTables(ctx, params.Provider, consts.LookupTables)
	if err != nil {
		return nil, err
	}

	opts := []Option{WithConstants(consts)}
	if params.Builder != nil {
		opts = append(opts, WithBuilder(params.Builder))
	}
	return NewClient(params.Provider, programID, luts, opts...), nil
}

// NewClient assembles a client from already resolved parts. It performs no I/O.
func NewClient(p *provider.Provider, programID solana.PublicKey, luts []provider.LookupTable, opts ...Option) *Client {
	c := &Client{
		provider:  p,
		luts:      append([]provider.LookupTable(nil), luts...),
		constants: constants.Default(),
		builder:   instructions.NewBuilder(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.program = anchor.NewProgram(idl.Autocrat(), programID, p)
	return c
}

func (c *Client) Provider() *provider.Provider { return c.provider }

func (c *Client) Program() *anchor.Program { return c.program }

// LookupTables returns a copy of the resolved tables in configuration order.
func (c *Client) LookupTables() []provider.LookupTable {
	return append([]provider.LookupTable(nil), c.luts...)
}

func (c *Client) Constants() constants.Constants {
	out := c.constants
	out.LookupTables = append([]solana.PublicKey(nil), c.constants.LookupTables...)
	return out
}
