package autocrat

import (
	"context"
	"errors"
	"math"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autocrat/go-client/internal/testutil/fakerpc"
	"autocrat/go-client/pkg/autocrat/instructions"
	"autocrat/go-client/pkg/constants"
	"autocrat/go-client/pkg/models"
	"autocrat/go-client/pkg/provider"
)

type call struct {
	method string
	env    instructions.Env
	args   []any
}

// recordingBuilder records every call and answers with a fixed handler and error.
type recordingBuilder struct {
	mu      sync.Mutex
	calls   []call
	handler *instructions.Handler
	err     error
}

func (r *recordingBuilder) record(method string, env instructions.Env, args ...any) (*instructions.Handler, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{method: method, env: env, args: args})
	return r.handler, r.err
}

func (r *recordingBuilder) InitializeDao(_ context.Context, env instructions.Env, metaMint, usdcMint *solana.PublicKey) (*instructions.Handler, error) {
	return r.record("InitializeDao", env, metaMint, usdcMint)
}

func (r *recordingBuilder) UpdateDao(_ context.Context, env instructions.Env, params models.UpdateDaoParams) (*instructions.Handler, error) {
	return r.record("UpdateDao", env, params)
}

func (r *recordingBuilder) CreateProposalInstructions(_ context.Context, env instructions.Env, ixs []models.ProposalInstruction, keypair solana.PrivateKey) (*instructions.Handler, error) {
	return r.record("CreateProposalInstructions", env, ixs, keypair)
}

func (r *recordingBuilder) AddProposalInstructions(_ context.Context, env instructions.Env, ixs []models.ProposalInstruction, addr solana.PublicKey) (*instructions.Handler, error) {
	return r.record("AddProposalInstructions", env, ixs, addr)
}

func (r *recordingBuilder) CreateProposalPartOne(_ context.Context, env instructions.Env, url string, addr solana.PublicKey) (*instructions.Handler, error) {
	return r.record("CreateProposalPartOne", env, url, addr)
}

func (r *recordingBuilder) CreateProposalPartTwo(_ context.Context, env instructions.Env, pass, fail, quote *big.Int) (*instructions.Handler, error) {
	return r.record("CreateProposalPartTwo", env, pass, fail, quote)
}

func (r *recordingBuilder) FinalizeProposal(_ context.Context, env instructions.Env, proposal solana.PublicKey) (*instructions.Handler, error) {
	return r.record("FinalizeProposal", env, proposal)
}

func (r *recordingBuilder) MintConditionalTokens(_ context.Context, env instructions.Env, proposal solana.PublicKey, meta, usdc *big.Int) (*instructions.Handler, error) {
	return r.record("MintConditionalTokens", env, proposal, meta, usdc)
}

func (r *recordingBuilder) RedeemConditionalTokens(_ context.Context, env instructions.Env, proposal solana.PublicKey) (*instructions.Handler, error) {
	return r.record("RedeemConditionalTokens", env, proposal)
}

func (r *recordingBuilder) CreateAmmPositionCpi(_ context.Context, env instructions.Env, amm solana.PublicKey) (*instructions.Handler, error) {
	return r.record("CreateAmmPositionCpi", env, amm)
}

func (r *recordingBuilder) AddLiquidityCpi(_ context.Context, env instructions.Env, amm, position solana.PublicKey, maxBase, maxQuote *big.Int) (*instructions.Handler, error) {
	return r.record("AddLiquidityCpi", env, amm, position, maxBase, maxQuote)
}

func (r *recordingBuilder) RemoveLiquidityCpi(_ context.Context, env instructions.Env, proposal, amm solana.PublicKey, bps *big.Int) (*instructions.Handler, error) {
	return r.record("RemoveLiquidityCpi", env, proposal, amm, bps)
}

func (r *recordingBuilder) SwapCpi(_ context.Context, env instructions.Env, proposal, amm solana.PublicKey, quoteToBase bool, in, minOut *big.Int) (*instructions.Handler, error) {
	return r.record("SwapCpi", env, proposal, amm, quoteToBase, in, minOut)
}

func (r *recordingBuilder) UpdateLtwap(_ context.Context, env instructions.Env, amm solana.PublicKey) (*instructions.Handler, error) {
	return r.record("UpdateLtwap", env, amm)
}

func newProvider(rpc provider.RPC) *provider.Provider {
	return provider.New(rpc, solana.NewWallet().PrivateKey)
}

func seedLookupTable(rpc *fakerpc.RPC, addresses ...solana.PublicKey) solana.PublicKey {
	key := solana.NewWallet().PublicKey()
	rpc.SetAccount(key, provider.AddressLookupTableProgramID, provider.EncodeLookupTableState(provider.LookupTableState{
		DeactivationSlot: math.MaxUint64,
		Addresses:        addresses,
	}))
	return key
}

func TestCreateClientPreservesLookupTableOrder(t *testing.T) {
	rpc := fakerpc.New()
	first := seedLookupTable(rpc, solana.SystemProgramID)
	second := seedLookupTable(rpc, solana.TokenProgramID)
	third := seedLookupTable(rpc, solana.SysVarRentPubkey)
	// The first table resolves last.
	rpc.DelayAccount(first, 60*time.Millisecond)
	rpc.DelayAccount(second, 20*time.Millisecond)

	consts := constants.Default().WithLookupTables(first, second, third)
	client, err := CreateClient(context.Background(), CreateClientParams{Provider: newProvider(rpc), Constants: &consts})
	require.NoError(t, err)

	luts := client.LookupTables()
	require.Len(t, luts, 3)
	assert.Equal(t, first, luts[0].Key)
	assert.Equal(t, second, luts[1].Key)
	assert.Equal(t, third, luts[2].Key)
	assert.Equal(t, solana.PublicKeySlice{solana.TokenProgramID}, luts[1].State.Addresses)
	assert.Equal(t, 3, rpc.Calls("getAccountInfo"))
}

func TestCreateClientWithoutLookupTablesMakesNoCalls(t *testing.T) {
	rpc := fakerpc.New()
	consts := constants.Default().WithLookupTables()

	client, err := CreateClient(context.Background(), CreateClientParams{Provider: newProvider(rpc), Constants: &consts})
	require.NoError(t, err)
	assert.Empty(t, client.LookupTables())
	assert.Equal(t, 0, rpc.Calls("getAccountInfo"))
}

func TestCreateClientFailsFast(t *testing.T) {
	t.Run("absent table", func(t *testing.T) {
		rpc := fakerpc.New()
		present := seedLookupTable(rpc)
		absent := solana.NewWallet().PublicKey()
		consts := constants.Default().WithLookupTables(present, absent)

		client, err := CreateClient(context.Background(), CreateClientParams{Provider: newProvider(rpc), Constants: &consts})
		assert.ErrorIs(t, err, provider.ErrLookupTableNotFound)
		assert.ErrorContains(t, err, absent.String())
		assert.Nil(t, client)
	})

	t.Run("rpc error", func(t *testing.T) {
		rpc := fakerpc.New()
		broken := solana.NewWallet().PublicKey()
		rpcErr := errors.New("connection refused")
		rpc.FailAccount(broken, rpcErr)
		slow := seedLookupTable(rpc)
		rpc.DelayAccount(slow, 5*time.Second)
		consts := constants.Default().WithLookupTables(slow, broken)

		start := time.Now()
		client, err := CreateClient(context.Background(), CreateClientParams{Provider: newProvider(rpc), Constants: &consts})
		assert.ErrorIs(t, err, rpcErr)
		assert.Nil(t, client)
		assert.Less(t, time.Since(start), 2*time.Second)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := CreateClient(context.Background(), CreateClientParams{})
		assert.ErrorIs(t, err, ErrNilProvider)
	})
}

func TestCreateClientProgramID(t *testing.T) {
	rpc := fakerpc.New()
	consts := constants.Default().WithLookupTables()
	p := newProvider(rpc)

	client, err := CreateClient(context.Background(), CreateClientParams{Provider: p, Constants: &consts})
	require.NoError(t, err)
	assert.Equal(t, constants.Default().ProgramID, client.Program().ID())

	override := solana.NewWallet().PublicKey()
	client, err = CreateClient(context.Background(), CreateClientParams{Provider: p, Constants: &consts, ProgramID: &override})
	require.NoError(t, err)
	assert.Equal(t, override, client.Program().ID())
	assert.Same(t, p, client.Provider())
	assert.Same(t, p, client.Program().Provider())
}

func TestNewClientDoesNoIO(t *testing.T) {
	rpc := fakerpc.New()
	luts := []provider.LookupTable{{Key: solana.NewWallet().PublicKey()}}
	programID := solana.NewWallet().PublicKey()

	client := NewClient(newProvider(rpc), programID, luts)
	assert.Equal(t, programID, client.Program().ID())
	assert.Equal(t, luts, client.LookupTables())
	assert.Equal(t, constants.Default(), client.Constants())
	assert.Equal(t, 0, rpc.Calls("getAccountInfo"))

	// The client keeps its own copy.
	luts[0].Key = solana.PublicKey{}
	assert.NotEqual(t, solana.PublicKey{}, client.LookupTables()[0].Key)
}

func TestDispatchForwardsToBuilder(t *testing.T) {
	rpc := fakerpc.New()
	builder := &recordingBuilder{}
	client := NewClient(newProvider(rpc), constants.Default().ProgramID, nil, WithBuilder(builder))
	builder.handler = instructions.NewHandler(client, nil)
	ctx := context.Background()

	meta := solana.NewWallet().PublicKey()
	proposal := solana.NewWallet().PublicKey()
	amm := solana.NewWallet().PublicKey()
	position := solana.NewWallet().PublicKey()
	keypair := solana.NewWallet().PrivateKey
	fee := uint64(30)
	params := models.UpdateDaoParams{AmmSwapFeeBps: &fee}
	ixs := []models.ProposalInstruction{{ProgramID: solana.MemoProgramID}}
	one, two, three := big.NewInt(1), big.NewInt(2), big.NewInt(3)

	cases := []struct {
		method string
		invoke func() (*instructions.Handler, error)
		args   []any
	}{
		{"InitializeDao", func() (*instructions.Handler, error) { return client.InitializeDao(ctx, &meta, nil) }, []any{&meta, (*solana.PublicKey)(nil)}},
		{"UpdateDao", func() (*instructions.Handler, error) { return client.UpdateDao(ctx, params) }, []any{params}},
		{"CreateProposalInstructions", func() (*instructions.Handler, error) { return client.CreateProposalInstructions(ctx, ixs, keypair) }, []any{ixs, keypair}},
		{"AddProposalInstructions", func() (*instructions.Handler, error) { return client.AddProposalInstructions(ctx, ixs, position) }, []any{ixs, position}},
		{"CreateProposalPartOne", func() (*instructions.Handler, error) { return client.CreateProposalPartOne(ctx, "url", position) }, []any{"url", position}},
		{"CreateProposalPartTwo", func() (*instructions.Handler, error) { return client.CreateProposalPartTwo(ctx, one, two, three) }, []any{one, two, three}},
		{"MintConditionalTokens", func() (*instructions.Handler, error) { return client.MintConditionalTokens(ctx, proposal, one, two) }, []any{proposal, one, two}},
		{"RedeemConditionalTokens", func() (*instructions.Handler, error) { return client.RedeemConditionalTokens(ctx, proposal) }, []any{proposal}},
		{"FinalizeProposal", func() (*instructions.Handler, error) { return client.FinalizeProposal(ctx, proposal) }, []any{proposal}},
		{"CreateAmmPositionCpi", func() (*instructions.Handler, error) { return client.CreateAmmPositionCpi(ctx, amm) }, []any{amm}},
		{"AddLiquidityCpi", func() (*instructions.Handler, error) { return client.AddLiquidityCpi(ctx, amm, position, one, two) }, []any{amm, position, one, two}},
		{"RemoveLiquidityCpi", func() (*instructions.Handler, error) { return client.RemoveLiquidityCpi(ctx, proposal, amm, three) }, []any{proposal, amm, three}},
		{"SwapCpi", func() (*instructions.Handler, error) { return client.SwapCpi(ctx, proposal, amm, true, one, two) }, []any{proposal, amm, true, one, two}},
		{"UpdateLtwap", func() (*instructions.Handler, error) { return client.UpdateLtwap(ctx, amm) }, []any{amm}},
	}

	for i, tc := range cases {
		t.Run(tc.method, func(t *testing.T) {
			h, err := tc.invoke()
			require.NoError(t, err)
			assert.Same(t, builder.handler, h)

			require.Len(t, builder.calls, i+1)
			got := builder.calls[i]
			assert.Equal(t, tc.method, got.method)
			assert.Same(t, client, got.env)
			assert.Equal(t, tc.args, got.args)
		})
	}
	assert.Equal(t, 0, rpc.Calls("getAccountInfo"))
}

func TestDispatchReturnsBuilderErrorUnchanged(t *testing.T) {
	builderErr := errors.New("builder failed")
	builder := &recordingBuilder{err: builderErr}
	client := NewClient(newProvider(fakerpc.New()), solana.NewWallet().PublicKey(), nil, WithBuilder(builder))

	h, err := client.FinalizeProposal(context.Background(), solana.NewWallet().PublicKey())
	assert.Same(t, builderErr, err)
	assert.Nil(t, h)
	assert.Len(t, builder.calls, 1)
}

func TestClientUsesDefaultBuilder(t *testing.T) {
	client := NewClient(newProvider(fakerpc.New()), constants.Default().ProgramID, nil)
	h, err := client.InitializeDao(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, h.Instructions(), 1)
	assert.Equal(t, constants.Default().ProgramID, h.Instructions()[0].ProgramID())
}

func TestConcurrentDispatch(t *testing.T) {
	builder := &recordingBuilder{}
	client := NewClient(newProvider(fakerpc.New()), solana.NewWallet().PublicKey(), nil, WithBuilder(builder))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = client.RedeemConditionalTokens(context.Background(), solana.NewWallet().PublicKey())
			_ = client.LookupTables()
		}()
	}
	wg.Wait()
	assert.Len(t, builder.calls, 16)
}
