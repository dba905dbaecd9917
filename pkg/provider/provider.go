// Package provider is the connection and signing context shared by Autocrat
// clients: an RPC endpoint, the payer wallet and the policies (commitment,
// rate limits, confirmation) applied to every call made through it.
package provider

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"

	"autocrat/go-client/internal/metrics"
	"autocrat/go-client/internal/platform/ratelimiter"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrLookupTableNotFound = errors.New("address lookup table not found")
	ErrInvalidLookupTable  = errors.New("invalid address lookup table")
	ErrTransactionFailed   = errors.New("transaction failed")
	ErrConfirmationTimeout = errors.New("transaction confirmation timed out")
	ErrMissingSigner       = errors.New("missing signer")
)

// RPC is the subset of *rpc.Client the provider depends on.
type RPC interface {
	GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, opts *solanarpc.GetAccountInfoOpts) (*solanarpc.GetAccountInfoResult, error)
	GetLatestBlockhash(ctx context.Context, commitment solanarpc.CommitmentType) (*solanarpc.GetLatestBlockhashResult, error)
	SendTransactionWithOpts(ctx context.Context, transaction *solana.Transaction, opts solanarpc.TransactionOpts) (solana.Signature, error)
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, transactionSignatures ...solana.Signature) (*solanarpc.GetSignatureStatusesResult, error)
}

var _ RPC = (*solanarpc.Client)(nil)

// Provider is safe for concurrent use; it is never mutated after New.
type Provider struct {
	rpc            RPC
	wallet         solana.PrivateKey
	commitment     solanarpc.CommitmentType
	skipPreflight  bool
	confirmTimeout time.Duration
	pollInterval   time.Duration
	limiter        *ratelimiter.MapLimiter
	metrics        *metrics.RPCMetrics
	logger         *slog.Logger
}

// New creates a provider that signs with wallet. Customize via functional options.
func New(rpc RPC, wallet solana.PrivateKey, opts ...Option) *Provider {
	p := &Provider{
		rpc:            rpc,
		wallet:         wallet,
		commitment:     solanarpc.CommitmentConfirmed,
		confirmTimeout: 60 * time.Second,
		pollInterval:   500 * time.Millisecond,
		logger:         slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RPC returns the underlying RPC client.
func (p *Provider) RPC() RPC { return p.rpc }

// Wallet returns the payer's public key.
func (p *Provider) Wallet() solana.PublicKey { return p.wallet.PublicKey() }

// Commitment returns the commitment used for reads and confirmation.
func (p *Provider) Commitment() solanarpc.CommitmentType { return p.commitment }

// Logger returns the logger used by the provider.
func (p *Provider) Logger() *slog.Logger { return p.logger }

// GetAccountData returns the raw data of account, or ErrAccountNotFound.
func (p *Provider) GetAccountData(ctx context.Context, account solana.PublicKey) ([]byte, error) {
	info, err := p.getAccountInfo(ctx, account)
	if err != nil {
		return nil, err
	}
	if info.Data == nil {
		return nil, nil
	}
	return info.Data.GetBinary(), nil
}

func (p *Provider) getAccountInfo(ctx context.Context, account solana.PublicKey) (*solanarpc.Account, error) {
	var resp *solanarpc.GetAccountInfoResult
	err := p.call(ctx, "getAccountInfo", func(ctx context.Context) error {
		var err error
		resp, err = p.rpc.GetAccountInfoWithOpts(ctx, account, &solanarpc.GetAccountInfoOpts{
			Encoding:   solana.EncodingBase64,
			Commitment: p.commitment,
		})
		return err
	})
	if errors.Is(err, solanarpc.ErrNotFound) || (err == nil && (resp == nil || resp.Value == nil)) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// call runs fn behind the rate limiter and records metrics under method.
func (p *Provider) call(ctx context.Context, method string, fn func(context.Context) error) error {
	if err := p.limiter.Wait(ctx, method); err != nil {
		return err
	}
	start := time.Now()
	err := fn(ctx)
	p.metrics.ObserveRPC(method, start, err)
	if err != nil && !errors.Is(err, solanarpc.ErrNotFound) {
		p.logger.Debug("rpc call failed", "method", method, "reason", err.Error())
	}
	return err
}
