// Package fakerpc is an in-memory stand-in for a Solana RPC node used by tests.
package fakerpc

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
)

type RPC struct {
	mu        sync.Mutex
	accounts  map[solana.PublicKey]*solanarpc.Account
	errs      map[solana.PublicKey]error
	delays    map[solana.PublicKey]time.Duration
	calls     map[string]int
	statuses  []*solanarpc.SignatureStatusesResult
	sent      []*solana.Transaction
	sendErr   error
	Blockhash solana.Hash
}

func New() *RPC {
	return &RPC{
		accounts:  make(map[solana.PublicKey]*solanarpc.Account),
		errs:      make(map[solana.PublicKey]error),
		delays:    make(map[solana.PublicKey]time.Duration),
		calls:     make(map[string]int),
		Blockhash: solana.HashFromBytes(make([]byte, 32)),
	}
}

// SetAccount stores data owned by owner at key.
func (f *RPC) SetAccount(key, owner solana.PublicKey, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[key] = &solanarpc.Account{
		Owner:    owner,
		Lamports: 1_000_000,
		Data:     solanarpc.DataBytesOrJSONFromBytes(append([]byte(nil), data...)),
	}
}

// FailAccount makes reads of key return err.
func (f *RPC) FailAccount(key solana.PublicKey, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[key] = err
}

// DelayAccount makes reads of key block for d (or until ctx is done).
func (f *RPC) DelayAccount(key solana.PublicKey, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delays[key] = d
}

// QueueStatus appends a signature status returned by successive GetSignatureStatuses calls.
// The last queued status repeats.
func (f *RPC) QueueStatus(status *solanarpc.SignatureStatusesResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, status)
}

func (f *RPC) FailSend(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendErr = err
}

func (f *RPC) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *RPC) Sent() []*solana.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*solana.Transaction(nil), f.sent...)
}

func (f *RPC) GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, _ *solanarpc.GetAccountInfoOpts) (*solanarpc.GetAccountInfoResult, error) {
	f.mu.Lock()
	f.calls["getAccountInfo"]++
	delay := f.delays[account]
	err := f.errs[account]
	acc := f.accounts[account]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, solanarpc.ErrNotFound
	}
	return &solanarpc.GetAccountInfoResult{Value: acc}, nil
}

func (f *RPC) GetLatestBlockhash(context.Context, solanarpc.CommitmentType) (*solanarpc.GetLatestBlockhashResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["getLatestBlockhash"]++
	return &solanarpc.GetLatestBlockhashResult{
		Value: &solanarpc.LatestBlockhashResult{Blockhash: f.Blockhash, LastValidBlockHeight: 100},
	}, nil
}

func (f *RPC) SendTransactionWithOpts(_ context.Context, tx *solana.Transaction, _ solanarpc.TransactionOpts) (solana.Signature, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["sendTransaction"]++
	if f.sendErr != nil {
		return solana.Signature{}, f.sendErr
	}
	f.sent = append(f.sent, tx)
	if len(tx.Signatures) == 0 {
		return solana.Signature{}, nil
	}
	return tx.Signatures[0], nil
}

func (f *RPC) GetSignatureStatuses(_ context.Context, _ bool, sigs ...solana.Signature) (*solanarpc.GetSignatureStatusesResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["getSignatureStatuses"]++
	out := &solanarpc.GetSignatureStatusesResult{Value: make([]*solanarpc.SignatureStatusesResult, len(sigs))}
	if len(f.statuses) == 0 {
		return out, nil
	}
	status := f.statuses[0]
	if len(f.statuses) > 1 {
		f.statuses = f.statuses[1:]
	}
	for i := range out.Value {
		out.Value[i] = status
	}
	return out, nil
}
