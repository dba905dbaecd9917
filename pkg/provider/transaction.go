package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
)

// BuildTransaction assembles a signed transaction paid for by the provider
// wallet. When luts is non-empty the transaction is a v0 message that
// references accounts through those tables.
func (p *Provider) BuildTransaction(
	ctx context.Context,
	instructions []solana.Instruction,
	luts []LookupTable,
	signers ...solana.PrivateKey,
) (*solana.Transaction, error) {
	var blockhash *solanarpc.GetLatestBlockhashResult
	err := p.call(ctx, "getLatestBlockhash", func(ctx context.Context) error {
		var err error
		blockhash, err = p.rpc.GetLatestBlockhash(ctx, p.commitment)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get latest blockhash: %w", err)
	}
	if blockhash == nil || blockhash.Value == nil {
		return nil, errors.New("get latest blockhash: empty response")
	}

	opts := []solana.TransactionOption{solana.TransactionPayer(p.Wallet())}
	if tables := addressTables(luts); tables != nil {
		opts = append(opts, solana.TransactionAddressTables(tables))
	}
	tx, err := solana.NewTransaction(instructions, blockhash.Value.Blockhash, opts...)
	if err != nil {
		return nil, fmt.Errorf("build transaction: %w", err)
	}

	keys := make(map[solana.PublicKey]solana.PrivateKey, len(signers)+1)
	keys[p.Wallet()] = p.wallet
	for _, signer := range signers {
		keys[signer.PublicKey()] = signer
	}
	for _, required := range tx.Message.AccountKeys[:tx.Message.Header.NumRequiredSignatures] {
		if _, ok := keys[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingSigner, required)
		}
	}
	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if k, ok := keys[key]; ok {
			return &k
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return tx, nil
}

// SendTransaction submits tx and waits until it reaches the provider's
// commitment, fails, or the confirmation timeout elapses.
func (p *Provider) SendTransaction(ctx context.Context, tx *solana.Transaction) (sig solana.Signature, err error) {
	defer func() { p.metrics.ObserveTransaction(err) }()

	err = p.call(ctx, "sendTransaction", func(ctx context.Context) error {
		var err error
		sig, err = p.rpc.SendTransactionWithOpts(ctx, tx, solanarpc.TransactionOpts{
			SkipPreflight:       p.skipPreflight,
			PreflightCommitment: p.commitment,
		})
		return err
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("send transaction: %w", err)
	}
	if err := p.confirm(ctx, sig); err != nil {
		p.logger.Warn("transaction not confirmed", "signature", sig.String(), "reason", err.Error())
		return sig, err
	}
	return sig, nil
}

func (p *Provider) confirm(ctx context.Context, sig solana.Signature) error {
	waitCtx, cancel := context.WithTimeout(ctx, p.confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		var statuses *solanarpc.GetSignatureStatusesResult
		err := p.call(waitCtx, "getSignatureStatuses", func(ctx context.Context) error {
			var err error
			statuses, err = p.rpc.GetSignatureStatuses(ctx, false, sig)
			return err
		})
		if err == nil && statuses != nil && len(statuses.Value) > 0 && statuses.Value[0] != nil {
			status := statuses.Value[0]
			if status.Err != nil {
				return fmt.Errorf("%w: %s: %v", ErrTransactionFailed, sig, status.Err)
			}
			if reachedCommitment(status.ConfirmationStatus, p.commitment) {
				return nil
			}
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %s", ErrConfirmationTimeout, sig)
		case <-ticker.C:
		}
	}
}

func reachedCommitment(status solanarpc.ConfirmationStatusType, want solanarpc.CommitmentType) bool {
	switch want {
	case solanarpc.CommitmentFinalized:
		return status == solanarpc.ConfirmationStatusFinalized
	case solanarpc.CommitmentConfirmed:
		return status == solanarpc.ConfirmationStatusConfirmed || status == solanarpc.ConfirmationStatusFinalized
	default:
		return status != ""
	}
}
