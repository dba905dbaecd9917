package autocrat

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"golang.org/x/sync/errgroup"

	"autocrat/go-client/pkg/provider"
)

// fetchLookupTables resolves addresses concurrently. Results are stored by
// index so the output order matches the input. The first error cancels the
// remaining fetches.
func fetchLookupTables(ctx context.Context, p *provider.Provider, addresses []solana.PublicKey) ([]provider.LookupTable, error) {
	if len(addresses) == 0 {
		return []provider.LookupTable{}, nil
	}

	out := make([]provider.LookupTable, len(addresses))
	g, gctx := errgroup.WithContext(ctx)
	for i, addr := range addresses {
		i, addr := i, addr
		g.Go(func() error {
			lut, err := p.GetAddressLookupTable(gctx, addr)
			if err != nil {
				return err
			}
			out[i] = *lut
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
