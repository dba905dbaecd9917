package provider

import (
	"log/slog"
	"time"

	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/prometheus/client_golang/prometheus"

	"autocrat/go-client/internal/metrics"
	"autocrat/go-client/internal/platform/ratelimiter"
)

// Option configures a Provider.
type Option func(*Provider)

// WithCommitment sets the commitment used for reads and confirmation.
func WithCommitment(commitment solanarpc.CommitmentType) Option {
	return func(p *Provider) { p.commitment = commitment }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRateLimit throttles RPC calls per method. Non-positive values disable it.
func WithRateLimit(rps float64, burst int) Option {
	return func(p *Provider) { p.limiter = ratelimiter.New(rps, burst, 0) }
}

// WithMetrics registers RPC metrics on reg. Registration failures leave
// metrics disabled and are logged.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(p *Provider) {
		m, err := metrics.NewRPCMetrics(reg)
		if err != nil {
			p.logger.Warn("rpc metrics disabled", "reason", err.Error())
			return
		}
		p.metrics = m
	}
}

// WithConfirmation sets how long SendTransaction waits for the commitment and
// how often it polls signature status.
func WithConfirmation(timeout, pollInterval time.Duration) Option {
	return func(p *Provider) {
		if timeout > 0 {
			p.confirmTimeout = timeout
		}
		if pollInterval > 0 {
			p.pollInterval = pollInterval
		}
	}
}

// WithSkipPreflight disables preflight simulation on send.
func WithSkipPreflight(skip bool) Option {
	return func(p *Provider) { p.skipPreflight = skip }
}
