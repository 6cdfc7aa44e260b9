package service

import (
	"context"
	"sort"
	"time"

	"balance_reporter/internal/app/port"
	"balance_reporter/internal/domain/entity"
	"balance_reporter/internal/pkg/utils"
)

// BalanceResolver turns the configured networks into per-network balance reports.
// Networks and accounts are processed one at a time, in order.
type BalanceResolver struct {
	primary        port.BalanceProtocol
	fallback       port.BalanceProtocol
	reporter       port.Reporter
	metrics        port.MetricsRecorder
	logger         port.Logger
	attemptTimeout time.Duration
}

// NewBalanceResolver creates a resolver that tries primary first and fallback only when
// primary fails. attemptTimeout bounds each protocol attempt; zero leaves attempts unbounded.
func NewBalanceResolver(
	primary port.BalanceProtocol,
	fallback port.BalanceProtocol,
	reporter port.Reporter,
	metrics port.MetricsRecorder,
	l port.Logger,
	attemptTimeout time.Duration,
) *BalanceResolver {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &BalanceResolver{
		primary:        primary,
		fallback:       fallback,
		reporter:       reporter,
		metrics:        metrics,
		logger:         l,
		attemptTimeout: attemptTimeout,
	}
}

// ResolveAll resolves every network with an endpoint and hands each result to the reporter.
// Networks without a single resolved account are reported as unreachable instead.
// Failures never abort the run; the returned slice holds the reported results.
func (s *BalanceResolver) ResolveAll(ctx context.Context, networks map[string]entity.NetworkEntry) []entity.NetworkResult {
	names := make([]string, 0, len(networks))
	for name := range networks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]entity.NetworkResult, 0, len(names))
	for _, name := range names {
		entry := networks[name]
		if entry.Name == "" {
			entry.Name = name
		}
		if !entry.HasEndpoint() {
			s.logger.Debug("Skipping network", "network", name, "reason", entity.ErrEndpointMissing)
			continue
		}

		result := s.resolveNetwork(ctx, entry)
		if result.Empty() {
			s.logger.Error("Unable to retrieve data from "+name, "network", name, "error", entity.ErrEmptyNetworkResult)
			if err := s.reporter.ReportUnreachable(name); err != nil {
				s.logger.Error("Failed to report unreachable network", "network", name, "error", err)
			}
			continue
		}

		if err := s.reporter.ReportNetwork(result); err != nil {
			s.logger.Error("Failed to report network balances", "network", name, "error", err)
		}
		results = append(results, result)
	}
	return results
}

func (s *BalanceResolver) resolveNetwork(ctx context.Context, entry entity.NetworkEntry) entity.NetworkResult {
	result := entity.NetworkResult{Network: entry.Name}
	for _, key := range entry.Accounts {
		balance, err := s.resolveAccount(ctx, entry.Name, entry.URL, key)
		if err != nil {
			continue
		}
		result.Add(balance)
	}
	s.logger.Debug("Network processed", "network", entry.Name, "accounts", len(entry.Accounts), "resolved", len(result.Balances))
	return result
}

// ResolveAccountBalance resolves the balance of the account owning secretKey at endpointURL.
// It returns an *entity.ResolveError when both protocols fail.
func (s *BalanceResolver) ResolveAccountBalance(ctx context.Context, endpointURL string, secretKey string) (entity.AccountBalance, error) {
	return s.resolveAccount(ctx, "", endpointURL, secretKey)
}

func (s *BalanceResolver) resolveAccount(ctx context.Context, network, endpointURL, secretKey string) (entity.AccountBalance, error) {
	label := utils.MaskSecret(secretKey)

	raw, protocol, primaryErr := s.attempt(ctx, s.primary, network, endpointURL, secretKey)
	if primaryErr != nil {
		s.metrics.ObserveFallback(network)
		s.logger.Debug("Primary protocol failed, trying fallback", "network", network, "account", label, "error", primaryErr)

		var fallbackErr error
		raw, protocol, fallbackErr = s.attempt(ctx, s.fallback, network, endpointURL, secretKey)
		if fallbackErr != nil {
			s.metrics.ObserveUnresolved(network)
			s.logger.Error(primaryErr.Error(), "network", network, "account", label)
			s.logger.Error(fallbackErr.Error(), "network", network, "account", label)
			return entity.AccountBalance{}, &entity.ResolveError{Primary: primaryErr, Fallback: fallbackErr}
		}
	}

	return entity.AccountBalance{
		Label:    label,
		Address:  raw.Address,
		Protocol: protocol,
		Amount:   utils.FormatBalance(raw.Amount, raw.Decimals),
	}, nil
}

func (s *BalanceResolver) attempt(
	ctx context.Context,
	protocol port.BalanceProtocol,
	network, endpointURL, secretKey string,
) (entity.RawBalance, string, error) {
	if s.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.attemptTimeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := protocol.FetchBalance(ctx, endpointURL, secretKey)
	s.metrics.ObserveAttempt(network, protocol.Name(), err, time.Since(start))
	if err != nil {
		return entity.RawBalance{}, protocol.Name(), &entity.ProtocolError{Protocol: protocol.Name(), Err: err}
	}
	return raw, protocol.Name(), nil
}

type noopMetrics struct{}

func (noopMetrics) ObserveAttempt(string, string, error, time.Duration) {}
func (noopMetrics) ObserveFallback(string)                              {}
func (noopMetrics) ObserveUnresolved(string)                            {}
