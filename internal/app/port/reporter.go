package port

import "balance_reporter/internal/domain/entity"

// Reporter is the output sink for resolved networks.
type Reporter interface {
	// ReportNetwork renders the balances of a network with at least one resolved account.
	ReportNetwork(result entity.NetworkResult) error

	// ReportUnreachable notes a network for which no account could be resolved.
	ReportUnreachable(network string) error
}
